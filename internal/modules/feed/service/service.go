package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/feedview/internal/modules/feed/domain"
	"github.com/reshetovitsme/feedview/internal/modules/feed/fetcher"
	"github.com/reshetovitsme/feedview/internal/modules/feed/render"
	sharedErrors "github.com/reshetovitsme/feedview/internal/shared/errors"
	"github.com/samber/lo"
)

// Service loads feeds and renders them into a target
type Service struct {
	fetcher     fetcher.FeedFetcher
	renderer    *render.Renderer
	target      render.Target
	defaultFeed string
	log         *slog.Logger

	// mu guards latest and every write to target, so the staleness check
	// and the write happen together.
	mu     sync.Mutex
	latest uint64
	wg     sync.WaitGroup
}

// New creates a new feed loader service
func New(f fetcher.FeedFetcher, target render.Target, defaultFeed string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		fetcher:     f,
		renderer:    render.NewRenderer(),
		target:      target,
		defaultFeed: defaultFeed,
		log:         log,
	}
}

// DefaultFeed returns the source used when no input is given
func (s *Service) DefaultFeed() domain.FeedSource {
	return domain.FeedSource(s.defaultFeed)
}

// Load resolves raw against the default feed, fetches it once and renders
// the outcome into the target. It never returns an error: failures are
// logged and shown as the failed notice. A load that was overtaken by a
// newer one does not touch the target.
func (s *Service) Load(ctx context.Context, raw string) domain.View {
	source := domain.ResolveSource(raw, s.defaultFeed)

	s.mu.Lock()
	s.latest++
	seq := s.latest
	s.target.MarkPending(seq, source)
	s.mu.Unlock()

	log := s.log.With(slog.String("source", source.String()), slog.Uint64("seq", seq))

	items, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			log.Debug("Feed load cancelled", slog.Any("error", err))
			return domain.View{Seq: seq, Source: source, State: domain.RenderStatePending}
		}
		log.Error("Failed to load feed", slog.String("kind", failureKind(err)), slog.Any("error", err))
	}

	view, err := s.renderer.Render(seq, source, items, err)
	if err != nil {
		log.Error("Failed to render feed", slog.Any("error", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.latest {
		log.Debug("Discarding stale feed response", slog.Uint64("latest", s.latest))
		return view
	}
	s.target.Show(view)
	log.Info("Feed rendered", slog.String("state", view.State.String()), slog.Int("count", len(view.Items)))
	return view
}

// LoadAsync starts Load on its own goroutine and returns immediately.
func (s *Service) LoadAsync(ctx context.Context, raw string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Load(ctx, raw)
	}()
}

// Wait blocks until every load started with LoadAsync has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// GenerateFeed republishes the items of view as a feed. Descriptions go
// through the same sanitiser as the page.
func (s *Service) GenerateFeed(view domain.View, baseURL string) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s - mirrored", view.Source),
		Link:        &feeds.Link{Href: baseURL + "/"},
		Description: fmt.Sprintf("Articles currently shown for %s", view.Source),
		Created:     view.UpdatedAt,
		Updated:     view.UpdatedAt,
	}

	feed.Items = lo.Map(view.Items, func(item domain.FeedItem, _ int) *feeds.Item {
		return &feeds.Item{
			Title:       item.Title,
			Link:        &feeds.Link{Href: item.Link},
			Description: s.renderer.Sanitize(item.Description),
			Id:          item.Link,
			Created:     view.UpdatedAt,
		}
	})

	return feed
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, sharedErrors.ErrParse):
		return "parse"
	case errors.Is(err, sharedErrors.ErrNetwork):
		return "network"
	default:
		return "unknown"
	}
}

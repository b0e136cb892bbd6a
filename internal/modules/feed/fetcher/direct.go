package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmcdole/gofeed"
	"github.com/reshetovitsme/feedview/internal/modules/feed/domain"
	sharedErrors "github.com/reshetovitsme/feedview/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DirectFetcher downloads the feed itself and parses RSS, Atom or JSON Feed
// without going through a conversion service.
type DirectFetcher struct {
	client *http.Client
	parser *gofeed.Parser
	log    *slog.Logger
}

func NewDirectFetcher(client *http.Client, log *slog.Logger) *DirectFetcher {
	return &DirectFetcher{
		client: httpClient(client),
		parser: gofeed.NewParser(),
		log:    logger(log),
	}
}

func (f *DirectFetcher) Fetch(ctx context.Context, source domain.FeedSource) ([]domain.FeedItem, error) {
	body, err := get(ctx, f.client, f.log, source.String())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := f.parser.Parse(body)
	if err != nil {
		return nil, oops.In("direct").
			With("source", source.String()).
			Wrap(fmt.Errorf("%w: %w", sharedErrors.ErrParse, err))
	}

	f.log.Debug("Feed parsed",
		slog.String("source", source.String()),
		slog.String("feed_type", feed.FeedType),
		slog.Int("items_found", len(feed.Items)),
	)

	return lo.Map(feed.Items, func(item *gofeed.Item, _ int) domain.FeedItem {
		return domain.FeedItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: lo.CoalesceOrEmpty(item.Description, item.Content),
		}
	}), nil
}

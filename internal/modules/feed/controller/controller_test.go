package controller

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/reshetovitsme/feedview/internal/modules/feed/domain"
	"github.com/reshetovitsme/feedview/internal/modules/feed/render"
	"github.com/reshetovitsme/feedview/internal/modules/feed/service"
	sharedErrors "github.com/reshetovitsme/feedview/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultFeed = "https://hacks.mozilla.org/rss"

type fetchFunc func(ctx context.Context, source domain.FeedSource) ([]domain.FeedItem, error)

func (f fetchFunc) Fetch(ctx context.Context, source domain.FeedSource) ([]domain.FeedItem, error) {
	return f(ctx, source)
}

type sourceLog struct {
	mu      sync.Mutex
	sources []domain.FeedSource
}

func (l *sourceLog) fetch(_ context.Context, source domain.FeedSource) ([]domain.FeedItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sources = append(l.sources, source)
	return []domain.FeedItem{{Title: source.String(), Link: source.String()}}, nil
}

func (l *sourceLog) all() []domain.FeedSource {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.FeedSource(nil), l.sources...)
}

func TestController_AttachLoadsDefault(t *testing.T) {
	log := &sourceLog{}
	region := render.NewRegion()
	svc := service.New(fetchFunc(log.fetch), region, defaultFeed, nil)
	c := New(svc, nil)

	require.NoError(t, c.Attach(context.Background()))
	svc.Wait()

	assert.Equal(t, []domain.FeedSource{defaultFeed}, log.all())
	assert.Equal(t, domain.RenderStateRendered, region.Snapshot().State)
	assert.True(t, c.Attached())
	require.NoError(t, c.Detach())
}

func TestController_AttachTwice(t *testing.T) {
	svc := service.New(fetchFunc((&sourceLog{}).fetch), render.NewRegion(), defaultFeed, nil)
	c := New(svc, nil)
	require.NoError(t, c.Attach(context.Background()))
	defer c.Detach()

	assert.ErrorIs(t, c.Attach(context.Background()), sharedErrors.ErrAlreadyAttached)
}

func TestController_Activate(t *testing.T) {
	log := &sourceLog{}
	region := render.NewRegion()
	svc := service.New(fetchFunc(log.fetch), region, defaultFeed, nil)
	c := New(svc, nil)
	require.NoError(t, c.Attach(context.Background()))
	svc.Wait()

	require.NoError(t, c.Activate("  https://example.com/feed.xml "))
	svc.Wait()
	require.NoError(t, c.Activate("   "))
	svc.Wait()

	assert.Equal(t, []domain.FeedSource{defaultFeed, "https://example.com/feed.xml", defaultFeed}, log.all())

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(region.HTML())))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("article").Length())
	assert.Equal(t, defaultFeed, doc.Find("article h3 a").Text())
	require.NoError(t, c.Detach())
}

func TestController_ActivateWhileDetached(t *testing.T) {
	log := &sourceLog{}
	svc := service.New(fetchFunc(log.fetch), render.NewRegion(), defaultFeed, nil)
	c := New(svc, nil)

	assert.ErrorIs(t, c.Activate("https://example.com/rss"), sharedErrors.ErrDetached)
	assert.ErrorIs(t, c.Detach(), sharedErrors.ErrDetached)

	require.NoError(t, c.Attach(context.Background()))
	require.NoError(t, c.Detach())
	assert.False(t, c.Attached())
	assert.ErrorIs(t, c.Activate("https://example.com/rss"), sharedErrors.ErrDetached)
	assert.Equal(t, []domain.FeedSource{defaultFeed}, log.all())
}

func TestController_DetachCancelsInFlightLoads(t *testing.T) {
	started := make(chan struct{})
	region := render.NewRegion()
	svc := service.New(fetchFunc(func(ctx context.Context, _ domain.FeedSource) ([]domain.FeedItem, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}), region, defaultFeed, nil)
	c := New(svc, nil)

	require.NoError(t, c.Attach(context.Background()))
	<-started
	require.NoError(t, c.Detach())

	assert.Equal(t, domain.RenderStatePending, region.Snapshot().State)
	assert.Empty(t, region.HTML())
}

func TestController_ReattachAfterDetach(t *testing.T) {
	log := &sourceLog{}
	svc := service.New(fetchFunc(log.fetch), render.NewRegion(), defaultFeed, nil)
	c := New(svc, nil)

	require.NoError(t, c.Attach(context.Background()))
	require.NoError(t, c.Detach())
	require.NoError(t, c.Attach(context.Background()))
	require.NoError(t, c.Detach())

	assert.Equal(t, []domain.FeedSource{defaultFeed, defaultFeed}, log.all())
}

func TestController_ParentContextCancelled(t *testing.T) {
	svc := service.New(fetchFunc((&sourceLog{}).fetch), render.NewRegion(), defaultFeed, nil)
	c := New(svc, nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, c.Attach(ctx))
	cancel()

	assert.False(t, c.Attached())
	assert.ErrorIs(t, c.Activate(""), sharedErrors.ErrDetached)
	require.NoError(t, c.Detach())
}

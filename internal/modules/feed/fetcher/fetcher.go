package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/reshetovitsme/feedview/internal/modules/feed/domain"
	sharedErrors "github.com/reshetovitsme/feedview/internal/shared/errors"
	"github.com/samber/oops"
)

// FeedFetcher turns a feed source into its items, in feed order.
// Failures are classified as errors.ErrNetwork or errors.ErrParse.
// A feed without items is not a failure.
type FeedFetcher interface {
	Fetch(ctx context.Context, source domain.FeedSource) ([]domain.FeedItem, error)
}

const userAgent = "feedview/1.0 (+https://github.com/reshetovitsme/feedview)"

// get issues a single GET and hands back the body of a 2xx response.
func get(ctx context.Context, client *http.Client, log *slog.Logger, url string) (io.ReadCloser, error) {
	log = log.With(slog.String("url", url))
	log.Debug("Fetching URL")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, oops.In("fetcher").With("url", url).Wrap(fmt.Errorf("%w: %w", sharedErrors.ErrNetwork, err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		log.Debug("HTTP request failed", slog.Any("error", err))
		return nil, oops.In("fetcher").With("url", url).Wrap(fmt.Errorf("%w: %w", sharedErrors.ErrNetwork, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		log.Debug("Unexpected status code", slog.Int("status_code", resp.StatusCode))
		return nil, oops.In("fetcher").
			With("url", url, "status_code", resp.StatusCode).
			Wrap(fmt.Errorf("%w: unexpected status code: %d", sharedErrors.ErrNetwork, resp.StatusCode))
	}

	return resp.Body, nil
}

func httpClient(client *http.Client) *http.Client {
	if client == nil {
		return http.DefaultClient
	}
	return client
}

func logger(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

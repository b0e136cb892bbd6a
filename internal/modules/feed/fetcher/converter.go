package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/reshetovitsme/feedview/internal/modules/feed/domain"
	sharedErrors "github.com/reshetovitsme/feedview/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// converterResponse is the envelope returned by rss2json-style services.
type converterResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Items   []*domain.FeedItem `json:"items"`
}

// ConverterFetcher asks a feed-to-JSON conversion service for a feed's items.
type ConverterFetcher struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

// NewConverterFetcher creates a fetcher for the conversion service at endpoint.
// A nil client means http.DefaultClient.
func NewConverterFetcher(endpoint string, client *http.Client, log *slog.Logger) *ConverterFetcher {
	return &ConverterFetcher{
		endpoint: endpoint,
		client:   httpClient(client),
		log:      logger(log),
	}
}

// RequestURL appends the source as the rss_url query parameter, encoded
// the way encodeURIComponent does it (spaces become %20).
func (f *ConverterFetcher) RequestURL(source domain.FeedSource) (string, error) {
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return "", oops.In("converter").With("endpoint", f.endpoint).Wrap(err)
	}
	q := u.Query()
	q.Del("rss_url")
	param := "rss_url=" + encodeURIComponent(source.String())
	if encoded := q.Encode(); encoded != "" {
		param = encoded + "&" + param
	}
	u.RawQuery = param
	return u.String(), nil
}

const upperhex = "0123456789ABCDEF"

// encodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte("-_.!~*'()", c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

func (f *ConverterFetcher) Fetch(ctx context.Context, source domain.FeedSource) ([]domain.FeedItem, error) {
	requestURL, err := f.RequestURL(source)
	if err != nil {
		return nil, err
	}

	body, err := get(ctx, f.client, f.log, requestURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, oops.In("converter").
			With("source", source.String()).
			Wrap(fmt.Errorf("%w: %w", sharedErrors.ErrNetwork, err))
	}

	// json.Unmarshal rejects trailing data after the document
	var resp *converterResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, parseError(source, err)
	}
	if resp == nil {
		return nil, parseError(source, fmt.Errorf("response body is null"))
	}
	if lo.Contains(resp.Items, nil) {
		return nil, parseError(source, fmt.Errorf("items contains null entries"))
	}

	if resp.Status == "error" {
		f.log.Warn("Conversion service reported an error",
			slog.String("source", source.String()),
			slog.String("message", resp.Message),
		)
	}

	return lo.Map(resp.Items, func(item *domain.FeedItem, _ int) domain.FeedItem {
		return *item
	}), nil
}

func parseError(source domain.FeedSource, err error) error {
	return oops.In("converter").
		With("source", source.String()).
		Wrap(fmt.Errorf("%w: %w", sharedErrors.ErrParse, err))
}

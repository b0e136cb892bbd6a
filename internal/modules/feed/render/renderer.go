package render

import (
	"bytes"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/reshetovitsme/feedview/internal/modules/feed/domain"
	"github.com/samber/oops"
)

const (
	NoArticlesNotice template.HTML = `<p class="notice">No articles found.</p>`
	FailedNotice     template.HTML = `<p class="notice">Failed to load RSS feed.</p>`
)

var articleTemplate = template.Must(template.New("article").Parse(
	`<article><h3><a href="{{.Link}}" target="_blank" rel="noopener noreferrer">{{.Title}}</a></h3>` +
		`<div class="description">{{.Description}}</div></article>`,
))

type article struct {
	Title       string
	Link        string
	Description template.HTML
}

// Renderer projects the outcome of a fetch into a View.
type Renderer struct {
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{
		policy: bluemonday.UGCPolicy(),
		now:    time.Now,
	}
}

// Render builds the view for one load. Any error yields the failed notice.
func (r *Renderer) Render(seq uint64, source domain.FeedSource, items []domain.FeedItem, fetchErr error) (domain.View, error) {
	view := domain.View{
		Seq:       seq,
		Source:    source,
		UpdatedAt: r.now(),
	}

	switch {
	case fetchErr != nil:
		view.State = domain.RenderStateFailed
		view.Units = []template.HTML{FailedNotice}
	case len(items) == 0:
		view.State = domain.RenderStateRenderedEmpty
		view.Units = []template.HTML{NoArticlesNotice}
	default:
		units := make([]template.HTML, 0, len(items))
		for _, item := range items {
			unit, err := r.article(item)
			if err != nil {
				return r.failed(seq, source), oops.In("render").With("source", source.String(), "title", item.Title).Wrap(err)
			}
			units = append(units, unit)
		}
		view.State = domain.RenderStateRendered
		view.Items = items
		view.Units = units
	}

	return view, nil
}

// Sanitize strips scripts, event handlers and unsafe URLs from description markup.
func (r *Renderer) Sanitize(description string) string {
	return r.policy.Sanitize(description)
}

func (r *Renderer) failed(seq uint64, source domain.FeedSource) domain.View {
	return domain.View{
		Seq:       seq,
		Source:    source,
		State:     domain.RenderStateFailed,
		Units:     []template.HTML{FailedNotice},
		UpdatedAt: r.now(),
	}
}

func (r *Renderer) article(item domain.FeedItem) (template.HTML, error) {
	var buf bytes.Buffer
	err := articleTemplate.Execute(&buf, article{
		Title:       item.Title,
		Link:        item.Link,
		Description: template.HTML(r.Sanitize(item.Description)),
	})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

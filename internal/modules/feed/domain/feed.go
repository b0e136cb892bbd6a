package domain

import (
	"html/template"
	"strings"
	"time"
)

// FeedSource is the URL of an RSS or Atom feed.
type FeedSource string

// ResolveSource trims raw and falls back to fallback when nothing is left.
// The fallback is used verbatim.
func ResolveSource(raw, fallback string) FeedSource {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return FeedSource(trimmed)
	}
	return FeedSource(fallback)
}

func (s FeedSource) String() string {
	return string(s)
}

// FeedItem is one article of a feed. Description may contain markup.
type FeedItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// View is what a render target shows after one load.
type View struct {
	Seq       uint64
	Source    FeedSource
	State     RenderState
	Items     []FeedItem
	Units     []template.HTML
	UpdatedAt time.Time
}

// HTML joins the rendered units.
func (v View) HTML() template.HTML {
	var b strings.Builder
	for _, unit := range v.Units {
		b.WriteString(string(unit))
	}
	return template.HTML(b.String())
}

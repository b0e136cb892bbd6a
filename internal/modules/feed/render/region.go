package render

import (
	"html/template"
	"slices"
	"sync"

	"github.com/reshetovitsme/feedview/internal/modules/feed/domain"
)

// Target is a display region the loader writes into. It does not own the
// region's lifecycle.
type Target interface {
	// MarkPending records that a load for source is in flight. Previous
	// content stays visible until the load resolves.
	MarkPending(seq uint64, source domain.FeedSource)
	// Show replaces everything the target displays with view.
	Show(view domain.View)
}

// Region is an in-memory Target safe for concurrent readers.
type Region struct {
	mu   sync.RWMutex
	view domain.View
}

func NewRegion() *Region {
	return &Region{}
}

func (r *Region) MarkPending(seq uint64, source domain.FeedSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Seq = seq
	r.view.Source = source
	r.view.State = domain.RenderStatePending
}

func (r *Region) Show(view domain.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view = domain.View{
		Seq:       view.Seq,
		Source:    view.Source,
		State:     view.State,
		Items:     slices.Clone(view.Items),
		Units:     slices.Clone(view.Units),
		UpdatedAt: view.UpdatedAt,
	}
}

// Snapshot returns a copy of what the region currently displays.
func (r *Region) Snapshot() domain.View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	view := r.view
	view.Items = slices.Clone(r.view.Items)
	view.Units = slices.Clone(r.view.Units)
	return view
}

// HTML is a shortcut for Snapshot().HTML().
func (r *Region) HTML() template.HTML {
	return r.Snapshot().HTML()
}

package catalog

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
)

// ErrStale is returned by Browser.Refresh when a newer request was issued
// while the fetch was in flight. The result has been discarded.
var ErrStale = errors.New("catalog result superseded by a newer request")

// PageFetcher is implemented by Engine.
type PageFetcher interface {
	FetchPage(ctx context.Context, q Query) (Page, error)
}

// Browser holds a single consumer's filter state and the last applied page.
// Every Refresh is tagged with a sequence number, and only the response to
// the latest issued request is applied.
type Browser struct {
	fetcher PageFetcher

	mu      sync.Mutex
	state   FilterState
	issued  uint64
	current *Page
}

// NewBrowser creates a Browser with the default filter state.
func NewBrowser(fetcher PageFetcher) *Browser {
	return &Browser{fetcher: fetcher}
}

// State returns the current filter state.
func (b *Browser) State() FilterState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Current returns the last applied page, if any.
func (b *Browser) Current() (Page, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Page{}, false
	}
	return *b.current, true
}

// Update applies fn to the filter state.
func (b *Browser) Update(fn func(FilterState) FilterState) FilterState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = fn(b.state)
	return b.state
}

// SetSearch changes the search text.
func (b *Browser) SetSearch(text string) FilterState {
	return b.Update(func(s FilterState) FilterState { return s.WithSearch(text) })
}

// SetSort changes the ordering.
func (b *Browser) SetSort(key SortKey) FilterState {
	return b.Update(func(s FilterState) FilterState { return s.WithSort(key) })
}

// SetCategories replaces the category selection.
func (b *Browser) SetCategories(ids []string) FilterState {
	return b.Update(func(s FilterState) FilterState { return s.WithCategories(ids) })
}

// SetPage moves to another page.
func (b *Browser) SetPage(p int) FilterState {
	return b.Update(func(s FilterState) FilterState { return s.WithPage(p) })
}

// ClearFilters restores the default state.
func (b *Browser) ClearFilters() FilterState {
	return b.Update(FilterState.Clear)
}

// Refresh fetches the page for the current state. If another Refresh is
// issued before this one completes, the result is dropped and ErrStale is
// returned.
func (b *Browser) Refresh(ctx context.Context) (Page, error) {
	b.mu.Lock()
	b.issued++
	seq := b.issued
	q := b.state.Query()
	b.mu.Unlock()

	page, err := b.fetcher.FetchPage(ctx, q)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.issued {
		return Page{}, ErrStale
	}
	if err != nil {
		return Page{}, err
	}
	b.current = &page
	return page, nil
}

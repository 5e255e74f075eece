// Package listing accumulates pages of post summaries for the "load more" view.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"spacetraveling/internal/content"
	"spacetraveling/internal/post"
)

var (
	// ErrNoMorePages is returned by LoadMore when the cursor is exhausted.
	// Callers should check HasMore first.
	ErrNoMorePages = errors.New("listing: no more pages")
	// ErrLoadInFlight rejects a LoadMore issued while another is outstanding.
	ErrLoadInFlight = errors.New("listing: load already in flight")
	// ErrReleased is returned once the owning view has released the listing.
	ErrReleased = errors.New("listing: released")
)

// FetchError wraps a failed page continuation. It is always a transport
// failure, even when the stale cursor itself was rejected as not found.
type FetchError struct {
	Cursor string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("listing: fetch next page: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == content.ErrTransport }

// Fetcher follows a cursor to the next page.
type Fetcher interface {
	FetchPage(ctx context.Context, cursor string) (post.Page, error)
}

// State is an immutable snapshot of a listing.
type State struct {
	Posts    []post.Summary
	NextPage string
}

// HasMore reports whether a further page exists.
func (s State) HasMore() bool { return s.NextPage != "" }

// Listing is the accumulated set of summaries shown by one view. Posts are
// kept in fetch order and never removed.
type Listing struct {
	fetcher Fetcher

	mu       sync.Mutex
	state    State
	inFlight bool
	released bool
}

// New starts a listing from an already fetched first page.
func New(fetcher Fetcher, first post.Page) *Listing {
	posts := make([]post.Summary, len(first.Results))
	copy(posts, first.Results)
	return &Listing{
		fetcher: fetcher,
		state:   State{Posts: posts, NextPage: first.NextPage},
	}
}

// State returns a copy of the current snapshot.
func (l *Listing) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Listing) snapshot() State {
	posts := make([]post.Summary, len(l.state.Posts))
	copy(posts, l.state.Posts)
	return State{Posts: posts, NextPage: l.state.NextPage}
}

// HasMore reports whether LoadMore can fetch another page.
func (l *Listing) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.released && l.state.HasMore()
}

// Loading reports whether a LoadMore is outstanding.
func (l *Listing) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

// Release marks the listing as discarded. A load in flight completes but
// its result is dropped.
func (l *Listing) Release() {
	l.mu.Lock()
	l.released = true
	l.mu.Unlock()
}

// LoadMore fetches the page at the current cursor and appends it. Only one
// call may be outstanding; a concurrent call fails with ErrLoadInFlight. On
// any failure the state is left as it was.
func (l *Listing) LoadMore(ctx context.Context) (State, error) {
	l.mu.Lock()
	switch {
	case l.released:
		l.mu.Unlock()
		return State{}, ErrReleased
	case l.inFlight:
		st := l.snapshot()
		l.mu.Unlock()
		return st, ErrLoadInFlight
	case !l.state.HasMore():
		st := l.snapshot()
		l.mu.Unlock()
		return st, ErrNoMorePages
	}
	l.inFlight = true
	cursor := l.state.NextPage
	l.mu.Unlock()

	page, err := l.fetcher.FetchPage(ctx, cursor)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight = false

	if l.released {
		return State{}, ErrReleased
	}
	if err != nil {
		return l.snapshot(), &FetchError{Cursor: cursor, Err: err}
	}

	posts := make([]post.Summary, 0, len(l.state.Posts)+len(page.Results))
	posts = append(posts, l.state.Posts...)
	posts = append(posts, page.Results...)
	l.state = State{Posts: posts, NextPage: page.NextPage}
	return l.snapshot(), nil
}

// Collect loads pages after first until the cursor runs out or maxPages
// pages (including the first) have been accumulated. maxPages <= 0 means
// no bound.
func Collect(ctx context.Context, fetcher Fetcher, first post.Page, maxPages int) (State, error) {
	l := New(fetcher, first)
	defer l.Release()

	for pages := 1; l.HasMore() && (maxPages <= 0 || pages < maxPages); pages++ {
		if _, err := l.LoadMore(ctx); err != nil {
			return l.State(), err
		}
	}
	return l.State(), nil
}

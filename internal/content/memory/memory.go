// Package memory is an in-memory content source.
package memory

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"spacetraveling/internal/content"
	"spacetraveling/internal/post"
)

const cursorScheme = "memory"

// Source serves a fixed set of posts, newest first, in pages of PageSize.
type Source struct {
	mu       sync.RWMutex
	posts    []post.Detail
	pageSize int
}

func New(posts []post.Detail, pageSize int) *Source {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Source{posts: append([]post.Detail(nil), posts...), pageSize: pageSize}
}

// Add appends a post to the end of the listing.
func (s *Source) Add(p post.Detail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, p)
}

func (s *Source) GetPage(ctx context.Context, contentType string, opts content.PageOptions) (post.Page, error) {
	size := opts.PageSize
	if size < 1 {
		size = s.pageSize
	}
	return s.page(ctx, 1, size)
}

func (s *Source) FetchPage(ctx context.Context, cursor string) (post.Page, error) {
	u, err := url.Parse(cursor)
	if err != nil || u.Scheme != cursorScheme {
		return post.Page{}, &content.TransportError{Op: "fetch page", Err: fmt.Errorf("invalid cursor %q", cursor)}
	}
	q := u.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		return post.Page{}, &content.TransportError{Op: "fetch page", Err: fmt.Errorf("invalid cursor page %q", q.Get("page"))}
	}
	size, err := strconv.Atoi(q.Get("pageSize"))
	if err != nil || size < 1 {
		size = s.pageSize
	}
	return s.page(ctx, page, size)
}

func (s *Source) GetByUID(ctx context.Context, contentType, uid string) (post.Detail, error) {
	if err := ctx.Err(); err != nil {
		return post.Detail{}, &content.TransportError{Op: "get by uid", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.UID == uid {
			return p, nil
		}
	}
	return post.Detail{}, &content.NotFoundError{ContentType: contentType, UID: uid}
}

func (s *Source) page(ctx context.Context, page, size int) (post.Page, error) {
	if err := ctx.Err(); err != nil {
		return post.Page{}, &content.TransportError{Op: "get page", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := (page - 1) * size
	if start > len(s.posts) {
		start = len(s.posts)
	}
	end := start + size
	if end > len(s.posts) {
		end = len(s.posts)
	}

	result := post.Page{Results: make([]post.Summary, 0, end-start)}
	for _, p := range s.posts[start:end] {
		result.Results = append(result.Results, p.Summary())
	}
	if end < len(s.posts) {
		result.NextPage = Cursor(page+1, size)
	}
	return result, nil
}

// Cursor builds the cursor for a page.
func Cursor(page, size int) string {
	return fmt.Sprintf("%s:?page=%d&pageSize=%d", cursorScheme, page, size)
}

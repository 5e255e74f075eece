// internal/server/handlers.go
package server

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"spacetraveling/internal/content"
	"spacetraveling/internal/listing"
	"spacetraveling/internal/pagecache"
	"spacetraveling/internal/post"
	"spacetraveling/internal/render"
	"spacetraveling/internal/rss"
	"spacetraveling/internal/security/netutil"
)

const htmlContentType = "text/html; charset=utf-8"

func postKey(uid string) string { return "/post/" + uid }

func (s *Server) firstPage(ctx context.Context) (post.Page, error) {
	return s.source.GetPage(ctx, content.PostType, content.PageOptions{
		FetchFields: content.SummaryFields(content.PostType),
		PageSize:    s.config.PageSize,
	})
}

// encodeCursor wraps an upstream cursor into a site-relative load-more URL.
func encodeCursor(cursor string) string {
	if cursor == "" {
		return ""
	}
	return "/api/posts?cursor=" + base64.RawURLEncoding.EncodeToString([]byte(cursor))
}

func decodeCursor(token string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(b) == 0 {
		return "", errors.New("invalid cursor")
	}
	return string(b), nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pages := 1
	if v := r.URL.Query().Get("pages"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		pages = min(n, s.config.MaxPages)
	}

	// Accumulated listings are per-visitor and bypass the cache, so they
	// share the load-more limiter.
	if pages > 1 {
		if !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			s.renderStatus(w, http.StatusTooManyRequests, render.PageError, render.ErrorData{
				SiteTitle: s.config.SiteTitle,
				Title:     "Erro",
				Message:   "Muitas requisições. Aguarde um instante e tente novamente.",
				RetryURL:  r.URL.RequestURI(),
			})
			return
		}
		entry, err := s.renderIndex(r.Context(), pages)
		if err != nil {
			s.handleContentError(w, r, err)
			return
		}
		s.writeEntry(w, entry)
		return
	}

	entry, err := s.cache.Get(r.Context(), "/", s.generateIndex)
	if err != nil {
		s.handleContentError(w, r, err)
		return
	}
	s.writeEntry(w, entry)
}

func (s *Server) generateIndex(ctx context.Context) (pagecache.Entry, error) {
	return s.renderIndex(ctx, 1)
}

// renderIndex renders the first `pages` pages of the listing. A failure
// after the first page still renders what was loaded, with a notice.
func (s *Server) renderIndex(ctx context.Context, pages int) (pagecache.Entry, error) {
	first, err := s.firstPage(ctx)
	if err != nil {
		return pagecache.Entry{}, err
	}

	state, err := listing.Collect(ctx, s.source, first, pages)
	data := render.IndexData{
		SiteTitle: s.config.SiteTitle,
		Posts:     state.Posts,
		NextPage:  encodeCursor(state.NextPage),
	}
	next := pages + 1
	if err != nil {
		s.logger.Printf("Loading listing page failed, rendering partial listing: %v", err)
		data.LoadError = "Não foi possível carregar mais posts. Tente novamente."
		next = pages
	}
	if state.HasMore() {
		data.MoreURL = "/?pages=" + strconv.Itoa(next)
	}

	body, err := s.renderer.Bytes(render.PageIndex, data)
	if err != nil {
		return pagecache.Entry{}, fmt.Errorf("render index: %w", err)
	}
	return pagecache.Entry{Body: body, ContentType: htmlContentType, Status: http.StatusOK}, nil
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("slug")
	if uid == "" {
		s.handle404(w, r)
		return
	}
	entry, err := s.cache.Get(r.Context(), postKey(uid), s.postGenerator(uid))
	if err != nil {
		s.handleContentError(w, r, err)
		return
	}
	s.writeEntry(w, entry)
}

func (s *Server) postGenerator(uid string) pagecache.GenerateFunc {
	return func(ctx context.Context) (pagecache.Entry, error) {
		detail, err := s.source.GetByUID(ctx, content.PostType, uid)
		if err != nil {
			return pagecache.Entry{}, err
		}
		data, err := render.NewPostData(s.config.SiteTitle, detail)
		if err != nil {
			return pagecache.Entry{}, err
		}
		body, err := s.renderer.Bytes(render.PagePost, data)
		if err != nil {
			return pagecache.Entry{}, fmt.Errorf("render post %q: %w", uid, err)
		}
		return pagecache.Entry{Body: body, ContentType: htmlContentType, Status: http.StatusOK}, nil
	}
}

func (s *Server) handleAPIPosts(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		w.Header().Set("Retry-After", "1")
		RespondWithJSON(w, http.StatusTooManyRequests, apiError{Error: "too many requests", Retryable: true})
		return
	}
	token := r.URL.Query().Get("cursor")
	if token == "" {
		RespondWithJSON(w, http.StatusBadRequest, apiError{Error: "no more pages"})
		return
	}
	cursor, err := decodeCursor(token)
	if err != nil {
		RespondWithJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}

	page, err := s.source.FetchPage(r.Context(), cursor)
	if err != nil {
		s.logger.Printf("Load more failed for request %s: %v", requestIDFrom(r.Context()), err)
		RespondWithJSON(w, http.StatusBadGateway, apiError{Error: "failed to load posts", Retryable: true})
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	RespondWithJSON(w, http.StatusOK, render.NewPageJSON(page.Results, encodeCursor(page.NextPage)))
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	generate := func(siteURL string) pagecache.GenerateFunc {
		return func(ctx context.Context) (pagecache.Entry, error) {
			page, err := s.firstPage(ctx)
			if err != nil {
				return pagecache.Entry{}, err
			}
			out, err := rss.Build(s.config.SiteTitle, siteURL, s.config.SiteTitle, page.Results, time.Now()).Marshal()
			if err != nil {
				return pagecache.Entry{}, fmt.Errorf("marshal rss: %w", err)
			}
			return pagecache.Entry{Body: out, ContentType: "application/rss+xml; charset=utf-8", Status: http.StatusOK}, nil
		}
	}

	var (
		entry pagecache.Entry
		err   error
	)
	if s.config.SiteURL != "" {
		entry, err = s.cache.Get(r.Context(), "/rss.xml", generate(s.config.SiteURL))
	} else {
		// A feed built from the request's Host is only valid for that request.
		entry, err = generate(requestSiteURL(r))(r.Context())
	}
	if err != nil {
		s.logger.Printf("Error building RSS feed: %v", err)
		http.Error(w, "Feed temporarily unavailable", http.StatusServiceUnavailable)
		return
	}
	s.writeEntry(w, entry)
}

func requestSiteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || (netutil.IsTrustedProxy(r.RemoteAddr) && r.Header.Get("X-Forwarded-Proto") == "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

type revalidateRequest struct {
	Secret    string   `json:"secret"`
	Type      string   `json:"type"`
	Documents []string `json:"documents"`
}

// handleRevalidate is the content API webhook. Any publish event purges the
// whole cache since listings and posts share data.
func (s *Server) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	if s.config.WebhookSecret == "" {
		s.handle404(w, r)
		return
	}
	var req revalidateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(s.config.WebhookSecret)) != 1 {
		RespondWithError(w, http.StatusUnauthorized, "invalid secret")
		return
	}
	n := s.cache.PurgeAll()
	s.logger.Printf("Revalidation webhook (%s) purged %d pages", req.Type, n)
	RespondWithJSON(w, http.StatusOK, map[string]int{"purged": n})
}

// handleContentError maps content errors onto pages: unknown posts get a
// 404, everything else a retryable 503.
func (s *Server) handleContentError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, content.ErrNotFound) {
		s.handle404(w, r)
		return
	}
	s.logger.Printf("Error serving %s (request %s): %v", r.URL.Path, requestIDFrom(r.Context()), err)
	w.Header().Set("Retry-After", "30")
	s.renderStatus(w, http.StatusServiceUnavailable, render.PageError, render.ErrorData{
		SiteTitle: s.config.SiteTitle,
		Title:     "Erro",
		Message:   "O conteúdo está temporariamente indisponível.",
		RetryURL:  r.URL.RequestURI(),
	})
}

func (s *Server) handle404(w http.ResponseWriter, r *http.Request) {
	if !s.config.ProductionMode {
		s.logger.Printf("404 error for path: %s", r.URL.Path)
	}
	s.renderStatus(w, http.StatusNotFound, render.PageNotFound, render.ErrorData{
		SiteTitle: s.config.SiteTitle,
		Title:     "Não encontrado",
	})
}

func (s *Server) renderStatus(w http.ResponseWriter, status int, page string, data any) {
	body, err := s.renderer.Bytes(page, data)
	if err != nil {
		s.logger.Printf("Error rendering %s template: %v", page, err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(status)
	w.Write(body)
}

func (s *Server) writeEntry(w http.ResponseWriter, entry pagecache.Entry) {
	w.Header().Set("Content-Type", entry.ContentType)
	if !entry.GeneratedAt.IsZero() {
		w.Header().Set("Last-Modified", entry.GeneratedAt.UTC().Format(http.TimeFormat))
	}
	status := entry.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if _, err := w.Write(entry.Body); err != nil {
		s.logger.Printf("Error writing response: %v", err)
	}
}

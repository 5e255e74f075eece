// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"spacetraveling/internal/content"
	"spacetraveling/internal/pagecache"
	"spacetraveling/internal/render"

	"golang.org/x/time/rate"
)

type Config struct {
	ProductionMode  bool
	SiteTitle       string
	SiteURL         string
	PageSize        int
	MaxPages        int
	PrebuildPosts   int
	Revalidate      time.Duration
	WebhookSecret   string
	LoadMoreRPS     float64
	// GenerateTimeout bounds one page render including its upstream calls.
	GenerateTimeout time.Duration
}

type Server struct {
	source   content.Source
	logger   *log.Logger
	config   Config
	renderer *render.Renderer
	cache    *pagecache.Cache
	limiter  *rate.Limiter
}

func NewServer(source content.Source, logger *log.Logger, config Config) (*Server, error) {
	if source == nil {
		return nil, errors.New("content source is required")
	}
	if config.PageSize < 1 {
		config.PageSize = 5
	}
	if config.MaxPages < 1 {
		config.MaxPages = 20
	}

	renderer, err := render.New(config.SiteTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	limit := rate.Inf
	if config.LoadMoreRPS > 0 {
		limit = rate.Limit(config.LoadMoreRPS)
	}
	burst := int(config.LoadMoreRPS * 2)
	if burst < 1 {
		burst = 1
	}

	cache := pagecache.New(config.Revalidate, logger)
	cache.SetGenerateTimeout(config.GenerateTimeout)

	s := &Server{
		source:   source,
		logger:   logger,
		config:   config,
		renderer: renderer,
		cache:    cache,
		limiter:  rate.NewLimiter(limit, burst),
	}
	if !s.config.ProductionMode {
		s.logger.Printf("Server initialized (page size %d, revalidate %s)", s.config.PageSize, s.config.Revalidate)
	}
	return s, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(render.Static()))))
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /rss.xml", s.handleRSS)
	mux.HandleFunc("GET /api/posts", s.handleAPIPosts)
	mux.HandleFunc("POST /api/revalidate", s.handleRevalidate)
	mux.HandleFunc("GET /post/{slug}", s.handlePost)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("/", s.handle404)

	return requestID(s.logRequests(gzipMiddleware(mux)))
}

// Prebuild renders the listing and the first few posts so the first
// visitors hit a warm cache. Failures are logged; pages will be generated
// on demand instead.
func (s *Server) Prebuild(ctx context.Context) {
	if _, err := s.cache.Get(ctx, "/", s.generateIndex); err != nil {
		s.logger.Printf("Prebuild of / failed: %v", err)
		return
	}

	if s.config.PrebuildPosts > 0 {
		page, err := s.source.GetPage(ctx, content.PostType, content.PageOptions{
			FetchFields: content.SummaryFields(content.PostType),
			PageSize:    s.config.PrebuildPosts,
		})
		if err != nil {
			s.logger.Printf("Prebuild could not list posts: %v", err)
			return
		}
		for _, p := range page.Results {
			if _, err := s.cache.Get(ctx, postKey(p.UID), s.postGenerator(p.UID)); err != nil {
				s.logger.Printf("Prebuild of %s failed: %v", postKey(p.UID), err)
			}
		}
	}
	if !s.config.ProductionMode {
		s.logger.Printf("Prebuilt %d pages: %v", len(s.cache.Keys()), s.cache.Keys())
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Printf("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"spacetraveling/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) newServer() (*server.Server, error) {
	source, err := a.source()
	if err != nil {
		return nil, err
	}
	return server.NewServer(source, a.logger, server.Config{
		ProductionMode:  a.cfg.ProductionMode,
		SiteTitle:       a.cfg.SiteTitle,
		SiteURL:         a.cfg.SiteURL,
		PageSize:        a.cfg.PageSize,
		MaxPages:        a.cfg.MaxPages,
		PrebuildPosts:   a.cfg.PrebuildPosts,
		Revalidate:      a.cfg.Revalidate.Duration,
		WebhookSecret:   a.cfg.WebhookSecret,
		LoadMoreRPS:     a.cfg.LoadMoreRPS,
		// A render makes a ref lookup and a search.
		GenerateTimeout: 2 * a.cfg.APITimeout.Duration,
	})
}

func (a *app) serve(ctx context.Context) error {
	a.logger.Printf("Starting spacetraveling v%s", Version)
	a.logger.Printf("Port: %d", a.cfg.Port)
	a.logger.Printf("Mode: %s", map[bool]string{true: "production", false: "development"}[a.cfg.ProductionMode])

	srv, err := a.newServer()
	if err != nil {
		return err
	}
	srv.Prebuild(ctx)

	if err := srv.Run(ctx, a.cfg.GetAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

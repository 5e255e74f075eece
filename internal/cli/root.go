// Package cli contains the spacetraveling commands.
package cli

import (
	"fmt"
	"io"
	"log"

	"spacetraveling/internal/cms"
	"spacetraveling/internal/config"
	"spacetraveling/internal/content"
	"spacetraveling/internal/content/memory"

	"github.com/spf13/cobra"
)

var (
	// Version will be set during build
	Version = "dev"
)

// app is the state shared by the subcommands once the root has loaded
// the configuration.
type app struct {
	cfgFile string
	port    int
	demo    bool

	cfg    config.Config
	logger *log.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "spacetraveling",
		Short: "Blog front end for a headless content API",
		Long: `spacetraveling serves a blog backed by a headless content API.

Example usage:
  spacetraveling serve --config site.yaml   # Serve the site
  spacetraveling serve --demo               # Serve built-in sample posts
  spacetraveling build --out public         # Export the site as static files`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().IntVar(&a.port, "port", 0, "port to serve on (default: 8080 or SPACETRAVELING_PORT)")
	root.PersistentFlags().BoolVar(&a.demo, "demo", false, "serve built-in sample posts instead of the content API")

	root.AddCommand(newServeCmd(a), newBuildCmd(a), newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) init(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = a.port
	}
	if flags.Changed("demo") {
		cfg.Demo = a.demo
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr())
	return nil
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "spacetraveling: ", log.LstdFlags|log.Lshortfile)
}

// source returns the sample posts in demo mode and the content API otherwise.
func (a *app) source() (content.Source, error) {
	if a.cfg.Demo {
		a.logger.Printf("Demo mode: serving %d sample posts", len(memory.Sample()))
		return memory.New(memory.Sample(), a.cfg.PageSize), nil
	}
	client, err := cms.NewClient(cms.Config{
		Endpoint:    a.cfg.APIEndpoint,
		AccessToken: a.cfg.AccessToken,
		Timeout:     a.cfg.APITimeout.Duration,
	})
	if err != nil {
		return nil, fmt.Errorf("content API client: %w", err)
	}
	return content.NewAdapter(client, a.cfg.DateField), nil
}

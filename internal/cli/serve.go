package cli

import (
	"github.com/spf13/cobra"

	"github.com/deckdown/diagramscene/pkg/cache"
	"github.com/deckdown/diagramscene/pkg/observability"
	"github.com/deckdown/diagramscene/pkg/pipeline"
	"github.com/deckdown/diagramscene/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the scene and render endpoints over HTTP.

Configuration is read from the environment, after loading an optional .env file:
  DIAGRAMSCENE_ADDR         listen address (default :8080)
  DIAGRAMSCENE_REDIS_URL    Redis cache (redis://host:6379/0)
  DIAGRAMSCENE_MONGO_URI    MongoDB cache, used when no Redis URL is set
  DIAGRAMSCENE_THEME        layout theme file
  DIAGRAMSCENE_CONCURRENCY  batch concurrency
  DIAGRAMSCENE_TIMEOUT      per-request deadline (default 30s)

Without Redis or MongoDB the server caches in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := server.LoadConfig(files...)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			// Load the theme once instead of on every request.
			loaded := pipeline.Options{ThemePath: cfg.ThemePath}
			if err := loaded.ValidateAndSetDefaults(); err != nil {
				return err
			}
			base := pipeline.Options{Theme: loaded.Theme, Concurrency: cfg.Concurrency}

			ctx := cmd.Context()
			store, err := cfg.OpenCache(ctx, c.Logger)
			if err != nil {
				return err
			}
			// Shared backends may hold other applications' keys.
			runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, appName+":"), c.Logger)
			defer runner.Close()

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			return server.New(runner, base, cfg.Timeout, c.Logger).ListenAndServe(ctx, cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides "+server.EnvAddr)
	cmd.Flags().StringVar(&envFile, "env-file", "", "environment file to load (default .env)")
	return cmd
}

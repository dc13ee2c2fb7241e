package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/furnidraw/internal/api"
)

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 10 * time.Second
)

// serveOpts holds the serve command flags.
type serveOpts struct {
	addr    string
	timeout time.Duration
	runner  runnerConfig
}

// serveCommand creates the serve command, which exposes the export
// pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the export API over HTTP",
		Long: `Serve the export API over HTTP.

Configuration is read from flags, then from the environment:
  FURNIDRAW_ADDR        listen address (default :8080)
  FURNIDRAW_STORE       artifact store DSN (dir path, redis://, mongodb://)
  FURNIDRAW_CACHE_URL   redis:// URL for the shared cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (env "+envAddr+")")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", api.DefaultTimeout, "per-request timeout")
	cmd.Flags().StringVar(&opts.runner.store, "store", "", "artifact store DSN (env "+envStore+")")
	cmd.Flags().StringVar(&opts.runner.cacheURL, "cache-url", "", "redis cache URL (env "+envCacheURL+")")
	cmd.Flags().BoolVar(&opts.runner.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.runner.scene, "scene", "", "scene snapshot for the scene strategy")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	if opts.addr == "" {
		opts.addr = envOr(envAddr, defaultAddr)
	}
	runner, err := c.newRunner(ctx, opts.runner.withEnv())
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := api.NewServer(runner, c.Logger)
	srv.Timeout = opts.timeout
	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr, "store", runner.Store != nil)
		if err := httpSrv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pcbflow/pcbflow/internal/server"
	"github.com/pcbflow/pcbflow/pkg/cache"
	"github.com/pcbflow/pcbflow/pkg/pipeline"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP service",
		Long: `Run the layout HTTP service.

POST /v1/layout accepts {"circuit": ..., "options": ...} and returns
final positions and routed polylines. Each request runs an independent
engine instance, so requests parallelize freely.

Results are cached in memory by default; pass --redis to share the cache
across instances.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for a shared layout cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisAddr string, noCache bool) error {
	var store cache.Cache
	switch {
	case noCache:
		store = cache.NewNullCache()
	case redisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
		if err != nil {
			return fmt.Errorf("connect redis %s: %w", redisAddr, err)
		}
		store = rc
		c.Logger.Info("using redis layout cache", "addr", redisAddr)
	default:
		store = cache.NewMemoryCache()
	}

	runner := pipeline.NewRunner(store, c.Logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(runner, c.Logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("layout service listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		c.Logger.Info("layout service stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

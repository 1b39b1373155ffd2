package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/raggedblocks/internal/httpapi"
	"github.com/matzehuels/raggedblocks/pkg/store"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	addr := c.Config.Serve.Addr
	backend := c.Config.Serve.Store
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Documents are stored in the configured backend (memory by default; redis or
mongo for shared deployments) and rendered on demand via
GET /api/documents/{id}/render.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, backend, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", addr, "listen address")
	cmd.Flags().StringVar(&backend, "store", backend, "document store: memory, redis, mongo")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable stage caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, backend string, noCache bool) error {
	st, err := c.openStore(ctx, backend)
	if err != nil {
		return err
	}
	defer st.Close()

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	api := httpapi.New(runner, st, c.Logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "store", backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// openStore builds the selected document store backend.
func (c *CLI) openStore(ctx context.Context, backend string) (store.Store, error) {
	switch backend {
	case StoreMemory, "":
		return store.NewMemoryStore(), nil
	case StoreRedis:
		cfg := c.Config.Serve.Redis
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case StoreMongo:
		cfg := c.Config.Serve.Mongo
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.URI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

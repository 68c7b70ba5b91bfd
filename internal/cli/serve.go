package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/hetenyib/qiskit-qec/pkg/api"
	"github.com/hetenyib/qiskit-qec/pkg/store"
	storemongo "github.com/hetenyib/qiskit-qec/pkg/store/mongo"
)

// serveCommand creates the serve command for the HTTP decode service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		storeName string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP decode service",
		Long: `Start the HTTP decode service.

Exposes lattice inspection, decoding, and the full pipeline over HTTP.
Decode batches from POST /v1/batches are persisted to the configured store
(in-memory by default, MongoDB when [server].store is "mongo").

The server shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config().Server
			if addr == "" {
				addr = cfg.Addr
			}
			if storeName == "" {
				storeName = cfg.Store
			}

			st, err := newStore(cmd.Context(), storeName, cfg)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			server := &http.Server{
				Addr:              addr,
				Handler:           api.NewServer(runner, st, c.Logger).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("Listening", "addr", addr, "store", storeName)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			c.Logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&storeName, "store", "", "batch store: memory or mongo (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// newStore builds the batch store selected by name.
func newStore(ctx context.Context, name string, cfg ServerConfig) (store.Store, error) {
	switch name {
	case storeBackendMemory:
		return store.NewMemoryStore(), nil
	case storeBackendMongo:
		return storemongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, fmt.Errorf("unknown store %q (want memory or mongo)", name)
	}
}

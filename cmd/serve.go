package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/dkma-cli/internal/dataset"
	"github.com/sells-group/dkma-cli/internal/server"
	"github.com/sells-group/dkma-cli/internal/store"
)

var (
	servePort      int
	serveFromStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset over a read-only HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		src, closeFn, err := openSource(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		srv := &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: server.New(src, server.Options{
				AllowedOrigins: cfg.Server.AllowedOrigins,
				AppName:        cfg.Instructions.AppName,
				Logger:         zap.L(),
			}).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", cfg.Server.Port), zap.Bool("from_store", serveFromStore))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		// Graceful shutdown
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return eris.Wrap(srv.Shutdown(shutdownCtx), "server shutdown")
		})

		return g.Wait()
	},
}

// openSource returns the dataset file or, with --from-store, the configured
// store as the server's read side.
func openSource(ctx context.Context) (server.Source, func(), error) {
	if !serveFromStore {
		ds, err := dataset.Load(cfg.Fetch.OutputPath)
		if err != nil {
			return nil, nil, eris.Wrap(err, "serve")
		}
		return server.NewDatasetSource(ds), func() {}, nil
	}

	if err := cfg.Validate("export"); err != nil {
		return nil, nil, err
	}
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, nil, eris.Wrap(err, "serve: open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, eris.Wrap(err, "serve")
	}
	return st, func() { st.Close() }, nil //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveFromStore, "from-store", false, "serve from the configured store instead of the dataset file")
	rootCmd.AddCommand(serveCmd)
}

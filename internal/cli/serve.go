package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sigem/internal/core"
	"github.com/JonMunkholm/sigem/internal/logging"
	"github.com/JonMunkholm/sigem/internal/web"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the dashboard (default)",
		Long: `Serve starts the HTTP dashboard immediately and loads the dataset and map
in the background. Until the first load finishes the page shows a loading
notice. Send SIGHUP to reload both resources; the new snapshot replaces the
old one as a whole.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), flags, nil)
			if err != nil {
				slog.Error("startup failed", "error", err)
				return err
			}
			return a.serve(cmd.Context())
		},
	}
}

// serve runs the HTTP server until SIGINT or SIGTERM.
func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	srv, err := web.NewServer(web.Options{
		Config:  a.cfg,
		Store:   a.store,
		Map:     a.mapView,
		Metrics: a.metrics,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	// Failures are logged by the loader and surface on the page.
	go func() { _ = a.loadAll(ctx) }()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	for {
		select {
		case <-hup:
			go func() {
				logger := logging.WithFields(ctx, "trigger", "SIGHUP")
				logger.Info("reload started")
				err := a.loadAll(ctx)
				switch {
				case errors.Is(err, core.ErrLoadInProgress):
					logger.Warn("reload skipped, a load is already running")
				case err != nil:
					logger.Error("reload failed", "error", err)
				default:
					logger.Info("reload finished")
				}
			}()

		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case <-ctx.Done():
			slog.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := a.loader.Wait(shutdownCtx); err != nil {
				slog.Warn("dataset load still running at shutdown", "error", err)
			}
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown error", "error", err)
				return err
			}
			slog.Info("server stopped")
			return nil
		}
	}
}

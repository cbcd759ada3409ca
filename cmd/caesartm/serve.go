package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/aretw0/caesartm/pkg/adapters/http"
	"github.com/aretw0/caesartm/internal/logging"
	"github.com/aretw0/caesartm/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes encode, decode, audit, stored runs, state diagrams and Prometheus metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			e.cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}

		// Servers log JSON so the output can be shipped as is.
		level, _ := logging.ParseLevel(e.cfg.LogLevel)
		if e.debug {
			level = slog.LevelDebug
		}
		e.logger = logging.NewJSON(os.Stderr, level)

		metrics := observability.NewMetrics()
		r, closer, err := e.newRunner(cmd, metrics.Hooks())
		if err != nil {
			return err
		}
		defer closer.Close()

		srv := &http.Server{
			Addr: e.cfg.Server.Addr,
			Handler: httpAdapter.NewHandler(r,
				httpAdapter.WithMetrics(metrics.Handler()),
				httpAdapter.WithLogger(e.logger),
			),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			e.logger.Info("Starting caesartm server", "addr", srv.Addr, "store", e.cfg.Store.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			timeout := e.cfg.Server.ShutdownTimeout
			e.logger.Info("Start shutdown", "signal", sig.String(), "timeout", timeout)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				e.logger.Error("Graceful shutdown did not complete", "timeout", timeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("could not stop server: %w", err)
				}
			}
			e.logger.Info("caesartm server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}

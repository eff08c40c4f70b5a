package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mioding/catalog-search/api"
	"github.com/mioding/catalog-search/internal/engine"
)

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			eng, err := engine.New(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("start engine: %w", err)
			}
			defer func() {
				if err := eng.Close(); err != nil {
					logger.Error().Err(err).Msg("Engine close failed")
				}
			}()
			eng.Start(ctx)

			handler := api.NewAPI(eng, cfg.Search.DefaultPageSize, logger)
			router := api.NewRouter(cfg, handler, logger)

			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
				Handler: router,
			}

			serverErrors := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
				logger.Info().Msg("Shutdown signal received")
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("Graceful shutdown failed")
				if err := srv.Close(); err != nil {
					logger.Error().Err(err).Msg("Forced shutdown failed")
				}
			}

			logger.Info().Msg("Server stopped")
			return nil
		},
	}

	cmd.Flags().Int("port", 8080, "port to listen on")
	cmd.Flags().Bool("rate-limit", false, "enable the per-client rate limiter")
	return cmd
}

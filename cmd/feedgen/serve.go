package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dealerfeeds/internal/api"
	"dealerfeeds/internal/config"
	"dealerfeeds/internal/pipeline"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API and the published feeds over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.Server.Addr = addr
			}

			log := a.newLogger(cfg)
			defer log.Sync()

			runner, err := pipeline.New(cfg, pipeline.WithLogger(log))
			if err != nil {
				return err
			}

			opts := []api.Option{api.WithLogger(log)}
			if cfg.Publish.Target == config.TargetFile {
				opts = append(opts, api.WithStaticFeeds(cfg.Publish.Dir))
			}

			srv := api.NewHTTPServer(cfg.Server.Addr, api.NewServer(cfg, runner, opts...))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)

			go func() {
				log.Info("🚀 Listening", "addr", cfg.Server.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}

				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			log.Info("Shutting down the server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")

	return cmd
}

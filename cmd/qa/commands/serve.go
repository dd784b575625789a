// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/mfmax/QA2/cmd/qa/cli"
	"github.com/mfmax/QA2/lib/config"
	"github.com/mfmax/QA2/lib/qastore"
	"github.com/mfmax/QA2/lib/reviewhttp"
)

func serveCommand() *cli.Command {
	var (
		configPath *string
		listen     string
	)

	return &cli.Command{
		Name:    "serve",
		Summary: "Run the review HTTP service",
		Description: `Serve the review API over HTTP.

The service owns the SQLite database and exposes the toggle, pairs,
stats and health endpoints consumed by qa review and qa check. SIGINT
or SIGTERM shuts it down gracefully.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
			configPath = configFlag(flags)
			flags.StringVar(&listen, "listen", "", "listen address (overrides the config)")
			return flags
		},
		Run: func(args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Server.Listen
			}
			logger := cli.NewCommandLogger().With("command", "serve")

			store, err := qastore.Open(cfg.Database, 4, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			server := &http.Server{
				Addr:              listen,
				Handler:           reviewhttp.NewServer(store, logger).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
			defer stop()

			errs := make(chan error, 1)
			go func() {
				logger.Info("review service listening", "address", listen, "database", cfg.Database)
				errs <- server.ListenAndServe()
			}()

			select {
			case err := <-errs:
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("serve: shutdown: %w", err)
			}
			if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
}

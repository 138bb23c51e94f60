package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/cli/config"
	githubcontroller "github.com/m-mizutani/semrel/pkg/controller/github"
	controller "github.com/m-mizutani/semrel/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		workspaceCfg config.Workspace
		releaseCfg   config.Release
	)

	flags := append(serverCfg.Flags(), workspaceCfg.Flags()...)
	flags = append(flags, releaseCfg.Flags()...)

	return &cli.Command{
		Name:                      "serve",
		Aliases:                   []string{"s"},
		Usage:                     "Start HTTP server for release previews and triggers",
		Flags:                     flags,
		DisableSliceFlagSeparator: true,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting semrel server",
				slog.String("addr", serverCfg.Addr),
				slog.String("workspace", workspaceCfg.Path),
			)

			ws, err := workspaceCfg.Load()
			if err != nil {
				return err
			}

			base, err := releaseCfg.Request()
			if err != nil {
				return err
			}
			if base.ChangelogHeader == "" {
				base.ChangelogHeader = ws.ChangelogHeader()
			}

			// Create use cases
			releaseUC, err := newReleaseUseCase(ws)
			if err != nil {
				return err
			}

			opts := []controller.Option{
				controller.WithAddr(serverCfg.Addr),
				controller.WithTriggerSecret(serverCfg.TriggerSecret),
				controller.WithBaseRequest(*base),
			}
			if serverCfg.WebhookSecret != "" {
				processor := githubcontroller.NewEventProcessor(releaseUC, ws, *base)
				opts = append(opts, controller.WithGitHubWebhook(serverCfg.WebhookSecret, processor))
			}

			// Create HTTP server with options
			server, err := controller.NewServer(ctx, releaseUC, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown; accepted releases run to completion
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/cli/config"
	"github.com/m-mizutani/semrel/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
	)

	app := &cli.Command{
		Name:    "semrel",
		Usage:   "Semantic version release engine for monorepos",
		Version: types.Version,
		Flags:   append(loggerCfg.Flags(), sentryCfg.Flags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			sentry.Flush(2 * time.Second)
			return nil
		},
		Commands: []*cli.Command{
			cmdVersion(),
			cmdNext(),
			cmdServe(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		reportError(logger, err)
		return err
	}

	return nil
}

// reportError logs a failed command. Post-release task configuration errors are reported
// with a short message, like the release run does.
func reportError(logger *slog.Logger, err error) {
	if goerr.HasTag(err, types.ErrTagPostTaskConfiguration) {
		logger.Error("Post-release task error: " + err.Error())
		return
	}
	logger.Error("CLI execution failed", slog.Any("error", err))
}

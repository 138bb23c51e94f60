package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdNext() *cli.Command {
	var (
		workspaceCfg config.Workspace
		releaseCfg   config.Release
	)

	return &cli.Command{
		Name:                      "next",
		Usage:                     "Show the next version without releasing",
		Flags:                     append(workspaceCfg.Flags(), releaseCfg.Flags()...),
		DisableSliceFlagSeparator: true,
		Action: func(ctx context.Context, c *cli.Command) error {
			req, err := releaseCfg.Request()
			if err != nil {
				return err
			}

			ws, err := workspaceCfg.Load()
			if err != nil {
				return err
			}
			req.DryRun = true

			uc, err := newReleaseUseCase(ws)
			if err != nil {
				return err
			}

			outcome := uc.Run(ctx, req)
			printDecision(c.Root().Writer, outcome)

			if !outcome.Success {
				return goerr.New("failed to compute next version",
					goerr.V("run_id", outcome.RunID),
					goerr.V("state", outcome.Failure.State))
			}
			return nil
		},
	}
}

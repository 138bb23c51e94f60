package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdVersion() *cli.Command {
	var (
		workspaceCfg config.Workspace
		releaseCfg   config.Release
	)

	return &cli.Command{
		Name:                      "version",
		Aliases:                   []string{"release"},
		Usage:                     "Compute the next version and release it",
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
			if req.ChangelogHeader == "" {
				req.ChangelogHeader = ws.ChangelogHeader()
			}

			uc, err := newReleaseUseCase(ws)
			if err != nil {
				return err
			}

			outcome := uc.Run(ctx, req)
			printOutcome(c.Root().Writer, req, outcome)

			if !outcome.Success {
				return goerr.New("release failed",
					goerr.V("run_id", outcome.RunID),
					goerr.V("state", outcome.Failure.State))
			}
			return nil
		},
	}
}

package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/types"
)

// Pusher pushes the release commit and tags to a remote
type Pusher struct {
	git interfaces.GitClient
}

// NewPusher creates a new Pusher
func NewPusher(git interfaces.GitClient) *Pusher {
	return &Pusher{git: git}
}

// Push pushes branch to remote with its tags. A failure leaves the local commit and tag
// in place.
func (p *Pusher) Push(ctx context.Context, branch, remote string, noVerify bool) error {
	logger := ctxlog.From(ctx)

	if remote == "" || branch == "" {
		return goerr.New("remote and base branch are required to push",
			goerr.V("remote", remote),
			goerr.V("branch", branch),
			goerr.T(types.ErrTagPush))
	}

	logger.Info("Pushing to remote", "remote", remote, "branch", branch, "no_verify", noVerify)

	if err := p.git.Push(ctx, remote, branch, noVerify); err != nil {
		return goerr.Wrap(err, "failed to push release; local commit and tag were kept",
			goerr.V("remote", remote),
			goerr.V("branch", branch),
			goerr.T(types.ErrTagPush))
	}

	logger.Info("Pushed to remote", "remote", remote, "branch", branch)
	return nil
}

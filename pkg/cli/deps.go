package cli

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/infra/conventional"
	gitinfra "github.com/m-mizutani/semrel/pkg/infra/git"
	"github.com/m-mizutani/semrel/pkg/infra/manifest"
	"github.com/m-mizutani/semrel/pkg/infra/task"
	"github.com/m-mizutani/semrel/pkg/infra/workspace"
	"github.com/m-mizutani/semrel/pkg/usecase"
)

// newReleaseUseCase wires the release pipeline for a loaded workspace
func newReleaseUseCase(ws *workspace.Workspace) (interfaces.ReleaseUseCase, error) {
	git, err := gitinfra.New(ws.Root())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository", goerr.V("root", ws.Root()))
	}

	changelog, err := usecase.NewChangelogRenderer()
	if err != nil {
		return nil, err
	}

	tasks := usecase.NewTaskRunner(
		task.NewExec(ws.Root()),
		task.NewSlack(),
		task.NewGitHub(),
	)

	return usecase.NewRelease(ws, git, conventional.New(), manifest.NewJSON(), changelog, tasks), nil
}

package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/domain/types"
	"github.com/m-mizutani/semrel/pkg/utils/errutil"
)

// WorkspaceProjectName names the implicit project released in sync mode when no project
// was given
const WorkspaceProjectName = "workspace"

type releaseUseCase struct {
	registry        interfaces.ProjectRegistry
	bump            *BumpCalculator
	projectWriter   interfaces.ReleaseWriter
	workspaceWriter interfaces.ReleaseWriter
	pusher          *Pusher
	tasks           *TaskRunner
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(
	registry interfaces.ProjectRegistry,
	git interfaces.GitClient,
	classifier interfaces.CommitClassifier,
	manifest interfaces.ManifestUpdater,
	changelog *ChangelogRenderer,
	tasks *TaskRunner,
) interfaces.ReleaseUseCase {
	return &releaseUseCase{
		registry:        registry,
		bump:            NewBumpCalculator(git, classifier),
		projectWriter:   NewProjectWriter(registry, git, classifier, manifest, changelog),
		workspaceWriter: NewWorkspaceWriter(registry, git, classifier, manifest, changelog),
		pusher:          NewPusher(git),
		tasks:           tasks,
	}
}

// Run executes the release pipeline. Steps run strictly in order and the first failure
// ends the run; nothing already written is rolled back. Dry-run computes every decision
// the same way and only skips writes, push and post-release tasks.
func (uc *releaseUseCase) Run(ctx context.Context, req *model.ReleaseRequest) *model.ReleaseOutcome {
	runID := uuid.NewString()
	logger := ctxlog.From(ctx).With("run_id", runID, "project", req.Project, "dry_run", req.DryRun)
	ctx = ctxlog.With(ctx, logger)

	outcome := &model.ReleaseOutcome{RunID: runID}

	outcome.State = model.StateResolvingPrefix
	project, registered, err := uc.lookupProject(req)
	if err != nil {
		return uc.fail(ctx, outcome, err)
	}
	tagPrefix := ResolveTagPrefix(req.TagPrefix, project.Name, req.SyncVersions)

	historyRoot := project.Root
	if req.SyncVersions {
		historyRoot = "."
	}

	releaseAs := req.ResolvedReleaseAs()

	var dependencyRoots []string
	if req.TrackDeps && releaseAs == "" && registered {
		outcome.State = model.StateResolvingDependencies
		dependencyRoots, err = ResolveDependencyRoots(uc.registry, project.Name)
		if err != nil {
			logger.Error("Failed to determine dependencies")
			return uc.fail(ctx, outcome, err)
		}
	}

	outcome.State = model.StateComputingBump
	decision, err := uc.bump.Compute(ctx, &BumpInput{
		ProjectRoot: historyRoot,
		ExtraRoots:  dependencyRoots,
		TagPrefix:   tagPrefix,
		ReleaseAs:   releaseAs,
		Preid:       req.Preid,
	})
	if err != nil {
		return uc.fail(ctx, outcome, err)
	}
	outcome.Decision = decision

	if decision.NoChange() {
		logger.Info("Nothing changed since last release",
			"tag_prefix", tagPrefix,
			"previous_version", decision.PreviousVersion,
		)
		outcome.State = model.StateNothingToRelease
		outcome.Success = true
		return outcome
	}

	logger.Info("Resolved next version",
		"previous_version", decision.PreviousVersion,
		"next_version", decision.NextVersion,
		"significance", decision.Significance.String(),
		"explicit", decision.Explicit,
	)

	outcome.State = model.StateWriting
	writer := uc.projectWriter
	if req.SyncVersions {
		writer = uc.workspaceWriter
	}
	result, err := writer.Write(ctx, &model.WriteOptions{
		Project:              project,
		NewVersion:           decision.NextVersion,
		TagPrefix:            tagPrefix,
		PreviousTag:          decision.PreviousTag,
		ChangelogHeader:      req.ChangelogHeader,
		DryRun:               req.DryRun,
		NoVerify:             req.NoVerify,
		SkipRootChangelog:    req.SkipRootChangelog,
		SkipProjectChangelog: req.SkipProjectChangelog,
	})
	if err != nil {
		return uc.fail(ctx, outcome, err)
	}
	outcome.Result = result

	if req.Push && !req.DryRun {
		outcome.State = model.StatePushing
		if err := uc.pusher.Push(ctx, req.BaseBranch, req.Remote, req.NoVerify); err != nil {
			return uc.fail(ctx, outcome, err)
		}
	}

	tasks := append(append([]model.PostTask{}, req.PostTasks...), project.PostTasks...)
	if !req.DryRun && len(tasks) > 0 {
		outcome.State = model.StateRunningPostTasks
		taskCtx := &model.TaskContext{
			Project:    project.Name,
			Version:    decision.NextVersion,
			Tag:        tagPrefix + decision.NextVersion,
			TagPrefix:  tagPrefix,
			NoVerify:   req.NoVerify,
			DryRun:     req.DryRun,
			Remote:     req.Remote,
			BaseBranch: req.BaseBranch,
		}
		if err := uc.tasks.Run(ctx, tasks, taskCtx); err != nil {
			return uc.fail(ctx, outcome, err)
		}
	}

	outcome.State = model.StateDone
	outcome.Success = true
	logger.Info("Release completed", "version", decision.NextVersion, "tag", result.Tag)
	return outcome
}

// lookupProject resolves the requested project. In sync mode an unnamed request releases
// the implicit workspace project; registered is false for it.
func (uc *releaseUseCase) lookupProject(req *model.ReleaseRequest) (*model.Project, bool, error) {
	if req.SyncVersions && req.Project == "" {
		return &model.Project{Name: WorkspaceProjectName, Root: "."}, false, nil
	}
	if req.Project == "" {
		return nil, false, goerr.New("project is required unless versions are synced", goerr.T(types.ErrTagInvalidRequest))
	}

	project, err := uc.registry.Project(req.Project)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to find project",
			goerr.V("project", req.Project),
			goerr.T(types.ErrTagInvalidRequest))
	}
	return project, true, nil
}

// fail ends the run. Post-task configuration errors get a short message, everything else
// full diagnostic detail.
func (uc *releaseUseCase) fail(ctx context.Context, outcome *model.ReleaseOutcome, err error) *model.ReleaseOutcome {
	failure := &model.Failure{
		Kind:  model.FailureUnexpected,
		State: outcome.State,
		Err:   err,
	}

	if goerr.HasTag(err, types.ErrTagPostTaskConfiguration) {
		failure.Kind = model.FailureStructured
		ctxlog.From(ctx).Error("Post-release task error: " + err.Error())
	} else {
		errutil.Handle(ctx, "Release failed", err)
	}

	outcome.State = model.StateFailed
	outcome.Success = false
	outcome.Failure = failure
	return outcome
}

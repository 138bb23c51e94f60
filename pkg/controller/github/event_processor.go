package github

import (
	"context"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
)

// EventProcessor releases the workspace when commits land on the base branch
type EventProcessor struct {
	releaseUC interfaces.ReleaseUseCase
	registry  interfaces.ProjectRegistry
	base      model.ReleaseRequest
}

// NewEventProcessor creates a new GitHub event processor. base holds the release options
// every triggered run starts from.
func NewEventProcessor(releaseUC interfaces.ReleaseUseCase, registry interfaces.ProjectRegistry, base model.ReleaseRequest) *EventProcessor {
	return &EventProcessor{
		releaseUC: releaseUC,
		registry:  registry,
		base:      base,
	}
}

// ProcessEvent processes a GitHub webhook event
func (p *EventProcessor) ProcessEvent(ctx context.Context, eventType string, payload interface{}) error {
	logger := ctxlog.From(ctx)

	switch eventType {
	case "push":
		return p.processPushEvent(ctx, payload)
	default:
		logger.Info("Ignoring unsupported event type", "event_type", eventType)
		return nil
	}
}

// processPushEvent releases every project, or the whole workspace in sync mode, after a
// push to the base branch
func (p *EventProcessor) processPushEvent(ctx context.Context, payload interface{}) error {
	logger := ctxlog.From(ctx)

	pushEvent, ok := payload.(*github.PushEvent)
	if !ok {
		logger.Warn("Invalid push event payload")
		return nil
	}

	branch := strings.TrimPrefix(pushEvent.GetRef(), "refs/heads/")
	if branch != p.base.BaseBranch || pushEvent.GetDeleted() {
		logger.Info("Ignoring push event outside the base branch",
			"ref", pushEvent.GetRef(),
			"deleted", pushEvent.GetDeleted(),
		)
		return nil
	}

	if isReleaseCommit(pushEvent.GetHeadCommit().GetMessage()) {
		logger.Info("Ignoring push of a release commit", "head", pushEvent.GetHeadCommit().GetID())
		return nil
	}

	logger.Info("Processing push event",
		"repo", pushEvent.GetRepo().GetFullName(),
		"branch", branch,
		"head", pushEvent.GetHeadCommit().GetID(),
	)

	var names []string
	if p.base.SyncVersions {
		names = []string{""}
	} else {
		for _, project := range p.registry.Projects() {
			names = append(names, project.Name)
		}
	}

	var failed []string
	for _, name := range names {
		req := p.base
		req.Project = name
		req.PostTasks = append([]model.PostTask{}, p.base.PostTasks...)

		outcome := p.releaseUC.Run(ctx, &req)
		if !outcome.Success {
			failed = append(failed, name)
			continue
		}

		logger.Info("Processed project",
			"project", name,
			"state", outcome.State,
			"run_id", outcome.RunID,
		)
	}

	if len(failed) > 0 {
		return goerr.New("release failed for some projects", goerr.V("projects", failed))
	}
	return nil
}

// isReleaseCommit reports whether message is a commit created by a release run
func isReleaseCommit(message string) bool {
	subject, _, _ := strings.Cut(message, "\n")
	return strings.HasPrefix(subject, "chore(") && strings.Contains(subject, "): release version ")
}

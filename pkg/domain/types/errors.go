package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures of a release run. Every tagged error is fatal to the run;
// the tag only decides how the failure is reported.
var (
	// ErrTagInvalidRequest marks a malformed release request (unknown project, bad release type).
	ErrTagInvalidRequest = goerr.NewTag("invalid_request")

	// ErrTagDependencyResolution marks a dependency name missing from the workspace registry.
	ErrTagDependencyResolution = goerr.NewTag("dependency_resolution")

	// ErrTagHistoryRead marks unreadable VCS metadata (tags, commit log).
	ErrTagHistoryRead = goerr.NewTag("history_read")

	// ErrTagWrite marks a manifest, changelog, commit or tag failure. Local state may be partial.
	ErrTagWrite = goerr.NewTag("write")

	// ErrTagPush marks a failed push. The local commit and tag remain unpushed.
	ErrTagPush = goerr.NewTag("push")

	// ErrTagPostTaskConfiguration marks an invalid post-release task descriptor.
	ErrTagPostTaskConfiguration = goerr.NewTag("post_task_configuration")

	// ErrTagPostTaskExecution marks a post-release task that failed while running.
	ErrTagPostTaskExecution = goerr.NewTag("post_task_execution")
)

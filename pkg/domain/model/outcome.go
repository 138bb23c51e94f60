package model

// RunState is a state of the release pipeline
type RunState string

const (
	StateResolvingPrefix       RunState = "resolving_prefix"
	StateResolvingDependencies RunState = "resolving_dependencies"
	StateComputingBump         RunState = "computing_bump"
	StateNothingToRelease      RunState = "nothing_to_release"
	StateWriting               RunState = "writing"
	StatePushing               RunState = "pushing"
	StateRunningPostTasks      RunState = "running_post_tasks"
	StateDone                  RunState = "done"
	StateFailed                RunState = "failed"
)

// FailureKind decides how a failure is presented to the user
type FailureKind string

const (
	// FailureStructured is an expected, configuration-level failure reported with a short message
	FailureStructured FailureKind = "structured"
	// FailureUnexpected is reported with full diagnostic detail
	FailureUnexpected FailureKind = "unexpected"
)

// Failure records why a run failed and in which state
type Failure struct {
	Kind  FailureKind
	State RunState // State the run was in when it failed
	Err   error
}

// ReleaseOutcome is the terminal result of a release run
type ReleaseOutcome struct {
	RunID    string
	Success  bool
	State    RunState
	Decision *BumpDecision
	Result   *WriteResult
	Failure  *Failure
}

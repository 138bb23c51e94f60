package interfaces

import "context"

// TaskExecutor runs one kind of post-release task
type TaskExecutor interface {
	// Name is the executor identifier referenced by task descriptors
	Name() string

	// Validate checks resolved options before anything runs
	Validate(options map[string]string) error

	// Execute runs the task with resolved options
	Execute(ctx context.Context, options map[string]string) error
}

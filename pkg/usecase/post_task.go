package usecase

import (
	"context"
	"regexp"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/domain/types"
)

var templateVariable = regexp.MustCompile(`\$\{([^}]*)\}`)

// TaskRunner runs post-release tasks in declared order
type TaskRunner struct {
	executors map[string]interfaces.TaskExecutor
}

// NewTaskRunner creates a TaskRunner that knows the given executors
func NewTaskRunner(executors ...interfaces.TaskExecutor) *TaskRunner {
	r := &TaskRunner{executors: make(map[string]interfaces.TaskExecutor)}
	for _, e := range executors {
		r.executors[e.Name()] = e
	}
	return r
}

// Run resolves and executes tasks one by one, stopping at the first failure.
// Configuration problems are tagged ErrTagPostTaskConfiguration, runtime failures
// ErrTagPostTaskExecution.
func (r *TaskRunner) Run(ctx context.Context, tasks []model.PostTask, taskCtx *model.TaskContext) error {
	logger := ctxlog.From(ctx)
	vars := taskCtx.Variables()

	for i, task := range tasks {
		executor, options, err := r.resolve(task, vars)
		if err != nil {
			return goerr.Wrap(err, "invalid post-release task",
				goerr.V("index", i),
				goerr.V("executor", task.Executor),
				goerr.T(types.ErrTagPostTaskConfiguration))
		}

		logger.Info("Running post-release task", "index", i, "executor", task.Executor)

		if err := executor.Execute(ctx, options); err != nil {
			return goerr.Wrap(err, "post-release task failed",
				goerr.V("index", i),
				goerr.V("executor", task.Executor),
				goerr.T(types.ErrTagPostTaskExecution))
		}
	}

	return nil
}

func (r *TaskRunner) resolve(task model.PostTask, vars map[string]string) (interfaces.TaskExecutor, map[string]string, error) {
	executor, ok := r.executors[task.Executor]
	if !ok {
		return nil, nil, goerr.New("unknown executor")
	}

	options := make(map[string]string, len(task.Options))
	for key, value := range task.Options {
		resolved, err := substitute(value, vars)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to resolve option", goerr.V("option", key))
		}
		options[key] = resolved
	}

	if err := executor.Validate(options); err != nil {
		return nil, nil, err
	}
	return executor, options, nil
}

// substitute replaces ${name} with vars[name]; an unknown name is an error
func substitute(value string, vars map[string]string) (string, error) {
	var unknown string
	resolved := templateVariable.ReplaceAllStringFunc(value, func(m string) string {
		name := templateVariable.FindStringSubmatch(m)[1]
		v, ok := vars[name]
		if !ok {
			if unknown == "" {
				unknown = name
			}
			return m
		}
		return v
	})

	if unknown != "" {
		return "", goerr.New("unknown template variable", goerr.V("variable", unknown))
	}
	return resolved, nil
}

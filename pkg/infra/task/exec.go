package task

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Exec runs a shell command. Options: command (required), cwd (relative to the workspace root).
type Exec struct {
	root  string
	shell string
}

// NewExec creates an Exec executor running commands below root
func NewExec(root string) *Exec {
	return &Exec{root: root, shell: "sh"}
}

// Name returns the executor name
func (e *Exec) Name() string { return "exec" }

// Validate checks the options
func (e *Exec) Validate(options map[string]string) error {
	return checkOptions(options, []string{"command"}, []string{"cwd"})
}

// Execute runs the command and fails on a non-zero exit status
func (e *Exec) Execute(ctx context.Context, options map[string]string) error {
	logger := ctxlog.From(ctx)

	dir := e.root
	if cwd := options["cwd"]; cwd != "" {
		dir = filepath.Join(e.root, cwd)
	}

	cmd := exec.CommandContext(ctx, e.shell, "-c", options["command"])
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return goerr.Wrap(err, "command failed",
			goerr.V("command", options["command"]),
			goerr.V("dir", dir),
			goerr.V("output", strings.TrimSpace(string(output))))
	}

	logger.Info("Command finished",
		"command", options["command"],
		"output", strings.TrimSpace(string(output)),
	)
	return nil
}

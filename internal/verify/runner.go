// Package verify runs the host project's build and test commands and
// reports their outcome. A failing command is ordinary data for the
// caller; only a command that cannot be launched at all is an error.
package verify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result is the outcome of one verification command.
type Result struct {
	Passed   bool
	ExitCode int
	Output   string
}

// CommandRunner abstracts command execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, root string, command string) (*Result, error)
}

// ExecRunner implements CommandRunner by executing the command directly.
// The command string is split on whitespace; shell quoting is not
// supported, so arguments containing spaces cannot be expressed.
type ExecRunner struct{}

// Run executes command with root as the working directory and merges
// stdout and stderr into Result.Output. A non-zero exit status is
// reported in the Result with a nil error.
func (e *ExecRunner) Run(ctx context.Context, root string, command string) (*Result, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty verification command")
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Dir = root

	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("run %q: %w", command, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{
				Passed:   false,
				ExitCode: exitErr.ExitCode(),
				Output:   string(out),
			}, nil
		}
		return nil, fmt.Errorf("run %q: %w", command, err)
	}

	return &Result{Passed: true, Output: string(out)}, nil
}

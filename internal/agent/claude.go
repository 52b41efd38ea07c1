package agent

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/nikomatsakis/retcon/internal/parser"
)

// ClaudeConnection runs each turn as one claude CLI invocation. The
// subprocess works inside Root, so the model's file tools edit the
// repository directly.
type ClaudeConnection struct {
	Model   string
	Root    string // working directory for the subprocess
	Timeout int    // seconds per turn; 0 means no limit
	Verbose bool
}

// BuildArgs constructs the argument list for the claude CLI command.
func (c *ClaudeConnection) BuildArgs(prompt string) []string {
	args := []string{
		"--print",
		"--dangerously-skip-permissions",
		"--output-format", "stream-json",
		"--model", c.Model,
	}
	if c.Verbose {
		args = append(args, "--verbose")
	}
	args = append(args, prompt)
	return args
}

// Run executes one turn. The transcript is parsed for the model's text and
// its verdict block; a missing or invalid block is an error.
func (c *ClaudeConnection) Run(ctx context.Context, req Request) (*Result, error) {
	prompt := req.Prompt
	if len(req.Ops) > 0 {
		prompt += "\n\n" + renderOps(req.Ops)
	}

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(c.Timeout)*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, "claude", c.BuildArgs(prompt)...)
	cmd.Dir = c.Root

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	runErr := cmd.Run()

	text := parser.ParseStreamJSON(stdout.String())

	// Rate limits surface as transcript text, usually alongside a non-zero
	// exit; detect them first so the retry wrapper waits instead of failing.
	if IsRateLimited(text) {
		return nil, &RateLimitError{UnderlyingErr: runErr}
	}

	if runErr != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("claude turn timed out after %ds", c.Timeout)
		}
		return nil, fmt.Errorf("claude command failed: %w", runErr)
	}

	turn, err := parser.ParseTurnResult(text)
	if err != nil {
		return nil, err
	}
	if turn == nil {
		return nil, fmt.Errorf("model output has no %s block", parser.TurnResultKey)
	}
	return &Result{Status: turn.Status, Reason: turn.Reason}, nil
}

// renderOps appends the turn's operations to the prompt so a CLI-backed
// model can invoke them by running the given commands.
func renderOps(ops []Op) string {
	var b strings.Builder
	b.WriteString("AVAILABLE OPERATIONS")
	for _, op := range ops {
		fmt.Fprintf(&b, "\n\n%s: %s\nInvoke by running: %s", op.Name, op.Description, op.Command)
	}
	return b.String()
}

// Package agent connects the reconstruction loop to the model that makes
// its content decisions. A Connection submits one structured prompt per
// call and returns a schema-validated Result; how the model edits the
// repository is the connection's business.
package agent

import "context"

// Result statuses. Extraction and repair turns report success or stuck;
// finalization turns report done or stuck.
const (
	StatusSuccess = "success"
	StatusStuck   = "stuck"
	StatusDone    = "done"
)

// Result is the validated verdict of one model turn.
type Result struct {
	Status string
	Reason string
}

// IsStuck reports whether the model gave up on the turn.
func (r *Result) IsStuck() bool { return r.Status == StatusStuck }

// Op is an operation the model may invoke mid-turn. CLI-backed connections
// render Command into the prompt and the model runs it in a shell;
// in-process connections call Run directly.
type Op struct {
	Name        string
	Description string
	// Command is the exact command line for the model to run, with <n>
	// standing for the op's integer argument.
	Command string
	// Run performs the operation in-process with the same argument.
	Run func(n int) error
}

// Request is one model turn.
type Request struct {
	Prompt string
	Ops    []Op
}

// Connection submits one turn to the model. Transport failures and model
// output that lacks a valid verdict are errors; both are fatal to a run.
type Connection interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

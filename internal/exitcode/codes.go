// Package exitcode defines named exit codes for the retcon CLI.
//
// Each code maps a termination condition to a numeric value recognized by
// shell scripts and CI pipelines. A clean stuck halt is a Success: the run
// ended at a designed checkpoint and the plan file says how to continue.
package exitcode

const (
	Success     = 0   // Run finished: all commits complete, or a clean stuck halt
	Error       = 1   // Invalid args, unreadable plan, fatal run error
	Interrupted = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}

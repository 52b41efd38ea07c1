package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/nikomatsakis/retcon/internal/logging"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	activeColor  = color.New(color.FgCyan).SprintFunc()
)

const separator = "═══════════════════════════════════════════════════"

// ConsoleReporter renders progress to Out with colored glyphs per state.
type ConsoleReporter struct {
	Out io.Writer

	messages []string
}

// NewConsole returns a reporter writing to stdout.
func NewConsole() *ConsoleReporter {
	return &ConsoleReporter{Out: os.Stdout}
}

// Init displays the startup banner with the planned commits.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  retcon - commit history reconstruction
//	═══════════════════════════════════════════════════
//	  Commits:
//	    1. Add config loader
//	    2. Wire loader into startup
//	═══════════════════════════════════════════════════
func (c *ConsoleReporter) Init(messages []string) {
	c.messages = messages

	sep := headerColor(separator)
	fmt.Fprintln(c.Out, sep)
	fmt.Fprintln(c.Out, headerColor("  retcon - commit history reconstruction"))
	fmt.Fprintln(c.Out, sep)
	fmt.Fprintln(c.Out, "  Commits:")
	for i, m := range messages {
		fmt.Fprintf(c.Out, "    %d. %s\n", i+1, m)
	}
	fmt.Fprintln(c.Out, sep)
}

// Status prints a free-form progress line.
func (c *ConsoleReporter) Status(msg string) {
	fmt.Fprintf(c.Out, "  %s\n", msg)
}

// Transition prints the commit's new state, glyph-coded.
func (c *ConsoleReporter) Transition(index int, state CommitState) {
	message := ""
	if index >= 0 && index < len(c.messages) {
		message = c.messages[index]
	}

	var glyph string
	switch state {
	case StateCompleted:
		glyph = successColor("✓")
	case StateStuck:
		glyph = errorColor("✗")
	case StateInProgress:
		glyph = activeColor("▶")
	default:
		glyph = "·"
	}

	fmt.Fprintf(c.Out, "  [%d/%d] %s %s\n", index+1, len(c.messages), glyph, message)
}

// Completion displays the closing banner after a fully reconstructed plan.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ Reconstruction complete!
//	  Commits:  5
//	  Duration: 1m 23s (83s)
//	═══════════════════════════════════════════════════
func (c *ConsoleReporter) Completion(commits int, durationSecs int) {
	sep := successColor(separator)
	fmt.Fprintln(c.Out, sep)
	fmt.Fprintln(c.Out, successColor("  ✓ Reconstruction complete!"))
	fmt.Fprintf(c.Out, "  Commits:  %d\n", commits)
	fmt.Fprintf(c.Out, "  Duration: %s (%ds)\n", logging.FormatDuration(durationSecs), durationSecs)
	fmt.Fprintln(c.Out, sep)
}

// StuckHalt displays the halt banner with the exact line the operator must
// add to the plan to resume.
func (c *ConsoleReporter) StuckHalt(planPath string, number int, message, reason string) {
	sep := errorColor(separator)
	fmt.Fprintln(c.Out, sep)
	fmt.Fprintln(c.Out, errorColor(fmt.Sprintf("  ✗ STUCK at commit %d: %s", number, message)))
	fmt.Fprintln(c.Out, sep)
	fmt.Fprintln(c.Out, "  Reason:")
	fmt.Fprintf(c.Out, "  %s\n", reason)
	fmt.Fprintln(c.Out)
	fmt.Fprintf(c.Out, "  To resume, edit %s and append after the stuck entry:\n", planPath)
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "      - resolved: <your guidance to the model>")
	fmt.Fprintln(c.Out)
	fmt.Fprintf(c.Out, "  then re-run: retcon execute %s\n", planPath)
	fmt.Fprintln(c.Out, sep)
}

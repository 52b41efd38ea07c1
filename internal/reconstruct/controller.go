// Package reconstruct drives the commit-by-commit rebuild of a clean branch
// from a messy source branch. The controller walks the plan in order,
// delegates content decisions to a model connection, verifies each commit
// with the project's own commands, and persists the plan after every
// attempt so a run can always resume.
package reconstruct

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nikomatsakis/retcon/internal/agent"
	"github.com/nikomatsakis/retcon/internal/histspec"
	"github.com/nikomatsakis/retcon/internal/logging"
	"github.com/nikomatsakis/retcon/internal/prompt"
	"github.com/nikomatsakis/retcon/internal/report"
	"github.com/nikomatsakis/retcon/internal/verify"
)

// DefaultMaxRepairs bounds repair commits per verification step when the
// controller is configured with zero.
const DefaultMaxRepairs = 5

// GitOps is the version-control surface the controller drives.
// *gitrepo.Repo implements it; tests substitute a scripted fake.
type GitOps interface {
	Root() string
	RefExists(ref string) bool
	MergeBase(a, b string) (string, error)
	Checkout(ref string) error
	CheckoutNewBranch(name, start string) error
	Diff(from, to string) (string, error)
	DiffNameOnly(from, to string) ([]string, error)
	CheckoutPathsFrom(ref string, paths ...string) error
	CommitAll(message string) (string, error)
}

// Controller owns one reconstruction run.
type Controller struct {
	Git      GitOps
	Conn     agent.Connection
	Verifier verify.CommandRunner
	Reporter report.Reporter

	Spec     *histspec.Specification
	PlanPath string

	BuildCommand string // empty skips the build step
	TestCommand  string // empty skips the test step
	MaxRepairs   int    // repair commits allowed per step; 0 means DefaultMaxRepairs
}

// Outcome reports how a run ended when no fatal error occurred: either the
// whole plan is complete and finalization ran, or one commit is stuck and
// the run halted awaiting a human.
type Outcome struct {
	AllComplete bool
	StuckIndex  int    // 0-based plan index, valid when !AllComplete
	StuckReason string // valid when !AllComplete
}

// Run processes the plan from the first non-complete commit onward. The
// plan file is rewritten after every attempt; it is the only state a
// resumed run needs.
func (c *Controller) Run(ctx context.Context) (*Outcome, error) {
	if c.MaxRepairs <= 0 {
		c.MaxRepairs = DefaultMaxRepairs
	}

	messages := make([]string, len(c.Spec.Commits))
	for i := range c.Spec.Commits {
		messages[i] = c.Spec.Commits[i].Message
	}
	c.Reporter.Init(messages)

	if next, ok := c.Spec.NextPendingIndex(); ok && next > 0 {
		c.Reporter.Status(fmt.Sprintf("resuming at commit %d of %d", next+1, len(c.Spec.Commits)))
	}

	if err := c.ensureWorkingBranch(); err != nil {
		return nil, err
	}

	for i := range c.Spec.Commits {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("interrupted before commit %d: %w", i+1, err)
		}

		commit := &c.Spec.Commits[i]
		switch commit.Status() {
		case histspec.StatusComplete:
			c.Reporter.Transition(i, report.StateCompleted)
			continue
		case histspec.StatusStuck:
			// Stuck without a resolution halts every run until a human
			// appends one; no new attempt is made.
			c.Reporter.Transition(i, report.StateStuck)
			reason, _ := commit.StuckReason()
			return &Outcome{StuckIndex: i, StuckReason: reason}, nil
		}

		c.Reporter.Transition(i, report.StateInProgress)

		attemptErr := c.processCommit(ctx, i, commit)

		// The save is the sole durability point; without it the attempt
		// never happened.
		if saveErr := histspec.Save(c.Spec, c.PlanPath); saveErr != nil {
			if attemptErr == nil {
				attemptErr = saveErr
			} else {
				logging.Warn(fmt.Sprintf("plan not saved: %v", saveErr))
			}
		}
		if attemptErr != nil {
			return nil, attemptErr
		}

		if commit.IsStuck() {
			c.Reporter.Transition(i, report.StateStuck)
			reason, _ := commit.StuckReason()
			return &Outcome{StuckIndex: i, StuckReason: reason}, nil
		}
		c.Reporter.Transition(i, report.StateCompleted)
	}

	if err := c.finalize(ctx); err != nil {
		return nil, err
	}
	return &Outcome{AllComplete: true}, nil
}

// processCommit runs one extraction attempt: diff, model turn, commit,
// verification. What happened is recorded as history entries on the commit;
// the caller persists them.
func (c *Controller) processCommit(ctx context.Context, index int, commit *histspec.CommitSpec) error {
	diff, err := c.Git.Diff(c.Spec.Cleaned, c.Spec.Source)
	if err != nil {
		return fmt.Errorf("diff against %s: %w", c.Spec.Source, err)
	}
	if strings.TrimSpace(diff) == "" {
		// Earlier commits already carried everything.
		c.Reporter.Status(fmt.Sprintf("no remaining changes for %q", commit.Message))
		commit.Append(histspec.Complete())
		return nil
	}

	resolution, _ := commit.ResolutionNote()
	extractPrompt := prompt.BuildExtractPrompt(commit.Message, commit.Hints, resolution, diff)

	result, err := c.Conn.Run(ctx, agent.Request{Prompt: extractPrompt})
	if err != nil {
		return fmt.Errorf("extraction turn for commit %d: %w", index+1, err)
	}
	if result.IsStuck() {
		commit.Append(histspec.Stuck("could not extract changes"))
		return nil
	}

	hash, err := c.Git.CommitAll(commit.Message)
	if err != nil {
		return fmt.Errorf("commit %q: %w", commit.Message, err)
	}
	commit.Append(histspec.CommitCreated(hash))
	c.Reporter.Status(fmt.Sprintf("created %s %s", hash, commit.Message))

	if err := c.verifyStep(ctx, commit, "build", c.BuildCommand); err != nil || commit.IsStuck() {
		return err
	}
	if err := c.verifyStep(ctx, commit, "test", c.TestCommand); err != nil || commit.IsStuck() {
		return err
	}

	commit.Append(histspec.Complete())
	return nil
}

// verifyStep runs one verification command, cycling model repairs until it
// passes, the model gives up, or the repair budget runs out. An empty
// command skips the step entirely.
func (c *Controller) verifyStep(ctx context.Context, commit *histspec.CommitSpec, step, command string) error {
	if command == "" {
		return nil
	}

	for repairs := 0; ; repairs++ {
		start := time.Now()
		res, err := c.Verifier.Run(ctx, c.Git.Root(), command)
		if err != nil {
			return fmt.Errorf("%s verification: %w", step, err)
		}
		if res.Passed {
			c.Reporter.Status(fmt.Sprintf("%s passed in %s", step, logging.FormatDuration(int(time.Since(start).Seconds()))))
			return nil
		}

		logging.Warn(fmt.Sprintf("%s failing (exit %d)", step, res.ExitCode))

		if repairs >= c.MaxRepairs {
			commit.Append(histspec.Stuck(fmt.Sprintf("%s still failing after %d repair attempts", step, c.MaxRepairs)))
			return nil
		}

		// Each repair turn sees a freshly recomputed diff: earlier repairs
		// may already have pulled pieces across.
		diff, err := c.Git.Diff(c.Spec.Cleaned, c.Spec.Source)
		if err != nil {
			return fmt.Errorf("diff against %s: %w", c.Spec.Source, err)
		}

		repairPrompt := prompt.BuildRepairPrompt(commit.Message, step, command, res.Output, diff)
		result, err := c.Conn.Run(ctx, agent.Request{Prompt: repairPrompt})
		if err != nil {
			return fmt.Errorf("repair turn (%s) for %q: %w", step, commit.Message, err)
		}
		if result.IsStuck() {
			commit.Append(histspec.Stuck(result.Reason))
			return nil
		}

		// Subject matches the logical commit so rebase --autosquash folds
		// the repair into it.
		hash, err := c.Git.CommitAll("fixup! " + commit.Message)
		if err != nil {
			return fmt.Errorf("repair commit for %q: %w", commit.Message, err)
		}
		commit.Append(histspec.CommitCreated(hash))
		c.Reporter.Status(fmt.Sprintf("created repair %s (%s)", hash, step))
	}
}

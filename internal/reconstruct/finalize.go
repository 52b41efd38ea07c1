package reconstruct

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikomatsakis/retcon/internal/agent"
	"github.com/nikomatsakis/retcon/internal/logging"
	"github.com/nikomatsakis/retcon/internal/prompt"
)

// CatchAllMessage labels the forced commit that sweeps up whatever the
// model could not categorize during finalization.
const CatchAllMessage = "Uncategorized changes"

// finalize reconciles the cleaned branch with the source branch once every
// planned commit is complete. The model distributes leftovers into fixup
// commits through the record-fixup operation; anything still differing
// afterwards is force-copied from the source branch so the two trees end
// identical.
func (c *Controller) finalize(ctx context.Context) error {
	diff, err := c.Git.Diff(c.Spec.Cleaned, c.Spec.Source)
	if err != nil {
		return fmt.Errorf("finalize diff: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		return nil
	}

	c.Reporter.Status("distributing leftover changes into fixup commits")

	messages := make([]string, len(c.Spec.Commits))
	for i := range c.Spec.Commits {
		messages[i] = c.Spec.Commits[i].Message
	}

	finalizePrompt := prompt.BuildFinalizePrompt(messages, diff)
	result, err := c.Conn.Run(ctx, agent.Request{
		Prompt: finalizePrompt,
		Ops:    []agent.Op{c.recordFixupOp()},
	})
	if err != nil {
		return fmt.Errorf("finalize turn: %w", err)
	}
	if result.IsStuck() {
		// Not fatal: the forced pass below still guarantees tree
		// equivalence.
		logging.Warn(fmt.Sprintf("model could not categorize leftovers: %s", result.Reason))
	}

	paths, err := c.Git.DiffNameOnly(c.Spec.Cleaned, c.Spec.Source)
	if err != nil {
		return fmt.Errorf("finalize diff: %w", err)
	}
	if len(paths) == 0 {
		return nil
	}

	if err := c.Git.CheckoutPathsFrom(c.Spec.Source, paths...); err != nil {
		return fmt.Errorf("copy leftover paths: %w", err)
	}
	hash, err := c.Git.CommitAll(CatchAllMessage)
	if err != nil {
		return fmt.Errorf("catch-all commit: %w", err)
	}
	logging.Warn(fmt.Sprintf("created catch-all commit %s; redistribute its changes by hand", hash))
	return nil
}

// recordFixupOp is the mid-turn operation handed to the model during
// finalization. CLI-backed connections render its command line into the
// prompt; in-process connections call Run directly.
func (c *Controller) recordFixupOp() agent.Op {
	return agent.Op{
		Name:        "record-fixup",
		Description: "Stage all current changes and commit them as a fixup labeled with the target commit's number and message.",
		Command:     fmt.Sprintf("retcon record-fixup --plan %s --commit <n>", c.PlanPath),
		Run: func(n int) error {
			_, err := RecordFixup(c.Git, c.Spec, n)
			return err
		},
	}
}

package reconstruct

import (
	"fmt"

	"github.com/nikomatsakis/retcon/internal/histspec"
)

// FixupMessage builds the full commit message for a grouped fixup targeting
// the plan's n-th commit (1-based). The subject lets rebase --autosquash
// fold it automatically; the body names the target for human readers.
func FixupMessage(spec *histspec.Specification, n int) (string, error) {
	if n < 1 || n > len(spec.Commits) {
		return "", fmt.Errorf("commit %d out of range: plan has %d commits", n, len(spec.Commits))
	}
	return fmt.Sprintf("fixup! %s\n\nReapply to commit #%d.", spec.Commits[n-1].Message, n), nil
}

// RecordFixup stages everything in the working tree and commits it as a
// fixup for the plan's n-th commit. The model invokes this mid-finalization,
// either in process or through the record-fixup subcommand.
func RecordFixup(git GitOps, spec *histspec.Specification, n int) (string, error) {
	msg, err := FixupMessage(spec, n)
	if err != nil {
		return "", err
	}
	hash, err := git.CommitAll(msg)
	if err != nil {
		return "", fmt.Errorf("record fixup for commit %d: %w", n, err)
	}
	return hash, nil
}

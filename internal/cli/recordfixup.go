package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nikomatsakis/retcon/internal/gitrepo"
	"github.com/nikomatsakis/retcon/internal/histspec"
	"github.com/nikomatsakis/retcon/internal/reconstruct"
)

// newRecordFixupCmd is the out-of-process channel for the finalization
// operation: the model invokes it to commit the leftover changes it just
// grouped as a fixup for one planned commit. Hidden because it is not part
// of the operator surface.
func newRecordFixupCmd() *cobra.Command {
	var (
		planPath  string
		commitNum int
	)

	cmd := &cobra.Command{
		Use:    "record-fixup",
		Short:  "Commit all current changes as a fixup for a planned commit",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPlan, err := filepath.Abs(planPath)
			if err != nil {
				return fmt.Errorf("resolve plan path: %w", err)
			}
			spec, err := histspec.Load(absPlan)
			if err != nil {
				return err
			}
			repo, err := gitrepo.DiscoverRoot(&gitrepo.ExecGit{}, filepath.Dir(absPlan))
			if err != nil {
				return err
			}
			hash, err := reconstruct.RecordFixup(repo, spec, commitNum)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded fixup %s for commit #%d\n", hash, commitNum)
			return nil
		},
	}

	cmd.Flags().StringVar(&planPath, "plan", "", "Path to the plan file")
	cmd.Flags().IntVar(&commitNum, "commit", 0, "Planned commit number (1-based)")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("commit")

	return cmd
}

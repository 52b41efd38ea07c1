package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikomatsakis/retcon/internal/prompt"
)

// newPromptCmd prints the plan-authoring guidance. The text is written for
// a model but reads fine for a human; pipe it into a claude session along
// with the messy branch to get a first draft of the plan.
func newPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Print guidance for authoring a reconstruction plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), prompt.Guidance)
			return err
		},
	}
}

// Package cli assembles the retcon command tree: prompt, execute, and the
// hidden record-fixup channel used by the model during finalization.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikomatsakis/retcon/internal/exitcode"
	"github.com/nikomatsakis/retcon/internal/logging"
	sighandler "github.com/nikomatsakis/retcon/internal/signal"
)

// version vars injected by main from ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersion records build metadata for --version. Call before Execute.
func SetVersion(v, c, d string) {
	version, commit, date = v, c, d
}

// NewRootCmd builds the retcon command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "retcon",
		Short: "Reconstruct a clean git history from a messy branch",
		Long: `retcon rebuilds a readable git history from a branch of tangled work.

A plan file lists the commits the history should have had. retcon walks them
in order, asking a model to extract each commit's changes from the messy
branch, verifying the result builds and tests, and recording progress in the
plan file itself so a run can stop and resume at any point.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newPromptCmd())
	rootCmd.AddCommand(newExecuteCmd())
	rootCmd.AddCommand(newRecordFixupCmd())

	return rootCmd
}

// Execute runs the CLI and returns the process exit code. A clean stuck
// halt is a success; only fatal errors exit non-zero.
func Execute() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sighandler.SetupSignalHandler(ctx, cancel, func() {
		logging.Warn("Interrupted; stopping. The plan file holds all progress so far")
	})

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return exitcode.Interrupted
		}
		logging.Error(err.Error())
		return exitcode.Error
	}
	if ctx.Err() != nil {
		return exitcode.Interrupted
	}
	return exitcode.Success
}

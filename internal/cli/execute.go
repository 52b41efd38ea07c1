package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikomatsakis/retcon/internal/agent"
	"github.com/nikomatsakis/retcon/internal/config"
	"github.com/nikomatsakis/retcon/internal/gitrepo"
	"github.com/nikomatsakis/retcon/internal/histspec"
	"github.com/nikomatsakis/retcon/internal/logging"
	"github.com/nikomatsakis/retcon/internal/reconstruct"
	"github.com/nikomatsakis/retcon/internal/report"
	"github.com/nikomatsakis/retcon/internal/verify"
)

// executeFlags is raw flag storage for the execute command. Values only
// reach the config when the flag was explicitly set; see overridesFromFlags.
type executeFlags struct {
	buildCommand string
	testCommand  string
	skipBuild    bool
	skipTest     bool
	model        string
	modelTimeout int
	maxRetries   int
	maxRepairs   int
	configFile   string
	verbose      bool
}

func newExecuteCmd() *cobra.Command {
	var ef executeFlags

	cmd := &cobra.Command{
		Use:   "execute <plan.yaml>",
		Short: "Run the reconstruction described by a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args[0], &ef)
		},
	}
	bindExecuteFlags(cmd, &ef)

	return cmd
}

// bindExecuteFlags registers the execute command's flags on cmd, bound to ef.
func bindExecuteFlags(cmd *cobra.Command, ef *executeFlags) {
	defaults := config.NewDefault()
	flags := cmd.Flags()
	flags.StringVar(&ef.buildCommand, "build-command", defaults.BuildCommand, "Build verification command")
	flags.StringVar(&ef.testCommand, "test-command", defaults.TestCommand, "Test verification command")
	flags.BoolVar(&ef.skipBuild, "skip-build", false, "Skip build verification")
	flags.BoolVar(&ef.skipTest, "skip-test", false, "Skip test verification")
	flags.StringVar(&ef.model, "model", defaults.Model, "Model passed to the claude CLI")
	flags.IntVar(&ef.modelTimeout, "model-timeout", defaults.ModelTimeout, "Seconds allowed per model turn (0 = no limit)")
	flags.IntVar(&ef.maxRetries, "max-retries", defaults.MaxRetries, "Transport retries per model turn")
	flags.IntVar(&ef.maxRepairs, "max-repairs", defaults.MaxRepairs, "Repair commits allowed per verification step")
	flags.StringVar(&ef.configFile, "config", "", "Config file (default: "+config.FileName+" in the repo root)")
	flags.BoolVarP(&ef.verbose, "verbose", "v", false, "Debug logging; also passes --verbose to the claude CLI")
}

// overridesFromFlags converts explicitly-set flags into config overrides.
// Changed() keeps untouched flags from clobbering config-file values with
// their built-in defaults.
func overridesFromFlags(cmd *cobra.Command, ef *executeFlags) config.Overrides {
	var ov config.Overrides
	fl := cmd.Flags()
	if fl.Changed("build-command") {
		ov.BuildCommand = &ef.buildCommand
	}
	if fl.Changed("test-command") {
		ov.TestCommand = &ef.testCommand
	}
	if fl.Changed("skip-build") {
		ov.SkipBuild = &ef.skipBuild
	}
	if fl.Changed("skip-test") {
		ov.SkipTest = &ef.skipTest
	}
	if fl.Changed("model") {
		ov.Model = &ef.model
	}
	if fl.Changed("model-timeout") {
		ov.ModelTimeout = &ef.modelTimeout
	}
	if fl.Changed("max-retries") {
		ov.MaxRetries = &ef.maxRetries
	}
	if fl.Changed("max-repairs") {
		ov.MaxRepairs = &ef.maxRepairs
	}
	if fl.Changed("verbose") {
		ov.Verbose = &ef.verbose
	}
	return ov
}

func runExecute(cmd *cobra.Command, planPath string, ef *executeFlags) error {
	absPlan, err := filepath.Abs(planPath)
	if err != nil {
		return fmt.Errorf("resolve plan path: %w", err)
	}

	spec, err := histspec.Load(absPlan)
	if err != nil {
		return err
	}

	// The plan lives inside (or beside) the repository it describes.
	repo, err := gitrepo.DiscoverRoot(&gitrepo.ExecGit{}, filepath.Dir(absPlan))
	if err != nil {
		return err
	}

	cfg, err := config.LoadWithOverrides(repo.Root(), ef.configFile, overridesFromFlags(cmd, ef))
	if err != nil {
		return err
	}
	logging.SetVerbose(cfg.Verbose)

	if !agent.Available("claude") {
		return fmt.Errorf("claude CLI not found on PATH")
	}

	conn := &agent.RetryConnection{
		Inner: &agent.ClaudeConnection{
			Model:   cfg.Model,
			Root:    repo.Root(),
			Timeout: cfg.ModelTimeout,
			Verbose: cfg.Verbose,
		},
		RetryCfg: agent.RetryConfig{
			MaxRetries: cfg.MaxRetries,
			OnRetry: func(attempt, delay int) {
				logging.Warn(fmt.Sprintf("model turn failed; retry %d in %ds", attempt, delay))
			},
			OnRateLimit: func(wait int) {
				logging.Warn(fmt.Sprintf("rate limited; waiting %s", logging.FormatDuration(wait)))
			},
		},
	}

	reporter := report.NewConsole()
	ctrl := &reconstruct.Controller{
		Git:          repo,
		Conn:         conn,
		Verifier:     &verify.ExecRunner{},
		Reporter:     reporter,
		Spec:         spec,
		PlanPath:     absPlan,
		BuildCommand: cfg.EffectiveBuildCommand(),
		TestCommand:  cfg.EffectiveTestCommand(),
		MaxRepairs:   cfg.MaxRepairs,
	}

	start := time.Now()
	outcome, err := ctrl.Run(cmd.Context())
	if err != nil {
		return err
	}

	if !outcome.AllComplete {
		// A stuck halt is a designed checkpoint, not a failure: exit zero
		// after telling the operator exactly how to continue.
		stuck := spec.Commits[outcome.StuckIndex]
		reporter.StuckHalt(absPlan, outcome.StuckIndex+1, stuck.Message, outcome.StuckReason)
		return nil
	}

	reporter.Completion(len(spec.Commits), int(time.Since(start).Seconds()))
	return nil
}

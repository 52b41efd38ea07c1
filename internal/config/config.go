// Package config defines the retcon configuration model and default values.
//
// Configuration is assembled from sources with a strict precedence chain:
// built-in defaults < optional .retcon.yaml (from the repository root, or an
// explicit --config path) < explicitly-set CLI flags.
package config

// FileName is the optional per-repository config file, looked up in the
// repository root.
const FileName = ".retcon.yaml"

// Config holds every configuration field for the retcon CLI.
type Config struct {
	// Verification commands, run from the repository root and split on
	// whitespace. An empty command skips the step, as do the skip flags.
	BuildCommand string `yaml:"build_command"`
	TestCommand  string `yaml:"test_command"`
	SkipBuild    bool   `yaml:"skip_build"`
	SkipTest     bool   `yaml:"skip_test"`

	// Model selection and turn limits.
	Model        string `yaml:"model"`
	ModelTimeout int    `yaml:"model_timeout"` // seconds per turn; 0 disables
	MaxRetries   int    `yaml:"max_retries"`   // transport retries per turn
	MaxRepairs   int    `yaml:"max_repairs"`   // repair commits per verification step

	// Verbose enables debug logging and the claude CLI's own --verbose.
	Verbose bool `yaml:"verbose"`
}

// NewDefault returns a Config populated with all built-in default values.
func NewDefault() *Config {
	return &Config{
		BuildCommand: "go build ./...",
		TestCommand:  "go test ./...",
		Model:        "opus",
		MaxRetries:   3,
		MaxRepairs:   5,
	}
}

// EffectiveBuildCommand is the build verification command, empty when the
// step is skipped.
func (c *Config) EffectiveBuildCommand() string {
	if c.SkipBuild {
		return ""
	}
	return c.BuildCommand
}

// EffectiveTestCommand is the test verification command, empty when the
// step is skipped.
func (c *Config) EffectiveTestCommand() string {
	if c.SkipTest {
		return ""
	}
	return c.TestCommand
}

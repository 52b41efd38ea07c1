package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load parses the YAML config file at path on top of the built-in defaults.
// Fields absent from the file keep their defaults; unknown keys are ignored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := NewDefault()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDir loads FileName from dir when present and returns plain defaults
// when it is not. Any other failure (unreadable file, bad YAML) is an error.
func LoadDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDefault(), nil
		}
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	return Load(path)
}

// Overrides carries explicitly-set CLI flag values. A nil field was not set
// on the command line and leaves the file value (or default) in place.
type Overrides struct {
	BuildCommand *string
	TestCommand  *string
	SkipBuild    *bool
	SkipTest     *bool
	Model        *string
	ModelTimeout *int
	MaxRetries   *int
	MaxRepairs   *int
	Verbose      *bool
}

// LoadWithOverrides assembles the effective configuration by merging sources
// in order of increasing priority:
//
//  1. Built-in defaults
//  2. Config file: explicitPath when given (must exist), otherwise the
//     optional FileName under dir
//  3. Explicitly-set CLI flags
func LoadWithOverrides(dir, explicitPath string, ov Overrides) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if explicitPath != "" {
		cfg, err = Load(explicitPath)
	} else {
		cfg, err = LoadDir(dir)
	}
	if err != nil {
		return nil, err
	}
	ov.apply(cfg)
	return cfg, nil
}

func (o Overrides) apply(cfg *Config) {
	if o.BuildCommand != nil {
		cfg.BuildCommand = *o.BuildCommand
	}
	if o.TestCommand != nil {
		cfg.TestCommand = *o.TestCommand
	}
	if o.SkipBuild != nil {
		cfg.SkipBuild = *o.SkipBuild
	}
	if o.SkipTest != nil {
		cfg.SkipTest = *o.SkipTest
	}
	if o.Model != nil {
		cfg.Model = *o.Model
	}
	if o.ModelTimeout != nil {
		cfg.ModelTimeout = *o.ModelTimeout
	}
	if o.MaxRetries != nil {
		cfg.MaxRetries = *o.MaxRetries
	}
	if o.MaxRepairs != nil {
		cfg.MaxRepairs = *o.MaxRepairs
	}
	if o.Verbose != nil {
		cfg.Verbose = *o.Verbose
	}
}

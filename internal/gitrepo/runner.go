// Package gitrepo wraps the git operations the reconstruction needs.
//
// Every mutation of the working tree during a run is made either by git
// itself or by the model's agent process, so the git binary is the single
// authority on repository state; nothing here caches tree or index data.
package gitrepo

import (
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git commands. Interface for testing.
type Runner interface {
	Run(dir string, args ...string) (string, error)
}

// ExecGit implements Runner using the git binary.
type ExecGit struct{}

func (g *ExecGit) Run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

package gitrepo

import (
	"fmt"
	"strings"
)

// shortHashLen is how much of a commit hash the plan document records.
const shortHashLen = 8

// Repo runs git operations against one repository root. All failures are
// fatal to the run; there is no retry here.
type Repo struct {
	git  Runner
	root string
}

// New creates a Repo rooted at root.
func New(git Runner, root string) *Repo {
	return &Repo{git: git, root: root}
}

// DiscoverRoot locates the repository containing path and returns a Repo
// rooted there.
func DiscoverRoot(git Runner, path string) (*Repo, error) {
	out, err := git.Run(path, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("discover repository from %s: %w", path, err)
	}
	return &Repo{git: git, root: out}, nil
}

// Root returns the repository root directory.
func (r *Repo) Root() string { return r.root }

// RefExists reports whether ref resolves to anything.
func (r *Repo) RefExists(ref string) bool {
	_, err := r.git.Run(r.root, "rev-parse", "--verify", "--quiet", ref)
	return err == nil
}

// MergeBase returns the most recent common ancestor of two refs.
func (r *Repo) MergeBase(a, b string) (string, error) {
	out, err := r.git.Run(r.root, "merge-base", a, b)
	if err != nil {
		return "", fmt.Errorf("merge-base %s %s: %w", a, b, err)
	}
	return out, nil
}

// Checkout checks out an existing ref.
func (r *Repo) Checkout(ref string) error {
	if _, err := r.git.Run(r.root, "checkout", ref); err != nil {
		return fmt.Errorf("checkout %s: %w", ref, err)
	}
	return nil
}

// CheckoutNewBranch creates branch name at start and checks it out.
func (r *Repo) CheckoutNewBranch(name, start string) error {
	if _, err := r.git.Run(r.root, "checkout", "-b", name, start); err != nil {
		return fmt.Errorf("create branch %s at %s: %w", name, start, err)
	}
	return nil
}

// Diff returns the textual difference between two refs.
func (r *Repo) Diff(from, to string) (string, error) {
	out, err := r.git.Run(r.root, "diff", fmt.Sprintf("%s..%s", from, to))
	if err != nil {
		return "", fmt.Errorf("diff %s..%s: %w", from, to, err)
	}
	return out, nil
}

// DiffNameOnly returns the paths that differ between two refs.
func (r *Repo) DiffNameOnly(from, to string) ([]string, error) {
	out, err := r.git.Run(r.root, "diff", "--name-only", fmt.Sprintf("%s..%s", from, to))
	if err != nil {
		return nil, fmt.Errorf("diff --name-only %s..%s: %w", from, to, err)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// CheckoutPathsFrom takes the content of specific paths from ref.
func (r *Repo) CheckoutPathsFrom(ref string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"checkout", ref, "--"}, paths...)
	if _, err := r.git.Run(r.root, args...); err != nil {
		return fmt.Errorf("checkout paths from %s: %w", ref, err)
	}
	return nil
}

// CommitAll stages every current change and commits it with message,
// returning the new commit's short hash.
func (r *Repo) CommitAll(message string) (string, error) {
	if _, err := r.git.Run(r.root, "add", "-A"); err != nil {
		return "", fmt.Errorf("stage changes: %w", err)
	}
	if _, err := r.git.Run(r.root, "commit", "-m", message); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return r.HeadShort()
}

// HeadShort returns the first 8 characters of the HEAD commit hash.
func (r *Repo) HeadShort() (string, error) {
	out, err := r.git.Run(r.root, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if len(out) > shortHashLen {
		out = out[:shortHashLen]
	}
	return out, nil
}

package agent

import "os/exec"

// Available reports whether the named CLI tool can be found on PATH. Used
// as a preflight so a run fails before touching any branches.
func Available(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

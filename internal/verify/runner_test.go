package verify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript drops an executable shell script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755)
	require.NoError(t, err, "should write helper script")
	return path
}

func TestRunPassingCommand(t *testing.T) {
	runner := &ExecRunner{}

	res, err := runner.Run(context.Background(), t.TempDir(), "echo hello")

	require.NoError(t, err)
	assert.True(t, res.Passed, "zero exit should pass")
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Output)
}

func TestRunSplitsOnWhitespace(t *testing.T) {
	runner := &ExecRunner{}

	res, err := runner.Run(context.Background(), t.TempDir(), "echo   one \t two")

	require.NoError(t, err)
	assert.Equal(t, "one two\n", res.Output, "runs of whitespace separate arguments")
}

func TestRunUsesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	runner := &ExecRunner{}
	res, err := runner.Run(context.Background(), dir, "pwd")

	require.NoError(t, err)
	assert.Equal(t, resolved, strings.TrimSpace(res.Output))
}

func TestRunFailureIsDataNotError(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "failing-check", "echo build output\necho details on stderr 1>&2\nexit 3\n")

	runner := &ExecRunner{}
	res, err := runner.Run(context.Background(), dir, script)

	require.NoError(t, err, "non-zero exit is not an error")
	assert.False(t, res.Passed)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output, "build output", "stdout should be captured")
	assert.Contains(t, res.Output, "details on stderr", "stderr should be merged in")
}

func TestRunMissingBinaryIsError(t *testing.T) {
	runner := &ExecRunner{}
	missing := filepath.Join(t.TempDir(), "no-such-binary")

	res, err := runner.Run(context.Background(), t.TempDir(), missing)

	require.Error(t, err, "launch failure should be an error")
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), missing)
}

func TestRunEmptyCommandIsError(t *testing.T) {
	runner := &ExecRunner{}

	res, err := runner.Run(context.Background(), t.TempDir(), "   ")

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "empty verification command")
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	runner := &ExecRunner{}
	res, err := runner.Run(ctx, t.TempDir(), "sleep 10")

	require.Error(t, err, "killed-by-cancellation is an error, not a failed check")
	assert.Nil(t, res)
}

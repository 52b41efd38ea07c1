package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaudeConnection_BuildArgs(t *testing.T) {
	testCases := []struct {
		name     string
		conn     ClaudeConnection
		prompt   string
		validate func(t *testing.T, args []string)
	}{
		{
			name:   "includes --print flag",
			conn:   ClaudeConnection{Model: "opus"},
			prompt: "test prompt",
			validate: func(t *testing.T, args []string) {
				assert.Contains(t, args, "--print")
			},
		},
		{
			name:   "includes --dangerously-skip-permissions",
			conn:   ClaudeConnection{Model: "opus"},
			prompt: "test prompt",
			validate: func(t *testing.T, args []string) {
				assert.Contains(t, args, "--dangerously-skip-permissions")
			},
		},
		{
			name:   "includes --model with configured value",
			conn:   ClaudeConnection{Model: "sonnet"},
			prompt: "test prompt",
			validate: func(t *testing.T, args []string) {
				idx := indexOf(args, "--model")
				require.GreaterOrEqual(t, idx, 0)
				require.Greater(t, len(args), idx+1, "--model should have a value")
				assert.Equal(t, "sonnet", args[idx+1])
			},
		},
		{
			name:   "output format is stream-json",
			conn:   ClaudeConnection{Model: "opus"},
			prompt: "test prompt",
			validate: func(t *testing.T, args []string) {
				idx := indexOf(args, "--output-format")
				require.GreaterOrEqual(t, idx, 0)
				require.Greater(t, len(args), idx+1)
				assert.Equal(t, "stream-json", args[idx+1])
			},
		},
		{
			name:   "no --verbose by default",
			conn:   ClaudeConnection{Model: "opus"},
			prompt: "test prompt",
			validate: func(t *testing.T, args []string) {
				assert.NotContains(t, args, "--verbose")
			},
		},
		{
			name:   "--verbose present when enabled",
			conn:   ClaudeConnection{Model: "opus", Verbose: true},
			prompt: "test prompt",
			validate: func(t *testing.T, args []string) {
				assert.Contains(t, args, "--verbose")
			},
		},
		{
			name:   "prompt is the final argument",
			conn:   ClaudeConnection{Model: "opus", Verbose: true},
			prompt: "apply only the loader changes",
			validate: func(t *testing.T, args []string) {
				require.NotEmpty(t, args)
				assert.Equal(t, "apply only the loader changes", args[len(args)-1])
			},
		},
		{
			name:   "prompt with special characters survives",
			conn:   ClaudeConnection{Model: "opus"},
			prompt: `diff has "quotes" and $vars and 'apostrophes'`,
			validate: func(t *testing.T, args []string) {
				assert.Contains(t, args, `diff has "quotes" and $vars and 'apostrophes'`)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := tc.conn.BuildArgs(tc.prompt)
			require.NotEmpty(t, args)
			tc.validate(t, args)
		})
	}
}

func TestRenderOps(t *testing.T) {
	ops := []Op{
		{
			Name:        "record-fixup",
			Description: "Commit the current changes as a fixup for one planned commit.",
			Command:     "retcon record-fixup --plan /work/plan.yaml --commit <n>",
		},
	}

	text := renderOps(ops)

	assert.Contains(t, text, "AVAILABLE OPERATIONS")
	assert.Contains(t, text, "record-fixup:")
	assert.Contains(t, text, "Invoke by running: retcon record-fixup --plan /work/plan.yaml --commit <n>")
}

// fakeClaude installs a shell script named "claude" at the front of PATH.
func fakeClaude(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake claude script requires /bin/sh")
	}

	binDir := t.TempDir()
	path := filepath.Join(binDir, "claude")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	t.Setenv("PATH", binDir+":"+os.Getenv("PATH"))
}

func TestClaudeConnectionRun_Success(t *testing.T) {
	fakeClaude(t, `printf '%s\n' '{"type":"assistant","message":{"content":[{"type":"text","text":"Applied edits.\n\n{\"RETCON_RESULT\": {\"status\": \"success\", \"reason\": \"\"}}"}]}}'`)

	conn := &ClaudeConnection{Model: "opus", Root: t.TempDir()}
	result, err := conn.Run(context.Background(), Request{Prompt: "extract"})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.False(t, result.IsStuck())
}

func TestClaudeConnectionRun_Stuck(t *testing.T) {
	fakeClaude(t, `echo '{"type":"assistant","message":{"content":[{"type":"text","text":"{\"RETCON_RESULT\": {\"status\": \"stuck\", \"reason\": \"nothing in the diff matches\"}}"}]}}'`)

	conn := &ClaudeConnection{Model: "opus", Root: t.TempDir()}
	result, err := conn.Run(context.Background(), Request{Prompt: "extract"})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsStuck())
	assert.Equal(t, "nothing in the diff matches", result.Reason)
}

func TestClaudeConnectionRun_MissingVerdict(t *testing.T) {
	fakeClaude(t, `echo '{"type":"result","result":"I did some things but forgot the block"}'`)

	conn := &ClaudeConnection{Model: "opus", Root: t.TempDir()}
	result, err := conn.Run(context.Background(), Request{Prompt: "extract"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "RETCON_RESULT")
}

func TestClaudeConnectionRun_InvalidVerdict(t *testing.T) {
	// Stuck without a reason violates the schema.
	fakeClaude(t, `echo '{"type":"result","result":"{\"RETCON_RESULT\": {\"status\": \"stuck\", \"reason\": \"\"}}"}'`)

	conn := &ClaudeConnection{Model: "opus", Root: t.TempDir()}
	_, err := conn.Run(context.Background(), Request{Prompt: "extract"})

	require.Error(t, err)
}

func TestClaudeConnectionRun_RateLimited(t *testing.T) {
	fakeClaude(t, `echo '{"type":"result","result":"rate limit exceeded"}'
exit 1`)

	conn := &ClaudeConnection{Model: "opus", Root: t.TempDir()}
	_, err := conn.Run(context.Background(), Request{Prompt: "extract"})

	require.Error(t, err)
	var rlErr *RateLimitError
	assert.True(t, errors.As(err, &rlErr), "should surface as RateLimitError")
}

func TestClaudeConnectionRun_CommandMissing(t *testing.T) {
	// PATH with no claude binary at all.
	t.Setenv("PATH", t.TempDir())

	conn := &ClaudeConnection{Model: "opus", Root: t.TempDir()}
	_, err := conn.Run(context.Background(), Request{Prompt: "extract"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "claude command failed")
}

func TestClaudeConnectionRun_RunsInRoot(t *testing.T) {
	// The subprocess must run inside the repository so file edits land there.
	fakeClaude(t, `touch turn-marker
echo '{"type":"result","result":"{\"RETCON_RESULT\": {\"status\": \"success\", \"reason\": \"\"}}"}'`)

	root := t.TempDir()
	conn := &ClaudeConnection{Model: "opus", Root: root}
	_, err := conn.Run(context.Background(), Request{Prompt: "extract"})

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "turn-marker"))
}

func TestClaudeConnectionRun_Timeout(t *testing.T) {
	fakeClaude(t, `sleep 3
echo '{"type":"result","result":"too late"}'`)

	conn := &ClaudeConnection{Model: "opus", Root: t.TempDir(), Timeout: 1}
	_, err := conn.Run(context.Background(), Request{Prompt: "extract"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestClaudeConnectionRun_OpsAppendedToPrompt(t *testing.T) {
	// The fake writes its final argument (the prompt) into the working
	// directory, making the rendered ops observable.
	fakeClaude(t, `for arg in "$@"; do last="$arg"; done
printf '%s' "$last" > prompt-capture.txt
echo '{"type":"result","result":"{\"RETCON_RESULT\": {\"status\": \"done\", \"reason\": \"\"}}"}'`)

	root := t.TempDir()
	conn := &ClaudeConnection{Model: "opus", Root: root}
	op := Op{
		Name:        "record-fixup",
		Description: "Record a fixup.",
		Command:     "retcon record-fixup --plan p.yaml --commit <n>",
	}
	result, err := conn.Run(context.Background(), Request{Prompt: "finalize the branch", Ops: []Op{op}})

	require.NoError(t, err)
	assert.Equal(t, StatusDone, result.Status)

	captured, err := os.ReadFile(filepath.Join(root, "prompt-capture.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(captured), "finalize the branch")
	assert.Contains(t, string(captured), "AVAILABLE OPERATIONS")
	assert.Contains(t, string(captured), "retcon record-fixup --plan p.yaml --commit <n>")
}

// indexOf returns the index of the first occurrence of s, or -1.
func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}

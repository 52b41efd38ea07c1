package histspec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `source: messy-work
remote: origin/main
cleaned: messy-work-cleaned
commits:
    - message: Add config loader
      hints: only the loader files, not the CLI wiring
      history:
          - commit_created: 1a2b3c4d
          - complete
    - message: Wire loader into startup
      history:
          - stuck: could not extract changes
          - resolved: split the shared diff by hand, loader half only
    - message: Add loader tests
`

// TestParse validates field mapping and the defaults for absent optional
// fields.
func TestParse(t *testing.T) {
	spec, err := Parse([]byte(samplePlan))
	require.NoError(t, err, "sample plan should parse")

	assert.Equal(t, "messy-work", spec.Source)
	assert.Equal(t, "origin/main", spec.Remote)
	assert.Equal(t, "messy-work-cleaned", spec.Cleaned)
	require.Len(t, spec.Commits, 3)

	first := spec.Commits[0]
	assert.Equal(t, "Add config loader", first.Message)
	assert.Equal(t, "only the loader files, not the CLI wiring", first.Hints)
	require.Len(t, first.History, 2)
	assert.Equal(t, CommitCreated("1a2b3c4d"), first.History[0])
	assert.Equal(t, Complete(), first.History[1])

	second := spec.Commits[1]
	assert.Empty(t, second.Hints, "absent hints should default to empty")
	require.Len(t, second.History, 2)
	assert.Equal(t, StatusResolved, second.Status())

	third := spec.Commits[2]
	assert.Empty(t, third.History, "absent history should default to empty")
	assert.Equal(t, StatusPending, third.Status())
}

// TestParseIgnoresUnknownFields validates that extra document fields are
// tolerated rather than fatal.
func TestParseIgnoresUnknownFields(t *testing.T) {
	doc := `source: a
remote: b
cleaned: c
notes: scratch space the tool does not own
commits:
    - message: only commit
`
	spec, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "a", spec.Source)
	require.Len(t, spec.Commits, 1)
}

// TestParseErrors validates that undecodable or invalid documents are format
// errors.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "source: [unclosed"},
		{"missing source", "remote: b\ncleaned: c\ncommits:\n    - message: m\n"},
		{"missing remote", "source: a\ncleaned: c\ncommits:\n    - message: m\n"},
		{"missing cleaned", "source: a\nremote: b\ncommits:\n    - message: m\n"},
		{"commit without message", "source: a\nremote: b\ncleaned: c\ncommits:\n    - hints: h\n"},
		{"unknown history tag", "source: a\nremote: b\ncleaned: c\ncommits:\n    - message: m\n      history:\n          - skipped: nope\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err, "document should be rejected")
		})
	}
}

// TestMarshalWireShape validates the stable spellings on disk.
func TestMarshalWireShape(t *testing.T) {
	spec := &Specification{
		Source:  "messy-work",
		Remote:  "origin/main",
		Cleaned: "messy-work-cleaned",
		Commits: []CommitSpec{
			{
				Message: "Add config loader",
				History: []HistoryEntry{CommitCreated("1a2b3c4d"), Complete()},
			},
			{Message: "Add loader tests"},
		},
	}

	data, err := Marshal(spec)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "source: messy-work")
	assert.Contains(t, text, "remote: origin/main")
	assert.Contains(t, text, "cleaned: messy-work-cleaned")
	assert.Contains(t, text, "- commit_created: 1a2b3c4d")
	assert.Contains(t, text, "- complete")
	assert.NotContains(t, text, "hints:", "empty hints should be omitted")

	// The second commit has no history yet; the key should be absent so the
	// document stays hand-editable without noise.
	assert.Equal(t, 1, strings.Count(text, "history:"))
}

// TestRoundTrip validates that serialize(parse(text)) re-parses to an equal
// value: same branches, same messages, hints, and history in order.
func TestRoundTrip(t *testing.T) {
	spec, err := Parse([]byte(samplePlan))
	require.NoError(t, err)

	data, err := Marshal(spec)
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, spec, back, "round-trip should preserve every field")
}

// TestSaveLoad validates persistence through the filesystem.
func TestSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plan.yaml")

	spec, err := Parse([]byte(samplePlan))
	require.NoError(t, err)

	require.NoError(t, Save(spec, path), "save should succeed")

	loaded, err := Load(path)
	require.NoError(t, err, "load should succeed")
	assert.Equal(t, spec, loaded)
}

// TestSaveAfterAppend mimics the controller's persist-after-every-attempt
// contract: an appended entry must survive a save/load cycle.
func TestSaveAfterAppend(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plan.yaml")

	spec, err := Parse([]byte(samplePlan))
	require.NoError(t, err)

	spec.Commits[2].Append(CommitCreated("feedc0de"))
	spec.Commits[2].Append(Complete())
	require.NoError(t, Save(spec, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Commits[2].History, 2)
	assert.Equal(t, CommitCreated("feedc0de"), loaded.Commits[2].History[0])
	assert.True(t, loaded.Commits[2].IsComplete())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read plan file")
}

func TestLoadInvalidDocument(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commits: 12"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), path, "error should name the offending file")
}

func TestSaveToUnwritablePath(t *testing.T) {
	spec := &Specification{Source: "a", Remote: "b", Cleaned: "c"}
	err := Save(spec, filepath.Join(t.TempDir(), "missing-dir", "plan.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "write plan file")
}

package histspec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// EntryKind is the tag of a history entry.
type EntryKind string

// History entry tags. These spellings are the document's stable contract:
// hand-edits (the unstick procedure) depend on them.
const (
	KindCommitCreated EntryKind = "commit_created"
	KindStuck         EntryKind = "stuck"
	KindResolved      EntryKind = "resolved"
	KindComplete      EntryKind = "complete"
)

// HistoryEntry is one tagged record in a commit's append-only history.
//
// On the wire a completion marker is the bare string "complete"; the other
// kinds are single-key maps, e.g. "commit_created: 1a2b3c4d".
type HistoryEntry struct {
	Kind EntryKind
	// Detail carries the commit hash, stuck reason, or resolution note.
	// Empty for complete entries.
	Detail string
}

// CommitCreated records that a version-control commit (main or repair) was
// created with the given hash.
func CommitCreated(hash string) HistoryEntry {
	return HistoryEntry{Kind: KindCommitCreated, Detail: hash}
}

// Stuck records that the model declared it cannot proceed.
func Stuck(reason string) HistoryEntry {
	return HistoryEntry{Kind: KindStuck, Detail: reason}
}

// Resolved records human-supplied context unblocking a stuck commit.
func Resolved(note string) HistoryEntry {
	return HistoryEntry{Kind: KindResolved, Detail: note}
}

// Complete marks the commit finished.
func Complete() HistoryEntry {
	return HistoryEntry{Kind: KindComplete}
}

// String renders the entry in its wire form.
func (e HistoryEntry) String() string {
	if e.Kind == KindComplete {
		return string(KindComplete)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// MarshalYAML serializes complete entries as a bare scalar and all other
// kinds as a single-key map.
func (e HistoryEntry) MarshalYAML() (interface{}, error) {
	switch e.Kind {
	case KindComplete:
		return string(KindComplete), nil
	case KindCommitCreated, KindStuck, KindResolved:
		return map[string]string{string(e.Kind): e.Detail}, nil
	default:
		return nil, fmt.Errorf("unknown history entry kind %q", e.Kind)
	}
}

// UnmarshalYAML accepts either the bare "complete" scalar or a single-key
// map tagged commit_created, stuck, or resolved. Anything else is a format
// error.
func (e *HistoryEntry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value != string(KindComplete) {
			return fmt.Errorf("line %d: unknown history entry %q", value.Line, value.Value)
		}
		*e = Complete()
		return nil

	case yaml.MappingNode:
		if len(value.Content) != 2 {
			return fmt.Errorf("line %d: history entry must have exactly one tag", value.Line)
		}
		tag := value.Content[0].Value
		var detail string
		if err := value.Content[1].Decode(&detail); err != nil {
			return fmt.Errorf("line %d: history entry %q: %w", value.Line, tag, err)
		}
		switch EntryKind(tag) {
		case KindCommitCreated, KindStuck, KindResolved:
			*e = HistoryEntry{Kind: EntryKind(tag), Detail: detail}
			return nil
		default:
			return fmt.Errorf("line %d: unknown history entry tag %q", value.Line, tag)
		}

	default:
		return fmt.Errorf("line %d: history entry must be a string or a single-key map", value.Line)
	}
}

// Package histspec defines the persisted reconstruction plan and its state.
//
// The plan document is the system's only durable state. It is authored by the
// operator, appended to by the controller after every commit attempt, and read
// back at the start of every run. Commit status is never stored; it is always
// derived from the tail of the commit's append-only history.
package histspec

// Specification is the top-level persisted document: the branches involved in
// the reconstruction and the ordered list of logical commits to produce.
// The commit order is the authoritative processing order and is never
// reordered by the controller.
type Specification struct {
	// Source names the branch holding all messy changes.
	Source string `yaml:"source" validate:"required"`
	// Remote names the upstream branch the result will be based on.
	Remote string `yaml:"remote" validate:"required"`
	// Cleaned names the branch being constructed.
	Cleaned string `yaml:"cleaned" validate:"required"`
	// Commits are processed strictly in order.
	Commits []CommitSpec `yaml:"commits" validate:"dive"`
}

// CommitSpec is one logical commit to produce.
type CommitSpec struct {
	// Message is the final commit message.
	Message string `yaml:"message" validate:"required"`
	// Hints is optional free-text guidance for the model.
	Hints string `yaml:"hints,omitempty"`
	// History is the ordered, append-only record of what happened to this
	// commit. Status is derived from its last entry.
	History []HistoryEntry `yaml:"history,omitempty"`
}

// Status is the derived processing state of a commit.
type Status int

const (
	// StatusPending means the commit has not been attempted, or its last
	// attempt left no terminal marker.
	StatusPending Status = iota
	// StatusResolved means a human unstuck the commit; it is retry-eligible.
	StatusResolved
	// StatusStuck means the commit awaits human intervention.
	StatusStuck
	// StatusComplete means the commit is finished and will be skipped.
	StatusComplete
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusStuck:
		return "stuck"
	case StatusComplete:
		return "complete"
	default:
		return "pending"
	}
}

// Status classifies the commit from the last history entry. An empty history
// is Pending.
func (c *CommitSpec) Status() Status {
	if len(c.History) == 0 {
		return StatusPending
	}
	switch c.History[len(c.History)-1].Kind {
	case KindComplete:
		return StatusComplete
	case KindStuck:
		return StatusStuck
	case KindResolved:
		return StatusResolved
	default:
		return StatusPending
	}
}

// IsComplete reports whether the last history entry is a completion marker.
func (c *CommitSpec) IsComplete() bool { return c.Status() == StatusComplete }

// IsStuck reports whether the last history entry is a stuck record.
func (c *CommitSpec) IsStuck() bool { return c.Status() == StatusStuck }

// ResolutionNote returns the note of the trailing resolved entry, if the
// commit is currently in the Resolved state.
func (c *CommitSpec) ResolutionNote() (string, bool) {
	if c.Status() != StatusResolved {
		return "", false
	}
	return c.History[len(c.History)-1].Detail, true
}

// StuckReason returns the reason of the trailing stuck entry, if the commit
// is currently in the Stuck state.
func (c *CommitSpec) StuckReason() (string, bool) {
	if c.Status() != StatusStuck {
		return "", false
	}
	return c.History[len(c.History)-1].Detail, true
}

// Append adds an entry to the commit's history.
func (c *CommitSpec) Append(e HistoryEntry) {
	c.History = append(c.History, e)
}

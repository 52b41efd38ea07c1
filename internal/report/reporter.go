// Package report surfaces reconstruction progress to the operator: the plan
// overview at startup, per-commit state transitions, and the closing
// banners. The controller only talks to the Reporter interface, so a silent
// implementation is always valid.
package report

// CommitState is the reportable lifecycle of one planned commit.
type CommitState int

const (
	StatePending CommitState = iota
	StateInProgress
	StateCompleted
	StateStuck
)

func (s CommitState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateInProgress:
		return "in-progress"
	case StateCompleted:
		return "completed"
	case StateStuck:
		return "stuck"
	default:
		return "unknown"
	}
}

// Reporter receives progress events during a run.
type Reporter interface {
	// Init announces the plan: the commit subjects in plan order.
	Init(messages []string)
	// Status reports a free-form progress line.
	Status(msg string)
	// Transition reports that the commit at index (0-based) changed state.
	Transition(index int, state CommitState)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) Init([]string) {}

func (NopReporter) Status(string) {}

func (NopReporter) Transition(int, CommitState) {}

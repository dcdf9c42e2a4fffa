package store

import "time"

// Status is the persisted progress state of a problem.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusAttempted  Status = "attempted"
	StatusSolved     Status = "solved"
)

// rank orders statuses so that progress never moves backwards.
func (s Status) rank() int {
	switch s {
	case StatusAttempted:
		return 1
	case StatusSolved:
		return 2
	default:
		return 0
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusAttempted, StatusSolved:
		return true
	}
	return false
}

// Progress is the learner-owned state of one problem.
type Progress struct {
	ProblemID string
	Status    Status
	Starred   bool
	Notes     *string
	UpdatedAt time.Time
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	ProblemID string    // empty = all problems
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
}

// AttemptKind distinguishes runs from submissions.
type AttemptKind string

const (
	AttemptRun    AttemptKind = "run"
	AttemptSubmit AttemptKind = "submit"
)

// AttemptEventData captures one run or submit outcome.
type AttemptEventData struct {
	SessionID string
	ProblemID string
	Kind      AttemptKind
	Status    Status
	Passed    int
	Total     int
}

// AttemptEvent is a stored attempt with its global ordering.
type AttemptEvent struct {
	AttemptEventData
	Sequence  int64
	Timestamp time.Time
}

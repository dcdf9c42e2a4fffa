package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence used to order
// attempt events across sessions. The mutex serializes within the process;
// the RETURNING clause makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// EventRepo is the append-only attempt history.
type EventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var attemptColumns = []string{"sequence", "session_id", "problem_id", "kind", "status", "passed", "total", "timestamp"}

// AppendAttempt records one run or submit outcome.
func (r *EventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().
		Insert("attempt_events").
		Columns(attemptColumns...).
		Values(
			seqNum,
			data.SessionID,
			data.ProblemID,
			string(data.Kind),
			string(data.Status),
			data.Passed,
			data.Total,
			time.Now().UnixMilli(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

// QueryAttempts returns attempts newest first, filtered by opts.
func (r *EventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error) {
	var preds []*entsql.Predicate
	if opts.ProblemID != "" {
		preds = append(preds, entsql.EQ("problem_id", opts.ProblemID))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UnixMilli()))
	}

	sel := builder().
		Select(attemptColumns...).
		From(entsql.Table("attempt_events")).
		OrderBy(entsql.Desc("sequence"))
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		var (
			ev           AttemptEvent
			kind, status string
			ts           int64
		)
		if err := rows.Scan(&ev.Sequence, &ev.SessionID, &ev.ProblemID, &kind, &status, &ev.Passed, &ev.Total, &ts); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		ev.Kind = AttemptKind(kind)
		ev.Status = Status(status)
		ev.Timestamp = time.UnixMilli(ts)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// LatestAttemptTime returns when problemID was last run or submitted, or the
// zero time.
func (r *EventRepo) LatestAttemptTime(ctx context.Context, problemID string) (time.Time, error) {
	evs, err := r.QueryAttempts(ctx, QueryOpts{ProblemID: problemID, Limit: 1})
	if err != nil {
		return time.Time{}, err
	}
	if len(evs) == 0 {
		return time.Time{}, nil
	}
	return evs[0].Timestamp, nil
}

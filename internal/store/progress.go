package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ProgressRepo stores per-problem status, star and notes.
type ProgressRepo struct {
	db *sql.DB
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var progressColumns = []string{"problem_id", "status", "starred", "notes", "updated_at"}

// Get returns the progress of problemID. Unknown problems are NotStarted.
func (r *ProgressRepo) Get(ctx context.Context, problemID string) (Progress, error) {
	return getProgress(ctx, r.db, problemID)
}

func getProgress(ctx context.Context, q queryRower, problemID string) (Progress, error) {
	query, args := builder().
		Select(progressColumns...).
		From(entsql.Table("progress")).
		Where(entsql.EQ("problem_id", problemID)).
		Query()

	p, err := scanProgress(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{ProblemID: problemID, Status: StatusNotStarted}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("get progress %s: %w", problemID, err)
	}
	return p, nil
}

// All returns the progress of every problem that has any, keyed by problem ID.
func (r *ProgressRepo) All(ctx context.Context) (map[string]Progress, error) {
	query, args := builder().
		Select(progressColumns...).
		From(entsql.Table("progress")).
		OrderBy("problem_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Progress)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out[p.ProblemID] = p
	}
	return out, rows.Err()
}

// ReportStatus records status for problemID and returns the stored status.
// A solved problem stays solved.
func (r *ProgressRepo) ReportStatus(ctx context.Context, problemID string, status Status) (Status, error) {
	if !status.Valid() {
		return "", fmt.Errorf("report status %s: invalid status %q", problemID, status)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	current, err := getProgress(ctx, tx, problemID)
	if err != nil {
		return "", err
	}
	effective := status
	if current.Status.rank() > status.rank() {
		effective = current.Status
	}

	query, args := builder().
		Insert("progress").
		Columns("problem_id", "status", "updated_at").
		Values(problemID, string(effective), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("problem_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("status")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("report status %s: %w", problemID, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return effective, nil
}

// SetStarred sets the star flag of problemID.
func (r *ProgressRepo) SetStarred(ctx context.Context, problemID string, starred bool) error {
	query, args := builder().
		Insert("progress").
		Columns("problem_id", "starred", "updated_at").
		Values(problemID, boolToInt(starred), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("problem_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("starred")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set starred %s: %w", problemID, err)
	}
	return nil
}

// ToggleStar flips the star flag of problemID and returns the new value.
func (r *ProgressRepo) ToggleStar(ctx context.Context, problemID string) (bool, error) {
	p, err := r.Get(ctx, problemID)
	if err != nil {
		return false, err
	}
	if err := r.SetStarred(ctx, problemID, !p.Starred); err != nil {
		return false, err
	}
	return !p.Starred, nil
}

// UpdateNotes replaces the notes of problemID. nil clears them.
func (r *ProgressRepo) UpdateNotes(ctx context.Context, problemID string, notes *string) error {
	var value any
	if notes != nil {
		value = *notes
	}
	query, args := builder().
		Insert("progress").
		Columns("problem_id", "notes", "updated_at").
		Values(problemID, value, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("problem_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("notes")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update notes %s: %w", problemID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProgress(s scanner) (Progress, error) {
	var (
		p         Progress
		status    string
		starred   int
		notes     sql.NullString
		updatedAt int64
	)
	if err := s.Scan(&p.ProblemID, &status, &starred, &notes, &updatedAt); err != nil {
		return Progress{}, err
	}
	p.Status = Status(status)
	p.Starred = starred != 0
	if notes.Valid {
		n := notes.String
		p.Notes = &n
	}
	p.UpdatedAt = time.UnixMilli(updatedAt)
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

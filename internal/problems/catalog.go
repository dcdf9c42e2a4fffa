package problems

import (
	"context"
	"fmt"

	"github.com/abhisek/codebench/internal/judge"
	"github.com/abhisek/codebench/internal/store"
)

// ProgressSource provides stored progress keyed by problem ID.
type ProgressSource interface {
	All(ctx context.Context) (map[string]store.Progress, error)
}

// Catalog is an ordered, ID-indexed set of problems.
type Catalog struct {
	problems []Problem
	index    map[string]int
}

// NewCatalog indexes problems. Later banks may not redefine an ID.
func NewCatalog(problems []Problem) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(problems))}
	for _, p := range problems {
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate problem id %q", p.ID)
		}
		c.index[p.ID] = len(c.problems)
		c.problems = append(c.problems, p)
	}
	return c, nil
}

// Load builds a catalog from the embedded bank followed by the banks in dir
// (skipped when empty).
func Load(dir string) (*Catalog, error) {
	all, err := DefaultBank()
	if err != nil {
		return nil, fmt.Errorf("load default bank: %w", err)
	}
	if dir != "" {
		user, err := LoadDir(dir)
		if err != nil {
			return nil, err
		}
		all = append(all, user...)
	}
	return NewCatalog(all)
}

// Len returns the number of problems.
func (c *Catalog) Len() int { return len(c.problems) }

// All returns the problems in bank order.
func (c *Catalog) All() []Problem {
	out := make([]Problem, len(c.problems))
	copy(out, c.problems)
	return out
}

// Get returns the problem with id.
func (c *Catalog) Get(id string) (Problem, error) {
	i, ok := c.index[id]
	if !ok {
		return Problem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.problems[i], nil
}

// AttachJudges gives every problem without a judge one that runs its test
// cases through runner.
func (c *Catalog) AttachJudges(runner judge.Runner) {
	for i := range c.problems {
		p := &c.problems[i]
		if p.Judge == nil {
			p.Judge = judge.NewCases(runner, p.EditorLanguage(), p.TestCases)
		}
	}
}

// MergeProgress overlays stored status, star and notes onto the catalog.
func (c *Catalog) MergeProgress(ctx context.Context, src ProgressSource) error {
	progress, err := src.All(ctx)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	for i := range c.problems {
		p := &c.problems[i]
		pr, ok := progress[p.ID]
		if !ok {
			continue
		}
		if pr.Status.Valid() {
			p.Status = pr.Status
		}
		p.IsStarred = pr.Starred
		p.Notes = pr.Notes
	}
	return nil
}

// Update replaces the stored copy of p (matched by ID).
func (c *Catalog) Update(p Problem) error {
	i, ok := c.index[p.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	c.problems[i] = p
	return nil
}

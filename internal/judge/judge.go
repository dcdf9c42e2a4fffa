// Package judge evaluates learner code against a problem's test cases.
package judge

import (
	"context"
	"time"
)

// TestResult is the outcome of one test case. Callers that only need a
// verdict inspect Passed; the other fields are for display.
type TestResult struct {
	Passed   bool
	Input    string
	Expected string
	Actual   string
	Error    string
	Duration time.Duration
	Meta     map[string]string
}

// TestCase is one example input with its expected output.
type TestCase struct {
	Input          string `yaml:"input" json:"input"`
	ExpectedOutput string `yaml:"expected_output" json:"expected_output"`
}

// Judge runs code and reports per-test results. A non-nil error means the
// code could not be judged at all.
type Judge interface {
	Judge(ctx context.Context, code string) ([]TestResult, error)
}

// Func adapts a function to a Judge.
type Func func(ctx context.Context, code string) ([]TestResult, error)

func (f Func) Judge(ctx context.Context, code string) ([]TestResult, error) {
	return f(ctx, code)
}

// Sync adapts a synchronous, infallible evaluator to a Judge.
func Sync(fn func(code string) []TestResult) Judge {
	return Func(func(_ context.Context, code string) ([]TestResult, error) {
		return fn(code), nil
	})
}

// AllPassed reports whether every result passed. An empty set passes.
func AllPassed(results []TestResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// Count returns how many results passed out of the total.
func Count(results []TestResult) (passed, total int) {
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	return passed, len(results)
}

package judge

import (
	"context"
	"time"
)

// Program is a single source file in an editor language.
type Program struct {
	Language string
	Source   string
}

// Build is the outcome of compiling a program.
type Build struct {
	OK     bool
	Output string
}

// Execution is the outcome of running a program on one input.
type Execution struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Report collects the build and the executions of one program.
type Report struct {
	Build      Build
	Executions []Execution // one per input, empty when the build failed
}

// Runner builds a program once and runs it on every input.
type Runner interface {
	Run(ctx context.Context, p Program, inputs []string) (Report, error)
}

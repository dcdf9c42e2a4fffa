package judge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/codebench/internal/logging"
)

// RunnerOptions selects and tunes the runner backend.
type RunnerOptions struct {
	Kind          string // auto, process, docker
	Image         string
	Timeout       time.Duration
	MemoryMB      int
	MaxConcurrent int
	Logger        *slog.Logger
}

// NewRunner builds the configured backend wrapped in Resilient. "auto"
// prefers Docker and falls back to local processes when the daemon is not
// reachable. The returned close function releases backend resources.
func NewRunner(ctx context.Context, opts RunnerOptions) (Runner, func() error, error) {
	logger := logging.OrDiscard(opts.Logger)
	noop := func() error { return nil }

	var (
		backend Runner
		closeFn = noop
	)
	switch opts.Kind {
	case "process":
		backend = NewProcessRunner(nil, opts.Timeout, logger)
	case "docker", "auto", "":
		dr, err := NewDockerRunner(ctx, DockerConfig{
			Image:    opts.Image,
			MemoryMB: opts.MemoryMB,
			Timeout:  opts.Timeout,
		}, logger)
		if err != nil {
			if opts.Kind == "docker" {
				return nil, nil, fmt.Errorf("docker runner: %w", err)
			}
			logger.Info("docker unavailable, using local toolchains", "err", err)
			backend = NewProcessRunner(nil, opts.Timeout, logger)
		} else {
			backend, closeFn = dr, dr.Close
		}
	default:
		return nil, nil, fmt.Errorf("unknown runner kind %q", opts.Kind)
	}

	return NewResilient(backend, ResilientConfig{
		MaxConcurrent: opts.MaxConcurrent,
		Logger:        logger,
	}), closeFn, nil
}

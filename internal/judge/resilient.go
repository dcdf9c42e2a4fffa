package judge

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"

	"github.com/abhisek/codebench/internal/logging"
)

// ResilientConfig tunes the protection around a Runner.
type ResilientConfig struct {
	MaxConcurrent int
	QueueTimeout  time.Duration
	Logger        *slog.Logger
}

// Resilient wraps a Runner with a bulkhead limiting concurrent runs and a
// circuit breaker that stops calling a failing backend. Learner errors are
// reported inside the Report, so only infrastructure failures count toward
// tripping the breaker.
type Resilient struct {
	runner         Runner
	circuitBreaker circuitbreaker.CircuitBreaker[Report]
	bulkhead       bulkhead.Bulkhead[Report]
}

// NewResilient wraps runner.
func NewResilient(runner Runner, cfg ResilientConfig) *Resilient {
	logger := logging.OrDiscard(cfg.Logger)
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	queueTimeout := cfg.QueueTimeout
	if queueTimeout <= 0 {
		queueTimeout = 30 * time.Second
	}

	return &Resilient{
		runner: runner,
		circuitBreaker: circuitbreaker.New[Report](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				logger.Warn("runner circuit breaker state change",
					"from", from.String(),
					"to", to.String())
			},
		}),
		bulkhead: bulkhead.New[Report](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
			MaxQueue:      maxConcurrent * 2,
			QueueTimeout:  queueTimeout,
		}),
	}
}

func (r *Resilient) Run(ctx context.Context, p Program, inputs []string) (Report, error) {
	return r.circuitBreaker.Execute(ctx, func(ctx context.Context) (Report, error) {
		return r.bulkhead.Execute(ctx, func(ctx context.Context) (Report, error) {
			return r.runner.Run(ctx, p, inputs)
		})
	})
}

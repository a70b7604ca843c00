package strategy

import (
	"context"
	"time"

	"github.com/aescanero/dago-infer-router/internal/inference"
	"github.com/aescanero/dago-infer-router/internal/router"
)

// Strategy performs inference for one job and reports how long it took
type Strategy interface {
	Name() string
	Run(ctx context.Context, job *inference.Job) (time.Duration, error)
}

// Set maps each routing decision to the strategy serving it
type Set map[router.Decision]Strategy

// Simulated stands in for a model by waiting a fixed duration
type Simulated struct {
	duration time.Duration
}

// NewSimulated creates a simulated strategy
func NewSimulated(duration time.Duration) *Simulated {
	return &Simulated{duration: duration}
}

// Name returns the backend name
func (s *Simulated) Name() string {
	return "simulated"
}

// Run waits for the configured duration. The wait is not interrupted by ctx so
// a job that has been dequeued always completes.
func (s *Simulated) Run(ctx context.Context, job *inference.Job) (time.Duration, error) {
	start := time.Now()
	time.Sleep(s.duration)
	return time.Since(start), nil
}

// NewSimulatedSet returns fast and accurate simulated strategies
func NewSimulatedSet(fast, accurate time.Duration) Set {
	return Set{
		router.Fast:     NewSimulated(fast),
		router.Accurate: NewSimulated(accurate),
	}
}

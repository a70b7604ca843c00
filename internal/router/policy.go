package router

import "time"

// Decision is the processing strategy chosen for a job
type Decision string

const (
	// Fast favours latency over fidelity and is used in degraded mode
	Fast Decision = "Fast-Model"

	// Accurate favours fidelity and is used in nominal mode
	Accurate Decision = "Accurate-Model"
)

// Default processing durations of the two strategies
const (
	FastDuration     = 500 * time.Millisecond
	AccurateDuration = 2 * time.Second
)

// DefaultThreshold is the backlog above which the fast strategy is selected
const DefaultThreshold = 5

// Select applies the threshold policy to the observed backlog q. Degraded mode
// starts strictly above the threshold; q == threshold stays accurate.
func Select(q, threshold int64) (Decision, time.Duration) {
	if q > threshold {
		return Fast, FastDuration
	}
	return Accurate, AccurateDuration
}

// String returns the wire tag of the decision
func (d Decision) String() string {
	return string(d)
}

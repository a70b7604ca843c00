package inference

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// maxTimestamp is the largest epoch second that SubmittedAt can represent
const maxTimestamp = float64(math.MaxInt64 / int64(time.Second))

// Job is a single sensor inference request awaiting processing
type Job struct {
	SensorID  string    `json:"sensor_id"`
	Timestamp float64   `json:"timestamp"`
	Features  []float64 `json:"features"`
}

// SubmittedAt returns the job submission time
func (j *Job) SubmittedAt() time.Time {
	sec := int64(j.Timestamp)
	nsec := int64((j.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// DecodeError reports a malformed job payload
type DecodeError struct {
	Payload []byte
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode job: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Validate checks the fields the worker relies on
func (j *Job) Validate() error {
	if j.SensorID == "" {
		return fmt.Errorf("missing sensor_id")
	}
	if math.IsNaN(j.Timestamp) || j.Timestamp < 0 || j.Timestamp > maxTimestamp {
		return fmt.Errorf("timestamp %g out of range", j.Timestamp)
	}
	return nil
}

// DecodeJob parses a raw queue payload into a Job
func DecodeJob(payload []byte) (*Job, error) {
	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, &DecodeError{Payload: payload, Err: err}
	}

	if err := job.Validate(); err != nil {
		return nil, &DecodeError{Payload: payload, Err: err}
	}

	return &job, nil
}

// EncodeJob serializes a Job for the work queue
func EncodeJob(job *Job) ([]byte, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}
	return data, nil
}

// Seconds converts a wall-clock time to fractional epoch seconds
func Seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

package inference

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDecodeJob(t *testing.T) {
	job, err := DecodeJob([]byte(`{"sensor_id":"sensor-7","timestamp":1700000000.25,"features":[0.1,0.2,0.3]}`))
	if err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.SensorID != "sensor-7" {
		t.Fatalf("expected sensor-7, got %s", job.SensorID)
	}
	if len(job.Features) != 3 || job.Features[2] != 0.3 {
		t.Fatalf("unexpected features: %v", job.Features)
	}

	want := time.Unix(1700000000, 250_000_000)
	if got := job.SubmittedAt(); got.Sub(want).Abs() > time.Microsecond {
		t.Fatalf("expected submitted at %s, got %s", want, got)
	}
}

func TestDecodeJobMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"sensor_id":`,
		"wrong type":        `{"sensor_id":"s","timestamp":"yesterday"}`,
		"missing sensor id": `{"timestamp":1.5,"features":[]}`,
		"huge timestamp":    `{"sensor_id":"s","timestamp":1e20}`,
		"negative stamp":    `{"sensor_id":"s","timestamp":-1}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJob([]byte(payload))
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if string(decodeErr.Payload) != payload {
				t.Fatalf("expected payload to be kept, got %q", decodeErr.Payload)
			}
		})
	}
}

func TestJobValidate(t *testing.T) {
	valid := &Job{SensorID: "s", Timestamp: 1700000000.5}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid job, got %v", err)
	}

	for _, ts := range []float64{math.NaN(), math.Inf(1), -1, 1e20} {
		job := &Job{SensorID: "s", Timestamp: ts}
		if err := job.Validate(); err == nil {
			t.Fatalf("expected timestamp %g to be rejected", ts)
		}
	}
}

func TestSeconds(t *testing.T) {
	ts := time.Unix(1700000000, 500_000_000)
	if got := Seconds(ts); math.Abs(got-1700000000.5) > 1e-6 {
		t.Fatalf("expected 1700000000.5, got %f", got)
	}
}

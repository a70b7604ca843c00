package router

import (
	"testing"
	"time"
)

func TestSelectTieBreak(t *testing.T) {
	for threshold := int64(0); threshold <= 10; threshold++ {
		if d, _ := Select(threshold, threshold); d != Accurate {
			t.Fatalf("threshold %d: q == threshold should be Accurate, got %s", threshold, d)
		}
		if d, _ := Select(threshold+1, threshold); d != Fast {
			t.Fatalf("threshold %d: q == threshold+1 should be Fast, got %s", threshold, d)
		}
	}
}

func TestSelectScenarios(t *testing.T) {
	cases := []struct {
		name     string
		queue    int64
		want     Decision
		duration time.Duration
		tag      string
	}{
		{"backlog above threshold", 6, Fast, 500 * time.Millisecond, "Fast-Model"},
		{"backlog below threshold", 3, Accurate, 2 * time.Second, "Accurate-Model"},
		{"empty queue", 0, Accurate, 2 * time.Second, "Accurate-Model"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, dur := Select(tc.queue, DefaultThreshold)
			if d != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, d)
			}
			if dur != tc.duration {
				t.Fatalf("expected duration %s, got %s", tc.duration, dur)
			}
			if d.String() != tc.tag {
				t.Fatalf("expected tag %s, got %s", tc.tag, d.String())
			}
		})
	}
}

package cel

import (
	"context"
	"testing"
)

func TestEvaluateBool(t *testing.T) {
	e := NewEvaluator()
	ctx := context.Background()

	cases := []struct {
		expr  string
		queue int64
		want  bool
	}{
		{"queue > threshold", 6, true},
		{"queue > threshold", 5, false},
		{"queue >= threshold * 2", 10, true},
		{"queue >= threshold * 2", 9, false},
	}

	for _, tc := range cases {
		got, err := e.EvaluateBool(ctx, tc.expr, map[string]interface{}{
			"queue":     tc.queue,
			"threshold": int64(5),
		})
		if err != nil {
			t.Fatalf("%s: %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("%s with queue=%d: expected %v, got %v", tc.expr, tc.queue, tc.want, got)
		}
	}

	if len(e.cache) != 2 {
		t.Fatalf("expected 2 cached programs, got %d", len(e.cache))
	}
}

func TestValidateExpression(t *testing.T) {
	e := NewEvaluator()

	if err := e.ValidateExpression("queue > threshold"); err != nil {
		t.Fatalf("expected valid rule, got %v", err)
	}
	if err := e.ValidateExpression("queue / threshold >= 2"); err != nil {
		t.Fatalf("expected division rule to be valid, got %v", err)
	}
	if err := e.ValidateExpression("queue + 1"); err == nil {
		t.Fatalf("expected non-boolean rule to be rejected")
	}
	if err := e.ValidateExpression("queue >"); err == nil {
		t.Fatalf("expected parse error")
	}
	if err := e.ValidateExpression("backlog > 3"); err == nil {
		t.Fatalf("expected undeclared variable to be rejected")
	}

	if _, ok := e.cache["queue > threshold"]; !ok {
		t.Fatalf("expected validated rule to be cached")
	}
}

package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aescanero/dago-infer-router/internal/inference"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestRedisPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewRedisPublisher(client, "inference.events", 0, zap.NewNop())

	rec := &inference.ResultRecord{SensorID: "sensor-1", Model: "Fast-Model", Latency: 0.75, QueueAtStart: 9}
	ev := NewEvent("worker-1", rec, "threshold", "simulated")
	if _, err := uuid.Parse(ev.ID); err != nil {
		t.Fatalf("expected uuid event id, got %q", ev.ID)
	}

	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msgs, err := client.XRange(context.Background(), "inference.events", "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 stream entry, got %d", len(msgs))
	}

	var got Event
	if err := json.Unmarshal([]byte(msgs[0].Values["data"].(string)), &got); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if got.SensorID != "sensor-1" || got.QueueAtStart != 9 || got.Model != "Fast-Model" {
		t.Fatalf("unexpected event: %+v", got)
	}
}

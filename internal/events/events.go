package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aescanero/dago-infer-router/internal/inference"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event is published once per result record
type Event struct {
	ID           string    `json:"id"`
	WorkerID     string    `json:"worker_id"`
	SensorID     string    `json:"sensor_id"`
	Model        string    `json:"model"`
	Mode         string    `json:"mode"`
	Backend      string    `json:"backend"`
	Latency      float64   `json:"latency"`
	QueueAtStart int64     `json:"queue_at_start"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewEvent builds an event for a record
func NewEvent(workerID string, rec *inference.ResultRecord, mode, backend string) Event {
	return Event{
		ID:           uuid.New().String(),
		WorkerID:     workerID,
		SensorID:     rec.SensorID,
		Model:        rec.Model,
		Mode:         mode,
		Backend:      backend,
		Latency:      rec.Latency,
		QueueAtStart: rec.QueueAtStart,
		Timestamp:    time.Now().UTC(),
	}
}

// Publisher delivers events to observers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// RedisPublisher publishes events to a Redis stream
type RedisPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

// NewRedisPublisher creates a new Redis stream publisher. A positive maxLen
// caps the stream approximately.
func NewRedisPublisher(client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logger,
	}
}

// Publish appends the event to the stream
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close is a no-op; the client is owned by the caller
func (p *RedisPublisher) Close() error {
	return nil
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(ctx context.Context, event Event) error { return nil }
func (Nop) Close() error                                   { return nil }

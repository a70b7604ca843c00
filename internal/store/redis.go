package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Store on two Redis lists
type Redis struct {
	client     *redis.Client
	queueKey   string
	resultsKey string
	retention  int64
}

// NewRedis creates a Redis-backed store. A positive retention trims the
// result log to that many entries on every append.
func NewRedis(client *redis.Client, queueKey, resultsKey string, retention int64) *Redis {
	return &Redis{
		client:     client,
		queueKey:   queueKey,
		resultsKey: resultsKey,
		retention:  retention,
	}
}

// Push adds a job payload to the head of the work queue
func (r *Redis) Push(ctx context.Context, payload []byte) error {
	if err := r.client.LPush(ctx, r.queueKey, payload).Err(); err != nil {
		return &TransientStoreError{Op: "push", Err: err}
	}
	return nil
}

// Pop blocks until a payload is available at the tail of the work queue or
// timeout elapses, in which case ErrEmpty is returned.
func (r *Redis) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	result, err := r.client.BRPop(ctx, timeout, r.queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmpty
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransientStoreError{Op: "pop", Err: err}
	}

	// BRPOP replies with [key, value]
	if len(result) != 2 {
		return nil, &TransientStoreError{Op: "pop", Err: fmt.Errorf("unexpected reply length %d", len(result))}
	}

	return []byte(result[1]), nil
}

// Len returns the number of pending jobs
func (r *Redis) Len(ctx context.Context) (int64, error) {
	n, err := r.client.LLen(ctx, r.queueKey).Result()
	if err != nil {
		return 0, &TransientStoreError{Op: "len", Err: err}
	}
	return n, nil
}

// Append pushes a record to the head of the result log
func (r *Redis) Append(ctx context.Context, payload []byte) error {
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.resultsKey, payload)
	if r.retention > 0 {
		pipe.LTrim(ctx, r.resultsKey, 0, r.retention-1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return &TransientStoreError{Op: "append", Err: err}
	}
	return nil
}

// Recent returns up to n of the most recently appended records, newest first
func (r *Redis) Recent(ctx context.Context, n int64) ([][]byte, error) {
	if n <= 0 {
		return nil, nil
	}

	values, err := r.client.LRange(ctx, r.resultsKey, 0, n-1).Result()
	if err != nil {
		return nil, &TransientStoreError{Op: "recent", Err: err}
	}

	out := make([][]byte, len(values))
	for i, v := range values {
		out[i] = []byte(v)
	}
	return out, nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return &TransientStoreError{Op: "ping", Err: err}
	}
	return nil
}

// Close closes the underlying client
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Store = (*Redis)(nil)

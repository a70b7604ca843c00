package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, retention int64) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client, "inference_queue", "inference_results", retention), mr
}

func TestRedisQueueFIFO(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t, 0)

	for i := 1; i <= 3; i++ {
		if err := r.Push(ctx, []byte(fmt.Sprintf("job-%d", i))); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	if n, err := r.Len(ctx); err != nil || n != 3 {
		t.Fatalf("expected len 3, got %d (%v)", n, err)
	}

	got, err := r.Pop(ctx, time.Second)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if string(got) != "job-1" {
		t.Fatalf("expected job-1 first, got %s", got)
	}

	// the queue key holds what remains, head first
	list, err := mr.List("inference_queue")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0] != "job-3" {
		t.Fatalf("unexpected remaining queue: %v", list)
	}
}

func TestRedisPopEmpty(t *testing.T) {
	r, _ := newTestRedis(t, 0)

	_, err := r.Pop(context.Background(), time.Second)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestRedisAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t, 3)

	for i := 1; i <= 5; i++ {
		if err := r.Append(ctx, []byte(fmt.Sprintf("r%d", i))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := r.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 || string(got[0]) != "r5" || string(got[2]) != "r3" {
		t.Fatalf("unexpected records: %q", got)
	}

	list, _ := mr.List("inference_results")
	if len(list) != 3 {
		t.Fatalf("expected retention trim to 3, got %d", len(list))
	}
}

func TestRedisTransientErrors(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t, 0)
	mr.Close()

	if err := r.Push(ctx, []byte("x")); !IsTransient(err) {
		t.Fatalf("expected transient push error, got %v", err)
	}
	if _, err := r.Len(ctx); !IsTransient(err) {
		t.Fatalf("expected transient len error, got %v", err)
	}
	if err := r.Append(ctx, []byte("x")); !IsTransient(err) {
		t.Fatalf("expected transient append error, got %v", err)
	}
	if err := r.Ping(ctx); !IsTransient(err) {
		t.Fatalf("expected transient ping error, got %v", err)
	}
}

package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store with the same list semantics as the Redis
// adapter. Index 0 of each slice is the head.
type Memory struct {
	mu        sync.Mutex
	queue     [][]byte
	results   [][]byte
	retention int64
	notify    chan struct{}
}

// NewMemory creates an empty in-memory store
func NewMemory(retention int64) *Memory {
	return &Memory{
		retention: retention,
		notify:    make(chan struct{}),
	}
}

func (m *Memory) Push(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = append([][]byte{clone(payload)}, m.queue...)

	// wake blocked poppers
	close(m.notify)
	m.notify = make(chan struct{})
	return nil
}

func (m *Memory) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		m.mu.Lock()
		if n := len(m.queue); n > 0 {
			item := m.queue[n-1]
			m.queue = m.queue[:n-1]
			m.mu.Unlock()
			return item, nil
		}
		wait := m.notify
		m.mu.Unlock()

		select {
		case <-wait:
		case <-timer.C:
			return nil, ErrEmpty
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (m *Memory) Len(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.queue)), nil
}

func (m *Memory) Append(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append([][]byte{clone(payload)}, m.results...)
	if m.retention > 0 && int64(len(m.results)) > m.retention {
		m.results = m.results[:m.retention]
	}
	return nil
}

func (m *Memory) Recent(ctx context.Context, n int64) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 {
		return nil, nil
	}
	if n > int64(len(m.results)) {
		n = int64(len(m.results))
	}

	out := make([][]byte, n)
	for i := range out {
		out[i] = clone(m.results[i])
	}
	return out, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}

var _ Store = (*Memory)(nil)

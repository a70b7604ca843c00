package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrEmpty is returned by Pop when no job arrived before the block timeout
var ErrEmpty = errors.New("queue empty")

// WorkQueue is the FIFO of pending jobs. Producers push to the head and the
// worker pops from the tail.
type WorkQueue interface {
	Push(ctx context.Context, payload []byte) error
	Pop(ctx context.Context, timeout time.Duration) ([]byte, error)
	Len(ctx context.Context) (int64, error)
}

// ResultLog is the most-recent-first list of completed job records
type ResultLog interface {
	Append(ctx context.Context, payload []byte) error
	Recent(ctx context.Context, n int64) ([][]byte, error)
}

// Pinger reports store reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles both lists behind one backend
type Store interface {
	WorkQueue
	ResultLog
	Pinger
	Close() error
}

// TransientStoreError marks a store failure that is worth retrying
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a TransientStoreError
func IsTransient(err error) bool {
	var transient *TransientStoreError
	return errors.As(err, &transient)
}

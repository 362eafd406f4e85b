// Package kvstore provides the durable key-value backends behind the persisted documents.
package kvstore

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("key not found")

// Store is a key-value store holding opaque document blobs. Writes overwrite the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Locker serializes multi-key writes.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// MutexLocker is a process-local Locker.
type MutexLocker struct {
	mu sync.Mutex
}

// NewMutexLocker creates a process-local locker.
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{}
}

func (l *MutexLocker) Lock(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	return l.mu.Unlock, nil
}

// probeKey is never written; reading it round-trips to the backend.
const probeKey = "readiness-probe"

// Probe reports whether s answers reads. A missing key counts as healthy.
func Probe(ctx context.Context, s Store) error {
	if _, err := s.Get(ctx, probeKey); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

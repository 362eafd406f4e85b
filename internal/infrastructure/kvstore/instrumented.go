package kvstore

import (
	"context"
	"errors"

	"github.com/janhq/aura-server/internal/infrastructure/metrics"
	"github.com/janhq/aura-server/internal/infrastructure/observability"
)

// InstrumentedStore records metrics and spans around another store.
type InstrumentedStore struct {
	next    Store
	backend string
}

// Instrument wraps next, labelling its metrics with backend.
func Instrument(next Store, backend string) *InstrumentedStore {
	return &InstrumentedStore{next: next, backend: backend}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := observability.StartStoreSpan(ctx, s.backend, "get", key)
	defer span.End()

	value, err := s.next.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		metrics.RecordStoreOperation(s.backend, "get", nil)
		return nil, err
	}
	observability.RecordError(span, err)
	metrics.RecordStoreOperation(s.backend, "get", err)
	return value, err
}

func (s *InstrumentedStore) Put(ctx context.Context, key string, value []byte) error {
	ctx, span := observability.StartStoreSpan(ctx, s.backend, "put", key)
	defer span.End()

	err := s.next.Put(ctx, key, value)
	observability.RecordError(span, err)
	metrics.RecordStoreOperation(s.backend, "put", err)
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	ctx, span := observability.StartStoreSpan(ctx, s.backend, "delete", key)
	defer span.End()

	err := s.next.Delete(ctx, key)
	observability.RecordError(span, err)
	metrics.RecordStoreOperation(s.backend, "delete", err)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}

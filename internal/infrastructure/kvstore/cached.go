package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// CachedStore is a write-through LRU read cache in front of another store.
// Absent keys are cached too so repeated cold reads stay local.
type CachedStore struct {
	next  Store
	cache *lru.Cache
	mu    sync.Mutex
}

type cacheEntry struct {
	value   []byte
	missing bool
}

// NewCachedStore wraps next with a cache holding at most size keys.
func NewCachedStore(next Store, size int) (*CachedStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &CachedStore{next: next, cache: cache}, nil
}

func (s *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if val, ok := s.cache.Get(key); ok {
		entry := val.(cacheEntry)
		if entry.missing {
			return nil, ErrNotFound
		}
		return append([]byte(nil), entry.value...), nil
	}

	value, err := s.next.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.cache.Add(key, cacheEntry{missing: true})
		return nil, err
	case err != nil:
		return nil, err
	}

	s.cache.Add(key, cacheEntry{value: append([]byte(nil), value...)})
	return value, nil
}

func (s *CachedStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.next.Put(ctx, key, value); err != nil {
		s.cache.Remove(key)
		return err
	}
	s.cache.Add(key, cacheEntry{value: append([]byte(nil), value...)})
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(key)
	return s.next.Delete(ctx, key)
}

func (s *CachedStore) Close() error {
	s.cache.Purge()
	return s.next.Close()
}

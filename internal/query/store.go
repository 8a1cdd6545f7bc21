// Package query is the cache-aware read/mutate layer. A Store is a
// process-wide keyed cache with a staleness window, shared in-flight fetches,
// and prefix invalidation; Crud wires it to a generic API resource.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is how long a cached read stays fresh unless the caller
// asks otherwise.
const DefaultStaleTime = 30 * time.Second

const storeSize = 1024

// Key addresses one cache entry. Collection reads live under [entity],
// single-item reads under [entity, "detail", id], so invalidating the entity
// prefix covers both.
type Key []string

func (k Key) String() string { return strings.Join(k, "/") }

// HasPrefix reports whether k is at or below prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

func CollectionKey(entity string) Key { return Key{entity} }

func DetailKey(entity, id string) Key { return Key{entity, "detail", id} }

type cacheEntry struct {
	value     any
	fetchedAt time.Time
	stale     bool
}

// Store is the shared cache. It is handed to every Crud set explicitly so
// tests can swap it; there is no package-level instance.
type Store struct {
	staleTime time.Duration
	now       func() time.Time

	mu      sync.Mutex
	entries *lru.Cache[string, cacheEntry]
	keys    map[string]Key
	group   singleflight.Group
}

// NewStore builds a store with the given default staleness window;
// staleTime <= 0 selects DefaultStaleTime.
func NewStore(staleTime time.Duration) *Store {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	entries, _ := lru.New[string, cacheEntry](storeSize)
	return &Store{
		staleTime: staleTime,
		now:       time.Now,
		entries:   entries,
		keys:      map[string]Key{},
	}
}

// Get returns the cached value under key if it is fresh within the given
// window.
func (s *Store) Get(key Key, within time.Duration) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries.Get(key.String())
	if !ok || e.stale || s.now().Sub(e.fetchedAt) >= within {
		return nil, false
	}
	return e.value, true
}

// Fetch returns the cached value under key if fresh, otherwise runs fn and
// caches the result. Concurrent calls for the same key share one in-flight
// fn invocation and its result.
func (s *Store) Fetch(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	return s.FetchWithin(ctx, key, s.staleTime, fn)
}

// FetchWithin is Fetch with a per-call staleness window.
func (s *Store) FetchWithin(ctx context.Context, key Key, within time.Duration, fn func(context.Context) (any, error)) (any, error) {
	if v, ok := s.Get(key, within); ok {
		return v, nil
	}
	v, err, _ := s.group.Do(key.String(), func() (any, error) {
		// A joiner may arrive after the leader stored the result; serve it.
		if v, ok := s.Get(key, within); ok {
			return v, nil
		}
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		s.put(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) put(key Key, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ks := key.String()
	s.entries.Add(ks, cacheEntry{value: v, fetchedAt: s.now()})
	s.keys[ks] = key
}

// Invalidate marks every entry at or below prefix as stale; the next read
// refetches. Entries are kept so failed refetches do not wipe prior data.
func (s *Store) Invalidate(prefix Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ks, key := range s.keys {
		if !key.HasPrefix(prefix) {
			continue
		}
		if e, ok := s.entries.Peek(ks); ok && !e.stale {
			e.stale = true
			s.entries.Add(ks, e)
		}
	}
}

// Reset drops everything, including key bookkeeping.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Purge()
	s.keys = map[string]Key{}
}

// Fetch is the typed form of Store.Fetch.
func Fetch[T any](ctx context.Context, s *Store, key Key, fn func(context.Context) (T, error)) (T, error) {
	return FetchWithin(ctx, s, key, s.staleTime, fn)
}

// FetchWithin is the typed form of Store.FetchWithin.
func FetchWithin[T any](ctx context.Context, s *Store, key Key, within time.Duration, fn func(context.Context) (T, error)) (T, error) {
	v, err := s.FetchWithin(ctx, key, within, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// internal/cache/cache.go
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL is the freshness window applied to every resource type.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultMaxEntries leaves the store unbounded: entries leave only by
// expiring, so a live record is never refetched inside its TTL.
const DefaultMaxEntries = 0

// Provenance tells the caller whether a record was served from the cache
// or produced by a fresh fetch.
type Provenance string

const (
	Cached Provenance = "cached"
	Fresh  Provenance = "fresh"
)

// Entry is a stored record together with the moment it was stored.
type Entry struct {
	Value    any
	StoredAt time.Time
}

// Expired reports whether the entry is older than ttl at now.
func (e Entry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) >= ttl
}

// ComputeFunc produces the value for a missing or expired key.
type ComputeFunc func(ctx context.Context) (any, error)

// Options configures a Store.
type Options struct {
	// MaxEntries bounds the store; 0 means unbounded. A bounded store evicts
	// the least recently used live entries once full.
	MaxEntries int
	TTL        time.Duration
	Now        func() time.Time
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// Store is a process-local read-through TTL cache. It is safe for concurrent
// use; lookups and stores are independent steps and no lock is held while a
// value is computed.
type Store struct {
	entries *expirable.LRU[string, Entry]
	ttl     time.Duration
	now     func() time.Time

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a Store. Zero option values fall back to the defaults.
//
// The underlying expirable LRU runs a purge goroutine for the life of the
// process; create one Store per process and share it.
func New(opts Options) *Store {
	if opts.MaxEntries < 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Store{
		entries: expirable.NewLRU[string, Entry](opts.MaxEntries, nil, opts.TTL),
		ttl:     opts.TTL,
		now:     opts.Now,
	}
}

// TTL returns the store's default freshness window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Lookup returns the live entry for key. Expired entries are removed and
// reported as absent.
func (s *Store) Lookup(key string, ttl time.Duration) (Entry, bool) {
	e, ok := s.entries.Get(key)
	if !ok {
		return Entry{}, false
	}
	if e.Expired(s.now(), ttl) {
		s.entries.Remove(key)
		return Entry{}, false
	}
	return e, true
}

// Put saves value under key, stamped with the current time.
func (s *Store) Put(key string, value any) {
	s.entries.Add(key, Entry{Value: value, StoredAt: s.now()})
}

// GetOrCompute returns the live value for key with provenance Cached, or
// calls compute exactly once and returns its result with provenance Fresh.
// Failed computes are not stored.
func (s *Store) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) (any, Provenance, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}

	if e, ok := s.Lookup(key, ttl); ok {
		s.hits.Add(1)
		return e.Value, Cached, nil
	}
	s.misses.Add(1)

	value, err := compute(ctx)
	if err != nil {
		return nil, Fresh, err
	}

	s.Put(key, value)
	return value, Fresh, nil
}

// Len returns the number of entries currently held, including any that are
// stale but not yet looked up.
func (s *Store) Len() int {
	return s.entries.Len()
}

// Stats returns hit/miss counters and the current size.
func (s *Store) Stats() Stats {
	return Stats{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Entries: s.entries.Len(),
	}
}

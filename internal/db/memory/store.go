// Package memory provides an in-process db.Store used for local runs and tests.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/kailas-cloud/recordbook/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type zmember struct {
	member string
	score  float64
}

// Store keeps hashes, counters and sorted sets in maps guarded by one RWMutex.
type Store struct {
	mu       sync.RWMutex
	hashes   map[string]map[string]string
	counters map[string]int64
	zsets    map[string]map[string]float64
	closed   bool
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		hashes:   make(map[string]map[string]string),
		counters: make(map[string]int64),
		zsets:    make(map[string]map[string]float64),
	}
}

// Ping always succeeds until Close is called.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &db.Error{Op: "PING", Err: errClosed}
	}
	return nil
}

// Close marks the store closed. Data stays readable for inspection in tests.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// WaitForReady returns immediately; an in-memory store is always ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// HSet merges fields into the hash at key.
func (s *Store) HSet(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[key] = h
	}
	maps.Copy(h, fields)
	return nil
}

// HGetAll returns a copy of the hash at key.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hashes[key]
	if !ok || len(h) == 0 {
		return nil, db.ErrKeyNotFound
	}
	return maps.Clone(h), nil
}

// HGetAllMulti returns copies of each hash, empty maps for missing keys.
func (s *Store) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		if h, ok := s.hashes[k]; ok {
			out[i] = maps.Clone(h)
		} else {
			out[i] = map[string]string{}
		}
	}
	return out, nil
}

// Del removes key from every keyspace.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hashes, key)
	delete(s.counters, key)
	delete(s.zsets, key)
	return nil
}

// Incr increments the counter at key and returns the new value.
func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]++
	return s.counters[key], nil
}

// ZAdd sets member's score in the sorted set at key.
func (s *Store) ZAdd(_ context.Context, key string, score float64, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.zsets[key]
	if !ok {
		z = make(map[string]float64)
		s.zsets[key] = z
	}
	z[member] = score
	return nil
}

// ZRangeAll returns members by ascending score, ties broken lexically like Redis.
func (s *Store) ZRangeAll(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	z := s.zsets[key]
	members := make([]zmember, 0, len(z))
	for m, sc := range z {
		members = append(members, zmember{member: m, score: sc})
	}
	s.mu.RUnlock()

	sort.Slice(members, func(i, j int) bool {
		if members[i].score != members[j].score {
			return members[i].score < members[j].score
		}
		return members[i].member < members[j].member
	})
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.member
	}
	return out, nil
}

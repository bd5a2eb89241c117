package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store with lazy TTL expiry. It backs the
// middleware in tests and anywhere a database-free substitute is needed.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	ttl     time.Duration
}

// NewMemoryStore returns an empty store. A non-positive ttl falls back to
// DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		records: make(map[string]Record),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Lookup(_ context.Context, key string) (Record, bool, error) {
	if key == "" {
		return Record{}, false, nil
	}

	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()

	if !ok {
		return Record{}, false, nil
	}

	if time.Since(rec.CreatedAt) > s.ttl {
		s.mu.Lock()
		delete(s.records, key)
		s.mu.Unlock()
		return Record{}, false, nil
	}

	return rec, true, nil
}

func (s *MemoryStore) InsertIfAbsent(_ context.Context, rec Record) (bool, error) {
	if rec.Key == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A fresh record wins; an expired one is overwritten, so a reused key
	// gets its new response cached.
	if existing, ok := s.records[rec.Key]; ok && time.Since(existing.CreatedAt) <= s.ttl {
		return false, nil
	}

	rec.Body = append([]byte(nil), rec.Body...)
	rec.CreatedAt = time.Now().UTC()
	s.records[rec.Key] = rec
	return true, nil
}

// CleanExpired removes records past the retention window and reports how
// many were dropped.
func (s *MemoryStore) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, rec := range s.records {
		if time.Since(rec.CreatedAt) > s.ttl {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

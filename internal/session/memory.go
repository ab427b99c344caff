package session

import (
	"context"
	"sync"
	"time"
)

// sweepEvery bounds how often Create scans for expired entries.
const sweepEvery = time.Minute

// MemoryStore is a process-local Store, used when Redis is not configured.
// Expired entries are reclaimed by a periodic sweep run from Create.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memEntry
	now       func() time.Time
	nextSweep time.Time
}

type memEntry struct {
	data      Data
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, d Data, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if !now.Before(s.nextSweep) {
		s.sweep(now)
		s.nextSweep = now.Add(sweepEvery)
	}
	s.entries[d.ID] = memEntry{data: d, expiresAt: now.Add(ttl)}
	return nil
}

// Len reports how many entries are held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweep must be called with mu held.
func (s *MemoryStore) sweep(now time.Time) {
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(id)
	if !ok {
		return Data{}, ErrNotFound
	}
	return e.data, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) IncrVisits(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(id)
	if !ok {
		return 0, ErrNotFound
	}
	e.data.Visits++
	s.entries[id] = e
	return e.data.Visits, nil
}

// live must be called with mu held; it drops the entry once expired.
func (s *MemoryStore) live(id string) (memEntry, bool) {
	e, ok := s.entries[id]
	if !ok {
		return memEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		return memEntry{}, false
	}
	return e, true
}

package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/sakif/emoji-feed/internal/repository"
)

var _ repository.RateEventStore = (*MemoryStore)(nil)

// MemoryStore is an in-process counter store. It gives correct windows only
// within a single process, so it suits tests and local runs; deployments
// with more than one replica use the database-backed stores.
type MemoryStore struct {
	mu     sync.Mutex
	events map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string][]time.Time)}
}

func (m *MemoryStore) ConsumeRate(_ context.Context, key string, windowStart, now time.Time, limit int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.events[key][:0]
	for _, ts := range m.events[key] {
		if !ts.Before(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		m.events[key] = kept
		return false, nil
	}

	m.events[key] = append(kept, now)
	return true, nil
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rpattn/bookmarks/internal/domain"
)

type memoryEntry struct {
	items     []domain.Item
	expiresAt time.Time
}

// MemoryStore is a process-local Store. A zero TTL keeps entries until invalidated.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, collection string) ([]domain.Item, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[collection]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		if current, still := s.entries[collection]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(s.entries, collection)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return entry.items, true, nil
}

// Set stores the slice as given; callers must treat cached items as read-only.
func (s *MemoryStore) Set(_ context.Context, collection string, items []domain.Item) error {
	entry := memoryEntry{items: items}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[collection] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, collection string) error {
	s.mu.Lock()
	delete(s.entries, collection)
	s.mu.Unlock()
	return nil
}

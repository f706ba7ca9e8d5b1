package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rpattn/bookmarks/internal/domain"

	"github.com/google/uuid"
)

// memoryRepository keeps items in process, in insertion order.
type memoryRepository struct {
	mu    sync.RWMutex
	order []uuid.UUID
	items map[uuid.UUID]domain.Item
}

// NewMemoryItemRepository creates an empty in-process repository.
func NewMemoryItemRepository() ItemRepository {
	return &memoryRepository{items: make(map[uuid.UUID]domain.Item)}
}

func (r *memoryRepository) List(_ context.Context, collection string) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := []domain.Item{}
	for _, id := range r.order {
		item := r.items[id]
		if item.Collection == collection {
			items = append(items, cloneItem(item))
		}
	}
	return items, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return domain.Item{}, ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *memoryRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			items = append(items, cloneItem(item))
		}
	}
	return items, nil
}

func (r *memoryRepository) Create(_ context.Context, item domain.Item) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item = r.insertLocked(item)
	return cloneItem(item), nil
}

func (r *memoryRepository) CreateBatch(_ context.Context, items []domain.Item) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		r.insertLocked(item)
	}
	return len(items), nil
}

func (r *memoryRepository) Update(_ context.Context, item domain.Item) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[item.ID]
	if !ok {
		return domain.Item{}, ErrNotFound
	}
	existing.Properties = copyMap(item.Properties)
	existing.UpdatedAt = item.UpdatedAt
	if existing.UpdatedAt.IsZero() {
		existing.UpdatedAt = time.Now()
	}
	r.items[item.ID] = existing
	return cloneItem(existing), nil
}

func (r *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryRepository) insertLocked(item domain.Item) domain.Item {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}
	item.Properties = copyMap(item.Properties)
	if _, exists := r.items[item.ID]; !exists {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = item
	return item
}

func cloneItem(item domain.Item) domain.Item {
	item.Properties = copyMap(item.Properties)
	return item
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

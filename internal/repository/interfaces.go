package repository

import (
	"context"
	"errors"

	"github.com/rpattn/bookmarks/internal/domain"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an item does not exist.
var ErrNotFound = errors.New("item not found")

// ItemRepository defines the interface for collection item storage
type ItemRepository interface {
	// List returns every item of the collection in insertion order.
	List(ctx context.Context, collection string) ([]domain.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error)
	// GetByIDs returns the items that exist; missing ids are skipped.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Item, error)
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	CreateBatch(ctx context.Context, items []domain.Item) (int, error)
	Update(ctx context.Context, item domain.Item) (domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpattn/bookmarks/internal/db"
	"github.com/rpattn/bookmarks/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// itemRepository implements ItemRepository on Postgres
type itemRepository struct {
	queries *db.Queries
}

// NewPostgresItemRepository creates a new Postgres-backed item repository
func NewPostgresItemRepository(queries *db.Queries) ItemRepository {
	return &itemRepository{queries: queries}
}

// List retrieves a collection in insertion order
func (r *itemRepository) List(ctx context.Context, collection string) ([]domain.Item, error) {
	rows, err := r.queries.ListItemsByCollection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return buildItems(rows)
}

// GetByID retrieves an item by ID
func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	row, err := r.queries.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, ErrNotFound
		}
		return domain.Item{}, fmt.Errorf("failed to get item: %w", err)
	}
	return buildItem(row)
}

// GetByIDs retrieves multiple items by their IDs.
func (r *itemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Item, error) {
	if len(ids) == 0 {
		return []domain.Item{}, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	rows, err := r.queries.GetItemsByIDs(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by IDs: %w", err)
	}
	return buildItems(rows)
}

// Create inserts a single item
func (r *itemRepository) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	params, err := insertParams(item)
	if err != nil {
		return domain.Item{}, err
	}
	row, err := r.queries.InsertItem(ctx, params)
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to create item: %w", err)
	}
	return buildItem(row)
}

// CreateBatch bulk inserts items with COPY, keeping slice order as collection order
func (r *itemRepository) CreateBatch(ctx context.Context, items []domain.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	params := make([]db.InsertItemParams, len(items))
	for i, item := range items {
		p, err := insertParams(item)
		if err != nil {
			return 0, fmt.Errorf("item %d: %w", i, err)
		}
		params[i] = p
	}
	copied, err := r.queries.CopyItems(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to copy items: %w", err)
	}
	return int(copied), nil
}

// Update replaces an item's properties
func (r *itemRepository) Update(ctx context.Context, item domain.Item) (domain.Item, error) {
	propertiesJSON, err := item.PropertiesJSON()
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to marshal properties: %w", err)
	}
	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	row, err := r.queries.UpdateItemProperties(ctx, db.UpdateItemPropertiesParams{
		ID:         item.ID,
		Properties: propertiesJSON,
		UpdatedAt:  updatedAt,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, ErrNotFound
		}
		return domain.Item{}, fmt.Errorf("failed to update item: %w", err)
	}
	return buildItem(row)
}

// Delete removes an item
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.queries.DeleteItem(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func insertParams(item domain.Item) (db.InsertItemParams, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}
	propertiesJSON, err := item.PropertiesJSON()
	if err != nil {
		return db.InsertItemParams{}, fmt.Errorf("failed to marshal properties: %w", err)
	}
	return db.InsertItemParams{
		ID:         item.ID,
		Collection: item.Collection,
		Properties: propertiesJSON,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}, nil
}

func buildItem(row db.Item) (domain.Item, error) {
	properties, err := domain.PropertiesFromJSON(row.Properties)
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to decode properties of item %s: %w", row.ID, err)
	}
	return domain.Item{
		ID:         row.ID,
		Collection: row.Collection,
		Properties: properties,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func buildItems(rows []db.Item) ([]domain.Item, error) {
	items := make([]domain.Item, len(rows))
	for i, row := range rows {
		item, err := buildItem(row)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

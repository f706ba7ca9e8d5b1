package itemloader

import (
	"context"
	"fmt"
	"time"

	"github.com/rpattn/bookmarks/internal/domain"
	"github.com/rpattn/bookmarks/internal/repository"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"
)

type ctxKey string

const itemLoaderKey ctxKey = "itemLoader"

// ItemLoader batches item lookups made while serving one request.
type ItemLoader struct {
	Loader *dataloader.Loader
}

func NewItemLoader(repo repository.ItemRepository) *ItemLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		results := make([]*dataloader.Result, len(keys))
		ids := make([]uuid.UUID, 0, len(keys))
		for i, k := range keys {
			id, err := uuid.Parse(k.String())
			if err != nil {
				results[i] = &dataloader.Result{Error: fmt.Errorf("invalid UUID: %w", err)}
				continue
			}
			ids = append(ids, id)
		}

		items, err := repo.GetByIDs(ctx, ids)
		if err != nil {
			for i := range results {
				if results[i] == nil {
					results[i] = &dataloader.Result{Error: err}
				}
			}
			return results
		}

		itemMap := make(map[string]domain.Item, len(items))
		for _, item := range items {
			itemMap[item.ID.String()] = item
		}

		// Results follow key order
		for i, k := range keys {
			if results[i] != nil {
				continue
			}
			if item, ok := itemMap[k.String()]; ok {
				results[i] = &dataloader.Result{Data: item}
			} else {
				results[i] = &dataloader.Result{Error: repository.ErrNotFound}
			}
		}
		return results
	}

	loader := dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(5*time.Millisecond))
	return &ItemLoader{Loader: loader}
}

// Load resolves one item, returning repository.ErrNotFound when it does not exist.
func (l *ItemLoader) Load(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	data, err := l.Loader.Load(ctx, dataloader.StringKey(id.String()))()
	if err != nil {
		return domain.Item{}, err
	}
	item, ok := data.(domain.Item)
	if !ok {
		return domain.Item{}, fmt.Errorf("unexpected loader result %T", data)
	}
	return item, nil
}

// NewContext returns a copy of ctx carrying the loader.
func NewContext(ctx context.Context, loader *ItemLoader) context.Context {
	return context.WithValue(ctx, itemLoaderKey, loader)
}

// FromContext retrieves the loader attached by NewContext, or nil.
func FromContext(ctx context.Context) *ItemLoader {
	if l, ok := ctx.Value(itemLoaderKey).(*ItemLoader); ok {
		return l
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/rpattn/bookmarks/internal/domain"

	"github.com/google/uuid"
)

func TestMemoryRepositoryListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryItemRepository()

	first, err := repo.Create(ctx, domain.NewItem("bookmarks", map[string]any{"Title": "B"}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateBatch(ctx, []domain.Item{
		domain.NewItem("bookmarks", map[string]any{"Title": "A"}),
		domain.NewItem("notes", map[string]any{"Title": "elsewhere"}),
		domain.NewItem("bookmarks", map[string]any{"Title": "C"}),
	}); err != nil {
		t.Fatalf("create batch: %v", err)
	}

	items, err := repo.List(ctx, "bookmarks")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 bookmarks, got %d", len(items))
	}
	titles := []string{items[0].Properties["Title"].(string), items[1].Properties["Title"].(string), items[2].Properties["Title"].(string)}
	if titles[0] != "B" || titles[1] != "A" || titles[2] != "C" {
		t.Fatalf("unexpected order %v", titles)
	}
	if items[0].ID != first.ID {
		t.Fatalf("expected first item %s, got %s", first.ID, items[0].ID)
	}
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryItemRepository()
	created, err := repo.Create(ctx, domain.NewItem("bookmarks", map[string]any{"Title": "Go"}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Properties["Title"] = "mutated"
	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Properties["Title"] != "Go" {
		t.Fatalf("repository state leaked through returned item: %v", stored.Properties["Title"])
	}
}

func TestMemoryRepositoryUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryItemRepository()
	created, err := repo.Create(ctx, domain.NewItem("bookmarks", map[string]any{"Title": "Go"}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.Update(ctx, created.WithProperties(map[string]any{"Title": "Go Blog"}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Properties["Title"] != "Go Blog" {
		t.Fatalf("unexpected title %v", updated.Properties["Title"])
	}

	found, err := repo.GetByIDs(ctx, []uuid.UUID{uuid.New(), created.ID})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 item, got %d", len(found))
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := repo.Update(ctx, created); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

// Package collection serves queries and edits over named item collections.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpattn/bookmarks/internal/cache"
	"github.com/rpattn/bookmarks/internal/domain"
	"github.com/rpattn/bookmarks/internal/itemloader"
	"github.com/rpattn/bookmarks/internal/query"
	"github.com/rpattn/bookmarks/internal/repository"

	"github.com/google/uuid"
)

// ErrUnknownCollection is returned for collection names the service does not serve.
var ErrUnknownCollection = errors.New("unknown collection")

type Service struct {
	repo        repository.ItemRepository
	cache       cache.Store
	engine      *query.Engine
	collections map[string]struct{}
	logger      *slog.Logger

	// generations counts writes per collection so a list that raced a write
	// is not cached over the invalidation.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewService builds a collection service. An empty collections list accepts any name.
func NewService(repo repository.ItemRepository, store cache.Store, engine *query.Engine, collections []string, logger *slog.Logger) *Service {
	if store == nil {
		store = cache.NoopStore{}
	}
	if engine == nil {
		engine = query.NewEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[string]struct{}, len(collections))
	for _, name := range collections {
		allowed[name] = struct{}{}
	}
	return &Service{
		repo:        repo,
		cache:       store,
		engine:      engine,
		collections: allowed,
		logger:      logger,
		generations: make(map[string]uint64),
	}
}

func (s *Service) checkCollection(collection string) error {
	if collection == "" {
		return ErrUnknownCollection
	}
	if len(s.collections) == 0 {
		return nil
	}
	if _, ok := s.collections[collection]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return nil
}

// Query runs params over the current contents of collection.
func (s *Service) Query(ctx context.Context, collection string, params *domain.QueryParams) (query.Result, error) {
	records, err := s.Records(ctx, collection)
	if err != nil {
		return query.Result{}, err
	}
	return s.engine.Run(records, params)
}

// Records returns the collection as queryable records, in insertion order.
func (s *Service) Records(ctx context.Context, collection string) ([]domain.Record, error) {
	items, err := s.items(ctx, collection)
	if err != nil {
		return nil, err
	}
	return domain.RecordsFromItems(items), nil
}

func (s *Service) items(ctx context.Context, collection string) ([]domain.Item, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	items, ok, err := s.cache.Get(ctx, collection)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed", slog.String("collection", collection), slog.Any("error", err))
	}
	if ok {
		return items, nil
	}

	generation := s.generation(collection)
	items, err = s.repo.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %q: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[collection] != generation {
		s.logger.DebugContext(ctx, "skipping cache write for stale list", slog.String("collection", collection))
		return items, nil
	}
	if err := s.cache.Set(ctx, collection, items); err != nil {
		s.logger.WarnContext(ctx, "cache write failed", slog.String("collection", collection), slog.Any("error", err))
	}
	return items, nil
}

func (s *Service) generation(collection string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[collection]
}

// Get returns one item of collection. Items of other collections are reported as not found.
func (s *Service) Get(ctx context.Context, collection string, id uuid.UUID) (domain.Item, error) {
	if err := s.checkCollection(collection); err != nil {
		return domain.Item{}, err
	}
	var (
		item domain.Item
		err  error
	)
	if loader := itemloader.FromContext(ctx); loader != nil {
		item, err = loader.Load(ctx, id)
	} else {
		item, err = s.repo.GetByID(ctx, id)
	}
	if err != nil {
		return domain.Item{}, err
	}
	if item.Collection != collection {
		return domain.Item{}, repository.ErrNotFound
	}
	return item, nil
}

// Create stores a new item; any Id in properties is replaced by a server-assigned one.
func (s *Service) Create(ctx context.Context, collection string, properties map[string]any) (domain.Item, error) {
	if err := s.checkCollection(collection); err != nil {
		return domain.Item{}, err
	}
	item, err := s.repo.Create(ctx, domain.NewItem(collection, properties))
	if err != nil {
		return domain.Item{}, err
	}
	s.invalidate(ctx, collection)
	return item, nil
}

// CreateBatch stores rows in order as new items of collection.
func (s *Service) CreateBatch(ctx context.Context, collection string, rows []map[string]any) (int, error) {
	if err := s.checkCollection(collection); err != nil {
		return 0, err
	}
	items := make([]domain.Item, len(rows))
	for i, row := range rows {
		items[i] = domain.NewItem(collection, row)
	}
	count, err := s.repo.CreateBatch(ctx, items)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, collection)
	return count, nil
}

// Update replaces the properties of an existing item.
func (s *Service) Update(ctx context.Context, collection string, id uuid.UUID, properties map[string]any) (domain.Item, error) {
	existing, err := s.lookup(ctx, collection, id)
	if err != nil {
		return domain.Item{}, err
	}
	item, err := s.repo.Update(ctx, existing.WithProperties(properties))
	if err != nil {
		return domain.Item{}, err
	}
	s.invalidate(ctx, collection)
	return item, nil
}

func (s *Service) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	if _, err := s.lookup(ctx, collection, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, collection)
	return nil
}

// lookup reads through the repository, bypassing any request loader, so writes
// see the stored state.
func (s *Service) lookup(ctx context.Context, collection string, id uuid.UUID) (domain.Item, error) {
	if err := s.checkCollection(collection); err != nil {
		return domain.Item{}, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Item{}, err
	}
	if item.Collection != collection {
		return domain.Item{}, repository.ErrNotFound
	}
	return item, nil
}

func (s *Service) invalidate(ctx context.Context, collection string) {
	s.mu.Lock()
	s.generations[collection]++
	s.mu.Unlock()
	if err := s.cache.Invalidate(ctx, collection); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed", slog.String("collection", collection), slog.Any("error", err))
	}
}


package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Ensure EntityStore implements the interface.
var _ driven.EntityStore = (*EntityStore)(nil)

// EntityStore is an in-memory implementation of driven.EntityStore.
// It reads documents for the creation-window aggregate.
type EntityStore struct {
	mu       sync.RWMutex
	docs     *DocumentStore
	entities map[string]domain.Entity // by name
	links    map[string][]domain.EntityLink
}

// NewEntityStore creates a new in-memory entity store.
func NewEntityStore(docs *DocumentStore) *EntityStore {
	return &EntityStore{
		docs:     docs,
		entities: make(map[string]domain.Entity),
		links:    make(map[string][]domain.EntityLink),
	}
}

// GetByName returns the entity with exactly this name.
func (s *EntityStore) GetByName(_ context.Context, name string) (*domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// Save creates or updates an entity.
func (s *EntityStore) Save(_ context.Context, entity *domain.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[entity.Name] = *entity
	return nil
}

// ReplaceLinks replaces every link of a document.
func (s *EntityStore) ReplaceLinks(_ context.Context, documentID string, links []domain.EntityLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(links) == 0 {
		delete(s.links, documentID)
		return nil
	}
	s.links[documentID] = append([]domain.EntityLink(nil), links...)
	return nil
}

// ListLinks returns the links of a document.
func (s *EntityStore) ListLinks(_ context.Context, documentID string) ([]domain.EntityLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.EntityLink(nil), s.links[documentID]...), nil
}

// DeleteLinks removes every link of a document.
func (s *EntityStore) DeleteLinks(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, documentID)
	return nil
}

// TopEntitiesBetween ranks entities by linking documents created in [start, end].
func (s *EntityStore) TopEntitiesBetween(
	ctx context.Context, start, end time.Time, limit int,
) ([]domain.EntityMention, error) {
	docs, err := s.docs.ListCreatedBetween(ctx, start, end, 0)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[string]domain.Entity, len(s.entities))
	for _, e := range s.entities {
		byID[e.ID] = e
	}

	counts := make(map[string]int)
	for _, doc := range docs {
		for _, link := range s.links[doc.ID] {
			counts[link.EntityID]++
		}
	}

	result := make([]domain.EntityMention, 0, len(counts))
	for id, n := range counts {
		e, ok := byID[id]
		if !ok {
			continue
		}
		result = append(result, domain.EntityMention{Entity: e, Documents: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Documents != result[j].Documents {
			return result[i].Documents > result[j].Documents
		}
		return result[i].Entity.Name < result[j].Entity.Name
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

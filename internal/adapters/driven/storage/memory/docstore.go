package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// Save stores or updates a document.
func (s *DocumentStore) Save(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetByURI retrieves a document by its source URI.
func (s *DocumentStore) GetByURI(_ context.Context, uri string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if uri == "" {
		return nil, domain.ErrNotFound
	}
	for _, doc := range s.documents {
		if doc.URI == uri {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListActive returns all non-archived documents, oldest first.
func (s *DocumentStore) ListActive(_ context.Context) ([]domain.Document, error) {
	return s.filter(func(d domain.Document) bool { return !d.Archived }, oldestFirst, 0), nil
}

// ListAll returns every document, oldest first.
func (s *DocumentStore) ListAll(_ context.Context) ([]domain.Document, error) {
	return s.filter(func(domain.Document) bool { return true }, oldestFirst, 0), nil
}

// ListEditedSince returns documents edited strictly after t.
func (s *DocumentStore) ListEditedSince(_ context.Context, t time.Time) ([]domain.Document, error) {
	return s.filter(func(d domain.Document) bool { return d.EditedAt.After(t) }, oldestFirst, 0), nil
}

// ListCreatedBetween returns non-archived documents created within [start, end], newest first.
func (s *DocumentStore) ListCreatedBetween(_ context.Context, start, end time.Time, limit int) ([]domain.Document, error) {
	r := domain.DateRange{Start: start, End: end}
	return s.filter(func(d domain.Document) bool {
		return !d.Archived && r.Contains(d.CreatedAt)
	}, newestFirst, limit), nil
}

// SearchText returns non-archived documents containing query, newest first.
func (s *DocumentStore) SearchText(_ context.Context, query string, limit int) ([]domain.Document, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	return s.filter(func(d domain.Document) bool {
		return !d.Archived &&
			(strings.Contains(strings.ToLower(d.Body), q) || strings.Contains(strings.ToLower(d.Title), q))
	}, newestFirst, limit), nil
}

// Archive marks a document archived.
func (s *DocumentStore) Archive(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Archived = true
	doc.EditedAt = at
	s.documents[id] = doc
	return nil
}

func (s *DocumentStore) filter(keep func(domain.Document) bool, less func(a, b domain.Document) bool, limit int) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for _, doc := range s.documents {
		if keep(doc) {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return less(result[i], result[j]) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func oldestFirst(a, b domain.Document) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func newestFirst(a, b domain.Document) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Package cached provides an embedding service decorator that keeps recent
// single-text embeddings in an LRU cache, so repeated questions do not go
// back to the remote service.
package cached

import (
	"context"
	"fmt"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultSize is the cache size when none is configured.
const DefaultSize = domain.DefaultQueryCacheSize

type entry struct {
	modelID string
	vector  []float32
}

// EmbeddingService wraps another EmbeddingService with an LRU cache keyed by
// text. Only single-text calls are cached; batches go straight through.
// Every vector remembers the model that produced it, and the cache is purged
// when the remote side reports a different model.
type EmbeddingService struct {
	inner driven.EmbeddingService
	cache *lru.Cache[string, entry]

	mu      sync.Mutex
	modelID string
}

// NewEmbeddingService wraps inner with a cache holding up to size entries.
func NewEmbeddingService(inner driven.EmbeddingService, size int) (*EmbeddingService, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &EmbeddingService{inner: inner, cache: cache}, nil
}

// Embed serves single-text calls from the cache when possible.
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) (domain.EmbedResult, error) {
	if len(texts) != 1 {
		res, err := s.inner.Embed(ctx, texts)
		if err != nil {
			return res, err
		}
		s.observeModel(res.ModelID)
		return res, nil
	}

	text := texts[0]
	if e, ok := s.cache.Get(text); ok && e.modelID == s.currentModel() {
		return domain.EmbedResult{
			ModelID: e.modelID,
			Vectors: [][]float32{slices.Clone(e.vector)},
		}, nil
	}

	res, err := s.inner.Embed(ctx, texts)
	if err != nil {
		return res, err
	}
	s.observeModel(res.ModelID)
	if len(res.Vectors) == 1 {
		s.cache.Add(text, entry{modelID: res.ModelID, vector: slices.Clone(res.Vectors[0])})
	}
	return res, nil
}

// observeModel purges the cache when the reported model changes.
func (s *EmbeddingService) observeModel(modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if modelID == s.modelID {
		return
	}
	if s.modelID != "" {
		s.cache.Purge()
	}
	s.modelID = modelID
}

func (s *EmbeddingService) currentModel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelID
}

// Len returns the number of cached vectors.
func (s *EmbeddingService) Len() int {
	return s.cache.Len()
}

// ModelName returns the wrapped service's model name.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates to the wrapped service.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close purges the cache and closes the wrapped service.
func (s *EmbeddingService) Close() error {
	s.cache.Purge()
	return s.inner.Close()
}

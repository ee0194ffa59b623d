package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Ensure EmbeddingStore implements the interface.
var _ driven.EmbeddingStore = (*EmbeddingStore)(nil)

type embeddingKey struct {
	documentID string
	modelID    string
}

// EmbeddingStore is an in-memory implementation of driven.EmbeddingStore.
type EmbeddingStore struct {
	mu      sync.RWMutex
	records map[embeddingKey][]domain.EmbeddingRecord
}

// NewEmbeddingStore creates a new in-memory embedding store.
func NewEmbeddingStore() *EmbeddingStore {
	return &EmbeddingStore{
		records: make(map[embeddingKey][]domain.EmbeddingRecord),
	}
}

// ReplaceForDocument swaps the records for (documentID, modelID).
// Records are validated before anything is removed.
func (s *EmbeddingStore) ReplaceForDocument(
	_ context.Context, documentID, modelID string, records []domain.EmbeddingRecord,
) error {
	stored := make([]domain.EmbeddingRecord, len(records))
	for i, rec := range records {
		if !rec.Valid() {
			return fmt.Errorf("record %s: %w", rec.ChunkID, domain.ErrCorruptVector)
		}
		if rec.DocumentID != documentID || rec.ModelID != modelID {
			return fmt.Errorf("record %s belongs to (%s, %s): %w",
				rec.ChunkID, rec.DocumentID, rec.ModelID, domain.ErrInvalidInput)
		}
		rec.Vector = append([]float32(nil), rec.Vector...)
		stored[i] = rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := embeddingKey{documentID: documentID, modelID: modelID}
	if len(stored) == 0 {
		delete(s.records, key)
		return nil
	}
	s.records[key] = stored
	return nil
}

// ListByModel returns every record produced by modelID.
func (s *EmbeddingStore) ListByModel(_ context.Context, modelID string) ([]domain.EmbeddingRecord, error) {
	return s.collect(func(k embeddingKey) bool { return k.modelID == modelID }), nil
}

// ListAll returns every record.
func (s *EmbeddingStore) ListAll(_ context.Context) ([]domain.EmbeddingRecord, error) {
	return s.collect(func(embeddingKey) bool { return true }), nil
}

// CountForDocument returns the number of records for a document across models.
func (s *EmbeddingStore) CountForDocument(_ context.Context, documentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k, recs := range s.records {
		if k.documentID == documentID {
			n += len(recs)
		}
	}
	return n, nil
}

// DeleteForDocument removes every record for a document.
func (s *EmbeddingStore) DeleteForDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.records {
		if k.documentID == documentID {
			delete(s.records, k)
		}
	}
	return nil
}

func (s *EmbeddingStore) collect(match func(embeddingKey) bool) []domain.EmbeddingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.EmbeddingRecord
	for k, recs := range s.records {
		if match(k) {
			result = append(result, recs...)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DocumentID != result[j].DocumentID {
			return result[i].DocumentID < result[j].DocumentID
		}
		return result[i].ChunkID < result[j].ChunkID
	})
	return result
}

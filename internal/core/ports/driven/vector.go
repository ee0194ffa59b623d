package driven

import (
	"context"

	"github.com/journai/journai-core/internal/core/domain"
)

// EmbeddingStore persists chunk vectors.
// Records are replaced, never merged, per (document, model).
type EmbeddingStore interface {
	// ReplaceForDocument atomically deletes every record for (documentID,
	// modelID) and inserts records. A failed insert leaves the previous
	// records in place.
	ReplaceForDocument(ctx context.Context, documentID, modelID string, records []domain.EmbeddingRecord) error

	// ListByModel returns every record produced by modelID.
	ListByModel(ctx context.Context, modelID string) ([]domain.EmbeddingRecord, error)

	// ListAll returns every record regardless of model.
	ListAll(ctx context.Context) ([]domain.EmbeddingRecord, error)

	// CountForDocument returns the number of records for a document across models.
	CountForDocument(ctx context.Context, documentID string) (int, error)

	// DeleteForDocument removes every record for a document across models.
	DeleteForDocument(ctx context.Context, documentID string) error
}

package driving

import (
	"context"

	"github.com/journai/journai-core/internal/core/domain"
)

// Retrieval ranks journal entries by semantic similarity to a query.
type Retrieval interface {
	// Search returns up to topK entries, best match first.
	// A blank query returns nothing without contacting the embedding service.
	Search(ctx context.Context, query string, topK int) ([]domain.Document, error)

	// SearchScored is Search with the per-entry similarity attached.
	SearchScored(ctx context.Context, query string, topK int) ([]domain.ScoredDocument, error)
}

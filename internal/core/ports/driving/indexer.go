package driving

import (
	"context"

	"github.com/journai/journai-core/internal/core/domain"
)

// Indexer turns journal entries into embeddings, entity links and timeline items.
type Indexer interface {
	// RunIndexPass indexes every entry edited since the watermark (all
	// entries when none is set) and advances the watermark.
	// Returns domain.ErrIndexInProgress if a pass is already running.
	RunIndexPass(ctx context.Context) (*domain.IndexReport, error)
}

package driving

import (
	"context"

	"github.com/journai/journai-core/internal/core/domain"
)

// EntryService manages journal entries.
type EntryService interface {
	// Add creates a new entry. A blank title is derived from the body.
	Add(ctx context.Context, title, body string) (*domain.Document, error)

	// Upsert creates or updates the entry imported from uri.
	// Returns the entry and whether its content changed.
	Upsert(ctx context.Context, uri, title, body string) (*domain.Document, bool, error)

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns entries, including archived ones when includeArchived is set.
	List(ctx context.Context, includeArchived bool) ([]domain.Document, error)

	// Archive hides an entry from the pipeline.
	Archive(ctx context.Context, id string) error

	// ArchiveByURI archives the entry imported from uri.
	ArchiveByURI(ctx context.Context, uri string) error
}

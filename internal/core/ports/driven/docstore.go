package driven

import (
	"context"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
)

// DocumentStore persists journal entries.
// Backed by SQLite for on-device storage.
type DocumentStore interface {
	// Save stores or updates a document.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetByURI retrieves a document by its source URI.
	// Returns domain.ErrNotFound if none matches.
	GetByURI(ctx context.Context, uri string) (*domain.Document, error)

	// ListActive returns all non-archived documents, oldest first.
	ListActive(ctx context.Context) ([]domain.Document, error)

	// ListAll returns every document including archived ones, oldest first.
	ListAll(ctx context.Context) ([]domain.Document, error)

	// ListEditedSince returns documents (archived included) with EditedAt
	// strictly after t.
	ListEditedSince(ctx context.Context, t time.Time) ([]domain.Document, error)

	// ListCreatedBetween returns non-archived documents created within
	// [start, end], newest first, at most limit (limit <= 0 means no limit).
	ListCreatedBetween(ctx context.Context, start, end time.Time, limit int) ([]domain.Document, error)

	// SearchText returns non-archived documents whose title or body contains
	// the query, case-insensitively, newest first.
	SearchText(ctx context.Context, query string, limit int) ([]domain.Document, error)

	// Archive marks a document archived and bumps its EditedAt.
	Archive(ctx context.Context, id string, at time.Time) error
}

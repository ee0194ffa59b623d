package driven

import (
	"context"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
)

// EntityStore persists entities and their links to documents.
type EntityStore interface {
	// GetByName returns the entity with exactly this name.
	// Returns domain.ErrNotFound if none exists.
	GetByName(ctx context.Context, name string) (*domain.Entity, error)

	// Save creates or updates an entity.
	Save(ctx context.Context, entity *domain.Entity) error

	// ReplaceLinks replaces every link of a document with links.
	ReplaceLinks(ctx context.Context, documentID string, links []domain.EntityLink) error

	// ListLinks returns the links of a document.
	ListLinks(ctx context.Context, documentID string) ([]domain.EntityLink, error)

	// DeleteLinks removes every link of a document.
	DeleteLinks(ctx context.Context, documentID string) error

	// TopEntitiesBetween ranks entities by the number of non-archived
	// documents created within [start, end] that link them.
	TopEntitiesBetween(ctx context.Context, start, end time.Time, limit int) ([]domain.EntityMention, error)
}

// TimelineStore persists timeline items.
type TimelineStore interface {
	// ReplaceForDocument replaces every timeline item of a document.
	ReplaceForDocument(ctx context.Context, documentID string, items []domain.TimelineItem) error

	// ListBetween returns items with Timestamp within [start, end], newest
	// first, at most limit (limit <= 0 means no limit).
	ListBetween(ctx context.Context, start, end time.Time, limit int) ([]domain.TimelineItem, error)
}

// WatermarkStore persists the time of the last successful index pass.
type WatermarkStore interface {
	// Read returns the watermark. ok is false when no pass has completed.
	Read(ctx context.Context) (t time.Time, ok bool, err error)

	// Advance sets the watermark.
	Advance(ctx context.Context, t time.Time) error
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/core/ports/driving"
)

// Ensure EntryService implements the interface.
var _ driving.EntryService = (*EntryService)(nil)

// maxTitleRunes bounds titles derived from an entry body.
const maxTitleRunes = 60

// EntryService manages journal entries in the document store.
type EntryService struct {
	docs driven.DocumentStore
	now  func() time.Time
}

// NewEntryService creates an entry service. A nil clock uses time.Now.
func NewEntryService(docs driven.DocumentStore, now func() time.Time) *EntryService {
	if now == nil {
		now = time.Now
	}
	return &EntryService{docs: docs, now: now}
}

// Add creates a new entry.
func (s *EntryService) Add(ctx context.Context, title, body string) (*domain.Document, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: entry body is empty", domain.ErrInvalidInput)
	}

	now := s.now()
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Title:     entryTitle(title, body),
		Body:      body,
		CreatedAt: now,
		EditedAt:  now,
	}
	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	return doc, nil
}

// Upsert creates the entry for uri or updates it when title or body changed.
// EditedAt only moves when content changes, so unchanged files are not re-indexed.
func (s *EntryService) Upsert(ctx context.Context, uri, title, body string) (*domain.Document, bool, error) {
	if uri == "" {
		return nil, false, fmt.Errorf("%w: uri is required", domain.ErrInvalidInput)
	}
	title = entryTitle(title, body)

	existing, err := s.docs.GetByURI(ctx, uri)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		now := s.now()
		doc := &domain.Document{
			ID:        uuid.New().String(),
			Title:     title,
			URI:       uri,
			Body:      body,
			CreatedAt: now,
			EditedAt:  now,
		}
		if err := s.docs.Save(ctx, doc); err != nil {
			return nil, false, fmt.Errorf("save entry: %w", err)
		}
		return doc, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("lookup entry: %w", err)
	}

	if existing.Title == title && existing.Body == body && !existing.Archived {
		return existing, false, nil
	}

	existing.Title = title
	existing.Body = body
	existing.Archived = false
	existing.EditedAt = s.now()
	if err := s.docs.Save(ctx, existing); err != nil {
		return nil, false, fmt.Errorf("save entry: %w", err)
	}
	return existing, true, nil
}

// Get retrieves an entry by ID.
func (s *EntryService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.docs.Get(ctx, id)
}

// List returns entries oldest first.
func (s *EntryService) List(ctx context.Context, includeArchived bool) ([]domain.Document, error) {
	if includeArchived {
		return s.docs.ListAll(ctx)
	}
	return s.docs.ListActive(ctx)
}

// Archive hides an entry; the next index pass clears its derived data.
func (s *EntryService) Archive(ctx context.Context, id string) error {
	if err := s.docs.Archive(ctx, id, s.now()); err != nil {
		return fmt.Errorf("archive entry %s: %w", id, err)
	}
	return nil
}

// ArchiveByURI archives the entry imported from uri, used when its file is removed.
func (s *EntryService) ArchiveByURI(ctx context.Context, uri string) error {
	if uri == "" {
		return fmt.Errorf("%w: uri is required", domain.ErrInvalidInput)
	}
	doc, err := s.docs.GetByURI(ctx, uri)
	if err != nil {
		return fmt.Errorf("lookup entry: %w", err)
	}
	if doc.Archived {
		return nil
	}
	return s.Archive(ctx, doc.ID)
}

// entryTitle returns title, or the first non-blank body line when title is blank.
func entryTitle(title, body string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line == "" {
			continue
		}
		return truncateRunes(line, maxTitleRunes)
	}
	return ""
}

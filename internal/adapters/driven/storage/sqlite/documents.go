package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	db *sql.DB
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = "id, uri, title, body, created_at, edited_at, archived"

// Save stores or updates a document.
func (s *documentStore) Save(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, uri, title, body, created_at, edited_at, archived)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uri = excluded.uri,
			title = excluded.title,
			body = excluded.body,
			created_at = excluded.created_at,
			edited_at = excluded.edited_at,
			archived = excluded.archived
	`, doc.ID, nullString(doc.URI), doc.Title, doc.Body,
		toNanos(doc.CreatedAt), toNanos(doc.EditedAt), boolToInt(doc.Archived))
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	return scanDocument(row)
}

// GetByURI retrieves a document by its source URI.
func (s *documentStore) GetByURI(ctx context.Context, uri string) (*domain.Document, error) {
	if uri == "" {
		return nil, domain.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE uri = ?", uri)
	return scanDocument(row)
}

// ListActive returns all non-archived documents, oldest first.
func (s *documentStore) ListActive(ctx context.Context) ([]domain.Document, error) {
	return s.query(ctx, "SELECT "+documentColumns+
		" FROM documents WHERE archived = 0 ORDER BY created_at ASC, id ASC")
}

// ListAll returns every document, oldest first.
func (s *documentStore) ListAll(ctx context.Context) ([]domain.Document, error) {
	return s.query(ctx, "SELECT "+documentColumns+" FROM documents ORDER BY created_at ASC, id ASC")
}

// ListEditedSince returns documents edited strictly after t, archived included.
func (s *documentStore) ListEditedSince(ctx context.Context, t time.Time) ([]domain.Document, error) {
	return s.query(ctx, "SELECT "+documentColumns+
		" FROM documents WHERE edited_at > ? ORDER BY created_at ASC, id ASC", toNanos(t))
}

// ListCreatedBetween returns non-archived documents created within [start, end], newest first.
func (s *documentStore) ListCreatedBetween(
	ctx context.Context, start, end time.Time, limit int,
) ([]domain.Document, error) {
	return s.query(ctx, "SELECT "+documentColumns+`
		FROM documents
		WHERE archived = 0 AND created_at >= ? AND created_at <= ?
		ORDER BY created_at DESC, id ASC
		LIMIT ?`, toNanos(start), toNanos(end), sqlLimit(limit))
}

// SearchText returns non-archived documents whose title or body contains the
// query, newest first. Case folding covers ASCII only, as SQLite's lower() does.
func (s *documentStore) SearchText(ctx context.Context, query string, limit int) ([]domain.Document, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	return s.query(ctx, "SELECT "+documentColumns+`
		FROM documents
		WHERE archived = 0 AND (instr(lower(body), ?) > 0 OR instr(lower(title), ?) > 0)
		ORDER BY created_at DESC, id ASC
		LIMIT ?`, q, q, sqlLimit(limit))
}

// Archive marks a document archived and bumps its EditedAt.
func (s *documentStore) Archive(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET archived = 1, edited_at = ? WHERE id = ?", toNanos(at), id)
	if err != nil {
		return fmt.Errorf("archiving document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archiving document: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *documentStore) query(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var uri sql.NullString
	var createdAt, editedAt int64
	var archived int

	if err := row.Scan(&doc.ID, &uri, &doc.Title, &doc.Body, &createdAt, &editedAt, &archived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.URI = uri.String
	doc.CreatedAt = fromNanos(createdAt)
	doc.EditedAt = fromNanos(editedAt)
	doc.Archived = archived == 1
	return &doc, nil
}

// sqlLimit maps "no limit" to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

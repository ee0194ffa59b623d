package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// entityStore implements driven.EntityStore.
type entityStore struct {
	db *sql.DB
}

var _ driven.EntityStore = (*entityStore)(nil)

// GetByName returns the entity with exactly this name.
func (s *entityStore) GetByName(ctx context.Context, name string) (*domain.Entity, error) {
	var e domain.Entity
	var typ string
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, type, name, created_at FROM entities WHERE name = ?", name).
		Scan(&e.ID, &typ, &e.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entity: %w", err)
	}
	e.Type = domain.EntityType(typ)
	e.CreatedAt = fromNanos(createdAt)
	return &e, nil
}

// Save creates or updates an entity by ID. Names are unique, so saving a
// second ID under an existing name fails.
func (s *entityStore) Save(ctx context.Context, entity *domain.Entity) error {
	if entity == nil || entity.ID == "" || entity.Name == "" {
		return domain.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entities (id, type, name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name
	`, entity.ID, string(entity.Type), entity.Name, toNanos(entity.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving entity: %w", err)
	}
	return nil
}

// ReplaceLinks replaces every link of a document in one transaction.
func (s *entityStore) ReplaceLinks(ctx context.Context, documentID string, links []domain.EntityLink) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM entity_links WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting entity links: %w", err)
	}

	for _, link := range links {
		if link.DocumentID != documentID {
			return fmt.Errorf("link for %s: %w", link.DocumentID, domain.ErrInvalidInput)
		}
		// Duplicate pairs collapse into one link.
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entity_links (document_id, entity_id, salience)
			VALUES (?, ?, ?)
			ON CONFLICT(document_id, entity_id) DO UPDATE SET salience = excluded.salience
		`, link.DocumentID, link.EntityID, link.Salience); err != nil {
			return fmt.Errorf("inserting entity link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListLinks returns the links of a document.
func (s *entityStore) ListLinks(ctx context.Context, documentID string) ([]domain.EntityLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, entity_id, salience FROM entity_links
		WHERE document_id = ? ORDER BY entity_id
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying entity links: %w", err)
	}
	defer rows.Close()

	var links []domain.EntityLink //nolint:prealloc // size unknown from query
	for rows.Next() {
		var link domain.EntityLink
		if err := rows.Scan(&link.DocumentID, &link.EntityID, &link.Salience); err != nil {
			return nil, fmt.Errorf("scanning entity link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity links: %w", err)
	}
	return links, nil
}

// DeleteLinks removes every link of a document.
func (s *entityStore) DeleteLinks(ctx context.Context, documentID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entity_links WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting entity links: %w", err)
	}
	return nil
}

// TopEntitiesBetween ranks entities by the number of non-archived documents
// created within [start, end] that link them.
func (s *entityStore) TopEntitiesBetween(
	ctx context.Context, start, end time.Time, limit int,
) ([]domain.EntityMention, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.type, e.name, e.created_at, COUNT(DISTINCT d.id) AS n
		FROM entity_links l
		JOIN entities e ON e.id = l.entity_id
		JOIN documents d ON d.id = l.document_id
		WHERE d.archived = 0 AND d.created_at >= ? AND d.created_at <= ?
		GROUP BY e.id
		ORDER BY n DESC, e.name ASC
		LIMIT ?
	`, toNanos(start), toNanos(end), sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying top entities: %w", err)
	}
	defer rows.Close()

	var result []domain.EntityMention //nolint:prealloc // size unknown from query
	for rows.Next() {
		var m domain.EntityMention
		var typ string
		var createdAt int64
		if err := rows.Scan(&m.Entity.ID, &typ, &m.Entity.Name, &createdAt, &m.Documents); err != nil {
			return nil, fmt.Errorf("scanning entity mention: %w", err)
		}
		m.Entity.Type = domain.EntityType(typ)
		m.Entity.CreatedAt = fromNanos(createdAt)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity mentions: %w", err)
	}
	return result, nil
}

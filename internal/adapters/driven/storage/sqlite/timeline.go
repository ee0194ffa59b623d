package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// timelineStore implements driven.TimelineStore.
type timelineStore struct {
	db *sql.DB
}

var _ driven.TimelineStore = (*timelineStore)(nil)

// ReplaceForDocument replaces every timeline item of a document in one transaction.
func (s *timelineStore) ReplaceForDocument(ctx context.Context, documentID string, items []domain.TimelineItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM timeline_items WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting timeline items: %w", err)
	}

	for _, item := range items {
		if item.DocumentID != documentID {
			return fmt.Errorf("timeline item for %s: %w", item.DocumentID, domain.ErrInvalidInput)
		}
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO timeline_items (id, document_id, timestamp, summary)
			VALUES (?, ?, ?, ?)
		`, id, item.DocumentID, toNanos(item.Timestamp), item.Summary); err != nil {
			return fmt.Errorf("inserting timeline item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListBetween returns items with Timestamp within [start, end], newest first.
func (s *timelineStore) ListBetween(ctx context.Context, start, end time.Time, limit int) ([]domain.TimelineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, timestamp, summary FROM timeline_items
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp DESC, id ASC
		LIMIT ?
	`, toNanos(start), toNanos(end), sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying timeline items: %w", err)
	}
	defer rows.Close()

	var items []domain.TimelineItem //nolint:prealloc // size unknown from query
	for rows.Next() {
		var item domain.TimelineItem
		var ts int64
		if err := rows.Scan(&item.ID, &item.DocumentID, &ts, &item.Summary); err != nil {
			return nil, fmt.Errorf("scanning timeline item: %w", err)
		}
		item.Timestamp = fromNanos(ts)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timeline items: %w", err)
	}
	return items, nil
}

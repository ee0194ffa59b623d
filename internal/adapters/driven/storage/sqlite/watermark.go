package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/journai/journai-core/internal/core/ports/driven"
)

// watermarkStore implements driven.WatermarkStore.
type watermarkStore struct {
	db *sql.DB
}

var _ driven.WatermarkStore = (*watermarkStore)(nil)

// Read returns the watermark. ok is false when no pass has completed.
func (s *watermarkStore) Read(ctx context.Context) (time.Time, bool, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT value FROM index_watermark WHERE id = 1").Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading watermark: %w", err)
	}
	return fromNanos(n), true, nil
}

// Advance sets the watermark.
func (s *watermarkStore) Advance(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO index_watermark (id, value) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET value = excluded.value
	`, toNanos(t))
	if err != nil {
		return fmt.Errorf("advancing watermark: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// embeddingStore implements driven.EmbeddingStore.
type embeddingStore struct {
	db *sql.DB
}

var _ driven.EmbeddingStore = (*embeddingStore)(nil)

const embeddingColumns = "id, document_id, chunk_id, model_id, dims, vector, created_at"

// ReplaceForDocument deletes the records for (documentID, modelID) and
// inserts records in one transaction.
func (s *embeddingStore) ReplaceForDocument(
	ctx context.Context, documentID, modelID string, records []domain.EmbeddingRecord,
) error {
	for _, rec := range records {
		if !rec.Valid() {
			return fmt.Errorf("record %s: %w", rec.ChunkID, domain.ErrCorruptVector)
		}
		if rec.DocumentID != documentID || rec.ModelID != modelID {
			return fmt.Errorf("record %s belongs to (%s, %s): %w",
				rec.ChunkID, rec.DocumentID, rec.ModelID, domain.ErrInvalidInput)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM embeddings WHERE document_id = ? AND model_id = ?", documentID, modelID); err != nil {
		return fmt.Errorf("deleting embeddings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO embeddings ("+embeddingColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, id, rec.DocumentID, rec.ChunkID, rec.ModelID,
			rec.Dims, EncodeVector(rec.Vector), toNanos(rec.CreatedAt)); err != nil {
			return fmt.Errorf("inserting embedding %s: %w", rec.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListByModel returns every record produced by modelID.
func (s *embeddingStore) ListByModel(ctx context.Context, modelID string) ([]domain.EmbeddingRecord, error) {
	return s.query(ctx, "SELECT "+embeddingColumns+
		" FROM embeddings WHERE model_id = ? ORDER BY document_id, chunk_id", modelID)
}

// ListAll returns every record.
func (s *embeddingStore) ListAll(ctx context.Context) ([]domain.EmbeddingRecord, error) {
	return s.query(ctx, "SELECT "+embeddingColumns+" FROM embeddings ORDER BY document_id, chunk_id")
}

// CountForDocument returns the number of records for a document across models.
func (s *embeddingStore) CountForDocument(ctx context.Context, documentID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM embeddings WHERE document_id = ?", documentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return n, nil
}

// DeleteForDocument removes every record for a document.
func (s *embeddingStore) DeleteForDocument(ctx context.Context, documentID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM embeddings WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting embeddings: %w", err)
	}
	return nil
}

// query scans records, skipping blobs whose length does not match dims.
func (s *embeddingStore) query(ctx context.Context, query string, args ...any) ([]domain.EmbeddingRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var records []domain.EmbeddingRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.EmbeddingRecord
		var blob []byte
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.ChunkID, &rec.ModelID,
			&rec.Dims, &blob, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		vec, err := DecodeVector(blob, rec.Dims)
		if err != nil {
			continue
		}
		rec.Vector = vec
		rec.CreatedAt = fromNanos(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}
	return records, nil
}

// EncodeVector converts a []float32 to little-endian bytes for BLOB storage.
func EncodeVector(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// DecodeVector converts a BLOB back to []float32. The blob must hold
// exactly dims values.
func DecodeVector(data []byte, dims int) ([]float32, error) {
	if dims <= 0 || len(data) != dims*4 {
		return nil, fmt.Errorf("blob of %d bytes for %d dims: %w", len(data), dims, domain.ErrCorruptVector)
	}
	floats := make([]float32, dims)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats, nil
}

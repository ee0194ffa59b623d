package domain

import "time"

// EmbeddingRecord is a stored vector for one chunk under one model.
// Vectors are L2-normalised before they are stored, so the dot product
// of two records is their cosine similarity.
type EmbeddingRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// ChunkID identifies the chunk the vector was computed from.
	ChunkID string

	// Vector is the normalised embedding. len(Vector) == Dims.
	Vector []float32

	// Dims is the vector dimensionality, stored alongside the vector.
	Dims int

	// ModelID names the embedding model generation that produced the vector.
	ModelID string

	// CreatedAt is when the record was written.
	CreatedAt time.Time
}

// Valid reports whether the vector length matches the declared dimensions.
func (r EmbeddingRecord) Valid() bool {
	return r.Dims > 0 && len(r.Vector) == r.Dims
}

// EmbedResult is the response of a batched embedding request.
// Vectors are aligned with the request texts by index.
type EmbedResult struct {
	ModelID string
	Vectors [][]float32
}

package domain

import (
	"strconv"
	"time"
)

// Document is a single journal entry.
// The pipeline reads ID, Body and the timestamps; it never writes entries back.
type Document struct {
	// ID is the unique identifier for the entry.
	ID string

	// Title is an optional human-readable title.
	Title string

	// URI is the file the entry was imported from. Empty for entries
	// created directly.
	URI string

	// Body is the full text of the entry.
	Body string

	// CreatedAt is when the entry was written.
	CreatedAt time.Time

	// EditedAt is when the entry was last changed. The indexer compares
	// it against the watermark.
	EditedAt time.Time

	// Archived hides the entry from indexing and retrieval.
	Archived bool
}

// Chunk is a bounded slice of a Document's body.
// Chunks are derived on every index pass and never persisted.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string

	// Ordinal is the position of the chunk within the document.
	Ordinal int

	// Content is the chunk text.
	Content string
}

// ChunkID returns the stable identifier of the chunk, "<documentID>#<ordinal>".
func (c Chunk) ChunkID() string {
	return c.DocumentID + "#" + strconv.Itoa(c.Ordinal)
}

// ScoredDocument pairs a document with its retrieval score.
type ScoredDocument struct {
	Document Document
	Score    float32
}

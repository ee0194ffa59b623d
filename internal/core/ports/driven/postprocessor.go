package driven

import (
	"time"

	"github.com/journai/journai-core/internal/core/domain"
)

// Chunker splits entry text into ordered chunks for embedding.
type Chunker interface {
	// Name returns the strategy name for logging and configuration.
	Name() string

	// Chunk returns the chunks in document order. Blank text yields none.
	Chunk(text string) []string
}

// EntityExtractor finds entity candidates in text.
// A heuristic implementation ships by default; an ML model can replace it.
type EntityExtractor interface {
	Name() string

	// Extract returns distinct candidates in first-seen order.
	Extract(text string) []domain.EntityCandidate

	// Mentions returns every qualifying occurrence in order, duplicates
	// included, so callers can count frequency.
	Mentions(text string) []domain.EntityCandidate
}

// TimelineExtractor finds calendar dates mentioned in text.
type TimelineExtractor interface {
	Name() string

	// Extract returns distinct midnights in loc, ascending.
	Extract(text string, loc *time.Location) []time.Time
}

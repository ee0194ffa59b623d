// Package postprocessors provides the text analysis strategies used by the
// indexer: chunking, entity extraction and timeline extraction.
package postprocessors

import (
	"errors"
	"fmt"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/postprocessors/chunker"
	"github.com/journai/journai-core/internal/postprocessors/entities"
	"github.com/journai/journai-core/internal/postprocessors/timeline"
)

// DefaultChunker is the registered name of the paragraph chunker.
const DefaultChunker = "paragraph"

// Toolkit is the set of strategies one index pass runs.
type Toolkit struct {
	Chunker  driven.Chunker
	Entities driven.EntityExtractor
	Timeline driven.TimelineExtractor
}

// BuildToolkit constructs the strategies named in settings.
// Build failures are joined so every misconfiguration is reported at once.
func BuildToolkit(r *Registries, settings domain.IndexSettings) (*Toolkit, error) {
	var errs []error

	c, err := r.Chunkers.Build(DefaultChunker, map[string]any{
		"target_size": settings.ChunkTarget,
		"max_size":    settings.ChunkMax,
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("chunker: %w", err))
	}

	entityName := settings.EntityExtractor
	if entityName == "" {
		entityName = domain.DefaultExtractor
	}
	e, err := r.Entities.Build(entityName, nil)
	if err != nil {
		errs = append(errs, fmt.Errorf("entity extractor: %w", err))
	}

	timelineName := settings.TimelineExtractor
	if timelineName == "" {
		timelineName = domain.DefaultExtractor
	}
	tl, err := r.Timelines.Build(timelineName, nil)
	if err != nil {
		errs = append(errs, fmt.Errorf("timeline extractor: %w", err))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Toolkit{Chunker: c, Entities: e, Timeline: tl}, nil
}

// NewDefaultToolkit returns the built-in strategies with default sizes.
func NewDefaultToolkit() *Toolkit {
	return &Toolkit{
		Chunker:  chunker.New(),
		Entities: entities.NewHeuristic(),
		Timeline: timeline.NewHeuristic(),
	}
}

package postprocessors

import (
	"time"

	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/postprocessors/chunker"
	"github.com/journai/journai-core/internal/postprocessors/entities"
	"github.com/journai/journai-core/internal/postprocessors/timeline"
)

// Registries groups the registries for every text analysis strategy.
type Registries struct {
	Chunkers  *Registry[driven.Chunker]
	Entities  *Registry[driven.EntityExtractor]
	Timelines *Registry[driven.TimelineExtractor]
}

// NewRegistries creates empty registries.
func NewRegistries() *Registries {
	return &Registries{
		Chunkers:  NewRegistry[driven.Chunker](),
		Entities:  NewRegistry[driven.EntityExtractor](),
		Timelines: NewRegistry[driven.TimelineExtractor](),
	}
}

// RegisterDefaults registers all built-in strategies.
// Call this during application initialisation.
func RegisterDefaults(r *Registries) {
	r.Chunkers.Register("paragraph", buildChunker)
	r.Entities.Register("heuristic", buildHeuristicEntities)
	r.Timelines.Register("heuristic", buildHeuristicTimeline)
}

// buildChunker creates a paragraph chunker from generic config.
// Supported config keys:
//   - target_size (int): Preferred runes per chunk (default: 1800)
//   - max_size (int): Hard cap for oversized paragraph segments (default: 2400)
func buildChunker(cfg map[string]any) (driven.Chunker, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "target_size"); size > 0 {
			opts = append(opts, chunker.WithTargetSize(size))
		}
		if size := getIntFromConfig(cfg, "max_size"); size > 0 {
			opts = append(opts, chunker.WithMaxSize(size))
		}
	}

	return chunker.New(opts...), nil
}

func buildHeuristicEntities(_ map[string]any) (driven.EntityExtractor, error) {
	return entities.NewHeuristic(), nil
}

// buildHeuristicTimeline creates a timeline extractor.
// Supported config keys:
//   - clock (func() time.Time): Overrides the current-year clock
func buildHeuristicTimeline(cfg map[string]any) (driven.TimelineExtractor, error) {
	var opts []timeline.Option
	if now, ok := cfg["clock"].(func() time.Time); ok {
		opts = append(opts, timeline.WithClock(now))
	}
	return timeline.NewHeuristic(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

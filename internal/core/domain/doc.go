// Package domain defines the core types of the journal pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A journal entry (body plus timestamps)
//   - Chunk: A bounded slice of a Document prepared for embedding
//   - EmbeddingRecord: A stored, normalised vector for one chunk and one model
//   - Entity, EntityLink: Heuristically extracted names and their entry links
//   - TimelineItem: A dated event mentioned in an entry
//   - Plan: The planner's decoded choice of tools for one round
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

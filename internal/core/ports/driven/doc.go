// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Storage
//
//   - DocumentStore: journal entries (owned by the journal, read by the pipeline)
//   - EmbeddingStore: chunk vectors, replaced per (document, model)
//   - EntityStore: entities and per-document links
//   - TimelineStore: timeline items per document
//   - WatermarkStore: the incremental indexing watermark
//   - SchedulerStore: scheduler task state and history
//   - ConfigStore: application configuration
//
// # Remote Services
//
//   - EmbeddingService: batch text embedding
//   - ChatService: chat completion
//
// # Text Analysis
//
//   - Chunker, EntityExtractor, TimelineExtractor: pure, swappable strategies
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or postprocessor package
package driven

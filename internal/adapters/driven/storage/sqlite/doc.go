// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: journal entries
//   - EmbeddingStore: chunk vectors, replaced per (document, model) in one transaction
//   - EntityStore: entities and their links to entries
//   - TimelineStore: dated events found in entries
//   - WatermarkStore: time of the last successful index pass
//   - SchedulerStore: background task state and history
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Timestamps are stored as Unix nanoseconds.
//
// # Data Location
//
// By default, the database is stored at ~/.journai/data/journai.db
//
// # Thread Safety
//
// All operations are thread-safe. The store runs SQLite in WAL mode with a
// 5s busy timeout.
package sqlite

package driving

import "context"

// JournalImporter pulls entries from an external journal source into the
// document store.
type JournalImporter interface {
	// Import upserts every entry from the source and returns how many were
	// created or changed.
	Import(ctx context.Context) (int, error)
}

package driving

import "context"

// Scheduler runs background tasks like journal import and index passes.
type Scheduler interface {
	// Start begins running scheduled tasks in the background.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error
}

package driving

import (
	"context"

	"github.com/journai/journai-core/internal/core/domain"
)

// CompletionService answers a conversation using local journal context.
type CompletionService interface {
	// Complete gathers context for the last user message and returns the
	// model's reply. Transient remote failures are retried.
	Complete(ctx context.Context, messages []domain.ChatMessage, useCache bool) (string, error)
}

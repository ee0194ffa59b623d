package driven

import (
	"context"

	"github.com/journai/journai-core/internal/core/domain"
)

// ChatService sends a conversation to a remote chat model.
//
// Implementations may include:
//   - the JournAI proxy (default)
//   - OpenAI, Anthropic
//   - Ollama (local models)
type ChatService interface {
	// Chat conducts a multi-turn conversation and returns the reply text.
	Chat(ctx context.Context, messages []domain.ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// UseCache allows the remote side to serve a cached reply.
	UseCache bool

	// MaxTokens is the maximum number of tokens to generate. Zero means provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

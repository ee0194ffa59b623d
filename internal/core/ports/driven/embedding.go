package driven

import (
	"context"

	"github.com/journai/journai-core/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - the JournAI proxy (default)
//   - OpenAI (text-embedding-3-small)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed returns one vector per input text, in input order, together with
	// the model identifier reported by the remote side.
	Embed(ctx context.Context, texts []string) (domain.EmbedResult, error)

	// ModelName returns the configured model name. May be empty when the
	// remote side chooses the model.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Package ollama provides an embedding service adapter using Ollama.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/journai/journai-core/internal/adapters/driven/remote"
	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Limiter is shared with the other adapters.
	Limiter *remote.RateLimiter
}

// EmbeddingService generates embeddings using Ollama.
type EmbeddingService struct {
	client *remote.Client
	model  string
}

// embedRequest is the Ollama /api/embed request format.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embedResponse is the Ollama /api/embed response format.
type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &EmbeddingService{
		client: remote.NewClient(remote.Config{
			Service: "ollama",
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Limiter: cfg.Limiter,
		}),
		model: cfg.Model,
	}
}

// Embed generates embeddings for all texts with one /api/embed call.
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) (domain.EmbedResult, error) {
	if len(texts) == 0 {
		return domain.EmbedResult{ModelID: s.model}, nil
	}

	var resp embedResponse
	if err := s.client.PostJSON(ctx, "/api/embed", embedRequest{Model: s.model, Input: texts}, &resp); err != nil {
		return domain.EmbedResult{}, fmt.Errorf("embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return domain.EmbedResult{}, fmt.Errorf("embed: expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	model := resp.Model
	if model == "" {
		model = s.model
	}
	return domain.EmbedResult{ModelID: model, Vectors: resp.Embeddings}, nil
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, "/api/tags", nil); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

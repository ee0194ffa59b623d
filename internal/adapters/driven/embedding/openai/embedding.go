// Package openai provides an embedding service adapter using OpenAI API.
package openai

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
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-3-small).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions overrides the default dimension for the model.
	// Only applicable to text-embedding-3-* models.
	Dimensions int

	// Limiter is shared with the other adapters.
	Limiter *remote.RateLimiter
}

// EmbeddingService generates embeddings using OpenAI API.
type EmbeddingService struct {
	client     *remote.Client
	model      string
	dimensions int
}

// embeddingRequest is the OpenAI API request format.
type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

// embeddingResponse is the OpenAI API response format.
type embeddingResponse struct {
	Model string `json:"model"`
	Data  []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewEmbeddingService creates a new OpenAI embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
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
			Service: "openai",
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Headers: map[string]string{"Authorization": "Bearer " + cfg.APIKey},
			Limiter: cfg.Limiter,
		}),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed generates embeddings for all texts in a single request.
// The model id is the one reported by the response.
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) (domain.EmbedResult, error) {
	if len(texts) == 0 {
		return domain.EmbedResult{ModelID: s.model}, nil
	}

	req := embeddingRequest{Model: s.model, Input: texts, Dimensions: s.dimensions}
	var resp embeddingResponse
	if err := s.client.PostJSON(ctx, "/embeddings", req, &resp); err != nil {
		return domain.EmbedResult{}, fmt.Errorf("embed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return domain.EmbedResult{}, fmt.Errorf("embed: expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	// Sort by index to ensure correct order
	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return domain.EmbedResult{}, fmt.Errorf("embed: index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	model := resp.Model
	if model == "" {
		model = s.model
	}
	return domain.EmbedResult{ModelID: model, Vectors: vectors}, nil
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the API key by calling the /models endpoint.
// This is a lightweight check that doesn't consume embedding tokens.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, "/models", nil); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

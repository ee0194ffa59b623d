// Package proxy provides an embedding service adapter for the JournAI proxy.
//
// The proxy fronts the vendor embedding API and applies the privacy
// blacklist server side, so the blacklist travels with every request.
package proxy

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
	DefaultBaseURL = domain.DefaultProxyURL
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the proxy embedding service.
type Config struct {
	// BaseURL is the proxy base URL (default: http://localhost:8787).
	BaseURL string

	// APIKey is an optional bearer token.
	APIKey string

	// Model is reported by ModelName. The proxy picks the actual model and
	// reports it in every response.
	Model string

	// Blacklist is forwarded with every request.
	Blacklist []domain.BlacklistItem

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// Limiter is shared with the other adapters.
	Limiter *remote.RateLimiter
}

// EmbeddingService generates embeddings through the proxy.
type EmbeddingService struct {
	client    *remote.Client
	model     string
	blacklist []blacklistItem
}

type blacklistItem struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement,omitempty"`
}

// embedRequest is the proxy /embed request format.
type embedRequest struct {
	Input     []string        `json:"input"`
	Blacklist []blacklistItem `json:"blacklist,omitempty"`
}

// embedResponse is the proxy /embed response format.
type embedResponse struct {
	Model string `json:"model"`
	Data  []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewEmbeddingService creates a new proxy embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}

	items := make([]blacklistItem, 0, len(cfg.Blacklist))
	for _, b := range cfg.Blacklist {
		if b.Pattern == "" {
			continue
		}
		items = append(items, blacklistItem{Pattern: b.Pattern, Replacement: b.Replacement})
	}

	return &EmbeddingService{
		client: remote.NewClient(remote.Config{
			Service: "proxy",
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Headers: headers,
			Limiter: cfg.Limiter,
		}),
		model:     cfg.Model,
		blacklist: items,
	}
}

// Embed sends all texts in one request and returns the vectors in input order.
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) (domain.EmbedResult, error) {
	if len(texts) == 0 {
		return domain.EmbedResult{ModelID: s.model}, nil
	}

	var resp embedResponse
	req := embedRequest{Input: texts, Blacklist: s.blacklist}
	if err := s.client.PostJSON(ctx, "/embed", req, &resp); err != nil {
		return domain.EmbedResult{}, fmt.Errorf("embed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return domain.EmbedResult{}, fmt.Errorf("embed: proxy returned %d vectors for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) || vectors[item.Index] != nil {
			return domain.EmbedResult{}, fmt.Errorf("embed: proxy returned bad index %d", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	model := resp.Model
	if model == "" {
		model = s.model
	}
	return domain.EmbedResult{ModelID: model, Vectors: vectors}, nil
}

// ModelName returns the configured model name. Empty means the proxy decides.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the proxy is reachable by embedding a single short text.
// The proxy has no dedicated health route.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.Embed(ctx, []string{"ping"}); err != nil {
		return fmt.Errorf("proxy: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// Package ai provides factory functions for creating remote service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/journai/journai-core/internal/adapters/driven/embedding/cached"
	ollamaembed "github.com/journai/journai-core/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/journai/journai-core/internal/adapters/driven/embedding/openai"
	proxyembed "github.com/journai/journai-core/internal/adapters/driven/embedding/proxy"
	anthropicllm "github.com/journai/journai-core/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/journai/journai-core/internal/adapters/driven/llm/ollama"
	openaillm "github.com/journai/journai-core/internal/adapters/driven/llm/openai"
	proxyllm "github.com/journai/journai-core/internal/adapters/driven/llm/proxy"
	"github.com/journai/journai-core/internal/adapters/driven/llm/redact"
	"github.com/journai/journai-core/internal/adapters/driven/remote"
	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Options carries the cross-cutting pieces every adapter shares.
type Options struct {
	// Limiter is waited on by every adapter. Nil disables rate limiting.
	Limiter *remote.RateLimiter

	// Blacklist is forwarded to the proxy or applied locally for vendors.
	Blacklist []domain.BlacklistItem

	// QueryCacheSize sizes the embedding cache. Zero disables it.
	QueryCacheSize int
}

// OptionsFromSettings builds Options from application settings with a fresh
// limiter.
func OptionsFromSettings(settings domain.AppSettings) Options {
	return Options{
		Limiter: remote.NewRateLimiter(remote.RateLimitConfig{
			RequestsPerSecond: settings.Remote.RequestsPerSecond,
			Burst:             settings.Remote.Burst,
		}),
		Blacklist:      settings.Blacklist,
		QueryCacheSize: settings.Retrieval.QueryCacheSize,
	}
}

// InitResult contains the result of remote service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	ChatService      driven.ChatService
	Warnings         []string // Non-fatal issues; the affected service is nil.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.ChatService != nil {
		r.ChatService.Close()
	}
}

// Init creates both services without pinging them. A service that cannot
// be created is left nil with a warning: search falls back to recency and
// completion reports ErrLLMUnavailable.
func Init(settings domain.AppSettings) *InitResult {
	opts := OptionsFromSettings(settings)
	result := &InitResult{}

	embedding, err := CreateEmbeddingService(&settings.Embedding, opts)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("embedding: %v", err))
	}
	result.EmbeddingService = embedding

	chat, err := CreateChatService(&settings.LLM, opts)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("llm: %v", err))
	}
	result.ChatService = chat

	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(
	ctx context.Context, settings *domain.ServiceSettings, opts Options,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'journai settings set embedding.<key>' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateChatService creates a chat service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateChatService(
	ctx context.Context, settings *domain.ServiceSettings, opts Options,
) (driven.ChatService, error) {
	svc, err := CreateChatService(settings, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'journai settings set llm.<key>' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.ServiceSettings) error {
	svc, err := CreateAndValidateEmbeddingService(context.Background(), settings, Options{})
	if svc != nil {
		svc.Close()
	}
	return err
}

// ValidateLLMConfig validates a chat configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.ServiceSettings) error {
	svc, err := CreateAndValidateChatService(context.Background(), settings, Options{})
	if svc != nil {
		svc.Close()
	}
	return err
}

// CreateEmbeddingService creates the embedding service for settings.
// Vendor adapters get the blacklist applied locally; the proxy receives it
// in the request. Single-text calls are cached when opts.QueryCacheSize > 0.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.ServiceSettings, opts Options) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var svc driven.EmbeddingService
	switch settings.Provider {
	case domain.AIProviderProxy:
		svc = proxyembed.NewEmbeddingService(proxyembed.Config{
			BaseURL:   settings.BaseURL,
			APIKey:    settings.APIKey,
			Model:     settings.Model,
			Blacklist: opts.Blacklist,
			Limiter:   opts.Limiter,
		})

	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Limiter: opts.Limiter,
		})

	case domain.AIProviderOpenAI:
		openai, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Limiter: opts.Limiter,
		})
		if err != nil {
			return nil, err
		}
		svc = openai

	case domain.AIProviderAnthropic:
		return nil, errors.New("anthropic does not support embeddings, use proxy, ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}

	if settings.Provider != domain.AIProviderProxy && len(opts.Blacklist) > 0 {
		svc = redact.NewEmbeddingService(svc, opts.Blacklist)
	}
	if opts.QueryCacheSize > 0 {
		cachedSvc, err := cached.NewEmbeddingService(svc, opts.QueryCacheSize)
		if err != nil {
			return nil, err
		}
		svc = cachedSvc
	}
	return svc, nil
}

// CreateChatService creates the chat service for settings.
// Returns nil if the provider is not configured.
func CreateChatService(settings *domain.ServiceSettings, opts Options) (driven.ChatService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var svc driven.ChatService
	switch settings.Provider {
	case domain.AIProviderProxy:
		return proxyllm.NewChatService(proxyllm.Config{
			BaseURL:   settings.BaseURL,
			APIKey:    settings.APIKey,
			Model:     settings.Model,
			Blacklist: opts.Blacklist,
			Limiter:   opts.Limiter,
		}), nil

	case domain.AIProviderOllama:
		svc = ollamallm.NewChatService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Limiter: opts.Limiter,
		})

	case domain.AIProviderOpenAI:
		openai, err := openaillm.NewChatService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Limiter: opts.Limiter,
		})
		if err != nil {
			return nil, err
		}
		svc = openai

	case domain.AIProviderAnthropic:
		anthropic, err := anthropicllm.NewChatService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Limiter: opts.Limiter,
		})
		if err != nil {
			return nil, err
		}
		svc = anthropic

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}

	if len(opts.Blacklist) > 0 {
		svc = redact.NewChatService(svc, opts.Blacklist)
	}
	return svc, nil
}

package redact

import (
	"context"
	"slices"
	"sync"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Ensure the decorators implement the interfaces.
var (
	_ driven.ChatService      = (*ChatService)(nil)
	_ driven.EmbeddingService = (*EmbeddingService)(nil)
)

// rules holds a swappable blacklist.
type rules struct {
	mu    sync.RWMutex
	items []domain.BlacklistItem
}

func (r *rules) set(items []domain.BlacklistItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = slices.Clone(items)
}

func (r *rules) redactor() *Redactor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Compile(r.items)
}

// ChatService redacts every outgoing message before delegating.
type ChatService struct {
	inner driven.ChatService
	rules rules
}

// NewChatService wraps inner with the given blacklist.
func NewChatService(inner driven.ChatService, blacklist []domain.BlacklistItem) *ChatService {
	s := &ChatService{inner: inner}
	s.rules.set(blacklist)
	return s
}

// SetBlacklist replaces the rules used for subsequent calls.
func (s *ChatService) SetBlacklist(items []domain.BlacklistItem) {
	s.rules.set(items)
}

// Chat redacts message contents and delegates.
func (s *ChatService) Chat(ctx context.Context, messages []domain.ChatMessage, opts driven.ChatOptions) (string, error) {
	r := s.rules.redactor()
	if r.Empty() {
		return s.inner.Chat(ctx, messages, opts)
	}
	redacted := make([]domain.ChatMessage, len(messages))
	for i, msg := range messages {
		redacted[i] = domain.ChatMessage{Role: msg.Role, Content: r.Redact(msg.Content)}
	}
	return s.inner.Chat(ctx, redacted, opts)
}

// ModelName returns the wrapped service's model name.
func (s *ChatService) ModelName() string { return s.inner.ModelName() }

// Ping delegates to the wrapped service.
func (s *ChatService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the wrapped service.
func (s *ChatService) Close() error { return s.inner.Close() }

// EmbeddingService redacts texts before they are embedded, matching what
// the proxy does on its /embed route.
type EmbeddingService struct {
	inner driven.EmbeddingService
	rules rules
}

// NewEmbeddingService wraps inner with the given blacklist.
func NewEmbeddingService(inner driven.EmbeddingService, blacklist []domain.BlacklistItem) *EmbeddingService {
	s := &EmbeddingService{inner: inner}
	s.rules.set(blacklist)
	return s
}

// SetBlacklist replaces the rules used for subsequent calls.
func (s *EmbeddingService) SetBlacklist(items []domain.BlacklistItem) {
	s.rules.set(items)
}

// Embed redacts texts and delegates.
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) (domain.EmbedResult, error) {
	r := s.rules.redactor()
	if r.Empty() {
		return s.inner.Embed(ctx, texts)
	}
	redacted := make([]string, len(texts))
	for i, text := range texts {
		redacted[i] = r.Redact(text)
	}
	return s.inner.Embed(ctx, redacted)
}

// ModelName returns the wrapped service's model name.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping delegates to the wrapped service.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }

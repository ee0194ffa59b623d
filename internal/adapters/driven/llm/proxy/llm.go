// Package proxy provides a chat service adapter for the JournAI proxy.
//
// The proxy answers in the chat-completions shape and applies the privacy
// blacklist itself, so the blacklist is forwarded with every request.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/journai/journai-core/internal/adapters/driven/remote"
	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Ensure ChatService implements the interface.
var _ driven.ChatService = (*ChatService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultProxyURL
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the proxy chat service.
type Config struct {
	// BaseURL is the proxy base URL (default: http://localhost:8787).
	BaseURL string

	// APIKey is an optional bearer token.
	APIKey string

	// Model is reported by ModelName. The proxy picks the actual model.
	Model string

	// Blacklist is forwarded with every request.
	Blacklist []domain.BlacklistItem

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Limiter is shared with the other adapters.
	Limiter *remote.RateLimiter
}

// ChatService talks to the proxy /chat route.
type ChatService struct {
	client    *remote.Client
	model     string
	blacklist []blacklistItem
}

type blacklistItem struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the proxy /chat request format.
type chatRequest struct {
	Messages  []chatMessage   `json:"messages"`
	Blacklist []blacklistItem `json:"blacklist,omitempty"`
	Stream    bool            `json:"stream"`
	UseCache  bool            `json:"useCache"`
}

// chatResponse is the chat-completions shape the proxy answers with.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// NewChatService creates a new proxy chat service.
func NewChatService(cfg Config) *ChatService {
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

	return &ChatService{
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

// Chat sends the conversation with streaming disabled. MaxTokens and
// Temperature are decided by the proxy.
func (s *ChatService) Chat(ctx context.Context, messages []domain.ChatMessage, opts driven.ChatOptions) (string, error) {
	apiMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		apiMessages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	req := chatRequest{
		Messages:  apiMessages,
		Blacklist: s.blacklist,
		Stream:    false,
		UseCache:  opts.UseCache,
	}

	var resp chatResponse
	if err := s.client.PostJSON(ctx, "/chat", req, &resp); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("proxy: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the configured model name. Empty means the proxy decides.
func (s *ChatService) ModelName() string {
	return s.model
}

// Ping sends a one-line cached chat. The proxy has no dedicated health route.
func (s *ChatService) Ping(ctx context.Context) error {
	msgs := []domain.ChatMessage{{Role: domain.RoleUser, Content: "ping"}}
	if _, err := s.Chat(ctx, msgs, driven.ChatOptions{UseCache: true}); err != nil {
		return fmt.Errorf("proxy: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *ChatService) Close() error {
	return nil
}

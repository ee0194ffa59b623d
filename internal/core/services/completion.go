package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/core/ports/driving"
	"github.com/journai/journai-core/internal/logger"
)

// Ensure Completion implements the interface.
var _ driving.CompletionService = (*Completion)(nil)

// GuidancePrompt is the first system message of every completion.
const GuidancePrompt = "You are JournAI. You are given local journal context below. Use it to answer. " +
	"Do not claim you lack access; cite from provided context. Be concise."

// CompletionConfig tunes the retry loop.
type CompletionConfig struct {
	// MaxAttempts is the total number of chat calls, including the first.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry; it doubles each retry.
	InitialBackoff time.Duration

	// Sleep waits between attempts. Defaults to SleepContext.
	Sleep Sleeper

	// Location resolves year ranges in questions. Defaults to time.Local.
	Location *time.Location

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Completion answers conversations with journal context prepended.
type Completion struct {
	chat    driven.ChatService
	planner driving.Planner
	tools   driving.Tools
	prompts driven.PromptStore
	config  CompletionConfig
}

// Ensure Completion accepts custom prompts.
var _ driven.PromptStoreAware = (*Completion)(nil)

// SetPromptStore sets the store for the guidance prompt.
func (c *Completion) SetPromptStore(store driven.PromptStore) {
	c.prompts = store
}

// NewCompletion creates a completion service. Zero config values take defaults.
func NewCompletion(
	chat driven.ChatService,
	planner driving.Planner,
	tools driving.Tools,
	config CompletionConfig,
) *Completion {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = domain.DefaultMaxAttempts
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = domain.DefaultInitialBackoff
	}
	if config.Sleep == nil {
		config.Sleep = SleepContext
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &Completion{
		chat:    chat,
		planner: planner,
		tools:   tools,
		config:  config,
	}
}

// Complete returns the model's reply to messages.
func (c *Completion) Complete(ctx context.Context, messages []domain.ChatMessage, useCache bool) (string, error) {
	if c.chat == nil {
		return "", domain.ErrLLMUnavailable
	}

	enriched := c.enrich(ctx, messages)
	logger.Debug("Completion: %d messages (%d from caller)", len(enriched), len(messages))

	var lastErr error
	for attempt := 0; attempt < c.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := Backoff(c.config.InitialBackoff, attempt-1)
			logger.Debug("Completion: backing off %s before attempt %d", delay, attempt+1)
			if err := c.config.Sleep(ctx, delay); err != nil {
				return "", err
			}
		}

		reply, err := c.chat.Chat(ctx, enriched, driven.ChatOptions{UseCache: useCache})
		if err == nil {
			logger.Debug("Completion: success on attempt %d", attempt+1)
			return reply, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		logger.Warn("Chat attempt %d failed: %v", attempt+1, err)
	}

	return "", fmt.Errorf("chat completion after %d attempts: %w", c.config.MaxAttempts, lastErr)
}

// enrich prepends guidance, the optional range hint and the gathered context.
func (c *Completion) enrich(ctx context.Context, messages []domain.ChatMessage) []domain.ChatMessage {
	question := domain.LastUserMessage(messages)

	var toolContext strings.Builder
	if c.planner != nil && strings.TrimSpace(question) != "" {
		toolContext.WriteString(c.planner.PlanAndGather(ctx, question))
	}

	dateRange, hasRange := ParseDateRange(question, c.config.Clock(), c.config.Location)
	if hasRange && c.tools != nil {
		summary := c.tools.EntriesSummaryRange(ctx, dateRange.Start, dateRange.End, domain.DefaultEntriesRangeK)
		if strings.TrimSpace(summary) != "" {
			fmt.Fprintf(&toolContext, "\n\n[Tool: %s]\n%s", domain.ToolEntriesSummaryRange, summary)
		}
	}

	enriched := make([]domain.ChatMessage, 0, len(messages)+3)
	enriched = append(enriched, domain.ChatMessage{
		Role:    domain.RoleSystem,
		Content: loadPrompt(c.prompts, driven.PromptGuidance, GuidancePrompt),
	})
	if hasRange {
		enriched = append(enriched, domain.ChatMessage{
			Role:    domain.RoleSystem,
			Content: fmt.Sprintf("Focus on range %s to %s.", formatInstant(dateRange.Start), formatInstant(dateRange.End)),
		})
	}
	if strings.TrimSpace(toolContext.String()) != "" {
		enriched = append(enriched, domain.ChatMessage{Role: domain.RoleSystem, Content: toolContext.String()})
	}
	return append(enriched, messages...)
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/core/ports/driving"
	"github.com/journai/journai-core/internal/logger"
)

// Ensure Planner implements the interface.
var _ driving.Planner = (*Planner)(nil)

// MaxPlanningRounds bounds how often the model is asked for a plan.
const MaxPlanningRounds = 2

const (
	digestRunes        = 200
	digestSnippetRunes = 50
)

// PlanningPrompt is the system prompt of the first planning round.
const PlanningPrompt = `You are a planner for a local journal assistant. Decide which LOCAL tools to run to best answer the user's question.
Return ONLY a compact JSON object (no prose) matching this schema:
{
  "tools": [
    {"tool": "timelineSummary", "params": {"days": 7}},
    {"tool": "timelineSummaryRange", "params": {"start": "<RFC3339>", "end": "<RFC3339>"}},
    {"tool": "semanticSearch", "params": {"query": "<string>", "k": 5}},
    {"tool": "entriesSummaryRange", "params": {"start": "<RFC3339>", "end": "<RFC3339>", "k": 10}},
    {"tool": "minePatterns", "params": {"windowDays": 30}}
  ]
}
Prefer relevant tools; omit irrelevant ones.`

// FollowUpPrompt is the system prompt of the second planning round.
const FollowUpPrompt = "You may decide to run more tools based on the new context below. Return JSON only."

// Planner asks the chat model which local tools to run and gathers
// their output into a context block.
type Planner struct {
	chat    driven.ChatService
	tools   driving.Tools
	prompts driven.PromptStore
}

// Ensure Planner accepts custom prompts.
var _ driven.PromptStoreAware = (*Planner)(nil)

// SetPromptStore sets the store for the planning and follow-up prompts.
func (p *Planner) SetPromptStore(store driven.PromptStore) {
	p.prompts = store
}

// NewPlanner creates a planner. A nil chat service skips planning and
// goes straight to the fallback.
func NewPlanner(chat driven.ChatService, tools driving.Tools) *Planner {
	return &Planner{chat: chat, tools: tools}
}

// gathering accumulates tool output across rounds.
type gathering struct {
	question string
	context  strings.Builder
	seen     map[string]struct{}
}

// PlanAndGather returns the tool context for question. It never fails.
func (p *Planner) PlanAndGather(ctx context.Context, question string) string {
	g := &gathering{question: question, seen: make(map[string]struct{})}
	logger.Debug("Planner: question=%q", truncateRunes(question, 120))

	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: loadPrompt(p.prompts, driven.PromptPlanning, PlanningPrompt)},
		{Role: domain.RoleUser, Content: question},
	}

	for round := 0; round < MaxPlanningRounds; round++ {
		plan, ok := p.requestPlan(ctx, messages)
		if !ok || plan.Empty() {
			logger.Debug("Planner: round %d produced no plan", round)
			break
		}

		digest := p.execute(ctx, g, plan)
		if digest == "" || round+1 >= MaxPlanningRounds {
			break
		}

		messages = []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: loadPrompt(p.prompts, driven.PromptFollowUp, FollowUpPrompt)},
			{Role: domain.RoleUser, Content: question + "\n\nContext:" + digest},
		}
	}

	if strings.TrimSpace(g.context.String()) == "" {
		p.fallback(ctx, g)
	}

	out := g.context.String()
	logger.Debug("Planner: context length=%d", len(out))
	return out
}

func (p *Planner) requestPlan(ctx context.Context, messages []domain.ChatMessage) (domain.Plan, bool) {
	if p.chat == nil {
		return domain.Plan{}, false
	}
	raw, err := p.chat.Chat(ctx, messages, driven.ChatOptions{UseCache: false})
	if err != nil {
		logger.Warn("Planning request failed: %v", err)
		return domain.Plan{}, false
	}
	plan, ok := DecodePlan(raw)
	if !ok {
		logger.Debug("Planner: could not decode plan (%d bytes)", len(raw))
	}
	return plan, ok
}

// execute runs every step of plan and returns the digest of new signals.
func (p *Planner) execute(ctx context.Context, g *gathering, plan domain.Plan) string {
	var digest strings.Builder
	for _, step := range plan.Steps {
		switch call := step.(type) {
		case domain.TimelineSummaryCall:
			out := p.tools.TimelineSummary(ctx, call.Days)
			g.appendBlock(&digest, call.Tool(), "TL: ", out)

		case domain.TimelineRangeCall:
			out := p.tools.TimelineSummaryRange(ctx, call.Start, call.End)
			g.appendBlock(&digest, call.Tool(), "TR: ", out)

		case domain.EntriesRangeCall:
			out := p.tools.EntriesSummaryRange(ctx, call.Start, call.End, call.K)
			g.appendBlock(&digest, call.Tool(), "ER: ", out)

		case domain.MinePatternsCall:
			out := p.tools.MinePatterns(ctx, call.WindowDays)
			g.appendBlock(&digest, call.Tool(), "MP: ", out)

		case domain.SemanticSearchCall:
			query := call.Query
			if query == "" {
				query = g.question
			}
			g.appendSearch(&digest, p.tools.SemanticSearch(ctx, query, call.K))
		}
	}
	return digest.String()
}

// fallback runs when planning produced no context.
func (p *Planner) fallback(ctx context.Context, g *gathering) {
	logger.Debug("Planner: running fallback")
	g.appendSearch(nil, p.tools.SemanticSearch(ctx, g.question, domain.DefaultFallbackSearchK))

	lower := strings.ToLower(g.question)
	if strings.Contains(lower, "week") || strings.Contains(lower, "recent") {
		out := p.tools.TimelineSummary(ctx, domain.DefaultTimelineDays)
		g.appendBlock(nil, domain.ToolTimelineSummary, "", out)
	}
}

func (g *gathering) appendBlock(digest *strings.Builder, tool domain.ToolName, prefix, out string) {
	if strings.TrimSpace(out) == "" {
		return
	}
	fmt.Fprintf(&g.context, "\n\n[Tool: %s]\n%s", tool, out)
	if digest != nil {
		digest.WriteString("\n")
		digest.WriteString(prefix)
		digest.WriteString(truncateRunes(out, digestRunes))
	}
}

// appendSearch adds hits not already in the context.
func (g *gathering) appendSearch(digest *strings.Builder, hits []driving.SemanticHit) {
	var fresh []driving.SemanticHit
	for _, hit := range hits {
		if _, dup := g.seen[hit.DocumentID]; dup {
			continue
		}
		g.seen[hit.DocumentID] = struct{}{}
		fresh = append(fresh, hit)
	}
	if len(fresh) == 0 {
		return
	}

	fmt.Fprintf(&g.context, "\n\n[Tool: %s]\n", domain.ToolSemanticSearch)
	snippets := make([]string, len(fresh))
	for i, hit := range fresh {
		fmt.Fprintf(&g.context, "- Entry %s: %s\n", hit.DocumentID, hit.Snippet)
		snippets[i] = truncateRunes(hit.Snippet, digestSnippetRunes)
	}
	if digest != nil {
		digest.WriteString("\nSS: ")
		digest.WriteString(strings.Join(snippets, "; "))
	}
}

// loadPrompt returns the named prompt from store, or fallback when the
// store is unset or fails.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// DefaultPrompts returns the built-in prompts by name.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptPlanning: PlanningPrompt,
		driven.PromptFollowUp: FollowUpPrompt,
		driven.PromptGuidance: GuidancePrompt,
	}
}

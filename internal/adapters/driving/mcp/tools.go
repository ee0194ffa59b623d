package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/journai/journai-core/internal/core/domain"
)

const (
	defaultSearchLimit  = 5
	defaultTimelineDays = 7
	defaultPatternDays  = 30
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"what to look for in the journal"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of entries to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Snippet    string  `json:"snippet"`
	Score      float32 `json:"score"`
}

// TimelineInput is the input schema for the timeline_summary tool.
type TimelineInput struct {
	Days int `json:"days,omitempty" jsonschema:"number of days to look back (default 7)"`
}

// RangeInput is the input schema for the range tools.
type RangeInput struct {
	Start string `json:"start" jsonschema:"range start, YYYY-MM-DD or RFC 3339"`
	End   string `json:"end" jsonschema:"range end, YYYY-MM-DD (inclusive) or RFC 3339"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of entries (entries_range only)"`
}

// PatternsInput is the input schema for the mine_patterns tool.
type PatternsInput struct {
	WindowDays int `json:"window_days,omitempty" jsonschema:"number of days to mine (default 30)"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"question to answer from the journal"`
}

// TextOutput carries a plain text context block.
type TextOutput struct {
	Text string `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find journal entries similar to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "timeline_summary",
		Description: "List dated events from the last days of the journal",
	}, s.handleTimeline)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "timeline_range",
		Description: "List dated events between two dates",
	}, s.handleTimelineRange)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "entries_range",
		Description: "List journal entries written between two dates",
	}, s.handleEntriesRange)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mine_patterns",
		Description: "Report people, places and topics that recur in recent entries",
	}, s.handlePatterns)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the journal as context",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchOutput{}, fmt.Errorf("query: %w", domain.ErrInvalidInput)
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	hits := s.ports.Tools.SemanticSearch(ctx, input.Query, limit)

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}
	for i, hit := range hits {
		output.Results[i] = SearchResultOutput{
			DocumentID: hit.DocumentID,
			Snippet:    hit.Snippet,
			Score:      hit.Score,
		}
	}

	return nil, output, nil
}

func (s *Server) handleTimeline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TimelineInput,
) (*mcp.CallToolResult, TextOutput, error) {
	days := input.Days
	if days <= 0 {
		days = defaultTimelineDays
	}
	return nil, TextOutput{Text: s.ports.Tools.TimelineSummary(ctx, days)}, nil
}

func (s *Server) handleTimelineRange(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RangeInput,
) (*mcp.CallToolResult, TextOutput, error) {
	r, err := domain.ParseDateRange(input.Start, input.End, time.Local)
	if err != nil {
		return nil, TextOutput{}, err
	}
	return nil, TextOutput{Text: s.ports.Tools.TimelineSummaryRange(ctx, r.Start, r.End)}, nil
}

func (s *Server) handleEntriesRange(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RangeInput,
) (*mcp.CallToolResult, TextOutput, error) {
	r, err := domain.ParseDateRange(input.Start, input.End, time.Local)
	if err != nil {
		return nil, TextOutput{}, err
	}
	return nil, TextOutput{Text: s.ports.Tools.EntriesSummaryRange(ctx, r.Start, r.End, input.Limit)}, nil
}

func (s *Server) handlePatterns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PatternsInput,
) (*mcp.CallToolResult, TextOutput, error) {
	days := input.WindowDays
	if days <= 0 {
		days = defaultPatternDays
	}
	return nil, TextOutput{Text: s.ports.Tools.MinePatterns(ctx, days)}, nil
}

// handleAsk runs a single-turn completion.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, TextOutput, error) {
	if s.ports.Completion == nil {
		return nil, TextOutput{}, ErrAskUnavailable
	}
	if strings.TrimSpace(input.Question) == "" {
		return nil, TextOutput{}, fmt.Errorf("question: %w", domain.ErrInvalidInput)
	}

	reply, err := s.ports.Completion.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleUser, Content: input.Question},
	}, true)
	if err != nil {
		return nil, TextOutput{}, err
	}
	return nil, TextOutput{Text: reply}, nil
}

package domain

import "time"

// ToolName identifies a local tool the planner may request.
type ToolName string

// Known tools.
const (
	ToolTimelineSummary      ToolName = "timelineSummary"
	ToolTimelineSummaryRange ToolName = "timelineSummaryRange"
	ToolSemanticSearch       ToolName = "semanticSearch"
	ToolMinePatterns         ToolName = "minePatterns"
	ToolEntriesSummaryRange  ToolName = "entriesSummaryRange"
)

// Default tool parameters used when the plan omits them.
const (
	DefaultTimelineDays    = 7
	DefaultSearchK         = 7
	DefaultPatternWindow   = 30
	DefaultEntriesRangeK   = 10
	DefaultFallbackSearchK = 5
)

// ToolCall is one step of a Plan. The concrete type carries the
// typed parameters for its tool.
type ToolCall interface {
	Tool() ToolName
}

// Plan is the decoded response of one planning round.
type Plan struct {
	Steps []ToolCall
}

// Empty reports whether the plan requests no tools.
func (p Plan) Empty() bool {
	return len(p.Steps) == 0
}

// TimelineSummaryCall summarises the timeline over the last Days days.
type TimelineSummaryCall struct {
	Days int
}

// Tool implements ToolCall.
func (TimelineSummaryCall) Tool() ToolName { return ToolTimelineSummary }

// TimelineRangeCall summarises the timeline between two instants.
type TimelineRangeCall struct {
	Start time.Time
	End   time.Time
}

// Tool implements ToolCall.
func (TimelineRangeCall) Tool() ToolName { return ToolTimelineSummaryRange }

// SemanticSearchCall retrieves the K entries most similar to Query.
// An empty Query means the user's question.
type SemanticSearchCall struct {
	Query string
	K     int
}

// Tool implements ToolCall.
func (SemanticSearchCall) Tool() ToolName { return ToolSemanticSearch }

// MinePatternsCall reports recurring entities over a window.
type MinePatternsCall struct {
	WindowDays int
}

// Tool implements ToolCall.
func (MinePatternsCall) Tool() ToolName { return ToolMinePatterns }

// EntriesRangeCall lists up to K entries created within a window.
type EntriesRangeCall struct {
	Start time.Time
	End   time.Time
	K     int
}

// Tool implements ToolCall.
func (EntriesRangeCall) Tool() ToolName { return ToolEntriesSummaryRange }

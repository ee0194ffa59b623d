package driving

import (
	"context"
	"time"
)

// SemanticHit is one result of the semantic search tool.
type SemanticHit struct {
	DocumentID string
	Snippet    string
	Score      float32
}

// Tools are the read-only, bounded operations the planner may invoke.
// They never fail: problems are logged and produce empty output.
type Tools interface {
	// TimelineSummary lists timeline items of the last days days.
	TimelineSummary(ctx context.Context, days int) string

	// TimelineSummaryRange lists timeline items between two instants.
	TimelineSummaryRange(ctx context.Context, start, end time.Time) string

	// SemanticSearch returns up to k entries similar to query.
	SemanticSearch(ctx context.Context, query string, k int) []SemanticHit

	// EntriesSummaryRange lists up to k entries created between two instants.
	EntriesSummaryRange(ctx context.Context, start, end time.Time, k int) string

	// MinePatterns reports entities recurring over the last windowDays days.
	MinePatterns(ctx context.Context, windowDays int) string
}

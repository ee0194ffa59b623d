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

// Ensure Tools implements the interface.
var _ driving.Tools = (*Tools)(nil)

// Tool limits.
const (
	MaxToolDays      = 365
	MaxSearchK       = 20
	MaxEntriesRangeK = 50
	SnippetRunes     = 200

	recentTimelineItems   = 15
	recentTimelineEntries = 10
	rangeTimelineItems    = 30
	rangeTimelineEntries  = 20
	topPatterns           = 10
)

// Tools exposes read-only context builders over the stores.
type Tools struct {
	retrieval driving.Retrieval
	docs      driven.DocumentStore
	timeline  driven.TimelineStore
	entities  driven.EntityStore
	now       func() time.Time
}

// NewTools creates the tool layer. now defaults to time.Now.
func NewTools(
	retrieval driving.Retrieval,
	docs driven.DocumentStore,
	timeline driven.TimelineStore,
	entities driven.EntityStore,
	now func() time.Time,
) *Tools {
	if now == nil {
		now = time.Now
	}
	return &Tools{
		retrieval: retrieval,
		docs:      docs,
		timeline:  timeline,
		entities:  entities,
		now:       now,
	}
}

// TimelineSummary lists timeline items of the last days days, falling back
// to entries written in that window.
func (t *Tools) TimelineSummary(ctx context.Context, days int) string {
	days = clamp(days, domain.DefaultTimelineDays, 1, MaxToolDays)
	end := t.now()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)
	logger.Debug("Tool timelineSummary: days=%d", days)

	header := fmt.Sprintf("Recent timeline (last %d days):\n", days)
	return t.timelineBlock(ctx, header, start, end, recentTimelineItems, recentTimelineEntries)
}

// TimelineSummaryRange lists timeline items between two instants.
// Reversed bounds are swapped.
func (t *Tools) TimelineSummaryRange(ctx context.Context, start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return ""
	}
	if end.Before(start) {
		start, end = end, start
	}
	logger.Debug("Tool timelineSummaryRange: %s .. %s", formatInstant(start), formatInstant(end))

	header := fmt.Sprintf("Timeline between %s and %s:\n", formatInstant(start), formatInstant(end))
	return t.timelineBlock(ctx, header, start, end, rangeTimelineItems, rangeTimelineEntries)
}

func (t *Tools) timelineBlock(
	ctx context.Context, header string, start, end time.Time, maxItems, maxEntries int,
) string {
	items, err := t.timeline.ListBetween(ctx, start, end, maxItems)
	if err != nil {
		logger.Warn("Timeline lookup failed: %v", err)
		items = nil
	}

	var sb strings.Builder
	if len(items) > 0 {
		sb.WriteString(header)
		for _, item := range items {
			writeLine(&sb, formatInstant(item.Timestamp), item.Summary)
		}
		return sb.String()
	}

	docs, err := t.docs.ListCreatedBetween(ctx, start, end, maxEntries)
	if err != nil {
		logger.Warn("Entry lookup failed: %v", err)
		return ""
	}
	if len(docs) == 0 {
		return ""
	}
	sb.WriteString(header)
	for _, doc := range docs {
		writeLine(&sb, formatInstant(doc.CreatedAt), flatten(doc.Body))
	}
	return sb.String()
}

// SemanticSearch returns up to k entries similar to query. When the
// semantic index has nothing, a case-insensitive text match is used.
func (t *Tools) SemanticSearch(ctx context.Context, query string, k int) []driving.SemanticHit {
	if strings.TrimSpace(query) == "" {
		return []driving.SemanticHit{}
	}
	k = clamp(k, domain.DefaultSearchK, 1, MaxSearchK)

	var hits []driving.SemanticHit
	if t.retrieval != nil {
		scored, err := t.retrieval.SearchScored(ctx, query, k)
		if err != nil {
			logger.Warn("Semantic search failed: %v", err)
		}
		for _, s := range scored {
			hits = append(hits, driving.SemanticHit{
				DocumentID: s.Document.ID,
				Snippet:    truncateRunes(s.Document.Body, SnippetRunes),
				Score:      s.Score,
			})
		}
	}
	if len(hits) > 0 {
		return hits
	}

	docs, err := t.docs.SearchText(ctx, query, k)
	if err != nil {
		logger.Warn("Lexical search failed: %v", err)
		return []driving.SemanticHit{}
	}
	logger.Debug("Tool semanticSearch: lexical fallback returned %d", len(docs))
	hits = make([]driving.SemanticHit, 0, len(docs))
	for _, doc := range docs {
		hits = append(hits, driving.SemanticHit{
			DocumentID: doc.ID,
			Snippet:    truncateRunes(doc.Body, SnippetRunes),
		})
	}
	return hits
}

// EntriesSummaryRange lists up to k entries created between two instants.
func (t *Tools) EntriesSummaryRange(ctx context.Context, start, end time.Time, k int) string {
	if start.IsZero() || end.IsZero() {
		return ""
	}
	if end.Before(start) {
		start, end = end, start
	}
	k = clamp(k, domain.DefaultEntriesRangeK, 1, MaxEntriesRangeK)

	docs, err := t.docs.ListCreatedBetween(ctx, start, end, k)
	if err != nil {
		logger.Warn("Entry lookup failed: %v", err)
		return ""
	}
	if len(docs) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Entries between %s and %s:\n", formatInstant(start), formatInstant(end))
	for _, doc := range docs {
		writeLine(&sb, formatInstant(doc.CreatedAt), flatten(doc.Body))
	}
	return sb.String()
}

// MinePatterns reports the entities linked from the most entries written
// in the last windowDays days.
func (t *Tools) MinePatterns(ctx context.Context, windowDays int) string {
	windowDays = clamp(windowDays, domain.DefaultPatternWindow, 1, MaxToolDays)
	end := t.now()
	start := end.Add(-time.Duration(windowDays) * 24 * time.Hour)

	mentions, err := t.entities.TopEntitiesBetween(ctx, start, end, topPatterns)
	if err != nil {
		logger.Warn("Pattern lookup failed: %v", err)
		return ""
	}
	if len(mentions) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recurring themes (last %d days):\n", windowDays)
	for _, m := range mentions {
		noun := "entries"
		if m.Documents == 1 {
			noun = "entry"
		}
		fmt.Fprintf(&sb, "- %s: mentioned in %d %s\n", truncateRunes(m.Entity.Name, SnippetRunes), m.Documents, noun)
	}
	return sb.String()
}

// clamp returns def for non-positive v, otherwise v bounded to [lo, hi].
func clamp(v, def, lo, hi int) int {
	if v <= 0 {
		v = def
	}
	return max(lo, min(v, hi))
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func writeLine(sb *strings.Builder, stamp, content string) {
	sb.WriteString("- ")
	sb.WriteString(stamp)
	sb.WriteString(": ")
	sb.WriteString(truncateRunes(content, SnippetRunes))
	sb.WriteByte('\n')
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

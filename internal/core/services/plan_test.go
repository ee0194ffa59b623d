package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journai/journai-core/internal/core/domain"
)

func TestDecodePlan(t *testing.T) {
	raw := "Sure! Here is the plan:\n```json\n" + `{"tools": [
		{"tool": "timelineSummary", "params": {"days": 14}},
		{"tool": "semanticSearch", "params": {"query": "running", "k": "3"}},
		{"tool": "minePatterns"},
		{"tool": "timelineSummaryRange", "params": {"start": "2024-01-01", "end": "2024-01-31T23:59:59Z"}},
		{"tool": "entriesSummaryRange", "params": {"start": "2024-02-01T00:00:00Z", "end": "2024-02-10T00:00:00Z", "k": 4}}
	]}` + "\n```"

	plan, ok := DecodePlan(raw)
	require.True(t, ok)
	require.Len(t, plan.Steps, 5)

	assert.Equal(t, domain.TimelineSummaryCall{Days: 14}, plan.Steps[0])
	assert.Equal(t, domain.SemanticSearchCall{Query: "running", K: 3}, plan.Steps[1])
	assert.Equal(t, domain.MinePatternsCall{}, plan.Steps[2])
	assert.Equal(t, domain.TimelineRangeCall{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
	}, plan.Steps[3])
	assert.Equal(t, domain.EntriesRangeCall{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		K:     4,
	}, plan.Steps[4])
}

func TestDecodePlan_DropsBadSteps(t *testing.T) {
	raw := `{"tools": [
		{"tool": "launchRockets"},
		{"tool": "timelineSummary", "params": {"days": "lots"}},
		{"tool": "timelineSummaryRange", "params": {"start": "2024-01-01"}},
		{"tool": "semanticSearch", "params": {"query": 12}},
		{"tool": "minePatterns", "params": {"windowDays": null}}
	]}`

	plan, ok := DecodePlan(raw)
	require.True(t, ok)
	assert.Equal(t, []domain.ToolCall{domain.MinePatternsCall{}}, plan.Steps)
}

func TestDecodePlan_NotJSON(t *testing.T) {
	for _, raw := range []string{"", "I cannot help with that.", "{not json}", "} {"} {
		_, ok := DecodePlan(raw)
		assert.False(t, ok, raw)
	}
}

func TestDecodePlan_EmptyTools(t *testing.T) {
	plan, ok := DecodePlan(`{"tools": []}`)
	require.True(t, ok)
	assert.True(t, plan.Empty())
}

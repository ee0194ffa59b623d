package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driving"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns hits", func(t *testing.T) {
		tools := &mockTools{hits: []driving.SemanticHit{
			{DocumentID: "doc-1", Snippet: "Walked to the lake", Score: 0.91},
		}}
		server := newTestServer(t, &Ports{Tools: tools})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "lake", Limit: 3})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "doc-1", output.Results[0].DocumentID)
		assert.Equal(t, "Walked to the lake", output.Results[0].Snippet)
		assert.InDelta(t, 0.91, output.Results[0].Score, 1e-6)
		assert.Equal(t, 3, tools.lastK)
	})

	t.Run("default limit", func(t *testing.T) {
		tools := &mockTools{}
		server := newTestServer(t, &Ports{Tools: tools})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "lake"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Empty(t, output.Results)
		assert.Equal(t, defaultSearchLimit, tools.lastK)
	})

	t.Run("blank query is rejected", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "  "})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleTimeline(t *testing.T) {
	ctx := context.Background()
	tools := &mockTools{text: "timeline block"}
	server := newTestServer(t, &Ports{Tools: tools})

	_, out, err := server.handleTimeline(ctx, nil, TimelineInput{})
	require.NoError(t, err)
	assert.Equal(t, "timeline block", out.Text)
	assert.Equal(t, defaultTimelineDays, tools.lastDays)

	_, _, err = server.handleTimeline(ctx, nil, TimelineInput{Days: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, tools.lastDays)
}

func TestServer_handleRanges(t *testing.T) {
	ctx := context.Background()

	t.Run("timeline range with dates", func(t *testing.T) {
		tools := &mockTools{text: "range block"}
		server := newTestServer(t, &Ports{Tools: tools})

		_, out, err := server.handleTimelineRange(ctx, nil, RangeInput{Start: "2024-03-01", End: "2024-03-02"})

		require.NoError(t, err)
		assert.Equal(t, "range block", out.Text)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), tools.start)
		assert.Equal(t, time.Date(2024, 3, 2, 23, 59, 59, 999999999, time.Local), tools.end)
	})

	t.Run("entries range passes limit", func(t *testing.T) {
		tools := &mockTools{text: "entries block"}
		server := newTestServer(t, &Ports{Tools: tools})

		_, out, err := server.handleEntriesRange(ctx, nil, RangeInput{
			Start: "2024-03-01T08:00:00Z",
			End:   "2024-03-01T20:00:00Z",
			Limit: 4,
		})

		require.NoError(t, err)
		assert.Equal(t, "entries block", out.Text)
		assert.Equal(t, 4, tools.lastK)
		assert.True(t, tools.end.Equal(time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)))
	})

	t.Run("invalid dates", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, _, err := server.handleTimelineRange(ctx, nil, RangeInput{Start: "yesterday", End: "2024-03-02"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, _, err = server.handleEntriesRange(ctx, nil, RangeInput{Start: "2024-03-05", End: "2024-03-02"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handlePatterns(t *testing.T) {
	tools := &mockTools{text: "patterns"}
	server := newTestServer(t, &Ports{Tools: tools})

	_, out, err := server.handlePatterns(context.Background(), nil, PatternsInput{})

	require.NoError(t, err)
	assert.Equal(t, "patterns", out.Text)
	assert.Equal(t, defaultPatternDays, tools.lastDays)
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("without completion", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "how was march?"})

		assert.ErrorIs(t, err, ErrAskUnavailable)
	})

	t.Run("sends one user message", func(t *testing.T) {
		completion := &mockCompletion{reply: "Busy but good."}
		server := newTestServer(t, &Ports{Completion: completion})

		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "how was march?"})

		require.NoError(t, err)
		assert.Equal(t, "Busy but good.", out.Text)
		require.Len(t, completion.messages, 1)
		assert.Equal(t, domain.RoleUser, completion.messages[0].Role)
		assert.Equal(t, "how was march?", completion.messages[0].Content)
	})

	t.Run("propagates errors", func(t *testing.T) {
		completion := &mockCompletion{err: errors.New("remote down")}
		server := newTestServer(t, &Ports{Completion: completion})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "hi"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "remote down")
	})

	t.Run("blank question", func(t *testing.T) {
		server := newTestServer(t, &Ports{Completion: &mockCompletion{}})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: ""})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journai/journai-core/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(nil, "search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func scoredFixture() []domain.ScoredDocument {
	return []domain.ScoredDocument{
		{
			Document: domain.Document{
				ID:        "e-1",
				Title:     "Lake swim",
				Body:      "Cold water,\n\nbright sun.",
				CreatedAt: time.Date(2024, 5, 30, 18, 0, 0, 0, time.UTC),
			},
			Score: 0.82,
		},
		{
			Document: domain.Document{ID: "e-2", Body: "Untitled thoughts", CreatedAt: testNow},
			Score:    0.41,
		},
	}
}

func TestSearchCmd_Table(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.retrieval.results = scoredFixture()

	out, err := execute(nil, "search", "--limit", "7", "swimming")

	require.NoError(t, err)
	assert.Equal(t, 7, ts.retrieval.topK)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Lake swim - 2024-05-30 (0.82)")
	assert.Contains(t, out, "Cold water, bright sun.")
	assert.Contains(t, out, "[2] e-2")
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(nil, "search", "anything")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.retrieval.results = scoredFixture()

	out, err := execute(nil, "search", "--json", "swimming")

	require.NoError(t, err)
	var results []searchResultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "e-1", results[0].ID)
	assert.InDelta(t, 0.82, results[0].Score, 1e-6)
	assert.Equal(t, "2024-05-30T18:00:00Z", results[0].CreatedAt)
}

func TestSearchCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.retrieval.err = errors.New("embedding service down")

	_, err := execute(nil, "search", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{name: "short", text: "hello", n: 10, want: "hello"},
		{name: "whitespace folded", text: "a\n\n b\tc", n: 10, want: "a b c"},
		{name: "cut", text: "one two three", n: 7, want: "one two..."},
		{name: "runes", text: strings.Repeat("é", 5), n: 3, want: "ééé..."},
		{name: "empty", text: "  ", n: 3, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snippet(tt.text, tt.n))
		})
	}
}

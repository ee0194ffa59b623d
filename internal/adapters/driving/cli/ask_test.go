package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journai/journai-core/internal/core/domain"
)

func TestAskCmd_Argument(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(nil, "ask", "how", "often", "did", "I", "run?")

	require.NoError(t, err)
	assert.Contains(t, out, "You went running twice.")
	require.Len(t, ts.completion.calls, 1)
	assert.Equal(t, []domain.ChatMessage{{Role: domain.RoleUser, Content: "how often did I run?"}}, ts.completion.calls[0])
	assert.True(t, ts.completion.useCache)
}

func TestAskCmd_NoCache(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(nil, "ask", "--no-cache", "hi")

	require.NoError(t, err)
	assert.False(t, ts.completion.useCache)
}

func TestAskCmd_Stdin(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(strings.NewReader("  what did I eat?\n"), "ask")

	require.NoError(t, err)
	assert.Contains(t, out, "You went running twice.")
	require.Len(t, ts.completion.calls, 1)
	assert.Equal(t, "what did I eat?", ts.completion.calls[0][0].Content)
}

func TestAskCmd_EmptyStdin(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(strings.NewReader(""), "ask")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no question given")
}

func TestAskCmd_LLMUnavailable(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.completion.err = domain.ErrLLMUnavailable

	_, err := execute(nil, "ask", "hello")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, err.Error(), "llm.provider")
}

func TestRunConversation(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	askCmd.SetContext(context.Background())

	in := strings.NewReader("first question\n\nsecond question\nexit\nnever sent\n")
	require.NoError(t, runConversation(askCmd, in))

	require.Len(t, ts.completion.calls, 2)
	assert.Len(t, ts.completion.calls[0], 1)
	second := ts.completion.calls[1]
	require.Len(t, second, 3)
	assert.Equal(t, domain.RoleUser, second[0].Role)
	assert.Equal(t, domain.RoleAssistant, second[1].Role)
	assert.Equal(t, "You went running twice.", second[1].Content)
	assert.Equal(t, "second question", second[2].Content)
}

func TestRunConversation_EOFAndErrors(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.completion.err = domain.ErrServiceUnavailable
	askCmd.SetContext(context.Background())

	in := strings.NewReader("one\ntwo")
	require.NoError(t, runConversation(askCmd, in))

	require.Len(t, ts.completion.calls, 2)
	// A failed turn is not kept in the history.
	assert.Len(t, ts.completion.calls[1], 1)
	assert.Equal(t, "two", ts.completion.calls[1][0].Content)
}

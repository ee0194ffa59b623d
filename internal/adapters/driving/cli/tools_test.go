package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journai/journai-core/internal/core/domain"
)

func TestToolsTimeline(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(nil, "tools", "timeline")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTimelineDays, ts.tools.days)
	assert.Contains(t, out, "No events in the last 7 days.")

	ts.tools.timeline = "2024-06-01: Hike with Sam\n"
	out, err = execute(nil, "tools", "timeline", "--days", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, ts.tools.days)
	assert.Equal(t, "2024-06-01: Hike with Sam\n", out)
}

func TestToolsRange(t *testing.T) {
	t.Run("timeline", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()
		ts.tools.timeline = "events"

		out, err := execute(nil, "tools", "range", "--from", "2024-05-01", "--to", "2024-05-31")

		require.NoError(t, err)
		assert.Contains(t, out, "events")
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local), ts.tools.start)
		assert.Equal(t, time.Date(2024, 5, 31, 23, 59, 59, 999999999, time.Local), ts.tools.end)
	})

	t.Run("entries", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()

		out, err := execute(nil, "tools", "range", "--from", "2024-05-01", "--to", "2024-05-02", "--entries", "-n", "4")

		require.NoError(t, err)
		assert.Equal(t, 4, ts.tools.k)
		assert.Contains(t, out, "No entries in range.")
	})

	t.Run("bad dates", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()

		_, err := execute(nil, "tools", "range", "--from", "2024-05-10", "--to", "2024-05-01")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestToolsPatterns(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.tools.patterns = "Sam appears in 4 entries"

	out, err := execute(nil, "tools", "patterns")

	require.NoError(t, err)
	assert.Equal(t, 30, ts.tools.days)
	assert.Contains(t, out, "Sam appears in 4 entries")
}

func TestToolsPlan(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.planner.context = "Relevant entries:\n- Lake swim"

	out, err := execute(nil, "tools", "plan", "when", "did", "I", "swim?")

	require.NoError(t, err)
	assert.Equal(t, "when did I swim?", ts.planner.question)
	assert.Contains(t, out, "Lake swim")
}

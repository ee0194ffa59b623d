package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journai/journai-core/internal/core/domain"
)

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	now := time.Now().UTC()
	task := &domain.ScheduledTask{
		ID:          domain.TaskIDIndexPass,
		Name:        "Index Pass",
		Interval:    15 * time.Minute,
		LastRun:     now.Add(-10 * time.Minute),
		NextRun:     now.Add(5 * time.Minute),
		LastSuccess: now.Add(-10 * time.Minute),
		Enabled:     true,
	}
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	retrieved, err := schedulerStore.GetTask(ctx, domain.TaskIDIndexPass)
	require.NoError(t, err)
	require.NotNil(t, retrieved)

	assert.Equal(t, task.Name, retrieved.Name)
	assert.Equal(t, task.Interval, retrieved.Interval)
	assert.True(t, retrieved.Enabled)
	assert.True(t, task.LastRun.Equal(retrieved.LastRun))
	assert.True(t, task.NextRun.Equal(retrieved.NextRun))
	assert.True(t, task.LastSuccess.Equal(retrieved.LastSuccess))
}

func TestSchedulerStore_GetTask_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	task, err := store.SchedulerStore().GetTask(context.Background(), "non-existent")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestSchedulerStore_SaveTask_Update(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	task := &domain.ScheduledTask{
		ID:       domain.TaskIDJournalImport,
		Name:     "Journal Import",
		Interval: 5 * time.Minute,
		Enabled:  true,
	}
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	task.Interval = 10 * time.Minute
	task.LastError = "reading journal directory: permission denied"
	task.Enabled = false
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	retrieved, err := schedulerStore.GetTask(ctx, domain.TaskIDJournalImport)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, retrieved.Interval)
	assert.Equal(t, task.LastError, retrieved.LastError)
	assert.False(t, retrieved.Enabled)
}

func TestSchedulerStore_NilArguments(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	assert.ErrorIs(t, schedulerStore.SaveTask(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, schedulerStore.RecordResult(ctx, nil), domain.ErrInvalidInput)
}

func TestSchedulerStore_ListAndDeleteTasks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	empty, err := schedulerStore.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, task := range []*domain.ScheduledTask{
		{ID: "b", Name: "B", Interval: time.Hour, Enabled: true},
		{ID: "a", Name: "A", Interval: 2 * time.Hour},
	} {
		require.NoError(t, schedulerStore.SaveTask(ctx, task))
	}

	tasks, err := schedulerStore.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)

	require.NoError(t, schedulerStore.DeleteTask(ctx, "a"))
	deleted, err := schedulerStore.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestSchedulerStore_RecordResult(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	now := time.Now().UTC()
	require.NoError(t, schedulerStore.RecordResult(ctx, &domain.TaskResult{
		TaskID:         domain.TaskIDIndexPass,
		StartedAt:      now.Add(-5 * time.Minute),
		EndedAt:        now,
		Success:        true,
		ItemsProcessed: 10,
	}))
	require.NoError(t, schedulerStore.RecordResult(ctx, &domain.TaskResult{
		TaskID:    domain.TaskIDIndexPass,
		StartedAt: now,
		EndedAt:   now.Add(time.Minute),
		Error:     "embedding service unavailable",
	}))

	history, err := schedulerStore.GetTaskHistory(ctx, domain.TaskIDIndexPass, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Most recent first
	assert.False(t, history[0].Success)
	assert.Equal(t, "embedding service unavailable", history[0].Error)
	assert.True(t, history[1].Success)
	assert.Equal(t, 10, history[1].ItemsProcessed)
	assert.True(t, now.Equal(history[1].EndedAt))

	none, err := schedulerStore.GetTaskHistory(ctx, "other", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSchedulerStore_HistoryLimitAndPrune(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	now := time.Now().UTC()
	for _, taskID := range []string{"t1", "t2"} {
		for i := 0; i < 10; i++ {
			require.NoError(t, schedulerStore.RecordResult(ctx, &domain.TaskResult{
				TaskID:         taskID,
				StartedAt:      now.Add(time.Duration(i) * time.Minute),
				EndedAt:        now.Add(time.Duration(i)*time.Minute + 30*time.Second),
				Success:        true,
				ItemsProcessed: i + 1,
			}))
		}
	}

	limited, err := schedulerStore.GetTaskHistory(ctx, "t1", 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	require.NoError(t, schedulerStore.PruneHistory(ctx, 3))

	for _, taskID := range []string{"t1", "t2"} {
		history, err := schedulerStore.GetTaskHistory(ctx, taskID, 100)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, 10, history[0].ItemsProcessed)
		assert.Equal(t, 8, history[2].ItemsProcessed)
	}
}

func TestSchedulerStore_TaskWithZeroTimes(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	require.NoError(t, schedulerStore.SaveTask(ctx, &domain.ScheduledTask{
		ID: "fresh", Name: "Fresh", Interval: time.Hour, Enabled: true,
	}))

	retrieved, err := schedulerStore.GetTask(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, retrieved.LastRun.IsZero())
	assert.True(t, retrieved.NextRun.IsZero())
	assert.True(t, retrieved.LastSuccess.IsZero())
	assert.Empty(t, retrieved.LastError)
}

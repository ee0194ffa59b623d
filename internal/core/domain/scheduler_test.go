package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSchedulerConfig(t *testing.T) {
	config := DefaultSchedulerConfig()

	assert.True(t, config.Enabled)
	assert.Equal(t, time.Minute, config.TickInterval)
	assert.Len(t, config.TaskConfigs, 2)

	indexCfg := config.TaskConfigs[TaskIDIndexPass]
	assert.True(t, indexCfg.Enabled)
	assert.Equal(t, 15*time.Minute, indexCfg.Interval)

	// Importing needs a journal directory, so it starts disabled.
	importCfg := config.TaskConfigs[TaskIDJournalImport]
	assert.False(t, importCfg.Enabled)
	assert.Equal(t, 5*time.Minute, importCfg.Interval)
}

func TestSchedulerConfig_GetTaskConfig(t *testing.T) {
	config := DefaultSchedulerConfig()

	indexCfg := config.GetTaskConfig(TaskIDIndexPass)
	assert.True(t, indexCfg.Enabled)
	assert.Equal(t, 15*time.Minute, indexCfg.Interval)

	unknownCfg := config.GetTaskConfig("unknown-task")
	assert.False(t, unknownCfg.Enabled)
	assert.Zero(t, unknownCfg.Interval)
}

func TestSchedulerConfig_GetTaskConfig_NilMap(t *testing.T) {
	config := SchedulerConfig{Enabled: true}

	cfg := config.GetTaskConfig(TaskIDIndexPass)
	assert.False(t, cfg.Enabled)
	assert.Zero(t, cfg.Interval)
}

func TestTaskConstants(t *testing.T) {
	assert.Equal(t, "index-pass", TaskIDIndexPass)
	assert.Equal(t, "journal-import", TaskIDJournalImport)
}

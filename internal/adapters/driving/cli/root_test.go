package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Commands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"entry", "index", "search", "tools", "ask", "watch", "scheduler", "settings", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("data-dir"))
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestResolveDataDir(t *testing.T) {
	original := dataDir
	defer func() { dataDir = original }()

	dataDir = "/tmp/journai-test"
	dir, err := resolveDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/journai-test", dir)

	dataDir = ""
	dir, err = resolveDataDir()
	require.NoError(t, err)
	assert.Contains(t, dir, ".journai")
}

func TestCloseServices(t *testing.T) {
	var order []int
	closers = []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	}

	closeServices()

	assert.Equal(t, []int{2, 1}, order)
	assert.Nil(t, closers)
}

func TestRequireServices_WithRealStore(t *testing.T) {
	oldDataDir := dataDir
	oldSettings, oldEntries := settingsService, entryService
	defer func() {
		closeServices()
		dataDir = oldDataDir
		settingsService, entryService = oldSettings, oldEntries
		indexService, retrievalService, toolsService = nil, nil, nil
		plannerService, completionService, schedulerStore = nil, nil, nil
	}()

	dataDir = t.TempDir()
	settingsService, entryService = nil, nil

	require.NoError(t, requireServices(t.Context()))

	assert.NotNil(t, settingsService)
	assert.NotNil(t, entryService)
	assert.NotNil(t, indexService)
	assert.NotNil(t, retrievalService)
	assert.NotNil(t, toolsService)
	assert.NotNil(t, plannerService)
	assert.NotNil(t, completionService)
	assert.NotNil(t, schedulerStore)
	assert.NotEmpty(t, closers)

	doc, err := entryService.Add(t.Context(), "", "Stored in SQLite.")
	require.NoError(t, err)
	got, err := entryService.Get(t.Context(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stored in SQLite.", got.Body)
}

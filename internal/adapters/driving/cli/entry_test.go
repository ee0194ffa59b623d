package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, len(entryCmd.Commands()))
	for _, c := range entryCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"add", "list", "show", "archive", "import"}, names)
}

func TestEntryAdd(t *testing.T) {
	t.Run("from argument", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()

		out, err := execute(nil, "entry", "add", "--title", "Run", "Ran 5k by the river.")

		require.NoError(t, err)
		assert.Contains(t, out, "Added entry")
		assert.Contains(t, out, "Run")

		docs, err := ts.entries.List(context.Background(), false)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Ran 5k by the river.", docs[0].Body)
		assert.Equal(t, testNow, docs[0].CreatedAt)
	})

	t.Run("from stdin derives title", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()

		out, err := execute(strings.NewReader("# Market day\nBought figs."), "entry", "add", "-")

		require.NoError(t, err)
		assert.Contains(t, out, "Market day")

		docs, err := ts.entries.List(context.Background(), false)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Market day", docs[0].Title)
	})

	t.Run("empty body fails", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()

		_, err := execute(strings.NewReader("   "), "entry", "add")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to add entry")
	})
}

func TestEntryList(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ctx := context.Background()

	out, err := execute(nil, "entry", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries.")

	kept, err := ts.entries.Add(ctx, "Kept", "body one")
	require.NoError(t, err)
	gone, err := ts.entries.Add(ctx, "Gone", "body two")
	require.NoError(t, err)
	require.NoError(t, ts.entries.Archive(ctx, gone.ID))

	out, err = execute(nil, "entry", "list")
	require.NoError(t, err)
	assert.Contains(t, out, kept.ID)
	assert.NotContains(t, out, gone.ID)

	out, err = execute(nil, "entry", "list", "--archived")
	require.NoError(t, err)
	assert.Contains(t, out, gone.ID)
	assert.Contains(t, out, "[archived]")
}

func TestEntryShowAndArchive(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ctx := context.Background()

	doc, err := ts.entries.Add(ctx, "Dinner", "Dinner with Ana at the harbour.")
	require.NoError(t, err)

	out, err := execute(nil, "entry", "show", doc.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Title:   Dinner")
	assert.Contains(t, out, "Dinner with Ana at the harbour.")

	out, err = execute(nil, "entry", "archive", doc.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Archived entry "+doc.ID)

	got, err := ts.entries.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, got.Archived)

	_, err = execute(nil, "entry", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get entry")
}

func TestEntryImport(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	writeJournal(t, dir, "2024-06-01.md", "# Saturday\nHike.")
	writeJournal(t, dir, "notes.txt", "Call mum.")
	writeJournal(t, dir, "photo.jpg", "\xff\xd8")

	out, err := execute(nil, "entry", "import", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 new or changed entries")

	out, err = execute(nil, "entry", "import", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 new or changed entries")

	docs, err := ts.entries.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestEntryImport_UsesConfiguredDir(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(nil, "entry", "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no journal directory")

	dir := t.TempDir()
	writeJournal(t, dir, "a.md", "Entry.")
	require.NoError(t, ts.settings.Set("journal.dir", dir))

	out, err := execute(nil, "entry", "import")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 new or changed entries from "+dir)
}

func writeJournal(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

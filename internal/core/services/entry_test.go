package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journai/journai-core/internal/adapters/driven/storage/memory"
	"github.com/journai/journai-core/internal/core/domain"
)

func TestEntryService_Add(t *testing.T) {
	docs := memory.NewDocumentStore()
	svc := NewEntryService(docs, func() time.Time { return t0 })
	ctx := context.Background()

	doc, err := svc.Add(ctx, "", "\n# Morning run\nFelt great.")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Morning run", doc.Title)
	assert.Equal(t, t0, doc.CreatedAt)
	assert.Equal(t, t0, doc.EditedAt)

	stored, err := svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Body, stored.Body)

	_, err = svc.Add(ctx, "Title", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEntryService_UpsertOnlyBumpsOnChange(t *testing.T) {
	docs := memory.NewDocumentStore()
	now := t0
	svc := NewEntryService(docs, func() time.Time { return now })
	ctx := context.Background()

	created, changed, err := svc.Upsert(ctx, "file:///j/2024-06-01.md", "", "Day one")
	require.NoError(t, err)
	assert.True(t, changed)

	now = t0.Add(time.Hour)
	same, changed, err := svc.Upsert(ctx, "file:///j/2024-06-01.md", "", "Day one")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, created.ID, same.ID)
	assert.Equal(t, t0, same.EditedAt)

	edited, changed, err := svc.Upsert(ctx, "file:///j/2024-06-01.md", "", "Day one, revised")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, created.ID, edited.ID)
	assert.Equal(t, now, edited.EditedAt)
	assert.Equal(t, t0, edited.CreatedAt)

	_, _, err = svc.Upsert(ctx, "", "", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEntryService_UpsertRestoresArchived(t *testing.T) {
	docs := memory.NewDocumentStore()
	svc := NewEntryService(docs, func() time.Time { return t0 })
	ctx := context.Background()

	doc, _, err := svc.Upsert(ctx, "j/a.md", "A", "body")
	require.NoError(t, err)
	require.NoError(t, svc.Archive(ctx, doc.ID))

	restored, changed, err := svc.Upsert(ctx, "j/a.md", "A", "body")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, restored.Archived)
}

func TestEntryService_ArchiveByURI(t *testing.T) {
	docs := memory.NewDocumentStore()
	svc := NewEntryService(docs, func() time.Time { return t0 })
	ctx := context.Background()

	doc, _, err := svc.Upsert(ctx, "j/gone.md", "", "soon removed")
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveByURI(ctx, "j/gone.md"))
	stored, err := svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, stored.Archived)

	// Archiving twice is a no-op.
	require.NoError(t, svc.ArchiveByURI(ctx, "j/gone.md"))
	assert.ErrorIs(t, svc.ArchiveByURI(ctx, "j/missing.md"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.ArchiveByURI(ctx, ""), domain.ErrInvalidInput)
}

func TestEntryService_ListAndArchive(t *testing.T) {
	docs := memory.NewDocumentStore()
	now := t0
	svc := NewEntryService(docs, func() time.Time { return now })
	ctx := context.Background()

	a, err := svc.Add(ctx, "a", "first")
	require.NoError(t, err)
	now = now.Add(time.Minute)
	_, err = svc.Add(ctx, "b", "second")
	require.NoError(t, err)

	require.NoError(t, svc.Archive(ctx, a.ID))
	assert.ErrorIs(t, svc.Archive(ctx, "missing"), domain.ErrNotFound)

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEntryTitle(t *testing.T) {
	assert.Equal(t, "Given", entryTitle("  Given ", "body"))
	assert.Equal(t, "First line", entryTitle("", "\n\n  First line\nsecond"))
	assert.Equal(t, "", entryTitle("", "   \n"))
	assert.Equal(t, strings.Repeat("é", maxTitleRunes), entryTitle("", strings.Repeat("é", 100)))
}

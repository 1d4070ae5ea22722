package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHistoryRecordAndRecent(t *testing.T) {
	store := newTestHistory(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	// Inserted out of chronological order to exercise the sort.
	records := []RenderRecord{
		{Scene: "cornell", Width: 400, Height: 400, Samples: 200, Passes: 7, Seed: 42, ElapsedMs: 9000, CreatedAt: base.Add(-time.Hour)},
		{Scene: "glass", Width: 400, Height: 225, Samples: 100, Passes: 5, Seed: 7, ElapsedMs: 4000, CreatedAt: base},
		{Scene: "default", Width: 200, Height: 112, Samples: 50, Passes: 7, Seed: 42, ElapsedMs: 1500, CreatedAt: base.Add(-2 * time.Hour)},
	}
	for _, record := range records {
		require.NoError(t, store.Record(ctx, record))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "glass", recent[0].Scene)
	assert.Equal(t, "cornell", recent[1].Scene)

	all, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "default", all[2].Scene)
}

func TestHistoryRecordFields(t *testing.T) {
	store := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, RenderRecord{
		Scene:     "cover",
		Width:     1200,
		Height:    675,
		Samples:   500,
		Passes:    10,
		Seed:      1234,
		ElapsedMs: 60000,
	}))

	recent, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	got := recent[0]
	assert.NotZero(t, got.ID)
	assert.Equal(t, "cover", got.Scene)
	assert.Equal(t, 1200, got.Width)
	assert.Equal(t, 675, got.Height)
	assert.Equal(t, 500, got.Samples)
	assert.Equal(t, 10, got.Passes)
	assert.Equal(t, int64(1234), got.Seed)
	assert.Equal(t, int64(60000), got.ElapsedMs)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be filled in on insert")
}

func TestHistoryReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := OpenHistory(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, RenderRecord{Scene: "cornell", Samples: 8}))
	require.NoError(t, store.Close())

	reopened, err := OpenHistory(path)
	require.NoError(t, err)
	defer reopened.Close()

	recent, err := reopened.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "cornell", recent[0].Scene)
}

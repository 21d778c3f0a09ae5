package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("   ")
	assert.Error(t, err)
}

func TestOpenRejectsDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestSaveRunAndReadBack(t *testing.T) {
	store := openStore(t)

	run := Run{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		Workspace:    "/proj",
		FilesScanned: 42,
		CycleCount:   2,
		Duration:     1500 * time.Millisecond,
	}
	cycles := []CycleRow{
		{Signature: "a -> b -> a", Display: "a -> b -> a", Length: 2},
		{Signature: "c -> d -> c", Display: "c -> d -> c", Length: 2, TypeOnly: true},
	}
	require.NoError(t, store.SaveRun(run, cycles))

	got, err := store.CyclesOf(run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a -> b -> a", got[0].Signature)
	assert.False(t, got[0].TypeOnly)
	assert.True(t, got[1].TypeOnly)
}

func TestTrendOrdersOldestFirst(t *testing.T) {
	store := openStore(t)
	base := time.Now().Add(-time.Hour)

	for i, count := range []int{3, 2, 0} {
		run := Run{
			ID:         uuid.NewString(),
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Workspace:  "/proj",
			CycleCount: count,
		}
		require.NoError(t, store.SaveRun(run, nil))
	}

	points, err := store.Trend("/proj", base.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 3, points[0].CycleCount)
	assert.Equal(t, 0, points[2].CycleCount)
	assert.True(t, points[0].Timestamp.Before(points[2].Timestamp))
}

func TestTrendFiltersByWorkspaceAndCutoff(t *testing.T) {
	store := openStore(t)
	now := time.Now()

	require.NoError(t, store.SaveRun(Run{ID: uuid.NewString(), Timestamp: now, Workspace: "/a", CycleCount: 1}, nil))
	require.NoError(t, store.SaveRun(Run{ID: uuid.NewString(), Timestamp: now.Add(-2 * time.Hour), Workspace: "/b", CycleCount: 9}, nil))
	require.NoError(t, store.SaveRun(Run{ID: uuid.NewString(), Timestamp: now, Workspace: "/b", CycleCount: 5}, nil))

	points, err := store.Trend("/b", now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 5, points[0].CycleCount)
}

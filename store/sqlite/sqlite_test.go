package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topspin/club-ledger/ledger"
	"github.com/topspin/club-ledger/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_NoSnapshotOnFirstRun(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background())
	assert.True(t, errors.Is(err, ledger.ErrNoSnapshot))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	blob := []byte(`{"players":[]}`)
	require.NoError(t, s.Save(ctx, blob))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestSave_ReplacesPreviousBlob(t *testing.T) {
	// Only the latest snapshot is kept. A second save overwrites the first.

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []byte("first")))
	require.NoError(t, s.Save(ctx, []byte("second")))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestSnapshot_SurvivesReopen(t *testing.T) {
	// GIVEN: a blob saved to a file-backed database
	// WHEN: the store is closed and reopened on the same path
	// THEN: the blob is still there

	path := filepath.Join(t.TempDir(), "club.db")
	ctx := context.Background()

	first, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, []byte("persisted")))
	require.NoError(t, first.Close())

	second, err := sqlite.New(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

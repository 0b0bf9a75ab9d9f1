package localstate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "dragonmap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFingerprints(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SetFingerprint(ctx, "10_20_아"))
	require.NoError(t, s.SetFingerprint(ctx, "10_20_아"), "set is idempotent")
	require.NoError(t, s.SetFingerprint(ctx, "30_40_퀘"))

	fps, err := s.ListFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"10_20_아": true, "30_40_퀘": true}, fps)

	require.NoError(t, s.DeleteFingerprint(ctx, "10_20_아"))
	require.NoError(t, s.DeleteFingerprint(ctx, "absent"), "deleting an absent fingerprint is a no-op")

	fps, err = s.ListFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"30_40_퀘": true}, fps)

	require.NoError(t, s.ClearFingerprints(ctx))
	fps, err = s.ListFingerprints(ctx)
	require.NoError(t, err)
	assert.Empty(t, fps)
}

func TestPanelStates(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	states, err := s.PanelStates(ctx)
	require.NoError(t, err)
	assert.Empty(t, states)

	require.NoError(t, s.SetPanelStates(ctx, map[string]bool{"legend": true, "progress": false}))
	states, err = s.PanelStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"legend": true, "progress": false}, states)

	// A later write replaces the whole map, dropped keys included.
	require.NoError(t, s.SetPanelStates(ctx, map[string]bool{"legend": false}))
	states, err = s.PanelStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"legend": false}, states)
}

func TestUIHidden(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	hidden, err := s.UIHidden(ctx)
	require.NoError(t, err)
	assert.False(t, hidden, "missing value defaults to visible")

	require.NoError(t, s.SetUIHidden(ctx, true))
	hidden, err = s.UIHidden(ctx)
	require.NoError(t, err)
	assert.True(t, hidden)

	require.NoError(t, s.SetUIHidden(ctx, false))
	hidden, err = s.UIHidden(ctx)
	require.NoError(t, err)
	assert.False(t, hidden)
}

func TestReopenKeepsState(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dragonmap.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetFingerprint(ctx, "1_2_도"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	fps, err := s.ListFingerprints(ctx)
	require.NoError(t, err)
	assert.True(t, fps["1_2_도"])
}

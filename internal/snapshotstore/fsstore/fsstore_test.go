package fsstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/nodemachine/internal/graphfile"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/snapshotstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graph(value float64) node.Map {
	return node.Map{
		"c": {ID: "c", Type: "InputVariable", InputPins: map[string]string{}, Data: map[string]any{"value": value}},
	}
}

func TestStore_SaveLoadListDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir, ".hcl")
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "beta", graph(1)))
	require.NoError(t, s.Save(ctx, "alpha", graph(2)))
	require.NoError(t, s.Save(ctx, "alpha", graph(3)))
	assert.FileExists(t, filepath.Join(dir, "alpha.hcl"))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)

	got, err := s.Load(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, 3.0, got["c"].Data["value"])

	require.NoError(t, s.Delete(ctx, "alpha"))
	_, err = s.Load(ctx, "alpha")
	assert.ErrorIs(t, err, snapshotstore.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "alpha"), snapshotstore.ErrNotFound)
}

func TestStore_ReadsOtherFormats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, graphfile.Save(filepath.Join(dir, "legacy.json"), graph(7)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, graphfile.Save(filepath.Join(dir, "nested", "deep.yaml"), graph(1)))

	s, err := New(dir, ".yaml")
	require.NoError(t, err)

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy"}, names)

	got, err := s.Load(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, 7.0, got["c"].Data["value"])
}

func TestStore_EmptyOrMissingDir(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "not-yet"), ".json")
	require.NoError(t, err)

	names, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_RejectsBadInput(t *testing.T) {
	_, err := New(t.TempDir(), ".txt")
	assert.Error(t, err)

	s, err := New(t.TempDir(), ".json")
	require.NoError(t, err)
	assert.Error(t, s.Save(context.Background(), "../escape", graph(1)))
}

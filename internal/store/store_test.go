package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mj1618/arrange/internal/arrange"
	"github.com/mj1618/arrange/internal/history"
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(name string) model.SavedLayout {
	return model.SavedLayout{
		ID:     uuid.NewString(),
		Name:   name,
		Preset: layout.Presets(2)[0],
		Slots: []model.SavedSlot{
			{Col: 0, App: 0, BundleID: "com.apple.Safari", AppName: "Safari"},
			{Col: 1, App: 0, BundleID: "com.apple.Terminal", AppName: "Terminal"},
		},
	}
}

func TestFileLayouts_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileLayouts(dir)
	require.NoError(t, err)

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	a, b := sample("a"), sample("b")
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))

	a.Name = "renamed"
	require.NoError(t, s.Save(ctx, a))

	reopened, err := NewFileLayouts(dir)
	require.NoError(t, err)
	got, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrNotFound)
	got, _ = s.List(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestFileLayouts_UsesOriginalKeys(t *testing.T) {
	s, err := NewFileLayouts(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), sample("keys")))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	for _, key := range []string{`"bundleId"`, `"appName"`, `"alignRows"`, `"col"`, `"app"`} {
		assert.Contains(t, string(data), key)
	}
}

func TestFileLayouts_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layouts.json"), []byte("{nope"), 0600))
	s, err := NewFileLayouts(dir)
	require.NoError(t, err)
	_, err = s.List(context.Background())
	assert.Error(t, err)
}

func TestCredentials(t *testing.T) {
	c, err := NewCredentials(t.TempDir())
	require.NoError(t, err)

	key, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, c.Save("sk-test"))
	key, err = c.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)

	info, err := os.Stat(c.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, c.Clear())
	require.NoError(t, c.Clear())
	key, _ = c.Load()
	assert.Empty(t, key)
}

func TestCredentials_RoundTripsBytes(t *testing.T) {
	c, err := NewCredentials(t.TempDir())
	require.NoError(t, err)

	for _, want := range []string{" sk-padded ", "sk-line\n", "sk-ünïcode\t"} {
		require.NoError(t, c.Save(want))
		got, err := c.Load()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestStateFile(t *testing.T) {
	f, err := NewStateFile(t.TempDir())
	require.NoError(t, err)

	_, ok, err := f.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	st := arrange.State{
		Display:     1,
		WindowCount: 2,
		PresetIndex: 1,
		Preset:      layout.Presets(2)[1],
		History:     []layout.Preset{layout.Presets(2)[0]},
		Frames:      []history.WindowFrame{{WindowID: 3, App: "Safari", Bounds: [4]int{1, 2, 3, 4}}},
		Manual:      []arrange.ManualSlot{{Position: layout.Position{Column: 1}, WindowID: 3}},
		Excluded:    []string{"com.apple.Finder|"},
	}
	require.NoError(t, f.Save(st))

	got, ok, err := f.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st, got)
}

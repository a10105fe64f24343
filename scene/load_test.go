package scene

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScene = `
walls:
  - from: [0, 0]
    to: [10, 0]
  - from: [0, 5]
    to: [10, 5]
    layer: 4
boxes:
  - min: [2, 2]
    max: [3, 3]
targets:
  - id: guard
    at: [5, 0.5, 2.5]
  - at: [8, 0, 4]
    layer: 8
`

func TestParse(t *testing.T) {
	w, err := Parse([]byte(sampleScene))
	require.NoError(t, err)

	segs := w.Segments()
	require.Len(t, segs, 6)
	assert.Equal(t, Segment{A: mgl64.Vec2{0, 0}, B: mgl64.Vec2{10, 0}, Layer: LayerWalls}, segs[0])
	assert.EqualValues(t, 4, segs[1].Layer)
	for _, s := range segs[2:] {
		assert.Equal(t, LayerWalls, s.Layer)
	}

	targets := w.Targets()
	require.Len(t, targets, 2)
	assert.Equal(t, "guard", targets[0].ID)
	assert.Equal(t, mgl64.Vec3{5, 0.5, 2.5}, targets[0].Position)
	assert.Equal(t, LayerTargets, targets[0].Layer)
	assert.NotEmpty(t, targets[1].ID)
	assert.EqualValues(t, 8, targets[1].Layer)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown key", "walls: []\nportals: []\n"},
		{"inverted box", "boxes:\n  - min: [3, 3]\n    max: [2, 4]\n"},
		{"bad point", "walls:\n  - from: [1, 2, 3]\n    to: [0, 0]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	w, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, w.Segments())
	assert.Empty(t, w.Targets())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScene), 0o644))
	w, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, w.Segments(), 6)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("walls: []\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loaded := make(chan *World, 4)
	failed := make(chan error, 4)
	done, err := Watch(ctx, path, func(w *World) { loaded <- w }, func(err error) { failed <- err })
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(sampleScene), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case w := <-loaded:
			// A write may surface as several events; wait for the full file.
			if len(w.Segments()) == 6 {
				cancel()
				select {
				case <-done:
				case <-time.After(5 * time.Second):
					t.Fatal("watcher did not stop after cancel")
				}
				return
			}
		case <-failed:
			// Partial writes can fail to decode; a later event carries the rest.
		case <-deadline:
			t.Fatal("scene was not reloaded")
		}
	}
}

func TestWatchMissingDir(t *testing.T) {
	done, err := Watch(context.Background(), filepath.Join(t.TempDir(), "gone", "scene.yaml"), func(*World) {}, func(error) {})
	assert.Error(t, err)
	assert.Nil(t, done)
}

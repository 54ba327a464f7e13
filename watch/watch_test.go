package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/tmxrender/tmx"
	"github.com/milk9111/tmxrender/watch"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want watch.Kind
	}{
		{path: "maps/level1.tmx", want: watch.KindMap},
		{path: "tilesets/props.TSX", want: watch.KindMap},
		{path: "images/terrain.png", want: watch.KindImage},
		{path: "a.jpeg", want: watch.KindImage},
		{path: "a.webp", want: watch.KindImage},
		{path: "render.yml", want: watch.KindConfig},
		{path: "render.yaml", want: watch.KindConfig},
		{path: "notes.txt", want: watch.KindOther},
		{path: "level1.tmx~", want: watch.KindOther},
		{path: "Makefile", want: watch.KindOther},
	}
	for _, tc := range tests {
		if got := watch.Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %v, want = %v", tc.path, got, tc.want)
		}
	}
}

func TestDirs(t *testing.T) {
	m := &tmx.Map{
		Tilesets: []*tmx.Tileset{
			{Image: &tmx.Image{Source: "maps/images/terrain.png"}},
			{
				Source: "shared/props.tsx",
				Tiles: []*tmx.Tile{
					{ID: 0, Image: &tmx.Image{Source: "shared/props/barrel.png"}},
					{ID: 1, Image: &tmx.Image{Source: "shared/props/crate.png"}},
					{ID: 2},
				},
			},
		},
	}

	want := []string{"maps", "maps/images", "shared", "shared/props"}
	if diff := cmp.Diff(want, watch.Dirs("maps/level1.tmx", m)); diff != "" {
		t.Errorf("Dirs mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := watch.NewWatcher(0, dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	image := filepath.Join(dir, "terrain.png")
	require.NoError(t, os.WriteFile(image, []byte("x"), 0o644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-w.Events:
			if ev.Kind == watch.KindOther {
				t.Fatalf("unexpected event for %s", ev.Path)
			}
			if ev.Path != image {
				continue
			}
			if got, want := ev.Kind, watch.KindImage; got != want {
				t.Errorf("Kind = %v, want = %v", got, want)
			}
			return
		case err := <-w.Errors:
			t.Fatalf("watcher error: %v", err)
		case <-timeout:
			t.Fatalf("no event for %s", image)
		}
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := watch.NewWatcher(time.Second, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events:
		if ok {
			t.Errorf("Events delivered after Close")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Events not closed after Close")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := watch.NewWatcher(0, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("NewWatcher expected error for a missing directory")
	}
}

// Package watch reports changes to a map and the files it depends on.
package watch

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/milk9111/tmxrender/tmx"
)

// Kind classifies a changed file.
type Kind int

const (
	KindOther Kind = iota
	KindMap
	KindImage
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindImage:
		return "image"
	case KindConfig:
		return "config"
	}
	return "other"
}

// Classify returns the kind of file at path, judged by its extension.
func Classify(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tmx", ".tsx":
		return KindMap
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp":
		return KindImage
	case ".yaml", ".yml":
		return KindConfig
	}
	return KindOther
}

// Event is a debounced change of a relevant file.
type Event struct {
	Path string
	Kind Kind
}

type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	Events   chan Event
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
}

// NewWatcher watches dirs. Repeated events for the same file within debounce
// are dropped.
func NewWatcher(debounce time.Duration, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		debounce: debounce,
		Events:   make(chan Event, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Add starts watching dirs as well. Directories already watched are ignored.
func (w *Watcher) Add(dirs ...string) error {
	watched := map[string]bool{}
	for _, d := range w.watcher.WatchList() {
		watched[d] = true
	}
	for _, dir := range dirs {
		if watched[filepath.Clean(dir)] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind := Classify(event.Name)
			if kind == KindOther {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Event{Path: event.Name, Kind: kind}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// Dirs returns the sorted, de-duplicated directories holding the map at
// mapPath, its external tilesets and every image it references.
func Dirs(mapPath string, m *tmx.Map) []string {
	seen := map[string]bool{filepath.Dir(mapPath): true}
	add := func(path string) {
		if path != "" {
			seen[filepath.Dir(path)] = true
		}
	}

	for _, ts := range m.Tilesets {
		add(ts.Source)
		if ts.Image != nil {
			add(ts.Image.Source)
		}
		for _, t := range ts.Tiles {
			if t.Image != nil {
				add(t.Image.Source)
			}
		}
	}

	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

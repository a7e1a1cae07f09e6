package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Change is a prefab or script file that was written on disk.
type Change struct {
	// Name is the file name relative to the prefabs directory, e.g.
	// "enemy.yaml" or "scripts/brute.tengo".
	Name   string
	Script bool
}

// Watcher reports edits to prefab YAML and tengo scripts so tunables can be
// reapplied while the game runs.
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches root and root/scripts.
func NewWatcher(root string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{root, filepath.Join(root, "scripts")} {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		root:    root,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Poll returns the changes received since the last call without blocking.
func (w *Watcher) Poll() []Change {
	var out []Change
	for {
		select {
		case c := <-w.Events:
			out = append(out, c)
		default:
			return out
		}
	}
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			change, ok := classify(w.root, event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[change.Name]; ok && now.Sub(t) < watchDebounce {
				continue
			}
			last[change.Name] = now
			select {
			case w.Events <- change:
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

func classify(root, path string) (Change, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".yaml", ".yml":
		return Change{Name: rel}, true
	case ".tengo":
		return Change{Name: rel, Script: true}, true
	}
	return Change{}, false
}

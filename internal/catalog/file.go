package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"bookscout/internal/core"
)

// watchDebounce coalesces rapid editor write bursts into one signal.
const watchDebounce = 200 * time.Millisecond

// FileSource serves the catalog from a local YAML file and watches it
// for changes, pushing a signal on Changes whenever the file is
// rewritten. Search filters locally, case-insensitively, over name,
// language and genre; the empty term returns everything.
type FileSource struct {
	path string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	changes chan struct{}
	stop    chan struct{}
	timer   *time.Timer
	closed  bool
}

// NewFileSource creates a file-backed catalog source. The watcher is
// optional: if it cannot be established the source still serves reads,
// it just never re-fires.
func NewFileSource(path string) *FileSource {
	s := &FileSource{
		path:    path,
		changes: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	s.startWatcher()
	return s
}

// FetchAll reads and parses the whole catalog file.
func (s *FileSource) FetchAll(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, core.NewDomainError(core.ErrCatNetwork, "catalog fetch failed", err)
	}
	var recs []core.Record
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, core.NewDomainError(core.ErrCatNetwork, "catalog fetch failed",
			fmt.Errorf("parsing %s: %w", filepath.Base(s.path), err))
	}
	return recs, nil
}

// Search filters the catalog by substring match. Empty term means no
// filter, so clearing the search box refreshes the full list.
func (s *FileSource) Search(ctx context.Context, term string) ([]core.Record, error) {
	recs, err := s.FetchAll(ctx)
	if err != nil {
		return nil, core.NewDomainError(core.ErrCatNetwork, "catalog search failed", err)
	}
	if term == "" {
		return recs, nil
	}
	needle := strings.ToLower(term)
	matched := recs[:0]
	for _, rec := range recs {
		if strings.Contains(strings.ToLower(rec.Name), needle) ||
			strings.Contains(strings.ToLower(rec.Language), needle) ||
			strings.Contains(strings.ToLower(rec.Genre), needle) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// Changes delivers one signal per (debounced) file change.
func (s *FileSource) Changes() <-chan struct{} {
	return s.changes
}

// Close stops the watcher.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.stop)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *FileSource) startWatcher() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}
	// Watch the directory, not the file: editors replace files by
	// rename, which would orphan a file-level watch.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return
	}
	s.watcher = watcher

	go func() {
		base := filepath.Base(s.path)
		for {
			select {
			case <-s.stop:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				s.scheduleSignal()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}

func (s *FileSource) scheduleSignal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(watchDebounce, func() {
		select {
		case s.changes <- struct{}{}:
		default:
		}
	})
}

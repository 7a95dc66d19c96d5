// Package watch reports changes to project files on disk.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay unchanged before its change is
// reported. Events inside the window coalesce into one.
const DefaultDebounce = 100 * time.Millisecond

// Watcher delivers the paths of changed files on Events. Directories are
// watched rather than files so that saves which replace the file by rename
// are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	match   func(string) bool
	window  time.Duration
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// ProjectFiles matches project documents.
func ProjectFiles(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

// Only matches exactly the given files.
func Only(paths ...string) func(string) bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[filepath.Clean(p)] = true
	}
	return func(path string) bool { return set[filepath.Clean(path)] }
}

// NewWatcher watches dirs and reports files accepted by match. A nil match
// accepts ProjectFiles.
func NewWatcher(match func(string) bool, debounce time.Duration, dirs ...string) (*Watcher, error) {
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
	if match == nil {
		match = ProjectFiles
	}
	watcher := &Watcher{
		watcher: w,
		match:   match,
		window:  debounce,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// WatchFile watches the directory of path and reports only path itself.
func WatchFile(path string, debounce time.Duration) (*Watcher, error) {
	return NewWatcher(Only(path), debounce, filepath.Dir(path))
}

// Close stops the watcher. Events and Errors are closed once the delivery
// goroutine has exited.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()
	// Each changed path gets a timer that is pushed back by every further
	// event and reports the path once the file has been quiet for window.
	type fired struct {
		name string
		seq  int
	}
	type pending struct {
		timer *time.Timer
		seq   int
	}
	timers := make(map[string]*pending)
	seq := 0
	quiet := make(chan fired)
	defer func() {
		for _, p := range timers {
			p.timer.Stop()
		}
	}()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.match(event.Name) {
				continue
			}
			name := event.Name
			if p, ok := timers[name]; ok && p.timer.Stop() {
				p.timer.Reset(w.window)
				continue
			}
			seq++
			f := fired{name: name, seq: seq}
			timers[name] = &pending{seq: seq, timer: time.AfterFunc(w.window, func() {
				select {
				case quiet <- f:
				case <-w.closeCh:
				}
			})}
		case f := <-quiet:
			if p, ok := timers[f.name]; !ok || p.seq != f.seq {
				// Superseded by a later event.
				continue
			}
			delete(timers, f.name)
			select {
			case w.Events <- f.name:
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

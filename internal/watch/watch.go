// Package watch runs the tagger on JSON files as they appear in a directory.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// StampFunc is the operation applied to each settled file.
type StampFunc func(inputPath string) (string, error)

// Event reports the outcome of stamping one settled file.
type Event struct {
	Path   string
	Output string
	Err    error
	Time   time.Time
}

// Stats tracks watcher activity.
type Stats struct {
	Observed      int
	Stamped       int
	Failed        int
	LastEventTime time.Time
	LastEventPath string
}

// Watcher monitors a single directory (non-recursive) for created or
// modified .json files and stamps each one after its events settle past the
// debounce window. Output files land in the Outputs subdirectory, which the
// non-recursive watch never observes, so the watcher cannot feed on its own
// output. Stamping happens inside the event loop goroutine, one file at a
// time.
type Watcher struct {
	mu       sync.RWMutex
	fs       *fsnotify.Watcher
	dir      string
	stamp    StampFunc
	logger   *zap.Logger
	pending  map[string]time.Time
	debounce time.Duration
	events   chan Event
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stats    Stats
}

// New creates a Watcher for dir. The watch is registered immediately, so a
// missing directory fails here rather than at Start. A nil logger disables
// diagnostics.
func New(dir string, stamp StampFunc, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, err
	}

	return &Watcher{
		fs:       fs,
		dir:      dir,
		stamp:    stamp,
		logger:   logger,
		pending:  make(map[string]time.Time),
		debounce: 500 * time.Millisecond,
		events:   make(chan Event, 64),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetDebounce overrides the settle window. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		w.debounce = d
	}
}

// Start launches the event loop. It is non-blocking; a second call while
// running is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("watching directory", zap.String("dir", w.dir))
	go w.run(ctx)
}

// Stop shuts the event loop down and waits for it to finish. Idempotent.
// Start after Stop is not supported.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		// Never started (or already stopped): the fsnotify handle still
		// owns a descriptor and a reader goroutine. Close is idempotent.
		_ = w.fs.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fs.Close(); err != nil {
		w.logger.Warn("close watcher", zap.Error(err))
	}
}

// Events delivers one Event per stamped or failed file. The channel is
// closed when the event loop exits.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// GetStats returns a snapshot of the watcher counters.
func (w *Watcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.events)

	flushTicker := time.NewTicker(100 * time.Millisecond)
	defer flushTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("context cancelled")
			return

		case <-w.stopCh:
			w.logger.Debug("stop signal received")
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-flushTicker.C:
			w.flushSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
		return
	}

	w.logger.Debug("file event", zap.String("op", event.Op.String()), zap.String("path", event.Name))

	w.mu.Lock()
	if _, seen := w.pending[event.Name]; !seen {
		w.stats.Observed++
	}
	w.pending[event.Name] = time.Now()
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.mu.Unlock()
}

// flushSettled stamps every pending path whose last event is older than the
// debounce window.
func (w *Watcher) flushSettled() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		output, err := w.stamp(path)

		w.mu.Lock()
		if err != nil {
			w.stats.Failed++
		} else {
			w.stats.Stamped++
		}
		w.mu.Unlock()

		if err != nil {
			w.logger.Warn("stamp failed", zap.String("path", path), zap.Error(err))
		} else {
			w.logger.Info("stamped", zap.String("path", path), zap.String("output", output))
		}

		select {
		case w.events <- Event{Path: path, Output: output, Err: err, Time: time.Now()}:
		default:
			// Slow consumer; counters still record the outcome.
		}
	}
}

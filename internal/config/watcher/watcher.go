// Package watcher reports changes to a single configuration file.
//
// The file's directory is watched rather than the file itself so that
// editors which save by rename keep being tracked. Bursts of notifications
// are coalesced into one Event after a short quiet period.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/wordevent/internal/clock"
	"github.com/dshills/wordevent/internal/debounce"
)

// ErrClosed is returned when running a closed watcher.
var ErrClosed = errors.New("watcher closed")

// Op is a set of file operations.
type Op uint32

const (
	// OpWrite indicates the file was modified.
	OpWrite Op = 1 << iota
	// OpCreate indicates the file was created.
	OpCreate
	// OpRemove indicates the file was deleted.
	OpRemove
	// OpRename indicates the file was renamed away.
	OpRename
)

// Has reports whether op contains other.
func (op Op) Has(other Op) bool {
	return op&other != 0
}

// String returns the operation names joined with "|".
func (op Op) String() string {
	var names []string
	for _, n := range []struct {
		op   Op
		name string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
	} {
		if op.Has(n.op) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Event describes a settled change to the watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string
	// Op holds every operation seen during the burst.
	Op Op
	// Time is when the burst settled.
	Time time.Time
}

// Exists reports whether the file is expected to exist after the change.
func (e Event) Exists() bool {
	return !e.Op.Has(OpRemove|OpRename) || e.Op.Has(OpCreate)
}

// Handler is called when a change settles.
type Handler func(Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period used to coalesce bursts.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock sets the clock driving the debounce timer.
func WithClock(c clock.Clock) Option {
	return func(w *Watcher) {
		if c != nil {
			w.clock = c
		}
	}
}

// Watcher monitors one file.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	clock    clock.Clock
	slot     *debounce.Slot
	logger   *slog.Logger

	mu       sync.Mutex
	pending  Op
	handlers []Handler
	closed   bool
}

// New starts watching the directory containing path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: 100 * time.Millisecond,
		clock:    clock.Real{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.slot = debounce.New(w.clock)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// OnChange registers a handler for settled changes.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Run processes notifications until ctx is done or the watcher is closed.
// It returns ctx.Err() on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)
		}
	}
}

// Close stops the watcher and drops any unsettled change.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.pending = 0
	w.mu.Unlock()

	w.slot.Cancel()
	return w.fsw.Close()
}

// handle folds one fsnotify event into the pending burst.
func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending |= op
	w.slot.Schedule(w.debounce, w.flush)

	w.logger.Debug("config change", "path", w.path, "op", op)
}

// flush emits the settled burst.
func (w *Watcher) flush(tok debounce.Token) {
	w.mu.Lock()
	if w.closed || !w.slot.Claim(tok) || w.pending == 0 {
		w.mu.Unlock()
		return
	}
	event := Event{Path: w.path, Op: w.pending, Time: w.clock.Now()}
	w.pending = 0
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, h := range handlers {
		w.safeCallHandler(h, event)
	}
}

// safeCallHandler calls a handler with panic recovery.
func (w *Watcher) safeCallHandler(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("watch handler panicked", "path", event.Path, "panic", r)
		}
	}()
	h(event)
}

// convertOp converts fsnotify.Op to Op. Chmod is ignored.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}

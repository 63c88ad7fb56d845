// Package watch runs a handler for every new input file dropped into a
// directory.
package watch

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

	"github.com/forPelevin/hookcut/internal/logging"
)

// Handler processes one input file.
type Handler func(ctx context.Context, path string) error

var supportedExts = map[string]bool{
	".json": true,
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
}

type Options struct {
	// MaxConcurrent bounds handlers in flight. Defaults to 2.
	MaxConcurrent int
	// Settle is how long to wait after a create event before handling the
	// file, so writers can finish. Defaults to 500ms.
	Settle time.Duration
	Log    *slog.Logger
}

type Watcher struct {
	dir     string
	handler Handler
	log     *slog.Logger
	settle  time.Duration
	fsw     *fsnotify.Watcher
	sem     chan struct{}
	wg      sync.WaitGroup

	mu   sync.Mutex
	seen map[string]bool
}

func New(dir string, handler Handler, opts Options) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch: handler is nil")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.Settle <= 0 {
		opts.Settle = 500 * time.Millisecond
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	return &Watcher{
		dir:     dir,
		handler: handler,
		log:     opts.Log,
		settle:  opts.Settle,
		fsw:     fsw,
		sem:     make(chan struct{}, opts.MaxConcurrent),
		seen:    map[string]bool{},
	}, nil
}

// Start blocks until ctx is done, then waits for running handlers and
// returns ctx.Err().
func (w *Watcher) Start(ctx context.Context) error {
	w.log.Info("watching", "dir", w.dir, "max_concurrent", cap(w.sem))
	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			w.log.Info("watcher stopped")
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				w.wg.Wait()
				return errors.New("watcher events channel closed")
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			if !Supported(ev.Name) {
				w.log.Debug("ignoring file", "path", ev.Name)
				continue
			}
			if !w.markSeen(ev.Name) {
				continue
			}
			select {
			case w.sem <- struct{}{}:
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}
			w.wg.Add(1)
			go w.handle(ctx, ev.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.wg.Wait()
				return errors.New("watcher errors channel closed")
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	defer w.wg.Done()
	defer func() { <-w.sem }()

	select {
	case <-time.After(w.settle):
	case <-ctx.Done():
		return
	}
	w.log.Info("new input", "path", path)
	if err := w.handler(ctx, path); err != nil {
		w.log.Error("process input failed", "path", path, "error", err)
	}
}

// markSeen reports whether path is new.
func (w *Watcher) markSeen(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen[path] {
		return false
	}
	w.seen[path] = true
	return true
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Supported reports whether path looks like a transcript or media input.
func Supported(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

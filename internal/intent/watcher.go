package intent

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// PatternWatcher watches a YAML pattern override file and hot-reloads
// the analyzer when it changes. Editors fire bursts of events per save,
// so reloads are debounced.
type PatternWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	analyzer *Analyzer
	path     string
	logger   *zap.Logger
	debounce time.Duration
	lastLoad time.Time
	running  bool
	doneCh   chan struct{}
}

// NewPatternWatcher creates a watcher for the given pattern file. The
// file does not need to exist yet; its directory is watched.
func NewPatternWatcher(path string, analyzer *Analyzer, logger *zap.Logger) (*PatternWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatternWatcher{
		watcher:  w,
		analyzer: analyzer,
		path:     path,
		logger:   logger,
		debounce: 300 * time.Millisecond,
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watcher stops when ctx is
// cancelled or Close is called.
func (pw *PatternWatcher) Start(ctx context.Context) error {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	if pw.running {
		return nil
	}

	if err := pw.watcher.Add(filepath.Dir(pw.path)); err != nil {
		return err
	}
	pw.running = true
	pw.logger.Info("watching pattern file", zap.String("path", pw.path))

	go pw.run(ctx)
	return nil
}

// Close stops the watcher and waits for the event loop to exit.
func (pw *PatternWatcher) Close() error {
	err := pw.watcher.Close()
	pw.mu.Lock()
	running := pw.running
	pw.mu.Unlock()
	if running {
		<-pw.doneCh
	}
	return err
}

func (pw *PatternWatcher) run(ctx context.Context) {
	defer close(pw.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(pw.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			pw.mu.Lock()
			tooSoon := time.Since(pw.lastLoad) < pw.debounce
			if !tooSoon {
				pw.lastLoad = time.Now()
			}
			pw.mu.Unlock()
			if tooSoon {
				continue
			}
			pw.reload()
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			pw.logger.Warn("pattern watcher error", zap.Error(err))
		}
	}
}

func (pw *PatternWatcher) reload() {
	ps, err := LoadPatternFile(pw.path)
	if err != nil {
		// Keep serving the previous patterns on a bad edit.
		pw.logger.Warn("pattern reload failed", zap.String("path", pw.path), zap.Error(err))
		return
	}
	pw.analyzer.Reload(ps)
	pw.logger.Info("pattern file reloaded", zap.String("path", pw.path))
}

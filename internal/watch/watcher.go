package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Supported upload extensions (lowercase, without '.').
var defaultExtensions = map[string]struct{}{
	"pdf":  {},
	"xlsx": {},
	"xlsm": {},
	"xls":  {},
}

// Handler processes one settled upload.
type Handler func(ctx context.Context, path string) error

// Config describes one watch loop.
type Config struct {
	// UploadDir is the directory watched for incoming files.
	UploadDir string
	// ArchiveDir receives every file after processing.
	ArchiveDir string
	// SettleDelay coalesces the event burst a single upload produces; the
	// file is emitted only after this long without further events.
	SettleDelay time.Duration
	// Extensions overrides the supported extensions, nil for the default set.
	Extensions map[string]struct{}
}

// Watcher runs the folder watch loop: debounced fsnotify events in, one file
// processed at a time, processed files moved to the archive.
type Watcher struct {
	cfg     Config
	handler Handler
	logger  *slog.Logger
}

// New creates a watch loop. A nil logger falls back to the default slog
// logger.
func New(cfg Config, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if cfg.UploadDir == "" {
		return nil, errors.New("upload directory is required")
	}
	if cfg.ArchiveDir == "" {
		return nil, errors.New("archive directory is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if cfg.Extensions == nil {
		cfg.Extensions = defaultExtensions
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{cfg: cfg, handler: handler, logger: logger}, nil
}

// Run watches the upload directory until the context is cancelled. Processing
// failures are logged and the loop continues; only watcher setup and context
// cancellation end the run.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.cfg.UploadDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.cfg.UploadDir, err)
	}

	w.logger.Info("watching for uploads",
		"dir", w.cfg.UploadDir,
		"archive", w.cfg.ArchiveDir,
		"settle_delay", w.cfg.SettleDelay,
	)

	var (
		mu      sync.Mutex
		pending = map[string]struct{}{}
		queue   []string
		timer   *time.Timer
	)
	// ready only signals that the queue is non-empty; the queue itself is
	// unbounded so a burst of settled uploads is never dropped.
	ready := make(chan struct{}, 1)

	flush := func() {
		mu.Lock()
		for path := range pending {
			queue = append(queue, path)
			delete(pending, path)
		}
		mu.Unlock()
		select {
		case ready <- struct{}{}:
		default:
		}
	}

	drain := func() {
		for {
			mu.Lock()
			if len(queue) == 0 {
				mu.Unlock()
				return
			}
			path := queue[0]
			queue = queue[1:]
			mu.Unlock()

			w.process(ctx, path)
			if ctx.Err() != nil {
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ready:
			drain()

		case e, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.supported(e.Name) || e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			mu.Lock()
			pending[e.Name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.cfg.SettleDelay, flush)
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		w.logger.Warn("upload vanished before processing", "file", path)
		return
	}

	start := time.Now()
	if err := w.handler(ctx, path); err != nil {
		w.logger.Error("processing failed", "file", path, "error", err)
	} else {
		w.logger.Info("processed",
			"file", path,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}

	if err := w.archive(path); err != nil {
		w.logger.Error("archive move failed", "file", path, "error", err)
	}
}

// archive moves the file into the archive directory, creating it on demand.
// Processed files leave the upload directory even when processing failed, so
// a bad file cannot wedge the loop.
func (w *Watcher) archive(path string) error {
	if err := os.MkdirAll(w.cfg.ArchiveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create archive dir: %w", err)
	}
	dest := filepath.Join(w.cfg.ArchiveDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("failed to move to archive: %w", err)
	}
	return nil
}

func (w *Watcher) supported(path string) bool {
	base := filepath.Base(path)
	// Office lock files appear alongside open workbooks.
	if strings.HasPrefix(base, "~$") {
		return false
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := w.cfg.Extensions[ext]
	return ok
}

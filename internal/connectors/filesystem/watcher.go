// Package filesystem watches a local drop folder and uploads the files
// that appear in it.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driving.Watcher = (*Watcher)(nil)

// DefaultDebounce is how long a file must be quiet before it is uploaded.
const DefaultDebounce = 500 * time.Millisecond

// Watcher uploads every supported file under root, then keeps uploading
// files that are created or rewritten.
type Watcher struct {
	root     string
	userID   string
	assets   driving.AssetService
	debounce time.Duration

	mu       sync.Mutex
	pending  map[string]*time.Timer
	// uploaded maps a file path to the asset last uploaded from it.
	uploaded map[string]string
	closing  bool
	inflight sync.WaitGroup
	stop     chan struct{}
	once     sync.Once
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is uploaded.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a watcher for root that uploads as userID.
func New(root, userID string, assets driving.AssetService, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		userID:   userID,
		assets:   assets,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
		uploaded: make(map[string]string),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Validate checks that root is an existing directory.
func (w *Watcher) Validate() error {
	if w.root == "" {
		return fmt.Errorf("watch directory is required: %w", domain.ErrInvalidInput)
	}
	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("watch directory %s: %w", w.root, domain.ErrNotFound)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", w.root, domain.ErrInvalidInput)
	}
	return nil
}

// Start uploads the files already under root and then watches for changes.
// It blocks until ctx is cancelled or Stop is called, and returns only after
// uploads already underway have finished.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.Validate(); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Register directories before the initial scan so files written during
	// the scan are not missed.
	if err := w.addDirs(fw); err != nil {
		return err
	}

	uploaded := w.scan(ctx)
	logger.Info("watching %s (%d existing files uploaded)", w.root, uploaded)

	for {
		select {
		case <-ctx.Done():
			w.shutdown()
			return nil
		case <-w.stop:
			w.shutdown()
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				w.shutdown()
				return nil
			}
			if isNewDir(event) {
				if err := fw.Add(event.Name); err != nil {
					logger.Warn("watch %s: %v", event.Name, err)
				}
				continue
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.schedule(ctx, path)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				w.shutdown()
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// Stop ends a running Start. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.once.Do(func() { close(w.stop) })
	return nil
}

// addDirs watches root and every non-hidden directory below it.
func (w *Watcher) addDirs(fw *fsnotify.Watcher) error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// scan uploads every file already under root and returns how many
// succeeded.
func (w *Watcher) scan(ctx context.Context) int {
	count := 0
	//nolint:errcheck // walk errors are logged per entry
	filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("scan %s: %v", path, err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != w.root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || isHidden(d.Name()) {
			return nil
		}
		if w.ingestFile(ctx, path) == nil {
			count++
		}
		return nil
	})
	return count
}

// handleFsEvent returns the path to upload for event, if any. Only
// creations and writes of visible regular files qualify; removals leave
// the uploaded asset in place.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// schedule uploads path once it has been quiet for the debounce period.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		if w.closing {
			w.mu.Unlock()
			return
		}
		w.inflight.Add(1)
		w.mu.Unlock()
		defer w.inflight.Done()

		_ = w.ingestFile(ctx, path) //nolint:errcheck // logged in ingestFile
	})
}

// shutdown cancels pending uploads and waits for running ones. Timers that
// fire afterwards do nothing.
func (w *Watcher) shutdown() {
	w.mu.Lock()
	w.closing = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.inflight.Wait()
}

// ingestFile uploads one file. Failures are logged and returned. When the
// path was uploaded before as a different asset, that asset is deleted once
// the new one is in place, so a rewritten file never leaves stale chunks.
func (w *Watcher) ingestFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("read %s: %v", path, err)
		return err
	}

	name := filepath.Base(path)
	res, err := w.assets.Upload(ctx, driving.UploadRequest{
		UserID:      w.userID,
		Filename:    name,
		ContentType: DetectContentType(name, data),
		Data:        data,
	})
	switch {
	case errors.Is(err, domain.ErrUnsupportedKind):
		logger.Debug("skipping %s: unsupported type", name)
		return err
	case errors.Is(err, domain.ErrExtractionEmpty):
		logger.Warn("skipping %s: no text found", name)
		return err
	case err != nil:
		logger.Error("upload %s: %v", name, err)
		return err
	}

	if res.Reused {
		logger.Info("%s unchanged, re-ingested %s", name, res.Asset.ID)
	} else {
		logger.Info("uploaded %s as %s (%d chunks)", name, res.Asset.ID, res.Report.Chunks)
	}

	w.mu.Lock()
	previous, known := w.uploaded[path]
	w.uploaded[path] = res.Asset.ID
	w.mu.Unlock()

	if known && previous != res.Asset.ID {
		removed, err := w.assets.Delete(ctx, w.userID, previous)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			logger.Debug("previous asset %s of %s already gone", previous, name)
		case err != nil:
			logger.Warn("delete previous asset %s of %s: %v", previous, name, err)
		default:
			logger.Info("replaced %s (%d old chunks removed)", previous, removed)
		}
	}
	return nil
}

func isNewDir(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) || isHidden(filepath.Base(event.Name)) {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

// isHidden reports whether a file or directory name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

package schema

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/avapibridge/internal/config"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
)

// DocumentCallback is called with the parsed document and its
// validation result after a successful reload.
type DocumentCallback func(Document, *Result)

// ErrorCallback is called when a reload fails to parse or validate.
type ErrorCallback func(error)

// Watcher watches a schema document on disk and re-validates it on
// change. Rapid write bursts are debounced; a reload that fails keeps
// the last good document in place.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	validator     *Validator
	callback      DocumentCallback
	errorCallback ErrorCallback
	logger        observability.Logger
	debounceDelay time.Duration

	mu           sync.RWMutex
	lastDocument Document
	lastResult   *Result
	running      bool

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithWatcherDebounce sets the debounce delay for file changes.
func WithWatcherDebounce(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithWatcherErrorCallback sets the reload error callback.
func WithWatcherErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// NewWatcher creates a watcher for the schema document at path.
func NewWatcher(path string, validator *Validator, callback DocumentCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if validator == nil {
		validator = NewValidator(nil, nil)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		watcher:       fsWatcher,
		validator:     validator,
		callback:      callback,
		debounceDelay: config.DefaultWatcherDebounce,
		logger:        observability.NopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start validates the document once and begins watching it. The
// parent directory is watched so editors that replace the file are
// still observed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	doc, result, err := w.load()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.lastDocument = doc
	w.lastResult = result
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.logger.Info("started watching schema document",
		observability.String("path", w.path),
	)

	go w.watch(ctx)

	return nil
}

// Stop stops the watcher and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// LastDocument returns the last successfully validated document.
func (w *Watcher) LastDocument() Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastDocument
}

// LastResult returns the validation result for the last good document.
func (w *Watcher) LastResult() *Result {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastResult
}

// ForceReload reloads and validates the document immediately.
func (w *Watcher) ForceReload() error {
	doc, result, err := w.load()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.lastDocument = doc
	w.lastResult = result
	w.mu.Unlock()

	if w.callback != nil {
		w.callback(doc, result)
	}

	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("schema watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("schema watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			debounceTimer, debounceCh = w.handleFileEvent(event, debounceTimer, debounceCh)

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleWatchError(err)
		}
	}
}

// handleFileEvent resets the debounce timer for write and create
// events on the watched file.
func (w *Watcher) handleFileEvent(
	event fsnotify.Event,
	debounceTimer *time.Timer,
	debounceCh <-chan time.Time,
) (timer *time.Timer, ch <-chan time.Time) {
	if filepath.Clean(event.Name) != w.path {
		return debounceTimer, debounceCh
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return debounceTimer, debounceCh
	}

	w.logger.Debug("schema document changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)

	if debounceTimer != nil {
		debounceTimer.Stop()
	}
	debounceTimer = time.NewTimer(w.debounceDelay)
	return debounceTimer, debounceTimer.C
}

func (w *Watcher) handleWatchError(err error) {
	w.logger.Error("schema watcher error",
		observability.Err(err),
	)
	if w.errorCallback != nil {
		w.errorCallback(err)
	}
}

// reload parses and validates the document, keeping the previous one
// on failure.
func (w *Watcher) reload() {
	w.logger.Info("reloading schema document",
		observability.String("path", w.path),
	)

	doc, result, err := w.load()
	if err != nil {
		w.logger.Error("schema reload failed",
			observability.Err(err),
		)
		if w.errorCallback != nil {
			w.errorCallback(err)
		}
		return
	}

	w.mu.Lock()
	w.lastDocument = doc
	w.lastResult = result
	w.mu.Unlock()

	w.logger.Info("schema document reloaded",
		observability.String("title", result.Title),
	)

	if w.callback != nil {
		w.callback(doc, result)
	}
}

func (w *Watcher) load() (Document, *Result, error) {
	doc, err := LoadFile(w.path)
	if err != nil {
		return nil, nil, err
	}

	result, err := w.validator.ValidateAsyncAPI(doc)
	if err != nil {
		return nil, nil, err
	}

	return doc, result, nil
}

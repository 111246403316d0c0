package settings

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 250 * time.Millisecond

// Watcher observes the settings directory and reports external changes,
// typically CLI writes landing while the daemon is running. Events are
// debounced so a burst of key writes produces one callback.
type Watcher struct {
	logger   *slog.Logger
	dir      string
	onChange func()

	mu      sync.Mutex
	running bool
	fw      *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the given settings directory.
func NewWatcher(dir string, onChange func(), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger:   logger,
		dir:      dir,
		onChange: onChange,
	}
}

// Start begins watching. Safe to call once per watcher.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		return err
	}

	w.fw = fw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.loop()

	w.logger.Debug("settings watcher started", "dir", w.dir)
	return nil
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.fw.Close()
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if w.ignorable(event) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			w.logger.Debug("settings changed on disk", "dir", w.dir)
			w.onChange()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("settings watch error", "error", err)
		}
	}
}

// ignorable filters out events that do not represent a settled value change:
// writes land in the temp directory first and only the final rename into
// place matters.
func (w *Watcher) ignorable(event fsnotify.Event) bool {
	if strings.Contains(event.Name, string(filepath.Separator)+".tmp") {
		return true
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0
}

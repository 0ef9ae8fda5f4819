package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// debounceInterval coalesces bursts of write events from editors that
// save via rename or truncate-then-write.
const debounceInterval = 250 * time.Millisecond

// Watcher watches the config file for changes and reloads it.
type Watcher struct {
	watcher *fsnotify.Watcher

	// Callback for reload notifications
	onReload func(*Config)
	// Callback for reload failures (parse or validation errors)
	onError func(error)

	mu     sync.Mutex
	timer  *time.Timer
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWatcher creates a watcher for the user's config file. The file does
// not need to exist yet; the parent directory is watched so creation is
// picked up too.
func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors replace files on save
	// and a watch on the old inode would go stale.
	if err := watcher.Add(ConfigDir()); err != nil {
		watcher.Close()
		return nil, err
	}

	return &Watcher{
		watcher: watcher,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// SetReloadCallback sets the callback invoked with the new config after a
// successful reload.
func (w *Watcher) SetReloadCallback(cb func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = cb
}

// SetErrorCallback sets the callback invoked when a changed config file
// fails to load or validate. The previous config stays in effect.
func (w *Watcher) SetErrorCallback(cb func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = cb
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop stops watching and waits for the background goroutine to exit.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	<-w.doneCh

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	target := filepath.Clean(ConfigFile())

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; keep going.
		}
	}
}

// scheduleReload debounces rapid event bursts into a single reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceInterval, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := reloadFromDisk()

	w.mu.Lock()
	onReload, onError := w.onReload, w.onError
	w.mu.Unlock()

	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}
	if onReload != nil {
		onReload(cfg)
	}
}

// reloadFromDisk re-reads the config file into viper before unmarshaling,
// so edits made after startup are picked up.
func reloadFromDisk() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	return Load()
}

package agraphics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// unitWatcher monitors a unit file for changes and calls onChange after
// each burst of events has settled.
type unitWatcher struct {
	watcher   *fsnotify.Watcher
	filePath  string
	debounce  time.Duration
	onChange  func()
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// newUnitWatcher creates a watcher for filePath.
func newUnitWatcher(filePath string, debounce time.Duration, onChange func(), onError func(error)) (*unitWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	// Watch the directory, not the file: editors that save by renaming
	// replace the inode.
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		watcher.Close()
		return nil, err
	}

	return &unitWatcher{
		watcher:   watcher,
		filePath:  filePath,
		debounce:  debounce,
		onChange:  onChange,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching for file changes in a goroutine.
func (uw *unitWatcher) Start() {
	uw.mu.Lock()
	if uw.running {
		uw.mu.Unlock()
		return
	}
	uw.running = true
	uw.mu.Unlock()

	go uw.watchLoop()
}

// Stop stops the watcher and waits for the loop to exit. A callback in
// progress finishes first.
func (uw *unitWatcher) Stop() {
	uw.mu.Lock()
	if !uw.running {
		uw.mu.Unlock()
		return
	}
	uw.running = false
	uw.mu.Unlock()

	close(uw.stopCh)
	<-uw.stoppedCh
}

func (uw *unitWatcher) watchLoop() {
	defer close(uw.stoppedCh)
	defer uw.watcher.Close()

	absPath, _ := filepath.Abs(uw.filePath)
	baseName := filepath.Base(uw.filePath)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-uw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-uw.watcher.Events:
			if !ok {
				return
			}

			eventAbs, _ := filepath.Abs(event.Name)
			if filepath.Base(event.Name) != baseName && eventAbs != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(uw.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			if uw.onChange != nil {
				uw.onChange()
			}
			debounceTimer = nil
			debounceCh = nil

		case err, ok := <-uw.watcher.Errors:
			if !ok {
				return
			}
			if uw.onError != nil {
				uw.onError(err)
			}
		}
	}
}

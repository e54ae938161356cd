package config

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sshchat/chatd/internal/logging"
)

// MOTDWatcher watches a MOTD file for writes and pushes reloaded text to
// onChange, grounded on vision3's ConnectionTracker file-watch loop
// (cmd/vision3/main.go) generalized from IP-list reloading to MOTD
// reloading, with the same debounce to avoid reloading on every byte of
// a multi-write save.
type MOTDWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(text string)
	log      *logging.Logger
	done     chan struct{}
}

// WatchMOTD starts watching path for writes, calling onChange with the
// reloaded, CRLF-normalized text after each debounced write. Call Stop to
// release the underlying watcher.
func WatchMOTD(path string, log *logging.Logger, onChange func(text string)) (*MOTDWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}

	mw := &MOTDWatcher{path: path, watcher: w, onChange: onChange, log: log, done: make(chan struct{})}
	go mw.loop()
	return mw, nil
}

func (mw *MOTDWatcher) loop() {
	const debounce = 300 * time.Millisecond
	var timer *time.Timer

	for {
		select {
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, mw.reload)
		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			mw.log.Debugf("MOTD watcher error on %s: %v", mw.path, err)
		case <-mw.done:
			return
		}
	}
}

func (mw *MOTDWatcher) reload() {
	text, err := LoadMOTD(mw.path)
	if err != nil {
		mw.log.Debugf("MOTD reload failed for %s: %v", mw.path, err)
		return
	}
	mw.log.Infof("MOTD reloaded from %s", mw.path)
	mw.onChange(text)
}

// Stop releases the watcher and terminates the watch loop.
func (mw *MOTDWatcher) Stop() {
	close(mw.done)
	mw.watcher.Close()
}

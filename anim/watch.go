package anim

import (
	"log"

	"github.com/fsnotify/fsnotify"
)

// A Watcher reloads the clip manifest whenever it changes on disk and
// hands the fresh set to the streamer's run loop.
type Watcher struct {
	path     string
	streamer *Streamer
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching a manifest path.
func NewWatcher(path string, streamer *Streamer) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	w := new(Watcher)
	w.path = path
	w.streamer = streamer
	w.watcher = watcher
	return w, nil
}

// Run blocks, feeding manifest rewrites to the streamer as reloads.
func (w *Watcher) Run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			clips, report := LoadOrDefault(w.path)
			if report.Degraded() {
				log.Printf("Manifest reload degraded: %v", report.Degradations())
			}
			w.streamer.Reload(clips)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Manifest watch error: %v", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Package nudge implements the watcher and nudger (C6): watching a task
// source for changes, debouncing/polling per its kind, and writing
// cooldown-gated nudge messages into worker panes.
package nudge

import (
	"log"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hive-org/hive/internal/tasksource"
)

const (
	yamlSettleDelay    = 5 * time.Second
	githubPollInterval = 60 * time.Second
	fallbackPoll       = 60 * time.Second
)

// Watcher publishes a new TaskSnapshot on Snapshots whenever the underlying
// source settles on a change, per §4.4 "Watcher".
type Watcher struct {
	source tasksource.Source
	path   string // non-empty for file-backed (yaml) sources

	Snapshots chan tasksource.TaskSnapshot
	Errors    chan error

	lastToken string
}

// NewFileWatcher watches a YAML task file at path, coalescing fsnotify
// events for yamlSettleDelay before reading, and falling back to polling if
// the watch itself is lost (§7 "Watcher error").
func NewFileWatcher(source tasksource.Source, path string) *Watcher {
	return &Watcher{
		source:    source,
		path:      path,
		Snapshots: make(chan tasksource.TaskSnapshot, 1),
		Errors:    make(chan error, 1),
	}
}

// NewPollWatcher watches a source (typically GitHub) by polling Load every
// githubPollInterval, per §4.4 "for kind github: poll every 60 s".
func NewPollWatcher(source tasksource.Source) *Watcher {
	return &Watcher{
		source:    source,
		Snapshots: make(chan tasksource.TaskSnapshot, 1),
		Errors:    make(chan error, 1),
	}
}

// Run blocks, publishing snapshots until ctx-like stop is closed. File
// watchers use fsnotify with a settle timer; poll watchers use a ticker.
// A file watcher falls back to fallbackPoll if fsnotify fails; a poll
// watcher keeps its ticker and has no fallback.
func (w *Watcher) Run(stop <-chan struct{}) {
	if w.path != "" {
		w.runFileWatch(stop)
		return
	}
	w.runPoll(githubPollInterval, stop)
}

func (w *Watcher) runFileWatch(stop <-chan struct{}) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("nudge: fsnotify unavailable, falling back to polling: %v", err)
		w.runPoll(fallbackPoll, stop)
		return
	}
	defer fsw.Close()

	if err := fsw.Add(w.path); err != nil {
		log.Printf("nudge: watch %s failed, falling back to polling: %v", w.path, err)
		w.runPoll(fallbackPoll, stop)
		return
	}

	var settle *time.Timer
	settleC := func() <-chan time.Time {
		if settle == nil {
			return nil
		}
		return settle.C
	}

	w.load()

	for {
		select {
		case <-stop:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				log.Printf("nudge: watch on %s closed, falling back to polling", w.path)
				w.runPoll(fallbackPoll, stop)
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if settle != nil {
				settle.Stop()
			}
			settle = time.NewTimer(yamlSettleDelay)
		case <-settleC():
			settle = nil
			w.load()
		case err, ok := <-fsw.Errors:
			if !ok {
				w.runPoll(fallbackPoll, stop)
				return
			}
			log.Printf("nudge: watch error on %s: %v", w.path, err)
		}
	}
}

func (w *Watcher) runPoll(interval time.Duration, stop <-chan struct{}) {
	w.load()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.load()
		}
	}
}

// load performs a single Load and publishes the result, tracking the
// modified token so unchanged reads don't spam the snapshot channel.
func (w *Watcher) load() {
	snap, err := w.source.Load()
	if err != nil {
		select {
		case w.Errors <- err:
		default:
		}
		return
	}
	if snap.ModifiedToken != "" && snap.ModifiedToken == w.lastToken {
		return
	}
	w.lastToken = snap.ModifiedToken

	select {
	case w.Snapshots <- snap:
	default:
		// Drop the stale pending snapshot in favor of the fresh one.
		select {
		case <-w.Snapshots:
		default:
		}
		w.Snapshots <- snap
	}
}

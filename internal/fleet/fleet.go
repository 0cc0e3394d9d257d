// Package fleet implements the PTY fleet manager (C4): spawning, byte
// pumping, resizing, and reaping the set of panes, without blocking the
// reactor's own goroutine. Every reader runs on its own goroutine and
// publishes events onto one bounded channel the reactor drains each tick,
// matching the teacher's pattern of never letting terminal I/O block the
// bubbletea update loop.
package fleet

import (
	"fmt"
	"sync"
	"time"

	"github.com/hive-org/hive/internal/pane"
)

const readChunkBytes = 4096

// EventKind distinguishes the members of the PaneEvent union.
type EventKind int

const (
	EventOutput EventKind = iota
	EventExited
	EventError
)

// PaneEvent is published by a reader goroutine for the reactor to consume.
// Dirty is set on EventOutput when the fleet had to coalesce multiple reads
// into one event because the channel was full — the reactor should treat
// it as "redraw this pane," not as a literal byte delta.
type PaneEvent struct {
	PaneID string
	Kind   EventKind
	Err    error
	Dirty  bool
}

// Fleet owns the set of live panes and their reader goroutines.
type Fleet struct {
	mu     sync.Mutex
	panes  map[string]*pane.Pane
	cancel map[string]chan struct{}

	Events chan PaneEvent
}

// New returns a Fleet whose event channel has the given buffer depth. A
// depth of 0 is treated as 1 since an unbuffered channel would make the
// coalescing fallback path (§4.3 "Reader") meaningless.
func New(eventBuffer int) *Fleet {
	if eventBuffer <= 0 {
		eventBuffer = 1
	}
	return &Fleet{
		panes:  make(map[string]*pane.Pane),
		cancel: make(map[string]chan struct{}),
		Events: make(chan PaneEvent, eventBuffer),
	}
}

// Spawn starts p's backend process and launches its dedicated reader.
func (f *Fleet) Spawn(p *pane.Pane, startupMessage string) error {
	if err := p.Spawn(startupMessage); err != nil {
		return fmt.Errorf("fleet: spawn %s: %w", p.ID, err)
	}

	stop := make(chan struct{})
	f.mu.Lock()
	f.panes[p.ID] = p
	f.cancel[p.ID] = stop
	f.mu.Unlock()

	go f.readLoop(p, stop)
	return nil
}

// readLoop is the byte-pump described in §4.3: 4 KiB reads from the master
// into the pane's OutputBuffer, one PaneExited-equivalent event on EOF or
// read error, and nothing further from this reader after that.
func (f *Fleet) readLoop(p *pane.Pane, stop chan struct{}) {
	buf := make([]byte, readChunkBytes)
	fd := p.ReadFD()
	if fd == nil {
		f.publish(PaneEvent{PaneID: p.ID, Kind: EventError, Err: fmt.Errorf("pane %s has no master fd", p.ID)})
		return
	}

	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := fd.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			p.IngestOutput(chunk)
			f.publish(PaneEvent{PaneID: p.ID, Kind: EventOutput})
		}
		if err != nil {
			p.MarkExited(err)
			f.publish(PaneEvent{PaneID: p.ID, Kind: EventExited, Err: err})
			return
		}
	}
}

// publish sends ev without blocking the reader goroutine when the reactor
// is slow to drain the channel: on a full channel the oldest queued event
// (of any pane) is replaced by ev marked Dirty.
func (f *Fleet) publish(ev PaneEvent) {
	select {
	case f.Events <- ev:
		return
	default:
	}

	// Channel is full: drain one slot and re-attempt with Dirty set, so a
	// burst of output from a chatty pane degrades to "redraw" rather than
	// stalling the PTY reader indefinitely.
	select {
	case old := <-f.Events:
		if old.Kind == EventExited || old.Kind == EventError {
			// Never drop a terminal event; put it back and drop our own
			// output notification instead. A terminal ev is handed to a
			// goroutine that waits for room in the channel.
			f.Events <- old
			if ev.Kind != EventOutput {
				go func() { f.Events <- ev }()
			}
			return
		}
	default:
	}
	ev.Dirty = true
	select {
	case f.Events <- ev:
	default:
	}
}

// Resize resizes a single pane's PTY and OutputBuffer together.
func (f *Fleet) Resize(paneID string, rows, cols int) error {
	p := f.get(paneID)
	if p == nil {
		return fmt.Errorf("fleet: unknown pane %s", paneID)
	}
	p.Resize(rows, cols)
	return nil
}

// Send serializes a write to a pane's master, per §4.3 "Writer".
func (f *Fleet) Send(paneID string, text string) error {
	p := f.get(paneID)
	if p == nil {
		return fmt.Errorf("fleet: unknown pane %s", paneID)
	}
	return p.SendText(text)
}

func (f *Fleet) get(paneID string) *pane.Pane {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.panes[paneID]
}

// Panes returns a snapshot slice of all panes currently owned by the fleet.
func (f *Fleet) Panes() []*pane.Pane {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*pane.Pane, 0, len(f.panes))
	for _, p := range f.panes {
		out = append(out, p)
	}
	return out
}

// Remove stops a pane's reader loop and forgets it, without touching the
// child process — used after a pane has already exited on its own.
func (f *Fleet) Remove(paneID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stop, ok := f.cancel[paneID]; ok {
		close(stop)
		delete(f.cancel, paneID)
	}
	delete(f.panes, paneID)
}

// Teardown implements §4.3 "Teardown": SIGTERM every child, wait up to
// timeout, SIGKILL stragglers. Readers terminate on their own once the
// corresponding master returns EOF.
func (f *Fleet) Teardown(timeout time.Duration) {
	f.mu.Lock()
	panes := make([]*pane.Pane, 0, len(f.panes))
	for _, p := range f.panes {
		panes = append(panes, p)
	}
	f.mu.Unlock()

	var wg sync.WaitGroup
	for _, p := range panes {
		wg.Add(1)
		go func(p *pane.Pane) {
			defer wg.Done()
			p.StopGraceful(timeout)
		}(p)
	}
	wg.Wait()

	f.mu.Lock()
	for id, stop := range f.cancel {
		close(stop)
		delete(f.cancel, id)
	}
	f.panes = make(map[string]*pane.Pane)
	f.mu.Unlock()
}

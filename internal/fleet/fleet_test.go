package fleet

import (
	"errors"
	"testing"
	"time"
)

func TestPublish_CoalescesWhenChannelFull(t *testing.T) {
	f := New(1)

	f.publish(PaneEvent{PaneID: "a", Kind: EventOutput})
	f.publish(PaneEvent{PaneID: "a", Kind: EventOutput})
	f.publish(PaneEvent{PaneID: "a", Kind: EventOutput})

	select {
	case ev := <-f.Events:
		// The first publish fits; the second and third each replace the
		// queued event with a Dirty one, so the survivor is coalesced.
		if !ev.Dirty || ev.Kind != EventOutput {
			t.Fatalf("expected a coalesced (Dirty) output event, got %+v", ev)
		}
	default:
		t.Fatal("expected at least one event to be published")
	}
}

func TestPublish_NeverDropsTerminalEvent(t *testing.T) {
	f := New(1)

	f.publish(PaneEvent{PaneID: "a", Kind: EventExited, Err: errors.New("boom")})
	f.publish(PaneEvent{PaneID: "a", Kind: EventOutput})

	ev := <-f.Events
	if ev.Kind != EventExited {
		t.Fatalf("expected the terminal event to survive, got %+v", ev)
	}
}

func TestRemove_StopsReaderBookkeeping(t *testing.T) {
	f := New(4)
	stop := make(chan struct{})
	f.mu.Lock()
	f.cancel["p1"] = stop
	f.mu.Unlock()

	f.Remove("p1")

	select {
	case <-stop:
	default:
		t.Fatal("expected Remove to close the reader's stop channel")
	}

	if _, ok := f.cancel["p1"]; ok {
		t.Error("expected cancel entry to be forgotten after Remove")
	}
}

func TestTeardown_NoPanesReturnsPromptly(t *testing.T) {
	f := New(4)
	done := make(chan struct{})
	go func() {
		f.Teardown(2 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Teardown with no panes should return immediately")
	}
}

func TestResize_UnknownPaneErrors(t *testing.T) {
	f := New(4)
	if err := f.Resize("missing", 24, 80); err == nil {
		t.Error("expected an error resizing an unknown pane")
	}
}

func TestSend_UnknownPaneErrors(t *testing.T) {
	f := New(4)
	if err := f.Send("missing", "hi"); err == nil {
		t.Error("expected an error sending to an unknown pane")
	}
}

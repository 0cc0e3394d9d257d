package vt

import (
	"testing"
	"unicode/utf8"
)

func TestOutputBuffer_PrintableASCIIRoundTrip(t *testing.T) {
	ob := New(4, 10, 100, 0)
	ob.PushBytes([]byte("hello"))

	var got string
	for _, pc := range ob.Cells() {
		if pc.Row == 0 && pc.Col < 5 {
			got += string(pc.Cell.Ch)
		}
	}
	if got != "hello" {
		t.Errorf("rendered row 0 = %q, want %q", got, "hello")
	}
}

func TestOutputBuffer_NoCellOutsideGrid(t *testing.T) {
	ob := New(3, 5, 100, 0)
	ob.PushBytes([]byte("abcdefgh"))

	for _, pc := range ob.Cells() {
		if pc.Row < 0 || pc.Row >= 3 || pc.Col < 0 || pc.Col >= 5 {
			t.Fatalf("cell out of bounds: row=%d col=%d", pc.Row, pc.Col)
		}
	}
}

func TestOutputBuffer_ResizeResetsScrollOffset(t *testing.T) {
	ob := New(5, 10, 100, 0)
	for i := 0; i < 20; i++ {
		ob.PushBytes([]byte("line\r\n"))
	}
	ob.ScrollUp(3)
	if ob.ScrollOffset() == 0 {
		t.Fatalf("expected non-zero scroll offset before resize")
	}

	ob.Resize(6, 12)
	if ob.ScrollOffset() != 0 {
		t.Errorf("expected scroll offset reset to 0 after resize, got %d", ob.ScrollOffset())
	}
}

func TestOutputBuffer_ScrollUpDownToBottomNoDataLoss(t *testing.T) {
	ob := New(3, 10, 100, 0)
	for i := 0; i < 20; i++ {
		ob.PushBytes([]byte("row\r\n"))
	}

	before := ob.Cells()

	ob.ScrollUp(5)
	ob.ScrollDown(3)
	ob.ScrollToBottom()

	after := ob.Cells()

	if len(before) != len(after) {
		t.Fatalf("cell count changed: before=%d after=%d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("cell %d differs after scroll round-trip: before=%+v after=%+v", i, before[i], after[i])
		}
	}
}

func TestOutputBuffer_AltScreenRebuildProvidesScrollback(t *testing.T) {
	ob := New(3, 10, 100, 0)

	// Enter alt screen, write several lines that would have scrolled off a
	// real scrollback-less alt-screen app, clear, then draw the "live"
	// frame.
	ob.PushBytes([]byte("\x1b[?1049h"))
	for i := 0; i < 10; i++ {
		ob.PushBytes([]byte("alt-line\r\n"))
	}
	ob.PushBytes([]byte("\x1b[2Jlive frame"))

	if !ob.IsAltScreenActive() {
		t.Fatal("expected alt screen active")
	}

	ob.EnterScrollMode()
	ob.ScrollUp(1)

	found := false
	for _, pc := range ob.Cells() {
		if pc.Cell.Ch == 'a' {
			found = true
		}
	}
	if !found {
		t.Error("expected scrollback rebuild to expose earlier alt-screen content")
	}

	ob.ExitScrollMode()
	if ob.ScrollOffset() != 0 {
		t.Errorf("ExitScrollMode should reset scroll offset, got %d", ob.ScrollOffset())
	}
}

func TestOutputBuffer_MalformedUTF8SubstitutesReplacementChar(t *testing.T) {
	ob := New(2, 10, 100, 0)
	ob.PushBytes([]byte{0xff, 0xfe})

	// vt10x decodes byte-by-byte; invalid runes must not panic, and
	// cellFromGlyph substitutes U+FFFD for any rune that is not valid.
	for _, pc := range ob.Cells() {
		if !utf8.ValidRune(pc.Cell.Ch) {
			t.Fatalf("invalid rune %U at row %d col %d", pc.Cell.Ch, pc.Row, pc.Col)
		}
	}
}

package vt

import (
	"testing"

	"github.com/hinshun/vt10x"
)

func makeTestLine(s string) []vt10x.Glyph {
	glyphs := make([]vt10x.Glyph, len(s))
	for i, ch := range s {
		glyphs[i] = vt10x.Glyph{Char: ch}
	}
	return glyphs
}

func lineToString(line []vt10x.Glyph) string {
	if line == nil {
		return ""
	}
	runes := make([]rune, len(line))
	for i, g := range line {
		runes[i] = g.Char
	}
	return string(runes)
}

func TestScrollbackBuffer_Basic(t *testing.T) {
	sb := newScrollbackBuffer(5)

	if sb.len() != 0 {
		t.Errorf("new buffer should be empty, got len=%d", sb.len())
	}
	if sb.capacityLines() != 5 {
		t.Errorf("capacity should be 5, got %d", sb.capacityLines())
	}

	sb.push(makeTestLine("line1"))
	sb.push(makeTestLine("line2"))
	sb.push(makeTestLine("line3"))

	if sb.len() != 3 {
		t.Errorf("expected len=3, got %d", sb.len())
	}

	if s := lineToString(sb.get(0)); s != "line1" {
		t.Errorf("get(0) expected 'line1', got '%s'", s)
	}
	if s := lineToString(sb.get(2)); s != "line3" {
		t.Errorf("get(2) expected 'line3', got '%s'", s)
	}
}

func TestScrollbackBuffer_Wraparound(t *testing.T) {
	sb := newScrollbackBuffer(3)

	sb.push(makeTestLine("line1"))
	sb.push(makeTestLine("line2"))
	sb.push(makeTestLine("line3"))
	sb.push(makeTestLine("line4"))

	if sb.len() != 3 {
		t.Errorf("after overflow, expected len=3, got %d", sb.len())
	}
	if s := lineToString(sb.get(0)); s != "line2" {
		t.Errorf("after overflow, get(0) expected 'line2', got '%s'", s)
	}
	if s := lineToString(sb.get(2)); s != "line4" {
		t.Errorf("after overflow, get(2) expected 'line4', got '%s'", s)
	}
}

func TestScrollbackBuffer_GetRange(t *testing.T) {
	sb := newScrollbackBuffer(10)
	for i := 1; i <= 5; i++ {
		sb.push(makeTestLine("line" + string(rune('0'+i))))
	}

	lines := sb.getRange(1, 4)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	expected := []string{"line2", "line3", "line4"}
	for i, exp := range expected {
		if s := lineToString(lines[i]); s != exp {
			t.Errorf("getRange[%d] expected '%s', got '%s'", i, exp, s)
		}
	}
}

func TestScrollbackBuffer_GetOutOfBounds(t *testing.T) {
	sb := newScrollbackBuffer(5)
	sb.push(makeTestLine("line1"))

	if sb.get(-1) != nil {
		t.Error("get(-1) should return nil")
	}
	if sb.get(1) != nil {
		t.Error("get(1) should return nil when only 1 line exists")
	}
}

func TestScrollbackBuffer_Clear(t *testing.T) {
	sb := newScrollbackBuffer(5)
	sb.push(makeTestLine("line1"))
	sb.push(makeTestLine("line2"))

	sb.clear()

	if sb.len() != 0 {
		t.Errorf("after clear, expected len=0, got %d", sb.len())
	}
	if sb.get(0) != nil {
		t.Error("after clear, get(0) should return nil")
	}
}

func TestScrollbackBuffer_DefaultCapacity(t *testing.T) {
	sb := newScrollbackBuffer(0)
	if sb.capacityLines() != 10000 {
		t.Errorf("expected default capacity 10000, got %d", sb.capacityLines())
	}

	sb2 := newScrollbackBuffer(-5)
	if sb2.capacityLines() != 10000 {
		t.Errorf("expected default capacity 10000 for negative, got %d", sb2.capacityLines())
	}
}

func TestRawHistoryRing_OverflowDropsOldest(t *testing.T) {
	r := newRawHistoryRing(8)
	r.append([]byte("abcdefgh"))
	r.append([]byte("ij"))

	got := string(r.snapshot())
	want := "cdefghij"
	if got != want {
		t.Errorf("snapshot() = %q, want %q", got, want)
	}
}

func TestRawHistoryRing_SingleWriteLargerThanCapacity(t *testing.T) {
	r := newRawHistoryRing(4)
	r.append([]byte("abcdefgh"))

	got := string(r.snapshot())
	want := "efgh"
	if got != want {
		t.Errorf("snapshot() = %q, want %q", got, want)
	}
}

func TestRawHistoryRing_DefaultCapacity(t *testing.T) {
	r := newRawHistoryRing(0)
	if r.capacity != defaultRawHistoryBytes {
		t.Errorf("capacity = %d, want %d", r.capacity, defaultRawHistoryBytes)
	}
}

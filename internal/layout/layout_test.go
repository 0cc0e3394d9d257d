package layout

import (
	"testing"

	"github.com/hive-org/hive/internal/termwidget"
)

var area = termwidget.Rect{Left: 0, Top: 0, Right: 100, Bottom: 40}

func assertCoversWithoutOverlap(t *testing.T, cells []Cell, n int) {
	t.Helper()
	if len(cells) != n {
		t.Fatalf("Compute(%d) returned %d cells", n, len(cells))
	}
	for _, c := range cells {
		if c.Rect.Left < area.Left || c.Rect.Right > area.Right || c.Rect.Top < area.Top || c.Rect.Bottom > area.Bottom {
			t.Errorf("cell %+v escapes area %+v", c.Rect, area)
		}
		if c.Rect.Width() <= 0 || c.Rect.Height() <= 0 {
			t.Errorf("cell %+v is degenerate", c.Rect)
		}
	}
}

func TestCompute_ZeroPanes(t *testing.T) {
	if got := Compute(0, area); got != nil {
		t.Errorf("Compute(0) = %+v, want nil", got)
	}
}

func TestCompute_OnePane(t *testing.T) {
	cells := Compute(1, area)
	assertCoversWithoutOverlap(t, cells, 1)
	if cells[0].Rect != area {
		t.Errorf("single pane should occupy the full area, got %+v", cells[0].Rect)
	}
}

func TestCompute_TwoPanes_HorizontalSplit(t *testing.T) {
	cells := Compute(2, area)
	assertCoversWithoutOverlap(t, cells, 2)
	if cells[0].Rect.Right != cells[1].Rect.Left {
		t.Errorf("expected adjoining halves, got %+v and %+v", cells[0].Rect, cells[1].Rect)
	}
}

func TestCompute_ThreePanes_LeftHalfPlusStackedRight(t *testing.T) {
	cells := Compute(3, area)
	assertCoversWithoutOverlap(t, cells, 3)

	if cells[0].Rect.Width() != cells[1].Rect.Width() {
		t.Error("left pane and right column should be equal width")
	}
	if cells[1].Rect.Bottom != cells[2].Rect.Top {
		t.Error("right column panes should stack vertically without a gap")
	}
}

func TestCompute_FourPanes_2x2(t *testing.T) {
	cells := Compute(4, area)
	assertCoversWithoutOverlap(t, cells, 4)

	rows := map[int]bool{}
	cols := map[int]bool{}
	for _, c := range cells {
		rows[c.Row] = true
		cols[c.Col] = true
	}
	if len(rows) != 2 || len(cols) != 2 {
		t.Errorf("expected a 2x2 grid, got rows=%v cols=%v", rows, cols)
	}
}

func TestCompute_FivePanes_LastRowHasOne(t *testing.T) {
	cells := Compute(5, area)
	assertCoversWithoutOverlap(t, cells, 5)

	lastRow := 2 // ceil(5/2) = 3 rows, 0-indexed last is row 2
	count := 0
	for _, c := range cells {
		if c.Row == lastRow {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected the last row to have exactly 1 pane, got %d", count)
	}
}

func TestCompute_SixPanes_3x2NoLeftover(t *testing.T) {
	cells := Compute(6, area)
	assertCoversWithoutOverlap(t, cells, 6)
}

func TestAdjacent_MovesInRequestedDirection(t *testing.T) {
	cells := Compute(4, area) // 2x2
	// Find the cell at (0,0) and (0,1).
	var originIdx, rightIdx int
	for i, c := range cells {
		if c.Row == 0 && c.Col == 0 {
			originIdx = i
		}
		if c.Row == 0 && c.Col == 1 {
			rightIdx = i
		}
	}

	got := Adjacent(cells, originIdx, 0, 1)
	if got != rightIdx {
		t.Errorf("Adjacent right from (0,0) = %d, want %d", got, rightIdx)
	}
}

func TestAdjacent_NoNeighborReturnsNegativeOne(t *testing.T) {
	cells := Compute(1, area)
	if got := Adjacent(cells, 0, 0, 1); got != -1 {
		t.Errorf("Adjacent with a single pane should return -1, got %d", got)
	}
}

package planner

import "fmt"

// Layout describes the fixed cell geometry of a grid.
type Layout struct {
	Rows         int
	Cols         int
	CellWidth    int
	CellHeight   int
	BucketWidth  int
	BucketHeight int
}

// DefaultLayout returns the 7x7 week grid with 30x10 day cells and 60x32 buckets.
func DefaultLayout() Layout {
	return Layout{
		Rows:         7,
		Cols:         7,
		CellWidth:    30,
		CellHeight:   10,
		BucketWidth:  60,
		BucketHeight: 32,
	}
}

// Validate reports the first non-positive dimension.
func (l Layout) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"rows", l.Rows},
		{"cols", l.Cols},
		{"cell_width", l.CellWidth},
		{"cell_height", l.CellHeight},
		{"bucket_width", l.BucketWidth},
		{"bucket_height", l.BucketHeight},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return fmt.Errorf("layout %s must be positive, got %d", f.name, f.value)
		}
	}
	return nil
}

// DayRect returns the rectangle of the day cell at row, col.
func (l Layout) DayRect(row, col int) Rect {
	return Rect{X: col * l.CellWidth, Y: row * l.CellHeight, Width: l.CellWidth, Height: l.CellHeight}
}

// BucketRect returns the rectangle of the n-th auxiliary bucket. Buckets stack
// vertically to the right of the day grid with a one-cell gap.
func (l Layout) BucketRect(n int) Rect {
	return Rect{
		X:      l.Cols*l.CellWidth + 1,
		Y:      n * (l.BucketHeight + 1),
		Width:  l.BucketWidth,
		Height: l.BucketHeight,
	}
}

// Size returns the width and height needed to draw the whole grid.
func (l Layout) Size() (int, int) {
	width := l.Cols*l.CellWidth + 1 + l.BucketWidth
	height := max(l.Rows*l.CellHeight, 2*l.BucketHeight+1)
	return width, height
}

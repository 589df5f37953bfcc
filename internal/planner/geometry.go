package planner

// Point is a terminal cell coordinate.
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned rectangle in cell coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the cell closest to the middle of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Offset returns p relative to the top-left corner of r.
func (r Rect) Offset(p Point) Point {
	return Point{X: p.X - r.X, Y: p.Y - r.Y}
}

// MoveTo returns r with its top-left corner at p.
func (r Rect) MoveTo(p Point) Rect {
	r.X = p.X
	r.Y = p.Y
	return r
}

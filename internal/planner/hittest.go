package planner

// Address is the logical location of a point: a container and, when the point
// falls on an occupied slot, the item index within it.
type Address struct {
	Container Handle
	Kind      Kind
	Row       int
	Col       int
	Index     int
	HasItem   bool
}

// Locate maps a screen point to an address. Day cells are resolved by dividing
// by the fixed cell size; points right of the day grid are matched against the
// buckets in declared order. Points outside every container report false.
func (g *Grid) Locate(p Point) (Address, bool) {
	if p.X < 0 || p.Y < 0 {
		return Address{}, false
	}
	col := p.X / g.layout.CellWidth
	row := p.Y / g.layout.CellHeight
	if col < g.layout.Cols {
		h, ok := g.Day(row, col)
		if !ok {
			return Address{}, false
		}
		return g.resolve(h, p), true
	}
	for _, h := range g.buckets {
		if g.containers[h].Rect.Contains(p) {
			return g.resolve(h, p), true
		}
	}
	return Address{}, false
}

func (g *Grid) resolve(h Handle, p Point) Address {
	c := g.containers[h]
	addr := Address{Container: h, Kind: c.Kind, Row: c.Row, Col: c.Col, Index: -1}
	if slot, ok := c.slotAt(p.Y); ok {
		addr.Index = slot
		addr.HasItem = true
	}
	return addr
}

func (g *Grid) addressOf(h Handle, index int) Address {
	c := g.containers[h]
	return Address{Container: h, Kind: c.Kind, Row: c.Row, Col: c.Col, Index: index, HasItem: true}
}

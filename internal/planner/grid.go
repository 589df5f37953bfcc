package planner

import (
	"fmt"

	"github.com/evanschultz/weekgrid/internal/domain"
)

var weekdays = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Handle is a stable reference to a container in a grid's arena.
type Handle int

// Grid owns every container. Day cells are addressed by row and column,
// buckets are scanned in declared order (unassigned, then done).
type Grid struct {
	layout     Layout
	containers []*Container
	days       [][]Handle
	buckets    []Handle
}

// NewGrid constructs the day cells and both buckets. Invalid layouts fall back
// to DefaultLayout.
func NewGrid(layout Layout) *Grid {
	if layout.Validate() != nil {
		layout = DefaultLayout()
	}
	g := &Grid{layout: layout}
	g.days = make([][]Handle, layout.Rows)
	for row := range layout.Rows {
		g.days[row] = make([]Handle, layout.Cols)
		for col := range layout.Cols {
			g.days[row][col] = g.add(&Container{
				Kind:  KindDay,
				Row:   row,
				Col:   col,
				Label: fmt.Sprintf("%s %d", weekdays[col%len(weekdays)], row+1),
				Rect:  layout.DayRect(row, col),
			})
		}
	}
	for n, kind := range []Kind{KindUnassigned, KindDone} {
		label := "Unassigned"
		if kind == KindDone {
			label = "Done"
		}
		g.buckets = append(g.buckets, g.add(&Container{
			Kind:  kind,
			Row:   layout.Rows,
			Col:   n,
			Label: label,
			Rect:  layout.BucketRect(n),
		}))
	}
	return g
}

func (g *Grid) add(c *Container) Handle {
	g.containers = append(g.containers, c)
	return Handle(len(g.containers) - 1)
}

// Layout returns the grid's cell geometry.
func (g *Grid) Layout() Layout {
	return g.layout
}

// Container resolves a handle.
func (g *Grid) Container(h Handle) (*Container, bool) {
	if h < 0 || int(h) >= len(g.containers) {
		return nil, false
	}
	return g.containers[h], true
}

// Day returns the handle of the day cell at row, col.
func (g *Grid) Day(row, col int) (Handle, bool) {
	if row < 0 || row >= len(g.days) || col < 0 || col >= len(g.days[row]) {
		return 0, false
	}
	return g.days[row][col], true
}

// Unassigned returns the handle of the unassigned bucket.
func (g *Grid) Unassigned() Handle {
	return g.buckets[0]
}

// Done returns the handle of the done bucket.
func (g *Grid) Done() Handle {
	return g.buckets[1]
}

// HandleFor maps a persisted placement to its container.
func (g *Grid) HandleFor(p domain.Placement) (Handle, bool) {
	switch p.Normalize().Bucket {
	case domain.BucketDay:
		return g.Day(p.Row, p.Col)
	case domain.BucketUnassigned:
		return g.Unassigned(), true
	case domain.BucketDone:
		return g.Done(), true
	default:
		return 0, false
	}
}

// PlacementOf maps a container back to its persisted placement.
func (g *Grid) PlacementOf(h Handle) (domain.Placement, bool) {
	c, ok := g.Container(h)
	if !ok {
		return domain.Placement{}, false
	}
	switch c.Kind {
	case KindDay:
		return domain.DayPlacement(c.Row, c.Col), true
	case KindDone:
		return domain.DonePlacement(), true
	default:
		return domain.UnassignedPlacement(), true
	}
}

// Len returns the number of items across every container.
func (g *Grid) Len() int {
	total := 0
	for _, c := range g.containers {
		total += c.Len()
	}
	return total
}

// Find returns the current address of the item with id.
func (g *Grid) Find(id string) (Address, bool) {
	for h, c := range g.containers {
		if idx := c.IndexOf(id); idx >= 0 {
			return g.addressOf(Handle(h), idx), true
		}
	}
	return Address{}, false
}

// Add appends todo to the container its placement names, or to the unassigned
// bucket when the placement is outside the grid. Done todos always land in
// the done bucket.
func (g *Grid) Add(todo domain.Todo) (Address, error) {
	if _, exists := g.Find(todo.ID); exists {
		return Address{}, fmt.Errorf("add %q: %w", todo.ID, ErrDuplicateItem)
	}
	h, ok := g.HandleFor(todo.Placement)
	if todo.Done {
		h, ok = g.Done(), true
	}
	if !ok {
		h = g.Unassigned()
	}
	todo.Placement, _ = g.PlacementOf(h)
	todo.Done = h == g.Done()
	c := g.containers[h]
	c.Append(Item{Todo: todo})
	return g.addressOf(h, c.Len()-1), nil
}

// Load clears every container and places todos in order. It returns the
// number of todos skipped as duplicates.
func (g *Grid) Load(todos []domain.Todo) int {
	for _, c := range g.containers {
		c.reset()
	}
	skipped := 0
	for _, todo := range todos {
		if _, err := g.Add(todo); err != nil {
			skipped++
		}
	}
	return skipped
}

// Move removes the item from its source container and appends it to dst.
// The source index is checked against itemID; a stale index is re-resolved
// by id before giving up with ErrIndexOutOfRange.
func (g *Grid) Move(from Address, itemID string, dst Handle) (Item, error) {
	src, ok := g.Container(from.Container)
	if !ok {
		return Item{}, fmt.Errorf("move source %d: %w", from.Container, ErrUnknownContainer)
	}
	target, ok := g.Container(dst)
	if !ok {
		return Item{}, fmt.Errorf("move destination %d: %w", dst, ErrUnknownContainer)
	}
	if from.Container == dst {
		return Item{}, ErrSameContainer
	}

	index := from.Index
	if item, ok := src.ItemAt(index); !ok || item.ID() != itemID {
		index = src.IndexOf(itemID)
	}
	if index < 0 {
		return Item{}, fmt.Errorf("move %q from %s: %w", itemID, src.Label, ErrIndexOutOfRange)
	}
	item, err := src.RemoveAt(index)
	if err != nil {
		return Item{}, err
	}
	item.Todo.Placement, _ = g.PlacementOf(dst)
	item.Todo.Done = target.Kind == KindDone
	target.Append(item)
	moved, _ := target.ItemAt(target.Len() - 1)
	return moved, nil
}

// MarkDone moves the item with id into the done bucket. It reports false when
// the item was already done.
func (g *Grid) MarkDone(id string) (Item, bool, error) {
	addr, ok := g.Find(id)
	if !ok {
		return Item{}, false, fmt.Errorf("mark done %q: %w", id, ErrIndexOutOfRange)
	}
	if addr.Container == g.Done() {
		item, _ := g.containers[addr.Container].ItemAt(addr.Index)
		return item, false, nil
	}
	item, err := g.Move(addr, id, g.Done())
	if err != nil {
		return Item{}, false, err
	}
	return item, true, nil
}

// Item returns the item at addr.
func (g *Grid) Item(addr Address) (Item, bool) {
	if !addr.HasItem {
		return Item{}, false
	}
	c, ok := g.Container(addr.Container)
	if !ok {
		return Item{}, false
	}
	return c.ItemAt(addr.Index)
}

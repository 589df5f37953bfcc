package planner

import "fmt"

// Kind identifies the role of a container.
type Kind string

// KindDay and related constants name every container role.
const (
	KindDay        Kind = "day"
	KindUnassigned Kind = "unassigned"
	KindDone       Kind = "done"
)

// headerOffset is the number of rows between a container's top edge and its
// first item slot (the border line carrying the label).
const headerOffset = 1

// Container is an ordered stack of items with its own screen rectangle.
type Container struct {
	Kind  Kind
	Row   int
	Col   int
	Label string
	Rect  Rect
	items []Item
}

// Len returns the number of items held.
func (c *Container) Len() int {
	return len(c.items)
}

// Capacity returns how many item slots fit between the top and bottom borders.
func (c *Container) Capacity() int {
	return max(c.Rect.Height-2*headerOffset, 0)
}

// Items returns a copy of the held items in list order.
func (c *Container) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// ItemAt returns the item at index.
func (c *Container) ItemAt(index int) (Item, bool) {
	if index < 0 || index >= len(c.items) {
		return Item{}, false
	}
	return c.items[index], true
}

// IndexOf returns the list index of the item with id, or -1.
func (c *Container) IndexOf(id string) int {
	for i, item := range c.items {
		if item.ID() == id {
			return i
		}
	}
	return -1
}

// Append adds item at the end of the list and re-flows.
func (c *Container) Append(item Item) {
	c.items = append(c.items, item)
	c.Reflow()
}

// RemoveAt removes and returns the item at index, then re-flows the rest.
func (c *Container) RemoveAt(index int) (Item, error) {
	if index < 0 || index >= len(c.items) {
		return Item{}, fmt.Errorf("remove index %d of %d: %w", index, len(c.items), ErrIndexOutOfRange)
	}
	item := c.items[index]
	c.items = append(c.items[:index], c.items[index+1:]...)
	c.Reflow()
	return item, nil
}

// Reflow packs every item directly under the header in list order and
// renumbers todo positions to match.
func (c *Container) Reflow() {
	for i := range c.items {
		c.items[i].Rect = c.SlotRect(i)
		c.items[i].Todo.Position = i
	}
}

// SlotRect returns the rectangle an item occupies at index: one row spanning
// the space between the left and right borders.
func (c *Container) SlotRect(index int) Rect {
	return Rect{
		X:      c.Rect.X + 1,
		Y:      c.Rect.Y + headerOffset + index,
		Width:  max(c.Rect.Width-2, 0),
		Height: 1,
	}
}

// slotAt maps a row inside the container to an item slot. The slot height
// comes from the container's own rectangle.
func (c *Container) slotAt(y int) (int, bool) {
	if c.Rect.Height <= 0 {
		return 0, false
	}
	slot := (y-c.Rect.Y)%c.Rect.Height - headerOffset
	if slot < 0 || slot >= len(c.items) || slot >= c.Capacity() {
		return 0, false
	}
	return slot, true
}

func (c *Container) reset() {
	c.items = c.items[:0]
}

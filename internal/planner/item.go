package planner

import "github.com/evanschultz/weekgrid/internal/domain"

// Item is one draggable todo and its resolved on-screen slot.
type Item struct {
	Todo domain.Todo
	Rect Rect
}

// ID returns the stable todo identifier.
func (i Item) ID() string {
	return i.Todo.ID
}

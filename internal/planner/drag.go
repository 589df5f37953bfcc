package planner

import "errors"

// DragState is the controller state: Idle or Dragging.
type DragState interface {
	dragState()
}

// Idle means no drag is in progress.
type Idle struct{}

// Dragging tracks one item lifted from Source. Float is the transient
// rectangle that follows the pointer; the source container is not touched
// until release.
type Dragging struct {
	Source Address
	ItemID string
	Grab   Point
	Float  Rect
}

func (Idle) dragState()     {}
func (Dragging) dragState() {}

// OutcomeKind classifies how a release ended.
type OutcomeKind int

// OutcomeAborted and related constants describe release results.
const (
	OutcomeAborted OutcomeKind = iota
	OutcomeUnchanged
	OutcomeMoved
)

// Outcome describes a finished drag.
type Outcome struct {
	Kind OutcomeKind
	Item Item
	From Address
	To   Address
}

// Controller drives press, hold, and release input against a grid.
type Controller struct {
	grid  *Grid
	state DragState
}

// NewController constructs an idle controller for grid.
func NewController(grid *Grid) *Controller {
	return &Controller{grid: grid, state: Idle{}}
}

// State returns the current state.
func (c *Controller) State() DragState {
	return c.state
}

// Dragging returns the active drag, if any.
func (c *Controller) Dragging() (Dragging, bool) {
	d, ok := c.state.(Dragging)
	return d, ok
}

// Press starts a drag when p lands on an item. Presses on empty slots or
// outside every container leave the controller idle. A press that arrives
// while already dragging means the release was lost; the stale drag is
// dropped without moving anything before the press is handled.
func (c *Controller) Press(p Point) bool {
	c.state = Idle{}
	addr, ok := c.grid.Locate(p)
	if !ok || !addr.HasItem {
		return false
	}
	item, ok := c.grid.Item(addr)
	if !ok {
		return false
	}
	c.state = Dragging{
		Source: addr,
		ItemID: item.ID(),
		Grab:   item.Rect.Offset(p),
		Float:  item.Rect,
	}
	return true
}

// Hold moves the floating rectangle so the grabbed cell stays under p.
func (c *Controller) Hold(p Point) bool {
	d, ok := c.state.(Dragging)
	if !ok {
		return false
	}
	d.Float = d.Float.MoveTo(Point{X: p.X - d.Grab.X, Y: p.Y - d.Grab.Y})
	c.state = d
	return true
}

// Release ends the drag at p. A miss aborts, the source container is a no-op,
// and any other container receives the item. The controller is idle afterwards
// whatever the result.
func (c *Controller) Release(p Point) (Outcome, error) {
	d, ok := c.state.(Dragging)
	if !ok {
		return Outcome{Kind: OutcomeAborted}, ErrNotDragging
	}
	c.state = Idle{}

	to, ok := c.grid.Locate(p)
	if !ok {
		return Outcome{Kind: OutcomeAborted, From: d.Source}, nil
	}
	if to.Container == d.Source.Container {
		item, _ := c.grid.Item(d.Source)
		return Outcome{Kind: OutcomeUnchanged, Item: item, From: d.Source, To: d.Source}, nil
	}
	item, err := c.grid.Move(d.Source, d.ItemID, to.Container)
	if err != nil {
		if errors.Is(err, ErrSameContainer) {
			return Outcome{Kind: OutcomeUnchanged, From: d.Source, To: d.Source}, nil
		}
		return Outcome{Kind: OutcomeAborted, From: d.Source}, err
	}
	dst, _ := c.grid.Find(item.ID())
	return Outcome{Kind: OutcomeMoved, Item: item, From: d.Source, To: dst}, nil
}

// Cancel drops an active drag without moving anything.
func (c *Controller) Cancel() bool {
	if _, ok := c.state.(Dragging); !ok {
		return false
	}
	c.state = Idle{}
	return true
}

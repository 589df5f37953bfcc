package planner

// ContainerView is the read-only snapshot a renderer draws for one container.
type ContainerView struct {
	Handle   Handle
	Kind     Kind
	Label    string
	Rect     Rect
	Capacity int
	Items    []Item
}

// View returns every container in arena order with its items' resolved
// geometry.
func (g *Grid) View() []ContainerView {
	out := make([]ContainerView, 0, len(g.containers))
	for h, c := range g.containers {
		out = append(out, ContainerView{
			Handle:   Handle(h),
			Kind:     c.Kind,
			Label:    c.Label,
			Rect:     c.Rect,
			Capacity: c.Capacity(),
			Items:    c.Items(),
		})
	}
	return out
}

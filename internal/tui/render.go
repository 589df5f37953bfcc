package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/lipgloss/v2"
	"github.com/evanschultz/weekgrid/internal/domain"
	"github.com/evanschultz/weekgrid/internal/planner"
)

// palette colors shared by the board renderers.
var (
	accentColor = lipgloss.Color("62")
	mutedColor  = lipgloss.Color("241")
	dimColor    = lipgloss.Color("239")
	doneColor   = lipgloss.Color("71")
	focusColor  = lipgloss.Color("212")
)

// layer depths for the screen canvas.
const (
	zBoard   = 0
	zFooter  = 5
	zFloat   = 10
	zOverlay = 20
)

// renderScreen composes the board, the dragged item, the footer, and any
// overlay. Containers are drawn at their own grid coordinates so screen
// cells and hit-testing share one coordinate space.
func (m Model) renderScreen() string {
	width, height := max(1, m.width), max(1, m.height)
	canvas := lipgloss.NewCanvas(width, height)

	drag, dragging := m.drag.Dragging()
	for _, cv := range m.grid.View() {
		block := m.renderContainer(cv, drag.ItemID)
		canvas.Compose(lipgloss.NewLayer(block).X(cv.Rect.X).Y(cv.Rect.Y).Z(zBoard))
	}
	if dragging {
		if item, ok := m.grid.Item(drag.Source); ok && item.ID() == drag.ItemID {
			canvas.Compose(lipgloss.NewLayer(m.renderFloating(item, drag.Float)).X(drag.Float.X).Y(drag.Float.Y).Z(zFloat))
		}
	}

	canvas.Compose(lipgloss.NewLayer(m.renderFooter(width)).X(0).Y(height - 1).Z(zFooter))

	if overlay := m.renderOverlay(width); overlay != "" {
		x := max(0, (width-lipgloss.Width(overlay))/2)
		y := max(0, (height-1-lipgloss.Height(overlay))/2)
		canvas.Compose(lipgloss.NewLayer(overlay).X(x).Y(y).Z(zOverlay))
	}
	return canvas.Render()
}

// renderContainer draws one bordered container with its visible slots.
func (m Model) renderContainer(cv planner.ContainerView, draggedID string) string {
	w, h := cv.Rect.Width, cv.Rect.Height
	inner := max(0, w-2)

	borderColor := dimColor
	switch cv.Kind {
	case planner.KindUnassigned:
		borderColor = accentColor
	case planner.KindDone:
		borderColor = doneColor
	}
	border := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(borderColor)
	itemStyle := lipgloss.NewStyle()
	focusStyle := lipgloss.NewStyle().Foreground(focusColor).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(mutedColor).Strikethrough(true)
	ghostStyle := lipgloss.NewStyle().Foreground(dimColor)

	title := planner.TruncateLabel(fmt.Sprintf(" %s (%d) ", cv.Label, len(cv.Items)), w)
	top := border.Render("╭") + titleStyle.Render(title) +
		border.Render(strings.Repeat("─", max(0, inner-utf8.RuneCountInString(title)))+"╮")

	lines := make([]string, 0, h)
	lines = append(lines, top)
	for slot := 0; slot < max(0, h-2); slot++ {
		text := ""
		style := itemStyle
		if slot < len(cv.Items) {
			item := cv.Items[slot]
			text = planner.TruncateLabel(m.itemLabel(item.Todo), item.Rect.Width)
			switch {
			case item.ID() == draggedID:
				style = ghostStyle
			case item.ID() == m.focusedID:
				style = focusStyle
			case item.Todo.Done:
				style = doneStyle
			}
		}
		lines = append(lines, border.Render("│")+style.Render(padRight(text, inner))+border.Render("│"))
	}
	lines = append(lines, border.Render("╰"+strings.Repeat("─", inner)+"╯"))
	return strings.Join(lines, "\n")
}

// renderFloating draws the dragged item at its transient rectangle.
func (m Model) renderFloating(item planner.Item, float planner.Rect) string {
	inner := max(1, float.Width)
	text := planner.TruncateLabel(m.itemLabel(item.Todo), inner)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(accentColor).
		Bold(true).
		Render(padRight(text, inner))
}

// renderFooter draws the status line followed by short help.
func (m Model) renderFooter(width int) string {
	statusStyle := lipgloss.NewStyle().Foreground(dimColor)
	helpBubble := m.help
	helpBubble.ShowAll = false
	parts := []string{}
	if s := strings.TrimSpace(m.status); s != "" && s != "ready" {
		parts = append(parts, statusStyle.Render(s))
	}
	parts = append(parts, helpBubble.View(m.keys))
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, "  •  "))
}

// renderOverlay returns the active modal, if any.
func (m Model) renderOverlay(width int) string {
	boxWidth := max(24, min(76, width-8))
	switch {
	case m.mode == modeNewTodo:
		return m.renderTodoForm(boxWidth)
	case m.mode == modeDetails:
		return m.renderDetails(boxWidth)
	case m.help.ShowAll:
		helpBubble := m.help
		helpBubble.ShowAll = true
		return overlayBox(boxWidth).Render("Keys\n\n" + helpBubble.View(m.keys))
	default:
		return ""
	}
}

// renderTodoForm draws the new-todo form.
func (m Model) renderTodoForm(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(mutedColor).Width(13)
	focusLabel := labelStyle.Foreground(focusColor)
	lines := []string{lipgloss.NewStyle().Bold(true).Render("New todo"), ""}
	for i, field := range todoFormFields {
		if i >= len(m.formInputs) {
			break
		}
		style := labelStyle
		if i == m.formFocus {
			style = focusLabel
		}
		lines = append(lines, style.Render(field+":")+m.formInputs[i].View())
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(dimColor).Render("tab next • enter/ctrl+s save • esc cancel"))
	return overlayBox(width).Render(strings.Join(lines, "\n"))
}

// renderDetails draws the focused todo with its description as markdown.
func (m Model) renderDetails(width int) string {
	addr, ok := m.grid.Find(m.detailsID)
	if !ok {
		return overlayBox(width).Render("todo not found")
	}
	item, _ := m.grid.Item(addr)
	todo := item.Todo
	key := lipgloss.NewStyle().Foreground(mutedColor)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(todo.Name),
		"",
		key.Render("id:        ") + todo.ID,
		key.Render("placement: ") + m.placementLabel(addr.Container, todo.Placement),
		key.Render("done:      ") + fmt.Sprintf("%t", todo.Done),
	}
	if todo.StartTime != nil || todo.EndTime != nil {
		lines = append(lines, key.Render("time:      ")+formatSpan(todo.StartTime, todo.EndTime))
	}
	if todo.TimeCost != nil {
		lines = append(lines, key.Render("cost:      ")+fmt.Sprintf("%d", *todo.TimeCost))
	}
	if !todo.CreatedAt.IsZero() {
		lines = append(lines, key.Render("created:   ")+todo.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if desc := m.markdown.render(todo.Description, width-4); desc != "" {
		lines = append(lines, "", desc)
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(dimColor).Render("esc close • y copy id"))
	return overlayBox(width).Render(strings.Join(lines, "\n"))
}

// overlayBox is the shared modal frame.
func overlayBox(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Width(width)
}

// itemLabel returns the configured label text for one todo.
func (m Model) itemLabel(todo domain.Todo) string {
	label := todo.Name
	if m.ui.LabelField == "id" {
		label = todo.ID
	}
	if !m.ui.ShowTimeFields {
		return label
	}
	if todo.StartTime != nil || todo.EndTime != nil {
		label += " " + formatSpan(todo.StartTime, todo.EndTime)
	}
	if todo.TimeCost != nil {
		label += fmt.Sprintf(" ~%d", *todo.TimeCost)
	}
	return label
}

// placementLabel names a todo's container for the details view.
func (m Model) placementLabel(h planner.Handle, p domain.Placement) string {
	label := m.containerLabel(h)
	if p.Bucket == domain.BucketDay {
		return fmt.Sprintf("%s (%s)", label, p.String())
	}
	return label
}

// formatSpan renders an optional start/end pair.
func formatSpan(start, end *int) string {
	part := func(v *int) string {
		if v == nil {
			return "?"
		}
		return fmt.Sprintf("%d", *v)
	}
	return "[" + part(start) + "-" + part(end) + "]"
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

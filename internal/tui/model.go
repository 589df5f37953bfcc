package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/evanschultz/weekgrid/internal/app"
	"github.com/evanschultz/weekgrid/internal/domain"
	"github.com/evanschultz/weekgrid/internal/planner"
)

// Service represents service data used by this package.
type Service interface {
	ListTodos(context.Context) ([]domain.Todo, error)
	CreateTodo(context.Context, app.CreateTodoInput) (domain.Todo, error)
	MoveTodo(context.Context, string, domain.Placement, int) (domain.Todo, error)
}

// errStorageNotConfigured reports a model started without a service.
var errStorageNotConfigured = errors.New("storage not configured")

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeNewTodo
	modeDetails
)

// todoFormFields stores form field labels in display order.
var todoFormFields = []string{"name", "description", "start", "end", "cost"}

// todo-form field indexes.
const (
	todoFieldName = iota
	todoFieldDescription
	todoFieldStart
	todoFieldEnd
	todoFieldCost
)

// Model is the bubbletea program state. The grid and drag controller are
// shared by pointer across Model copies; Update is the only writer.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int

	status      string
	storageDown bool
	storageErr  error
	writes      *writeQueue

	help help.Model
	keys keyMap
	ui   UIConfig

	grid      *planner.Grid
	drag      *planner.Controller
	focusedID string

	mode       inputMode
	formInputs []textinput.Model
	formFocus  int
	detailsID  string

	markdown *markdownRenderer
	log      Logger
	copyText func(string) error
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	todos []domain.Todo
	err   error
}

// createdMsg carries the result of one create request.
type createdMsg struct {
	todo domain.Todo
	err  error
}

// persistedMsg carries the result of one placement write-back.
type persistedMsg struct {
	ids []string
	err error
}

// writeQueue holds placement batches waiting to be saved. At most one batch
// is in flight, so batches reach storage in drop order.
type writeQueue struct {
	pending  [][]domain.Todo
	inFlight bool
}

// copiedMsg carries the result of one clipboard write.
type copiedMsg struct {
	id  string
	err error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	grid := planner.NewGrid(planner.DefaultLayout())
	m := Model{
		svc:      svc,
		status:   "loading...",
		help:     h,
		keys:     newKeyMap(),
		ui:       DefaultUIConfig(),
		grid:     grid,
		drag:     planner.NewController(grid),
		markdown: &markdownRenderer{},
		writes:   &writeQueue{},
		log:      nopLogger{},
		copyText: clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Grid exposes the planner grid for read-only inspection.
func (m Model) Grid() *planner.Grid {
	return m.grid
}

// Status returns the footer status line.
func (m Model) Status() string {
	return m.status
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(max(0, msg.Width-2))
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.reportStorageFailure(msg.err)
			return m, nil
		}
		m.drag.Cancel()
		if skipped := m.grid.Load(msg.todos); skipped > 0 {
			m.log.Warn("duplicate todos skipped on load", "skipped", skipped)
		}
		if _, ok := m.grid.Find(m.focusedID); !ok {
			m.focusedID = ""
		}
		m.log.Debug("todos loaded", "count", m.grid.Len())
		if m.status == "" || m.status == "loading..." || m.status == "reloading..." {
			m.status = "ready"
		}
		return m, nil

	case createdMsg:
		if msg.err != nil {
			m.log.Error("create todo failed", "err", msg.err)
			m.status = "create failed: " + msg.err.Error()
			return m, nil
		}
		if _, err := m.grid.Add(msg.todo); err != nil {
			m.log.Warn("created todo already on grid", "id", msg.todo.ID, "err", err)
		}
		m.focusedID = msg.todo.ID
		m.status = "created " + msg.todo.Name
		return m, nil

	case persistedMsg:
		if msg.err != nil {
			m.reportStorageFailure(msg.err)
		} else {
			m.log.Debug("placements saved", "ids", strings.Join(msg.ids, ","))
		}
		return m, m.nextWriteCmd()

	case copiedMsg:
		if msg.err != nil {
			m.log.Warn("clipboard write failed", "err", msg.err)
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "copied id " + msg.id
		return m, nil

	case tea.KeyPressMsg:
		switch m.mode {
		case modeNewTodo:
			return m.handleFormKey(msg)
		case modeDetails:
			return m.handleDetailsKey(msg)
		default:
			return m.handleNormalModeKey(msg)
		}

	case tea.MouseClickMsg:
		return m.handleMousePress(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	default:
		return m, nil
	}
}

// View handles view.
func (m Model) View() tea.View {
	content := "loading..."
	if m.ready {
		content = m.renderScreen()
	}
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	if m.svc == nil {
		if m.storageErr != nil {
			return loadedMsg{err: m.storageErr}
		}
		return loadedMsg{err: errStorageNotConfigured}
	}
	todos, err := m.svc.ListTodos(context.Background())
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{todos: todos}
}

// reportStorageFailure logs every storage failure and surfaces only the first.
func (m *Model) reportStorageFailure(err error) {
	m.log.Error("storage unavailable", "err", err)
	if m.storageDown {
		return
	}
	m.storageDown = true
	m.status = "storage unavailable: " + err.Error()
}

// handleNormalModeKey handles keys while no overlay is open.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel):
		if m.drag.Cancel() {
			m.status = "drag cancelled"
			return m, nil
		}
		m.help.ShowAll = false
		return m, nil
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.newTodo):
		m.drag.Cancel()
		return m, m.startTodoForm()
	case key.Matches(msg, m.keys.details):
		item, ok := m.focusedItem()
		if !ok {
			m.status = "no todo selected"
			return m, nil
		}
		m.mode = modeDetails
		m.detailsID = item.ID()
		return m, nil
	case key.Matches(msg, m.keys.markDone):
		return m.markFocusedDone()
	case key.Matches(msg, m.keys.copyID):
		item, ok := m.focusedItem()
		if !ok {
			m.status = "no todo selected"
			return m, nil
		}
		return m, m.copyIDCmd(item.ID())
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	default:
		return m, nil
	}
}

// handleDetailsKey closes the details overlay.
func (m Model) handleDetailsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.details), key.Matches(msg, m.keys.quit):
		m.mode = modeNone
		m.detailsID = ""
	case key.Matches(msg, m.keys.copyID):
		return m, m.copyIDCmd(m.detailsID)
	}
	return m, nil
}

// handleFormKey routes keys to the new-todo form.
func (m Model) handleFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.closeForm()
		m.status = "cancelled"
		return m, nil
	case key.Matches(msg, m.keys.submit):
		return m.submitTodoForm()
	case key.Matches(msg, m.keys.nextField):
		m.focusFormField(m.formFocus + 1)
		return m, nil
	case key.Matches(msg, m.keys.prevField):
		m.focusFormField(m.formFocus - 1)
		return m, nil
	case msg.Code == tea.KeyEnter:
		if m.formFocus == len(m.formInputs)-1 {
			return m.submitTodoForm()
		}
		m.focusFormField(m.formFocus + 1)
		return m, nil
	}
	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

// startTodoForm opens the new-todo form with the name field focused.
func (m *Model) startTodoForm() tea.Cmd {
	placeholders := []string{"required", "markdown", "e.g. 9", "e.g. 11", "e.g. 30"}
	m.formInputs = make([]textinput.Model, len(todoFormFields))
	for i := range todoFormFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 120
		if i == todoFieldDescription {
			in.CharLimit = 2000
		}
		in.SetWidth(40)
		m.formInputs[i] = in
	}
	m.mode = modeNewTodo
	m.status = "new todo"
	m.focusFormField(todoFieldName)
	return nil
}

// focusFormField focuses one form input, wrapping around both ends.
func (m *Model) focusFormField(idx int) {
	if len(m.formInputs) == 0 {
		return
	}
	idx = wrapIndex(idx, len(m.formInputs))
	m.formFocus = idx
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	_ = m.formInputs[idx].Focus()
}

// closeForm discards the form state.
func (m *Model) closeForm() {
	m.mode = modeNone
	m.formInputs = nil
	m.formFocus = 0
}

// formValues returns trimmed form values keyed by field label.
func (m Model) formValues() map[string]string {
	out := make(map[string]string, len(todoFormFields))
	for i, field := range todoFormFields {
		if i < len(m.formInputs) {
			out[field] = strings.TrimSpace(m.formInputs[i].Value())
		}
	}
	return out
}

// submitTodoForm validates the form and issues the create request.
func (m Model) submitTodoForm() (tea.Model, tea.Cmd) {
	vals := m.formValues()
	if vals["name"] == "" {
		m.status = "name is required"
		m.focusFormField(todoFieldName)
		return m, nil
	}
	in := app.CreateTodoInput{
		Name:        vals["name"],
		Description: vals["description"],
	}
	for _, field := range []struct {
		name string
		idx  int
		dst  **int
	}{
		{"start", todoFieldStart, &in.StartTime},
		{"end", todoFieldEnd, &in.EndTime},
		{"cost", todoFieldCost, &in.TimeCost},
	} {
		v, err := parseOptionalInt(vals[field.name])
		if err != nil {
			m.status = fmt.Sprintf("invalid %s: %v", field.name, err)
			m.focusFormField(field.idx)
			return m, nil
		}
		*field.dst = v
	}
	m.closeForm()
	m.status = "creating..."
	return m, m.createTodoCmd(in)
}

// createTodoCmd runs one create request off the update loop. Without storage
// the todo only lives on the board.
func (m Model) createTodoCmd(in app.CreateTodoInput) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if svc == nil {
			todo, err := domain.NewTodo(domain.TodoInput{
				ID:          uuid.NewString(),
				Name:        in.Name,
				Description: in.Description,
				StartTime:   in.StartTime,
				EndTime:     in.EndTime,
				TimeCost:    in.TimeCost,
				Placement:   domain.UnassignedPlacement(),
			}, time.Now())
			return createdMsg{todo: todo, err: err}
		}
		todo, err := svc.CreateTodo(context.Background(), in)
		if err != nil {
			return createdMsg{err: err}
		}
		return createdMsg{todo: todo}
	}
}

// parseOptionalInt parses one optional non-negative whole number.
func parseOptionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", raw)
	}
	if v < 0 {
		return nil, fmt.Errorf("%d is negative", v)
	}
	return &v, nil
}

// handleMousePress starts a drag when the left button lands on an item.
func (m Model) handleMousePress(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.help.ShowAll || msg.Button != tea.MouseLeft {
		return m, nil
	}
	if !m.drag.Press(planner.Point{X: msg.X, Y: msg.Y}) {
		return m, nil
	}
	d, _ := m.drag.Dragging()
	m.focusedID = d.ItemID
	return m, nil
}

// handleMouseMotion moves the floating item while a drag is active.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	m.drag.Hold(planner.Point{X: msg.X, Y: msg.Y})
	return m, nil
}

// handleMouseRelease finishes a drag and persists any move.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if _, ok := m.drag.Dragging(); !ok {
		return m, nil
	}
	outcome, err := m.drag.Release(planner.Point{X: msg.X, Y: msg.Y})
	if err != nil {
		if errors.Is(err, planner.ErrIndexOutOfRange) {
			m.log.Warn("drop aborted", "from", outcome.From.Container, "err", err)
		} else {
			m.log.Error("drop failed", "err", err)
		}
		m.status = "move aborted"
		return m, nil
	}
	if outcome.Kind != planner.OutcomeMoved {
		return m, nil
	}
	m.status = fmt.Sprintf("moved %s to %s", outcome.Item.Todo.Name, m.containerLabel(outcome.To.Container))
	return m, m.persistMoveCmd(outcome.Item, outcome.From)
}

// markFocusedDone moves the focused item into the done bucket.
func (m Model) markFocusedDone() (tea.Model, tea.Cmd) {
	item, ok := m.focusedItem()
	if !ok {
		m.status = "no todo selected"
		return m, nil
	}
	from, _ := m.grid.Find(item.ID())
	m.drag.Cancel()
	moved, changed, err := m.grid.MarkDone(item.ID())
	if err != nil {
		m.log.Warn("mark done aborted", "id", item.ID(), "err", err)
		m.status = "mark done failed"
		return m, nil
	}
	if !changed {
		m.status = "already done"
		return m, nil
	}
	m.status = "done: " + moved.Todo.Name
	return m, m.persistMoveCmd(moved, from)
}

// persistMoveCmd queues a write-back of the moved item and every source item
// whose slot shifted when it left. The returned command is nil while an
// earlier batch is still being saved; that batch's result starts the next one.
func (m Model) persistMoveCmd(moved planner.Item, from planner.Address) tea.Cmd {
	if m.svc == nil {
		return nil
	}
	todos := []domain.Todo{moved.Todo}
	if src, ok := m.grid.Container(from.Container); ok {
		for _, item := range src.Items()[min(max(from.Index, 0), src.Len()):] {
			todos = append(todos, item.Todo)
		}
	}
	m.writes.pending = append(m.writes.pending, todos)
	if m.writes.inFlight {
		m.log.Debug("placement write queued", "id", moved.ID(), "queued", len(m.writes.pending))
		return nil
	}
	return m.nextWriteCmd()
}

// nextWriteCmd starts saving the oldest queued batch, if any.
func (m Model) nextWriteCmd() tea.Cmd {
	if len(m.writes.pending) == 0 {
		m.writes.inFlight = false
		return nil
	}
	todos := m.writes.pending[0]
	m.writes.pending = m.writes.pending[1:]
	m.writes.inFlight = true
	svc := m.svc
	return func() tea.Msg {
		ids := make([]string, 0, len(todos))
		for _, todo := range todos {
			if _, err := svc.MoveTodo(context.Background(), todo.ID, todo.Placement, todo.Position); err != nil {
				return persistedMsg{ids: ids, err: fmt.Errorf("save %s: %w", todo.ID, err)}
			}
			ids = append(ids, todo.ID)
		}
		return persistedMsg{ids: ids}
	}
}

// copyIDCmd writes one todo id to the clipboard.
func (m Model) copyIDCmd(id string) tea.Cmd {
	write := m.copyText
	return func() tea.Msg {
		return copiedMsg{id: id, err: write(id)}
	}
}

// focusedItem returns the last pressed item if it still exists.
func (m Model) focusedItem() (planner.Item, bool) {
	if m.focusedID == "" {
		return planner.Item{}, false
	}
	addr, ok := m.grid.Find(m.focusedID)
	if !ok {
		return planner.Item{}, false
	}
	return m.grid.Item(addr)
}

// containerLabel returns the display label for one container.
func (m Model) containerLabel(h planner.Handle) string {
	c, ok := m.grid.Container(h)
	if !ok {
		return "?"
	}
	return c.Label
}

// wrapIndex wraps idx into [0,total).
func wrapIndex(idx, total int) int {
	if total <= 0 {
		return 0
	}
	return ((idx % total) + total) % total
}

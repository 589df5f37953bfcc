package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/evanschultz/weekgrid/internal/app"
	"github.com/evanschultz/weekgrid/internal/domain"
	"github.com/evanschultz/weekgrid/internal/planner"
)

type moveCall struct {
	id        string
	placement domain.Placement
	position  int
}

type fakeService struct {
	todos     []domain.Todo
	listErr   error
	createErr error
	moveErr   error
	created   []app.CreateTodoInput
	moves     []moveCall
}

func (f *fakeService) ListTodos(context.Context) ([]domain.Todo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Todo(nil), f.todos...), nil
}

func (f *fakeService) CreateTodo(_ context.Context, in app.CreateTodoInput) (domain.Todo, error) {
	f.created = append(f.created, in)
	if f.createErr != nil {
		return domain.Todo{}, f.createErr
	}
	todo, err := domain.NewTodo(domain.TodoInput{
		ID:          "t-new",
		Name:        in.Name,
		Description: in.Description,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		TimeCost:    in.TimeCost,
	}, time.Now().UTC())
	if err != nil {
		return domain.Todo{}, err
	}
	f.todos = append(f.todos, todo)
	return todo, nil
}

func (f *fakeService) MoveTodo(_ context.Context, id string, placement domain.Placement, position int) (domain.Todo, error) {
	f.moves = append(f.moves, moveCall{id: id, placement: placement, position: position})
	if f.moveErr != nil {
		return domain.Todo{}, f.moveErr
	}
	return domain.Todo{ID: id, Placement: placement, Position: position}, nil
}

// recordingLogger counts entries per level.
type recordingLogger struct {
	warns  []string
	errors []string
}

func (l *recordingLogger) Debug(string, ...any) {}

func (l *recordingLogger) Warn(msg string, _ ...any) { l.warns = append(l.warns, msg) }

func (l *recordingLogger) Error(msg string, _ ...any) { l.errors = append(l.errors, msg) }

func newTestTodo(t *testing.T, id, name string, placement domain.Placement, position int) domain.Todo {
	t.Helper()
	todo, err := domain.NewTodo(domain.TodoInput{
		ID:        id,
		Name:      name,
		Placement: placement,
		Position:  position,
	}, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewTodo() error = %v", err)
	}
	return todo
}

// twoItemService holds A and B on Monday of week one plus C unassigned.
func twoItemService(t *testing.T) *fakeService {
	t.Helper()
	return &fakeService{todos: []domain.Todo{
		newTestTodo(t, "a", "Alpha", domain.DayPlacement(0, 0), 0),
		newTestTodo(t, "b", "Bravo", domain.DayPlacement(0, 0), 1),
		newTestTodo(t, "c", "Charlie", domain.UnassignedPlacement(), 0),
	}}
}

func containerIDs(t *testing.T, g *planner.Grid, h planner.Handle) []string {
	t.Helper()
	c, ok := g.Container(h)
	if !ok {
		t.Fatalf("container %d missing", h)
	}
	ids := []string{}
	for _, item := range c.Items() {
		ids = append(ids, item.ID())
	}
	return ids
}

func dayHandle(t *testing.T, g *planner.Grid, row, col int) planner.Handle {
	t.Helper()
	h, ok := g.Day(row, col)
	if !ok {
		t.Fatalf("day %d,%d missing", row, col)
	}
	return h
}

func press(x, y int) tea.MouseClickMsg {
	return tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}
}

func motion(x, y int) tea.MouseMotionMsg {
	return tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft}
}

func release(x, y int) tea.MouseReleaseMsg {
	return tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = applyMsg(t, m, keyRune(r))
	}
	return m
}

func TestModelLoadsTodosIntoGrid(t *testing.T) {
	m := loadReadyModel(t, NewModel(twoItemService(t)))
	g := m.Grid()
	if got := containerIDs(t, g, dayHandle(t, g, 0, 0)); strings.Join(got, ",") != "a,b" {
		t.Fatalf("unexpected day items %#v", got)
	}
	if got := containerIDs(t, g, g.Unassigned()); strings.Join(got, ",") != "c" {
		t.Fatalf("unexpected unassigned items %#v", got)
	}
	if m.status != "ready" {
		t.Fatalf("status = %q, want ready", m.status)
	}
	v := m.View()
	if v.Content == nil || v.MouseMode != tea.MouseModeCellMotion || !v.AltScreen {
		t.Fatalf("unexpected view settings %#v", v)
	}
}

func TestModelDragMovesItemAndPersists(t *testing.T) {
	svc := twoItemService(t)
	m := loadReadyModel(t, NewModel(svc))
	g := m.Grid()

	// Bravo sits in slot 1 of the first day cell, one row below Alpha.
	m = applyMsg(t, m, press(5, 2))
	if _, ok := m.drag.Dragging(); !ok {
		t.Fatal("expected dragging after press on item")
	}
	m = applyMsg(t, m, motion(35, 3))
	d, _ := m.drag.Dragging()
	if d.Float.X != 31 || d.Float.Y != 3 {
		t.Fatalf("unexpected float rect %#v", d.Float)
	}
	if got := containerIDs(t, g, dayHandle(t, g, 0, 0)); len(got) != 2 {
		t.Fatalf("hold must not mutate source, got %#v", got)
	}
	m = applyMsg(t, m, release(35, 3))

	if got := containerIDs(t, g, dayHandle(t, g, 0, 0)); strings.Join(got, ",") != "a" {
		t.Fatalf("unexpected source items %#v", got)
	}
	if got := containerIDs(t, g, dayHandle(t, g, 0, 1)); strings.Join(got, ",") != "b" {
		t.Fatalf("unexpected destination items %#v", got)
	}
	if len(svc.moves) != 1 {
		t.Fatalf("expected one persisted move, got %#v", svc.moves)
	}
	want := moveCall{id: "b", placement: domain.DayPlacement(0, 1), position: 0}
	if svc.moves[0] != want {
		t.Fatalf("unexpected move %#v, want %#v", svc.moves[0], want)
	}
	if !strings.HasPrefix(m.status, "moved Bravo to Tue 1") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelDragPersistsShiftedSourceItems(t *testing.T) {
	svc := twoItemService(t)
	m := loadReadyModel(t, NewModel(svc))
	g := m.Grid()

	// Drop Alpha on the unassigned bucket; Bravo shifts up to slot 0.
	unassigned, _ := g.Container(g.Unassigned())
	m = applyMsg(t, m, press(5, 1))
	m = applyMsg(t, m, release(unassigned.Rect.X+3, unassigned.Rect.Y+5))

	if got := containerIDs(t, g, g.Unassigned()); strings.Join(got, ",") != "c,a" {
		t.Fatalf("unexpected unassigned items %#v", got)
	}
	if len(svc.moves) != 2 {
		t.Fatalf("expected moved and shifted writes, got %#v", svc.moves)
	}
	if svc.moves[0] != (moveCall{id: "a", placement: domain.UnassignedPlacement(), position: 1}) {
		t.Fatalf("unexpected moved write %#v", svc.moves[0])
	}
	if svc.moves[1] != (moveCall{id: "b", placement: domain.DayPlacement(0, 0), position: 0}) {
		t.Fatalf("unexpected shifted write %#v", svc.moves[1])
	}
}

func TestModelSavesRepeatedDragsInDropOrder(t *testing.T) {
	svc := twoItemService(t)
	m := loadReadyModel(t, NewModel(svc))

	// Bravo goes Mon 1 -> Tue 1; hold on to the write instead of running it.
	m = applyMsg(t, m, press(5, 2))
	updated, first := m.Update(release(35, 3))
	m = updated.(Model)
	if first == nil {
		t.Fatal("expected a write for the first drop")
	}

	// Bravo goes Tue 1 -> Wed 1 while the first write is still pending.
	m = applyMsg(t, m, press(35, 1))
	updated, second := m.Update(release(65, 1))
	m = updated.(Model)
	if second != nil {
		t.Fatal("second drop must wait for the first write to finish")
	}
	if len(svc.moves) != 0 {
		t.Fatalf("nothing should be saved yet, got %#v", svc.moves)
	}

	m = applyCmd(t, m, first)
	want := []moveCall{
		{id: "b", placement: domain.DayPlacement(0, 1), position: 0},
		{id: "b", placement: domain.DayPlacement(0, 2), position: 0},
	}
	if len(svc.moves) != len(want) {
		t.Fatalf("unexpected saved moves %#v", svc.moves)
	}
	for i := range want {
		if svc.moves[i] != want[i] {
			t.Fatalf("move %d = %#v, want %#v", i, svc.moves[i], want[i])
		}
	}
	if m.writes.inFlight || len(m.writes.pending) != 0 {
		t.Fatalf("expected drained write queue, got %#v", m.writes)
	}

	// A later drop starts its own write straight away.
	m = applyMsg(t, m, press(65, 1))
	if _, cmd := m.Update(release(95, 1)); cmd == nil {
		t.Fatal("expected an immediate write once the queue is idle")
	}
}

func TestModelWithoutStorageRunsInMemory(t *testing.T) {
	openErr := errors.New("open sqlite repository: not a directory")
	logger := &recordingLogger{}
	m := loadReadyModel(t, NewModel(nil, WithStorageError(openErr), WithLogger(logger)))
	if m.Status() != "storage unavailable: open sqlite repository: not a directory" {
		t.Fatalf("unexpected status %q", m.Status())
	}

	m = applyMsg(t, m, ctrlKey('n'))
	m = typeText(t, m, "Laundry")
	m = applyMsg(t, m, ctrlKey('s'))
	if m.Status() != "created Laundry" {
		t.Fatalf("unexpected status after create %q", m.Status())
	}
	g := m.Grid()
	unassigned, _ := g.Container(g.Unassigned())
	item, ok := unassigned.ItemAt(0)
	if !ok || item.Todo.Name != "Laundry" || item.ID() == "" {
		t.Fatalf("expected in-memory todo on the board, got %#v", unassigned.Items())
	}

	m = applyMsg(t, m, press(item.Rect.X+1, item.Rect.Y))
	m = applyMsg(t, m, release(5, 1))
	if got := containerIDs(t, g, dayHandle(t, g, 0, 0)); len(got) != 1 || got[0] != item.ID() {
		t.Fatalf("expected todo moved to Mon 1, got %#v", got)
	}
	if !strings.HasPrefix(m.Status(), "moved Laundry to Mon 1") {
		t.Fatalf("unexpected status after move %q", m.Status())
	}
	if len(logger.errors) != 1 {
		t.Fatalf("expected only the open failure logged, got %#v", logger.errors)
	}
}

func TestModelPressOnEmptySpaceStaysIdle(t *testing.T) {
	svc := twoItemService(t)
	m := loadReadyModel(t, NewModel(svc))
	m = applyMsg(t, m, press(5, 7))
	if _, ok := m.drag.Dragging(); ok {
		t.Fatal("press on empty slot must not start a drag")
	}
	m = applyMsg(t, m, release(35, 3))
	if len(svc.moves) != 0 || m.Grid().Len() != 3 {
		t.Fatalf("unexpected mutation moves=%#v len=%d", svc.moves, m.Grid().Len())
	}
}

func TestModelReleaseOverSourceIsNoop(t *testing.T) {
	svc := twoItemService(t)
	m := loadReadyModel(t, NewModel(svc))
	g := m.Grid()
	m = applyMsg(t, m, press(5, 1))
	m = applyMsg(t, m, motion(8, 6))
	m = applyMsg(t, m, release(8, 6))
	if got := containerIDs(t, g, dayHandle(t, g, 0, 0)); strings.Join(got, ",") != "a,b" {
		t.Fatalf("unexpected order after same-container drop %#v", got)
	}
	if len(svc.moves) != 0 {
		t.Fatalf("expected no persistence, got %#v", svc.moves)
	}
	if m.focusedID != "a" {
		t.Fatalf("focused = %q, want a", m.focusedID)
	}
}

func TestModelEscapeCancelsDrag(t *testing.T) {
	svc := twoItemService(t)
	m := loadReadyModel(t, NewModel(svc))
	m = applyMsg(t, m, press(5, 2))
	m = applyMsg(t, m, motion(35, 3))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := m.drag.Dragging(); ok {
		t.Fatal("expected idle after escape")
	}
	if m.status != "drag cancelled" {
		t.Fatalf("status = %q", m.status)
	}
	m = applyMsg(t, m, release(35, 3))
	g := m.Grid()
	if got := containerIDs(t, g, dayHandle(t, g, 0, 1)); len(got) != 0 {
		t.Fatalf("cancelled drag must not move, got %#v", got)
	}
	if len(svc.moves) != 0 {
		t.Fatalf("expected no persistence, got %#v", svc.moves)
	}
}

func TestModelStorageFailureReportedOnce(t *testing.T) {
	svc := twoItemService(t)
	svc.moveErr = errors.New("disk gone")
	logger := &recordingLogger{}
	m := loadReadyModel(t, NewModel(svc, WithLogger(logger)))

	m = applyMsg(t, m, press(5, 2))
	m = applyMsg(t, m, release(35, 3))
	if !strings.HasPrefix(m.status, "storage unavailable: ") {
		t.Fatalf("unexpected status after first failure %q", m.status)
	}

	m = applyMsg(t, m, press(35, 1))
	m = applyMsg(t, m, release(65, 1))
	if strings.HasPrefix(m.status, "storage unavailable") {
		t.Fatalf("second failure must not be re-reported, status %q", m.status)
	}
	if len(logger.errors) != 2 {
		t.Fatalf("expected both failures logged, got %#v", logger.errors)
	}
	g := m.Grid()
	if got := containerIDs(t, g, dayHandle(t, g, 0, 2)); strings.Join(got, ",") != "b" {
		t.Fatalf("in-memory planner should keep working, got %#v", got)
	}
}

func TestModelLoadFailureKeepsEphemeralGrid(t *testing.T) {
	svc := &fakeService{listErr: errors.New("connection refused")}
	m := loadReadyModel(t, NewModel(svc))
	if m.status != "storage unavailable: connection refused" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.Grid().Len() != 0 {
		t.Fatalf("expected empty grid, got %d", m.Grid().Len())
	}

	m = loadReadyModel(t, NewModel(nil))
	if !strings.Contains(m.status, errStorageNotConfigured.Error()) {
		t.Fatalf("unexpected status without service %q", m.status)
	}
}

func TestModelCreateTodoForm(t *testing.T) {
	svc := twoItemService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, ctrlKey('n'))
	if m.mode != modeNewTodo {
		t.Fatalf("mode = %v, want new todo form", m.mode)
	}
	m = typeText(t, m, "Laundry")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = typeText(t, m, "9")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = typeText(t, m, "11")
	m = applyMsg(t, m, ctrlKey('s'))

	if m.mode != modeNone {
		t.Fatalf("expected form closed, mode %v", m.mode)
	}
	if len(svc.created) != 1 {
		t.Fatalf("expected one create call, got %#v", svc.created)
	}
	in := svc.created[0]
	if in.Name != "Laundry" || in.StartTime == nil || *in.StartTime != 9 || in.EndTime == nil || *in.EndTime != 11 || in.TimeCost != nil {
		t.Fatalf("unexpected create input %#v", in)
	}
	g := m.Grid()
	if got := containerIDs(t, g, g.Unassigned()); strings.Join(got, ",") != "c,t-new" {
		t.Fatalf("unexpected unassigned items %#v", got)
	}
	if m.focusedID != "t-new" || m.status != "created Laundry" {
		t.Fatalf("unexpected focus/status %q %q", m.focusedID, m.status)
	}
}

func TestModelCreateTodoFormValidation(t *testing.T) {
	svc := twoItemService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, ctrlKey('n'))
	m = applyMsg(t, m, ctrlKey('s'))
	if m.status != "name is required" || m.mode != modeNewTodo {
		t.Fatalf("unexpected empty-name handling status=%q mode=%v", m.status, m.mode)
	}

	m = typeText(t, m, "Gym")
	m.focusFormField(todoFieldCost)
	m = typeText(t, m, "lots")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.HasPrefix(m.status, "invalid cost") || m.mode != modeNewTodo {
		t.Fatalf("unexpected invalid cost handling status=%q mode=%v", m.status, m.mode)
	}
	if len(svc.created) != 0 {
		t.Fatalf("expected no create calls, got %#v", svc.created)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone || m.formInputs != nil {
		t.Fatal("expected escape to discard the form")
	}
}

func TestModelCreateFailureNotReflected(t *testing.T) {
	svc := twoItemService(t)
	svc.createErr = errors.New("database is locked")
	m := loadReadyModel(t, NewModel(svc))
	m = applyMsg(t, m, ctrlKey('n'))
	m = typeText(t, m, "Laundry")
	m = applyMsg(t, m, ctrlKey('s'))
	if m.status != "create failed: database is locked" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.Grid().Len() != 3 {
		t.Fatalf("failed create must not be reflected, len %d", m.Grid().Len())
	}
}

func TestModelMarkFocusedDone(t *testing.T) {
	svc := twoItemService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('x'))
	if m.status != "no todo selected" {
		t.Fatalf("unexpected status without focus %q", m.status)
	}

	m = applyMsg(t, m, press(5, 1))
	m = applyMsg(t, m, release(5, 1))
	m = applyMsg(t, m, keyRune('x'))

	g := m.Grid()
	if got := containerIDs(t, g, g.Done()); strings.Join(got, ",") != "a" {
		t.Fatalf("unexpected done items %#v", got)
	}
	item, _ := g.Item(planner.Address{Container: g.Done(), Index: 0, HasItem: true})
	if !item.Todo.Done {
		t.Fatal("expected done flag set")
	}
	if len(svc.moves) != 2 || svc.moves[0] != (moveCall{id: "a", placement: domain.DonePlacement(), position: 0}) {
		t.Fatalf("unexpected persisted moves %#v", svc.moves)
	}

	m = applyMsg(t, m, keyRune('x'))
	if m.status != "already done" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelCopyFocusedID(t *testing.T) {
	var copied string
	m := loadReadyModel(t, NewModel(twoItemService(t), WithClipboard(func(s string) error {
		copied = s
		return nil
	})))
	m = applyMsg(t, m, press(5, 2))
	m = applyMsg(t, m, release(5, 2))
	m = applyMsg(t, m, keyRune('y'))
	if copied != "b" || m.status != "copied id b" {
		t.Fatalf("unexpected copy result copied=%q status=%q", copied, m.status)
	}
}

func TestModelDetailsOverlay(t *testing.T) {
	svc := twoItemService(t)
	cost := 45
	todo, err := domain.NewTodo(domain.TodoInput{
		ID:          "d",
		Name:        "Dentist",
		Description: "Bring **insurance** card",
		TimeCost:    &cost,
		Placement:   domain.DayPlacement(0, 0),
		Position:    2,
	}, time.Now())
	if err != nil {
		t.Fatalf("NewTodo() error = %v", err)
	}
	svc.todos = append(svc.todos, todo)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, press(5, 3))
	m = applyMsg(t, m, release(5, 3))
	m = applyMsg(t, m, keyRune('i'))
	if m.mode != modeDetails || m.detailsID != "d" {
		t.Fatalf("unexpected details state mode=%v id=%q", m.mode, m.detailsID)
	}
	out := ansi.Strip(m.renderOverlay(m.width))
	for _, want := range []string{"Dentist", "id:", "Mon 1", "cost:", "45", "insurance"} {
		if !strings.Contains(out, want) {
			t.Fatalf("details overlay missing %q:\n%s", want, out)
		}
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatalf("expected details closed, mode %v", m.mode)
	}
}

func TestModelRenderScreen(t *testing.T) {
	m := loadReadyModel(t, NewModel(twoItemService(t), WithUIConfig(UIConfig{LabelField: "name", ShowTimeFields: true})))
	out := ansi.Strip(m.renderScreen())
	for _, want := range []string{"Mon 1 (2)", "Alpha", "Bravo", "Unassigned (1)", "Charlie", "Done (0)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("screen missing %q", want)
		}
	}

	m = applyMsg(t, m, keyRune('?'))
	if !m.help.ShowAll || !strings.Contains(ansi.Strip(m.renderScreen()), "Keys") {
		t.Fatal("expected full help overlay")
	}
}

func TestItemLabel(t *testing.T) {
	start, end, cost := 9, 11, 30
	todo := domain.Todo{ID: "t1", Name: "Gym", StartTime: &start, EndTime: &end, TimeCost: &cost}
	m := NewModel(nil)
	if got := m.itemLabel(todo); got != "Gym" {
		t.Fatalf("itemLabel() = %q", got)
	}
	m = NewModel(nil, WithUIConfig(UIConfig{LabelField: "id", ShowTimeFields: true}))
	if got := m.itemLabel(todo); got != "t1 [9-11] ~30" {
		t.Fatalf("itemLabel() = %q", got)
	}
	todo.EndTime = nil
	if got := m.itemLabel(todo); got != "t1 [9-?] ~30" {
		t.Fatalf("itemLabel() = %q", got)
	}
}

func TestWithLayoutOption(t *testing.T) {
	layout := planner.Layout{Rows: 2, Cols: 3, CellWidth: 20, CellHeight: 6, BucketWidth: 30, BucketHeight: 8}
	m := NewModel(nil, WithLayout(layout))
	if m.Grid().Layout() != layout {
		t.Fatalf("unexpected layout %#v", m.Grid().Layout())
	}
	if _, ok := m.Grid().Day(1, 2); !ok {
		t.Fatal("expected 2x3 day grid")
	}
	m = NewModel(nil, WithLayout(planner.Layout{}))
	if m.Grid().Layout() != planner.DefaultLayout() {
		t.Fatal("invalid layout must keep default")
	}
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 280, Height: 75})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

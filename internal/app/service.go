package app

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/evanschultz/weekgrid/internal/domain"
)

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service represents service data used by this package.
type Service struct {
	repo  Repository
	idGen IDGenerator
	clock Clock
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:  repo,
		idGen: idGen,
		clock: clock,
	}
}

// ListTodos returns every todo in grid order.
func (s *Service) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	todos, err := s.repo.ListTodos(ctx)
	if err != nil {
		return nil, err
	}
	sortTodos(todos)
	return todos, nil
}

// CreateTodoInput holds input values for create todo operations.
type CreateTodoInput struct {
	Name        string
	Description string
	StartTime   *int
	EndTime     *int
	TimeCost    *int
}

// CreateTodo appends a new todo to the end of the unassigned bucket.
func (s *Service) CreateTodo(ctx context.Context, in CreateTodoInput) (domain.Todo, error) {
	position, err := s.nextPosition(ctx, domain.UnassignedPlacement())
	if err != nil {
		return domain.Todo{}, err
	}
	todo, err := domain.NewTodo(domain.TodoInput{
		ID:          s.idGen(),
		Name:        in.Name,
		Description: in.Description,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		TimeCost:    in.TimeCost,
		Placement:   domain.UnassignedPlacement(),
		Position:    position,
	}, s.clock())
	if err != nil {
		return domain.Todo{}, err
	}
	if err := s.repo.CreateTodo(ctx, todo); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// MoveTodo persists a new placement and position for a todo.
func (s *Service) MoveTodo(ctx context.Context, id string, placement domain.Placement, position int) (domain.Todo, error) {
	todo, err := s.repo.GetTodo(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Todo{}, err
	}
	if err := todo.Place(placement, position, s.clock()); err != nil {
		return domain.Todo{}, err
	}
	if err := s.repo.UpdateTodo(ctx, todo); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// UpdateTodoInput holds a partial detail edit. Nil fields keep their current
// value. ClearTimes drops start, end, and cost before any new value applies.
type UpdateTodoInput struct {
	Name        *string
	Description *string
	StartTime   *int
	EndTime     *int
	TimeCost    *int
	ClearTimes  bool
}

// UpdateTodo edits a todo's details and leaves its placement alone.
func (s *Service) UpdateTodo(ctx context.Context, id string, in UpdateTodoInput) (domain.Todo, error) {
	todo, err := s.repo.GetTodo(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Todo{}, err
	}
	name, description := todo.Name, todo.Description
	if in.Name != nil {
		name = *in.Name
	}
	if in.Description != nil {
		description = *in.Description
	}
	start, end, cost := todo.StartTime, todo.EndTime, todo.TimeCost
	if in.ClearTimes {
		start, end, cost = nil, nil, nil
	}
	if in.StartTime != nil {
		start = in.StartTime
	}
	if in.EndTime != nil {
		end = in.EndTime
	}
	if in.TimeCost != nil {
		cost = in.TimeCost
	}
	if err := todo.UpdateDetails(name, description, start, end, cost, s.clock()); err != nil {
		return domain.Todo{}, err
	}
	if err := s.repo.UpdateTodo(ctx, todo); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// MarkTodoDone appends a todo to the end of the done bucket. Todos that are
// already done are returned unchanged.
func (s *Service) MarkTodoDone(ctx context.Context, id string) (domain.Todo, error) {
	todo, err := s.repo.GetTodo(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Todo{}, err
	}
	if todo.Done {
		return todo, nil
	}
	position, err := s.nextPosition(ctx, domain.DonePlacement())
	if err != nil {
		return domain.Todo{}, err
	}
	if err := todo.MarkDone(position, s.clock()); err != nil {
		return domain.Todo{}, err
	}
	if err := s.repo.UpdateTodo(ctx, todo); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// ListChangeEvents returns the most recent change events first.
func (s *Service) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if limit < 0 {
		limit = 0
	}
	return s.repo.ListChangeEvents(ctx, limit)
}

// nextPosition returns one past the highest position held in placement.
func (s *Service) nextPosition(ctx context.Context, placement domain.Placement) (int, error) {
	todos, err := s.repo.ListTodos(ctx)
	if err != nil {
		return 0, err
	}
	placement = placement.Normalize()
	next := 0
	for _, todo := range todos {
		if todo.Placement.Normalize() == placement && todo.Position >= next {
			next = todo.Position + 1
		}
	}
	return next, nil
}

func bucketRank(b domain.Bucket) int {
	switch b {
	case domain.BucketDay:
		return 0
	case domain.BucketUnassigned:
		return 1
	default:
		return 2
	}
}

// sortTodos orders todos by bucket, row, col, position, then creation time.
func sortTodos(todos []domain.Todo) {
	slices.SortStableFunc(todos, func(a, b domain.Todo) int {
		return cmp.Or(
			cmp.Compare(bucketRank(a.Placement.Bucket), bucketRank(b.Placement.Bucket)),
			cmp.Compare(a.Placement.Row, b.Placement.Row),
			cmp.Compare(a.Placement.Col, b.Placement.Col),
			cmp.Compare(a.Position, b.Position),
			a.CreatedAt.Compare(b.CreatedAt),
		)
	})
}

package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evanschultz/weekgrid/internal/app"
	"github.com/evanschultz/weekgrid/internal/domain"
)

// AppServiceAdapter maps transport contracts onto app.Service todo APIs.
type AppServiceAdapter struct {
	service *app.Service
}

// NewAppServiceAdapter builds one common adapter over an app.Service instance.
func NewAppServiceAdapter(service *app.Service) *AppServiceAdapter {
	return &AppServiceAdapter{service: service}
}

// ListTodos returns every todo in grid order.
func (a *AppServiceAdapter) ListTodos(ctx context.Context) ([]Todo, error) {
	if a == nil || a.service == nil {
		return nil, errors.New("app service adapter is not configured")
	}
	todos, err := a.service.ListTodos(ctx)
	if err != nil {
		return nil, mapAppError("list todos", err)
	}
	out := make([]Todo, 0, len(todos))
	for _, todo := range todos {
		out = append(out, MapTodo(todo))
	}
	return out, nil
}

// CreateTodo creates one unassigned todo.
func (a *AppServiceAdapter) CreateTodo(ctx context.Context, in CreateTodoRequest) (Todo, error) {
	if a == nil || a.service == nil {
		return Todo{}, errors.New("app service adapter is not configured")
	}
	if strings.TrimSpace(in.Name) == "" {
		return Todo{}, fmt.Errorf("create todo: name is required: %w", ErrInvalidRequest)
	}
	todo, err := a.service.CreateTodo(ctx, app.CreateTodoInput{
		Name:        in.Name,
		Description: in.Description,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		TimeCost:    in.TimeCost,
	})
	if err != nil {
		return Todo{}, mapAppError("create todo", err)
	}
	return MapTodo(todo), nil
}

// MarkTodoDone moves one todo into the done bucket.
func (a *AppServiceAdapter) MarkTodoDone(ctx context.Context, id string) (Todo, error) {
	if a == nil || a.service == nil {
		return Todo{}, errors.New("app service adapter is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Todo{}, fmt.Errorf("mark done: id is required: %w", ErrInvalidRequest)
	}
	todo, err := a.service.MarkTodoDone(ctx, id)
	if err != nil {
		return Todo{}, mapAppError("mark done", err)
	}
	return MapTodo(todo), nil
}

// MapTodo converts one domain todo into its transport shape.
func MapTodo(todo domain.Todo) Todo {
	placement := Placement{Bucket: string(todo.Placement.Bucket)}
	if todo.Placement.Bucket == domain.BucketDay {
		row, col := todo.Placement.Row, todo.Placement.Col
		placement.Row = &row
		placement.Col = &col
	}
	return Todo{
		ID:          todo.ID,
		Name:        todo.Name,
		Description: todo.Description,
		StartTime:   todo.StartTime,
		EndTime:     todo.EndTime,
		TimeCost:    todo.TimeCost,
		Done:        todo.Done,
		Placement:   placement,
		Position:    todo.Position,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

// mapAppError maps app and domain errors onto transport sentinels.
func mapAppError(operation string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, app.ErrNotFound):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrNotFound, err))
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidPlacement),
		errors.Is(err, domain.ErrInvalidPosition):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrInvalidRequest, err))
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}

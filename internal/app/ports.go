package app

import (
	"context"

	"github.com/evanschultz/weekgrid/internal/domain"
)

// Repository is the persistence collaborator the service depends on.
type Repository interface {
	CreateTodo(context.Context, domain.Todo) error
	UpdateTodo(context.Context, domain.Todo) error
	GetTodo(context.Context, string) (domain.Todo, error)
	ListTodos(context.Context) ([]domain.Todo, error)
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
}

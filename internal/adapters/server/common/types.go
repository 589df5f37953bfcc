// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// Placement describes where a todo sits on the planner grid.
type Placement struct {
	Bucket string `json:"bucket"`
	Row    *int   `json:"row,omitempty"`
	Col    *int   `json:"col,omitempty"`
}

// Todo is the transport shape of one planner todo.
type Todo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartTime   *int      `json:"start_time,omitempty"`
	EndTime     *int      `json:"end_time,omitempty"`
	TimeCost    *int      `json:"time_cost,omitempty"`
	Done        bool      `json:"done"`
	Placement   Placement `json:"placement"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTodoRequest captures one todo creation request.
type CreateTodoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartTime   *int   `json:"start_time,omitempty"`
	EndTime     *int   `json:"end_time,omitempty"`
	TimeCost    *int   `json:"time_cost,omitempty"`
}

// TodoService is the planner surface shared by REST and MCP transports.
type TodoService interface {
	ListTodos(context.Context) ([]Todo, error)
	CreateTodo(context.Context, CreateTodoRequest) (Todo, error)
	MarkTodoDone(context.Context, string) (Todo, error)
}

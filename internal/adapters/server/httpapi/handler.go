// Package httpapi provides the REST HTTP adapter for the server surfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/evanschultz/weekgrid/internal/adapters/server/common"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// Handler serves the todo API. It is mounted with the API prefix stripped,
// so it sees paths like /todos.
type Handler struct {
	todos  common.TodoService
	routes []route
}

// routeFunc handles one matched request; arg is the path parameter, if any.
type routeFunc func(w http.ResponseWriter, r *http.Request, arg string)

// route pairs a path matcher with its per-method handlers.
type route struct {
	match   func(path string) (string, bool)
	methods map[string]routeFunc
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs one HTTP API adapter over the todo service.
func NewHandler(todos common.TodoService) *Handler {
	h := &Handler{todos: todos}
	h.routes = []route{
		{
			match: exactPath("todos"),
			methods: map[string]routeFunc{
				http.MethodGet:  h.listTodos,
				http.MethodPost: h.createTodo,
			},
		},
		{
			match: doneTodoPath,
			methods: map[string]routeFunc{
				http.MethodPost: h.markDone,
			},
		},
	}
	return h
}

// ServeHTTP dispatches to the first route whose path matches.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.todos == nil {
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "service_unavailable",
			Message: "todo service is not configured",
		})
		return
	}
	path := strings.Trim(strings.TrimSpace(r.URL.Path), "/")
	for _, rt := range h.routes {
		arg, ok := rt.match(path)
		if !ok {
			continue
		}
		fn, ok := rt.methods[r.Method]
		if !ok {
			writeMethodNotAllowed(w, slices.Sorted(maps.Keys(rt.methods))...)
			return
		}
		fn(w, r, arg)
		return
	}
	writeJSONError(w, http.StatusNotFound, APIError{
		Code:    "not_found",
		Message: "endpoint not found",
	})
}

func (h *Handler) listTodos(w http.ResponseWriter, r *http.Request, _ string) {
	todos, err := h.todos.ListTodos(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todos": todos})
}

func (h *Handler) createTodo(w http.ResponseWriter, r *http.Request, _ string) {
	var req common.CreateTodoRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	todo, err := h.todos.CreateTodo(r.Context(), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (h *Handler) markDone(w http.ResponseWriter, r *http.Request, id string) {
	todo, err := h.todos.MarkTodoDone(r.Context(), id)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func exactPath(want string) func(string) (string, bool) {
	return func(path string) (string, bool) {
		return "", path == want
	}
}

// doneTodoPath matches todos/{id}/done with a single-segment id.
func doneTodoPath(path string) (string, bool) {
	parts := strings.Split(path, "/")
	if len(parts) != 3 || parts[0] != "todos" || parts[2] != "done" {
		return "", false
	}
	id := strings.TrimSpace(parts[1])
	return id, id != ""
}

// errorStatuses maps adapter sentinel errors onto HTTP responses, first match wins.
var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{common.ErrNotFound, http.StatusNotFound, "not_found"},
	{common.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
}

// writeErrorFrom maps adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	for _, es := range errorStatuses {
		if errors.Is(err, es.err) {
			writeJSONError(w, es.status, APIError{Code: es.code, Message: err.Error()})
			return
		}
	}
	writeJSONError(w, http.StatusInternalServerError, APIError{Code: "internal_error", Message: err.Error()})
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(common.ErrInvalidRequest, err))
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", common.ErrInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}

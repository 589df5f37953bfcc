package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/evanschultz/weekgrid/internal/adapters/server/common"
)

// stubTodoService satisfies common.TodoService for composition tests.
type stubTodoService struct {
	listErr error
}

func (s stubTodoService) ListTodos(context.Context) ([]common.Todo, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []common.Todo{{ID: "t1", Name: "Laundry", Placement: common.Placement{Bucket: "unassigned"}}}, nil
}

func (stubTodoService) CreateTodo(_ context.Context, req common.CreateTodoRequest) (common.Todo, error) {
	return common.Todo{ID: "t2", Name: req.Name}, nil
}

func (stubTodoService) MarkTodoDone(_ context.Context, id string) (common.Todo, error) {
	return common.Todo{ID: id, Done: true}, nil
}

func TestNormalizeConfigDefaults(t *testing.T) {
	cfg, err := normalizeConfig(Config{})
	if err != nil {
		t.Fatalf("normalizeConfig() error = %v", err)
	}
	if cfg.HTTPBind != defaultBindAddress {
		t.Fatalf("bind = %q, want %q", cfg.HTTPBind, defaultBindAddress)
	}
	if cfg.APIEndpoint != "/api/v1" || cfg.MCPEndpoint != "/mcp" {
		t.Fatalf("unexpected endpoints %#v", cfg)
	}
	if cfg.ServerName != "weekgrid" || cfg.ServerVersion != "dev" {
		t.Fatalf("unexpected server identity %#v", cfg)
	}
}

func TestNormalizeConfigRejectsEndpointCollision(t *testing.T) {
	if _, err := normalizeConfig(Config{APIEndpoint: "/x/", MCPEndpoint: "x"}); err == nil {
		t.Fatal("expected collision error")
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"":          "/fallback",
		"/":         "/fallback",
		"api":       "/api",
		" /api/v2/": "/api/v2",
	}
	for in, want := range cases {
		if got := normalizeEndpoint(in, "/fallback"); got != want {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewHandlerRequiresTodos(t *testing.T) {
	if _, _, err := NewHandler(Config{}, Dependencies{}); err == nil {
		t.Fatal("expected missing dependency error")
	}
}

func TestNewHandlerRoutesHealthAndAPI(t *testing.T) {
	handler, _, err := NewHandler(Config{}, Dependencies{Todos: stubTodoService{}})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"ok"`) {
			t.Fatalf("%s body = %q", path, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Todos []common.Todo `json:"todos"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(payload.Todos) != 1 || payload.Todos[0].ID != "t1" {
		t.Fatalf("unexpected todos %#v", payload.Todos)
	}
}

func TestReadyzReportsUnavailableStore(t *testing.T) {
	handler, _, err := NewHandler(Config{}, Dependencies{Todos: stubTodoService{listErr: errors.New("db locked")}})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unavailable") {
		t.Fatalf("readyz body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200 regardless of store", rec.Code)
	}
}

// recordingLogger captures serve lifecycle messages.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record(msg) }

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *recordingLogger) joined() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.msgs, "|")
}

func TestRunReturnsBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	err = Run(context.Background(), Config{HTTPBind: ln.Addr().String()}, Dependencies{Todos: stubTodoService{}})
	if err == nil || !strings.Contains(err.Error(), "listen on") {
		t.Fatalf("expected bind error, got %v", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := ln.Addr().String()
	if err := ln.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	logger := &recordingLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{HTTPBind: addr}, Dependencies{Todos: stubTodoService{}, Logger: logger})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(defaultShutdownTimeout + time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if got := logger.joined(); !strings.Contains(got, "http server listening") || !strings.Contains(got, "http server shutting down") {
		t.Fatalf("unexpected lifecycle logs %q", got)
	}
}

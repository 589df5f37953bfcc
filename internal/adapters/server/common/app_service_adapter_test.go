package common

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/evanschultz/weekgrid/internal/adapters/storage/sqlite"
	"github.com/evanschultz/weekgrid/internal/app"
)

// newAdapterForTest wires the adapter to a sqlite-backed service.
func newAdapterForTest(t *testing.T) *AppServiceAdapter {
	t.Helper()
	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "weekgrid.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	n := 0
	now := time.Date(2026, 2, 21, 9, 0, 0, 0, time.UTC)
	svc := app.NewService(repo, func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}, func() time.Time {
		now = now.Add(time.Second)
		return now
	})
	return NewAppServiceAdapter(svc)
}

func TestAppServiceAdapterCreateListDone(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapterForTest(t)

	cost := 45
	created, err := adapter.CreateTodo(ctx, CreateTodoRequest{Name: "Laundry", TimeCost: &cost})
	if err != nil {
		t.Fatalf("CreateTodo() error = %v", err)
	}
	if created.ID != "t1" || created.Placement.Bucket != "unassigned" || created.Placement.Row != nil {
		t.Fatalf("unexpected created todo %#v", created)
	}
	if created.TimeCost == nil || *created.TimeCost != 45 {
		t.Fatalf("unexpected time cost %#v", created.TimeCost)
	}

	done, err := adapter.MarkTodoDone(ctx, " t1 ")
	if err != nil {
		t.Fatalf("MarkTodoDone() error = %v", err)
	}
	if !done.Done || done.Placement.Bucket != "done" {
		t.Fatalf("unexpected done todo %#v", done)
	}

	todos, err := adapter.ListTodos(ctx)
	if err != nil {
		t.Fatalf("ListTodos() error = %v", err)
	}
	if len(todos) != 1 || !todos[0].Done {
		t.Fatalf("unexpected todos %#v", todos)
	}
}

func TestAppServiceAdapterErrorMapping(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapterForTest(t)

	if _, err := adapter.CreateTodo(ctx, CreateTodoRequest{Name: " "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	start, end := 5, 1
	if _, err := adapter.CreateTodo(ctx, CreateTodoRequest{Name: "x", StartTime: &start, EndTime: &end}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for bad times, got %v", err)
	}
	if _, err := adapter.MarkTodoDone(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := adapter.MarkTodoDone(ctx, ""); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}

	var nilAdapter *AppServiceAdapter
	if _, err := nilAdapter.ListTodos(ctx); err == nil {
		t.Fatal("expected error from unconfigured adapter")
	}
}

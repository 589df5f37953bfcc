package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evanschultz/weekgrid/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "weekgrid.snapshot.v1"

// Snapshot is a portable JSON export of every todo.
type Snapshot struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Todos      []SnapshotTodo `json:"todos"`
}

// SnapshotTodo represents snapshot todo data used by this package.
type SnapshotTodo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartTime   *int      `json:"start_time,omitempty"`
	EndTime     *int      `json:"end_time,omitempty"`
	TimeCost    *int      `json:"time_cost,omitempty"`
	Bucket      string    `json:"bucket"`
	Row         int       `json:"row"`
	Col         int       `json:"col"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExportSnapshot captures all todos in list order.
func (s *Service) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	todos, err := s.ListTodos(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Todos:      make([]SnapshotTodo, 0, len(todos)),
	}
	for _, todo := range todos {
		snap.Todos = append(snap.Todos, snapshotTodoFromDomain(todo))
	}
	return snap, nil
}

// ImportSnapshot upserts every todo in snap; existing ids are overwritten.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.sort()

	for i, st := range snap.Todos {
		todo, err := st.toDomain()
		if err != nil {
			return fmt.Errorf("todos[%d]: %w", i, err)
		}
		if _, err := s.repo.GetTodo(ctx, todo.ID); err == nil {
			if err := s.repo.UpdateTodo(ctx, todo); err != nil {
				return err
			}
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := s.repo.CreateTodo(ctx, todo); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the version, required fields, and id uniqueness.
func (s *Snapshot) Validate() error {
	if s.Version != "" && s.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version: %q", s.Version)
	}
	ids := map[string]struct{}{}
	for i, t := range s.Todos {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return fmt.Errorf("todos[%d].id is required", i)
		}
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("todos[%d].name is required", i)
		}
		if t.CreatedAt.IsZero() {
			return fmt.Errorf("todos[%d].created_at is required", i)
		}
		if _, exists := ids[id]; exists {
			return fmt.Errorf("duplicate todo id: %q", id)
		}
		ids[id] = struct{}{}
	}
	return nil
}

// sort orders todos the same way ListTodos does.
func (s *Snapshot) sort() {
	sort.SliceStable(s.Todos, func(i, j int) bool {
		a, b := s.Todos[i], s.Todos[j]
		ra, rb := bucketRank(domain.NormalizeBucket(a.Bucket)), bucketRank(domain.NormalizeBucket(b.Bucket))
		if ra != rb {
			return ra < rb
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	})
}

func snapshotTodoFromDomain(t domain.Todo) SnapshotTodo {
	return SnapshotTodo{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		StartTime:   copyIntPtr(t.StartTime),
		EndTime:     copyIntPtr(t.EndTime),
		TimeCost:    copyIntPtr(t.TimeCost),
		Bucket:      string(t.Placement.Bucket),
		Row:         t.Placement.Row,
		Col:         t.Placement.Col,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

// toDomain validates through domain.NewTodo and then restores timestamps.
func (t SnapshotTodo) toDomain() (domain.Todo, error) {
	todo, err := domain.NewTodo(domain.TodoInput{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		TimeCost:    t.TimeCost,
		Placement: domain.Placement{
			Bucket: domain.NormalizeBucket(t.Bucket),
			Row:    t.Row,
			Col:    t.Col,
		},
		Position: t.Position,
	}, t.CreatedAt)
	if err != nil {
		return domain.Todo{}, err
	}
	if !t.UpdatedAt.IsZero() {
		todo.UpdatedAt = t.UpdatedAt.UTC()
	}
	return todo, nil
}

func copyIntPtr(in *int) *int {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

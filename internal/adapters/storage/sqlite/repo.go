package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/evanschultz/weekgrid/internal/app"
	"github.com/evanschultz/weekgrid/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository represents repository data used by this package.
type Repository struct {
	db *sql.DB
}

// Open opens the requested operation.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS todos (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_time INTEGER,
			end_time INTEGER,
			time_cost INTEGER,
			done INTEGER NOT NULL DEFAULT 0,
			bucket TEXT NOT NULL DEFAULT 'unassigned',
			row_index INTEGER NOT NULL DEFAULT 0,
			col_index INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS change_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			todo_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			metadata_json TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_todos_placement ON todos(bucket, row_index, col_index, position)`,
		`CREATE INDEX IF NOT EXISTS idx_change_events_todo ON change_events(todo_id, created_at)`,
	}
	for _, stmt := range indexes {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite index: %w", err)
		}
	}
	return nil
}

// CreateTodo creates todo.
func (r *Repository) CreateTodo(ctx context.Context, t domain.Todo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO todos(
			id, name, description, start_time, end_time, time_cost, done, bucket, row_index, col_index, position, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID,
		t.Name,
		t.Description,
		nullableInt(t.StartTime),
		nullableInt(t.EndTime),
		nullableInt(t.TimeCost),
		boolInt(t.Done),
		string(t.Placement.Bucket),
		t.Placement.Row,
		t.Placement.Col,
		t.Position,
		ts(t.CreatedAt),
		ts(t.UpdatedAt),
	)
	if err != nil {
		return err
	}

	err = insertChangeEvent(ctx, tx, domain.ChangeEvent{
		TodoID:    t.ID,
		Operation: domain.ChangeOperationCreate,
		Metadata: map[string]string{
			"placement": t.Placement.String(),
			"position":  strconv.Itoa(t.Position),
			"name":      t.Name,
		},
		OccurredAt: t.CreatedAt,
	})
	if err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// UpdateTodo updates state for the requested operation.
func (r *Repository) UpdateTodo(ctx context.Context, t domain.Todo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	prev, err := getTodoByID(ctx, tx, t.ID)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE todos
		SET name = ?, description = ?, start_time = ?, end_time = ?, time_cost = ?, done = ?,
			bucket = ?, row_index = ?, col_index = ?, position = ?, updated_at = ?
		WHERE id = ?
	`,
		t.Name,
		t.Description,
		nullableInt(t.StartTime),
		nullableInt(t.EndTime),
		nullableInt(t.TimeCost),
		boolInt(t.Done),
		string(t.Placement.Bucket),
		t.Placement.Row,
		t.Placement.Col,
		t.Position,
		ts(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return err
	}
	if err = translateNoRows(res); err != nil {
		return err
	}

	op, metadata := classifyTodoTransition(prev, t)
	err = insertChangeEvent(ctx, tx, domain.ChangeEvent{
		TodoID:     t.ID,
		Operation:  op,
		Metadata:   metadata,
		OccurredAt: t.UpdatedAt,
	})
	if err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// GetTodo returns the requested value.
func (r *Repository) GetTodo(ctx context.Context, id string) (domain.Todo, error) {
	return getTodoByID(ctx, r.db, id)
}

// ListTodos lists every todo in placement order.
func (r *Repository) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, start_time, end_time, time_cost, done, bucket, row_index, col_index, position, created_at, updated_at
		FROM todos
		ORDER BY bucket ASC, row_index ASC, col_index ASC, position ASC, created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListChangeEvents lists the newest change events first.
func (r *Repository) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, todo_id, operation, metadata_json, created_at
		FROM change_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		var (
			event       domain.ChangeEvent
			opRaw       string
			metadataRaw string
			createdRaw  string
		)
		if err := rows.Scan(&event.ID, &event.TodoID, &opRaw, &metadataRaw, &createdRaw); err != nil {
			return nil, err
		}
		event.Operation = normalizeChangeOperation(opRaw)
		event.OccurredAt = parseTS(createdRaw)
		if strings.TrimSpace(metadataRaw) == "" {
			metadataRaw = "{}"
		}
		if err := json.Unmarshal([]byte(metadataRaw), &event.Metadata); err != nil {
			return nil, fmt.Errorf("decode change_events.metadata_json: %w", err)
		}
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// queryRower represents a query-only DB contract used by DB and Tx implementations.
type queryRower interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// getTodoByID returns one todo row.
func getTodoByID(ctx context.Context, q queryRower, id string) (domain.Todo, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, description, start_time, end_time, time_cost, done, bucket, row_index, col_index, position, created_at, updated_at
		FROM todos
		WHERE id = ?
	`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, app.ErrNotFound
	}
	return t, err
}

// execerContext represents a write-only DB contract used by DB and Tx implementations.
type execerContext interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

// insertChangeEvent inserts a change-event ledger record.
func insertChangeEvent(ctx context.Context, execer execerContext, event domain.ChangeEvent) error {
	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("encode change event metadata: %w", err)
	}
	_, err = execer.ExecContext(ctx, `
		INSERT INTO change_events(todo_id, operation, metadata_json, created_at)
		VALUES (?, ?, ?, ?)
	`,
		event.TodoID,
		string(event.Operation),
		string(metadataJSON),
		ts(normalizeEventTS(event.OccurredAt)),
	)
	if err != nil {
		return fmt.Errorf("insert change event: %w", err)
	}
	return nil
}

// classifyTodoTransition derives the operation category and metadata for a todo update.
func classifyTodoTransition(prev, next domain.Todo) (domain.ChangeOperation, map[string]string) {
	switch {
	case !prev.Done && next.Done:
		return domain.ChangeOperationDone, map[string]string{
			"from": prev.Placement.String(),
		}
	case prev.Done && !next.Done:
		return domain.ChangeOperationReopen, map[string]string{
			"to": next.Placement.String(),
		}
	case prev.Placement != next.Placement || prev.Position != next.Position:
		return domain.ChangeOperationMove, map[string]string{
			"from":          prev.Placement.String(),
			"to":            next.Placement.String(),
			"from_position": strconv.Itoa(prev.Position),
			"to_position":   strconv.Itoa(next.Position),
		}
	default:
		return domain.ChangeOperationUpdate, map[string]string{
			"fields": strings.Join(changedTodoFields(prev, next), ","),
		}
	}
}

// changedTodoFields lists detail fields that differ between revisions.
func changedTodoFields(prev, next domain.Todo) []string {
	fields := make([]string, 0, 5)
	if prev.Name != next.Name {
		fields = append(fields, "name")
	}
	if prev.Description != next.Description {
		fields = append(fields, "description")
	}
	if !equalNullableInts(prev.StartTime, next.StartTime) {
		fields = append(fields, "start_time")
	}
	if !equalNullableInts(prev.EndTime, next.EndTime) {
		fields = append(fields, "end_time")
	}
	if !equalNullableInts(prev.TimeCost, next.TimeCost) {
		fields = append(fields, "time_cost")
	}
	return fields
}

func equalNullableInts(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// normalizeChangeOperation maps stored text back to a known operation.
func normalizeChangeOperation(raw string) domain.ChangeOperation {
	switch op := domain.ChangeOperation(strings.TrimSpace(strings.ToLower(raw))); op {
	case domain.ChangeOperationCreate,
		domain.ChangeOperationMove,
		domain.ChangeOperationDone,
		domain.ChangeOperationReopen:
		return op
	default:
		return domain.ChangeOperationUpdate
	}
}

// normalizeEventTS ensures event timestamps are always populated and UTC-normalized.
func normalizeEventTS(in time.Time) time.Time {
	if in.IsZero() {
		return time.Now().UTC()
	}
	return in.UTC()
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanTodo handles scan todo.
func scanTodo(s scanner) (domain.Todo, error) {
	var (
		t          domain.Todo
		start      sql.NullInt64
		end        sql.NullInt64
		cost       sql.NullInt64
		done       int
		bucket     string
		createdRaw string
		updatedRaw string
	)
	if err := s.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&start,
		&end,
		&cost,
		&done,
		&bucket,
		&t.Placement.Row,
		&t.Placement.Col,
		&t.Position,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return domain.Todo{}, err
	}
	t.Placement.Bucket = domain.NormalizeBucket(bucket)
	t.StartTime = parseNullInt(start)
	t.EndTime = parseNullInt(end)
	t.TimeCost = parseNullInt(cost)
	t.Done = done != 0
	t.CreatedAt = parseTS(createdRaw)
	t.UpdatedAt = parseTS(updatedRaw)
	return t, nil
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func parseNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}


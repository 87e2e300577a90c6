// Package tasks is a schedule backend over a local SQLite task list. Closing
// a task marks it done; done tasks are never listed again.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tableflip.dev/todor/pkg/schedule"
)

// Backend is a task list stored in one SQLite file.
type Backend struct {
	id  string
	db  *sql.DB
	now func() time.Time

	mu    sync.RWMutex
	items []schedule.Item
}

var _ schedule.Backend = (*Backend)(nil)

// Open opens or creates the database at path and brings its schema up to
// date. The backend id is "tasks:<name>".
func Open(ctx context.Context, name, path string) (*Backend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Backend{id: "tasks:" + name, db: db, now: time.Now}, nil
}

func (b *Backend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *Backend) ID() string { return b.id }

func (b *Backend) Refresh(ctx context.Context) error {
	items, err := b.open(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.items = items
	b.mu.Unlock()
	return nil
}

func (b *Backend) Items() []schedule.Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]schedule.Item(nil), b.items...)
}

func (b *Backend) Add(ctx context.Context, description string, due time.Time) (bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return false, nil
	}
	_, err := b.db.ExecContext(ctx, `
INSERT INTO tasks(task_id, description, due_at, created_at)
VALUES (?, ?, ?, ?)
`, uuid.NewString(), description, ts(due), ts(b.now()))
	if err != nil {
		return false, fmt.Errorf("insert task: %w", err)
	}
	return true, nil
}

func (b *Backend) Update(ctx context.Context, id, description string, due time.Time) (bool, error) {
	taskID, ok := b.taskID(id)
	if !ok {
		return false, nil
	}
	res, err := b.db.ExecContext(ctx, `
UPDATE tasks SET
	description = CASE WHEN ? = '' THEN description ELSE ? END,
	due_at = ?
WHERE task_id = ? AND done_at IS NULL
`, description, description, ts(due), taskID)
	if err != nil {
		return false, fmt.Errorf("update task: %w", err)
	}
	return affected(res)
}

func (b *Backend) Remove(ctx context.Context, m schedule.Matcher) (bool, error) {
	items, err := b.open(ctx)
	if err != nil {
		return false, err
	}
	it, ok := m.Select(items)
	if !ok {
		return false, nil
	}
	taskID, _ := b.taskID(it.ID)
	res, err := b.db.ExecContext(ctx, `UPDATE tasks SET done_at = ? WHERE task_id = ? AND done_at IS NULL`, ts(b.now()), taskID)
	if err != nil {
		return false, fmt.Errorf("complete task: %w", err)
	}
	return affected(res)
}

func (b *Backend) open(ctx context.Context) ([]schedule.Item, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT task_id, description, due_at, place FROM tasks WHERE done_at IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var items []schedule.Item
	for rows.Next() {
		var id, desc, dueAt, place string
		if err := rows.Scan(&id, &desc, &dueAt, &place); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		due, err := parseTS(dueAt)
		if err != nil {
			return nil, fmt.Errorf("task %s: parse due_at: %w", id, err)
		}
		items = append(items, schedule.Item{
			ID:          b.id + ":" + id,
			Scheduler:   b.id,
			Type:        schedule.Todo,
			Description: desc,
			StartTime:   due.Local(),
			Place:       place,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	schedule.SortByStart(items)
	return items, nil
}

func (b *Backend) taskID(itemID string) (string, bool) {
	id := strings.TrimPrefix(itemID, b.id+":")
	if id == itemID || id == "" {
		return "", false
	}
	return id, true
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 1 {
		return true, errors.New("more than one task changed")
	}
	return n == 1, nil
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

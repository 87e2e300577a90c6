package journal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tableflip.dev/todor/pkg/logging"
	"tableflip.dev/todor/pkg/schedule"
)

// Backend serves a Store as a to-do list. Closing an entry deletes its file.
type Backend struct {
	id    string
	store *Store

	mu    sync.RWMutex
	items []schedule.Item
}

var _ schedule.Backend = (*Backend)(nil)

// New opens the journal at path. The backend id is "journal:<name>".
func New(name, path string) (*Backend, error) {
	s, err := OpenStore(path)
	if err != nil {
		return nil, err
	}
	return &Backend{id: "journal:" + name, store: s}, nil
}

func (b *Backend) ID() string { return b.id }

func (b *Backend) Store() *Store { return b.store }

func (b *Backend) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries := b.store.List(ctx, func(key string, err error) {
		logging.Warnf("%s: skipping %s: %v", b.id, key, err)
	})
	if err := ctx.Err(); err != nil {
		return err
	}

	items := make([]schedule.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, b.item(e))
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

func (b *Backend) Add(_ context.Context, description string, due time.Time) (bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return false, nil
	}
	e := &Entry{Description: description, Due: due}
	if err := b.store.Put(e); err != nil {
		return false, fmt.Errorf("journal: write entry: %w", err)
	}
	return true, nil
}

func (b *Backend) Update(ctx context.Context, id, description string, due time.Time) (bool, error) {
	e := b.find(ctx, schedule.Matcher{ID: id})
	if e == nil {
		return false, nil
	}
	if description != "" {
		e.Description = description
	}
	if err := b.store.Move(e, due); err != nil {
		return false, fmt.Errorf("journal: move entry: %w", err)
	}
	return true, nil
}

func (b *Backend) Remove(ctx context.Context, m schedule.Matcher) (bool, error) {
	e := b.find(ctx, m)
	if e == nil {
		return false, nil
	}
	if err := b.store.Delete(e); err != nil {
		return false, fmt.Errorf("journal: erase entry: %w", err)
	}
	return true, nil
}

// find matches against what is on disk now rather than the cached snapshot.
func (b *Backend) find(ctx context.Context, m schedule.Matcher) *Entry {
	entries := b.store.List(ctx, nil)
	items := make([]schedule.Item, len(entries))
	for i, e := range entries {
		items[i] = b.item(e)
	}
	it, ok := m.Select(items)
	if !ok {
		return nil
	}
	for _, e := range entries {
		if b.itemID(e) == it.ID {
			return e
		}
	}
	return nil
}

func (b *Backend) item(e *Entry) schedule.Item {
	return schedule.Item{
		ID:          b.itemID(e),
		Scheduler:   b.id,
		Type:        schedule.Todo,
		Description: e.Description,
		StartTime:   e.Due,
	}
}

func (b *Backend) itemID(e *Entry) string {
	return b.id + ":" + e.ID
}

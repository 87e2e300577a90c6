// Package scheduletest provides an in-memory Backend for tests.
package scheduletest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tableflip.dev/todor/pkg/schedule"
)

// Call records one mutating call made against a Fake.
type Call struct {
	Op          string
	ID          string
	Description string
	Due         time.Time
	Matcher     schedule.Matcher
}

// Fake is a Backend whose next refresh result and mutation results are set by
// the test. Fake is safe for concurrent use.
type Fake struct {
	Name string

	mu         sync.Mutex
	pending    []schedule.Item
	items      []schedule.Item
	refreshErr error
	mutateErr  error
	refreshes  int
	calls      []Call
}

func New(name string, items ...schedule.Item) *Fake {
	f := &Fake{Name: name}
	f.SetItems(items...)
	return f
}

// SetItems sets what the next successful Refresh will publish.
func (f *Fake) SetItems(items ...schedule.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = make([]schedule.Item, len(items))
	for i, it := range items {
		if it.Scheduler == "" {
			it.Scheduler = f.Name
		}
		f.pending[i] = it
	}
}

func (f *Fake) FailRefresh(err error) {
	f.mu.Lock()
	f.refreshErr = err
	f.mu.Unlock()
}

func (f *Fake) FailMutations(err error) {
	f.mu.Lock()
	f.mutateErr = err
	f.mu.Unlock()
}

func (f *Fake) Refreshes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) ID() string { return f.Name }

func (f *Fake) Refresh(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	if f.refreshErr != nil {
		return f.refreshErr
	}
	f.items = append([]schedule.Item(nil), f.pending...)
	return nil
}

func (f *Fake) Items() []schedule.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]schedule.Item(nil), f.items...)
}

func (f *Fake) Add(_ context.Context, description string, due time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "add", Description: description, Due: due})
	if f.mutateErr != nil {
		return false, f.mutateErr
	}
	f.pending = append(f.pending, schedule.Item{
		ID:          fmt.Sprintf("%s:%d", f.Name, len(f.pending)+1),
		Scheduler:   f.Name,
		Type:        schedule.Todo,
		Description: description,
		StartTime:   due,
	})
	return true, nil
}

func (f *Fake) Update(_ context.Context, id, description string, due time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "update", ID: id, Description: description, Due: due})
	if f.mutateErr != nil {
		return false, f.mutateErr
	}
	for i, it := range f.pending {
		if it.ID == id {
			it.Description = description
			it.StartTime = due
			f.pending[i] = it
			return true, nil
		}
	}
	return false, nil
}

func (f *Fake) Remove(_ context.Context, m schedule.Matcher) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "remove", Matcher: m})
	if f.mutateErr != nil {
		return false, f.mutateErr
	}
	it, ok := m.Select(f.pending)
	if !ok {
		return false, nil
	}
	kept := f.pending[:0]
	for _, p := range f.pending {
		if p.ID != it.ID {
			kept = append(kept, p)
		}
	}
	f.pending = kept
	return true, nil
}

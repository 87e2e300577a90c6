package schedule

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Backend is a schedule source: a calendar, a task list, a local journal.
//
// Items returns the snapshot taken by the most recent successful Refresh and
// must never block. A failed Refresh leaves the previous snapshot in place.
type Backend interface {
	ID() string
	Refresh(ctx context.Context) error
	Items() []Item
	Add(ctx context.Context, description string, due time.Time) (bool, error)
	Update(ctx context.Context, id, description string, due time.Time) (bool, error)
	Remove(ctx context.Context, m Matcher) (bool, error)
}

// Matcher picks the item a close/ack refers to.
type Matcher struct {
	// ID, when set, wins over Text.
	ID    string
	Text  string
	Exact bool
}

// ExactItem matches the given item by id and description.
func ExactItem(it Item) Matcher {
	return Matcher{ID: it.ID, Text: it.Description, Exact: true}
}

// Fuzzy matches free text typed by the user.
func Fuzzy(text string) Matcher {
	return Matcher{Text: strings.TrimSpace(text)}
}

func (m Matcher) Empty() bool {
	return m.ID == "" && strings.TrimSpace(m.Text) == ""
}

func (m Matcher) String() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Text
}

// Select returns the first item m refers to. Exact matchers compare ids or
// descriptions verbatim. Free text tries a case-insensitive prefix match
// across all items before falling back to a substring match.
func (m Matcher) Select(items []Item) (Item, bool) {
	if m.ID != "" {
		for _, it := range items {
			if it.ID == m.ID {
				return it, true
			}
		}
	}
	if m.Exact {
		// An id that matched nothing must not fall back to untitled items.
		if m.Text == "" {
			return Item{}, false
		}
		for _, it := range items {
			if it.Description == m.Text {
				return it, true
			}
		}
		return Item{}, false
	}

	needle := strings.ToLower(strings.TrimSpace(m.Text))
	if needle == "" {
		return Item{}, false
	}
	for _, it := range items {
		if strings.HasPrefix(strings.ToLower(it.Description), needle) {
			return it, true
		}
	}
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Description), needle) {
			return it, true
		}
	}
	return Item{}, false
}

// Merge flattens the backends' cached items and sorts them by start time.
// The sort is stable so equal start times keep registry order.
func Merge(backends []Backend) []Item {
	var all []Item
	for _, b := range backends {
		all = append(all, b.Items()...)
	}
	SortByStart(all)
	return all
}

func SortByStart(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartTime.Before(items[j].StartTime)
	})
}

// IDs lists the backend ids in registry order.
func IDs(backends []Backend) []string {
	ids := make([]string, 0, len(backends))
	for _, b := range backends {
		ids = append(ids, b.ID())
	}
	return ids
}

// Lookup finds a backend by id.
func Lookup(backends []Backend, id string) (Backend, error) {
	for _, b := range backends {
		if b.ID() == id {
			return b, nil
		}
	}
	return nil, &RoutingMissError{ID: id, Known: IDs(backends)}
}

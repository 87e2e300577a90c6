package schedule

import (
	"fmt"
	"strings"
	"time"
)

// ItemType says whether an item came from a task list or a calendar.
type ItemType int

const (
	Todo ItemType = iota
	Calendar
)

func (t ItemType) String() string {
	switch t {
	case Calendar:
		return "calendar"
	default:
		return "todo"
	}
}

func (t ItemType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ItemType) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "todo":
		*t = Todo
	case "calendar":
		*t = Calendar
	default:
		return fmt.Errorf("unknown item type %q", string(text))
	}
	return nil
}

// Item is a single scheduled thing as reported by a backend. Items are values;
// a backend refresh replaces them rather than editing them.
type Item struct {
	ID          string     `json:"id"`
	Scheduler   string     `json:"scheduler"`
	Type        ItemType   `json:"type"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Place       string     `json:"place,omitempty"`
}

// Remaining is the time left until the item starts. Negative once started.
func (i Item) Remaining(now time.Time) time.Duration {
	return i.StartTime.Sub(now)
}

// InProgress reports whether now falls after start+grace and before the end
// time. Items without an end time are never in progress.
func (i Item) InProgress(now time.Time, grace time.Duration) bool {
	if i.EndTime == nil {
		return false
	}
	return now.Sub(i.StartTime) > grace && now.Before(*i.EndTime)
}

func (i Item) String() string {
	return fmt.Sprintf("%s [%s] %s @ %s", i.ID, i.Scheduler, i.Description, i.StartTime.Format(time.RFC3339))
}

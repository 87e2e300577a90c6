// Package gcal is a schedule backend over one Google Calendar.
package gcal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/calendar/v3"

	"tableflip.dev/todor/pkg/dateparse"
	"tableflip.dev/todor/pkg/schedule"
)

const (
	DefaultCalendar = "primary"
	DefaultDays     = 7

	layoutDate = "2006-01-02"
)

// Backend lists the events from the start of today through the next days.
// Closing an event deletes it.
type Backend struct {
	id       string
	calendar string
	days     int
	svc      *calendar.Service
	now      func() time.Time

	mu    sync.RWMutex
	items []schedule.Item
}

var _ schedule.Backend = (*Backend)(nil)

// New makes a backend with id "gcal:<name>".
func New(name, calendarID string, days int, svc *calendar.Service) *Backend {
	if calendarID == "" {
		calendarID = DefaultCalendar
	}
	if name == "" {
		name = calendarID
	}
	if days <= 0 {
		days = DefaultDays
	}
	return &Backend{id: "gcal:" + name, calendar: calendarID, days: days, svc: svc, now: time.Now}
}

func (b *Backend) ID() string { return b.id }

func (b *Backend) Refresh(ctx context.Context) error {
	items, err := b.list(ctx)
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

// Add creates an all-day event when due is the end of a day and an hour
// long event otherwise.
func (b *Backend) Add(ctx context.Context, description string, due time.Time) (bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return false, nil
	}
	ev := &calendar.Event{Summary: description}
	setWhen(ev, due, time.Hour)
	if _, err := b.svc.Events.Insert(b.calendar, ev).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("gcal: insert event: %w", err)
	}
	return true, nil
}

// Update moves an event to start at due, keeping its length.
func (b *Backend) Update(ctx context.Context, id, description string, due time.Time) (bool, error) {
	eventID := strings.TrimPrefix(id, b.id+":")
	if eventID == id || eventID == "" {
		return false, nil
	}
	current, err := b.svc.Events.Get(b.calendar, eventID).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("gcal: get event: %w", err)
	}
	length := time.Hour
	if start, end, err := eventSpan(current); err == nil && end != nil {
		length = end.Sub(start)
	}

	patch := &calendar.Event{}
	if description = strings.TrimSpace(description); description != "" {
		patch.Summary = description
	}
	setWhen(patch, due, length)
	if _, err := b.svc.Events.Patch(b.calendar, eventID, patch).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("gcal: patch event: %w", err)
	}
	return true, nil
}

func (b *Backend) Remove(ctx context.Context, m schedule.Matcher) (bool, error) {
	items, err := b.list(ctx)
	if err != nil {
		return false, err
	}
	it, ok := m.Select(items)
	if !ok {
		return false, nil
	}
	eventID := strings.TrimPrefix(it.ID, b.id+":")
	if err := b.svc.Events.Delete(b.calendar, eventID).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("gcal: delete event: %w", err)
	}
	return true, nil
}

func (b *Backend) list(ctx context.Context) ([]schedule.Item, error) {
	now := b.now()
	y, m, d := now.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, b.days)

	var items []schedule.Item
	call := b.svc.Events.List(b.calendar).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy("startTime").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339))
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, ev := range page.Items {
			if ev.Status == "cancelled" {
				continue
			}
			start, end, err := eventSpan(ev)
			if err != nil {
				continue
			}
			if ev.Start.DateTime == "" {
				// All-day events are never shown as in progress.
				end = nil
			}
			items = append(items, schedule.Item{
				ID:          b.id + ":" + ev.Id,
				Scheduler:   b.id,
				Type:        schedule.Calendar,
				Description: ev.Summary,
				StartTime:   start,
				EndTime:     end,
				Place:       ev.Location,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gcal: list events: %w", err)
	}
	schedule.SortByStart(items)
	return items, nil
}

// eventSpan reads an event's start and end. All-day events start at local
// midnight of their first day.
func eventSpan(ev *calendar.Event) (time.Time, *time.Time, error) {
	if ev.Start == nil {
		return time.Time{}, nil, fmt.Errorf("event %s has no start", ev.Id)
	}
	start, err := parseWhen(ev.Start)
	if err != nil {
		return time.Time{}, nil, err
	}
	var end *time.Time
	if ev.End != nil {
		if t, err := parseWhen(ev.End); err == nil {
			end = &t
		}
	}
	return start, end, nil
}

func parseWhen(w *calendar.EventDateTime) (time.Time, error) {
	if w.DateTime != "" {
		t, err := time.Parse(time.RFC3339, w.DateTime)
		if err != nil {
			return time.Time{}, err
		}
		return t.Local(), nil
	}
	return time.ParseInLocation(layoutDate, w.Date, time.Local)
}

func setWhen(ev *calendar.Event, start time.Time, length time.Duration) {
	if start.Equal(dateparse.EndOfDay(start)) {
		day := start.Format(layoutDate)
		next := start.AddDate(0, 0, 1).Format(layoutDate)
		ev.Start = &calendar.EventDateTime{Date: day}
		ev.End = &calendar.EventDateTime{Date: next}
		return
	}
	ev.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)}
	ev.End = &calendar.EventDateTime{DateTime: start.Add(length).Format(time.RFC3339)}
}

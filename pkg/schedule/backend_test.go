package schedule_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tableflip.dev/todor/pkg/schedule"
	"tableflip.dev/todor/pkg/schedule/scheduletest"
)

var base = time.Date(2020, 4, 2, 12, 0, 0, 0, time.Local)

func item(id, desc string, offset time.Duration) schedule.Item {
	return schedule.Item{ID: id, Description: desc, StartTime: base.Add(offset)}
}

func refreshAll(t *testing.T, backends ...schedule.Backend) {
	t.Helper()
	for _, b := range backends {
		if err := b.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh %s: %v", b.ID(), err)
		}
	}
}

func TestMergeSortsByStartTime(t *testing.T) {
	work := scheduletest.New("work",
		item("w1", "standup", 3*time.Hour),
		item("w2", "lunch", time.Hour),
	)
	home := scheduletest.New("home",
		item("h1", "laundry", 2*time.Hour),
		item("h2", "coffee", -time.Hour),
	)
	refreshAll(t, work, home)

	merged := schedule.Merge([]schedule.Backend{work, home})
	if len(merged) != 4 {
		t.Fatalf("expected 4 items, got %d", len(merged))
	}
	for i := 0; i+1 < len(merged); i++ {
		if merged[i].StartTime.After(merged[i+1].StartTime) {
			t.Fatalf("items %d and %d out of order: %v after %v", i, i+1, merged[i].StartTime, merged[i+1].StartTime)
		}
	}
	if merged[0].ID != "h2" {
		t.Fatalf("expected h2 first, got %s", merged[0].ID)
	}
}

func TestMergeTiesKeepRegistryOrder(t *testing.T) {
	work := scheduletest.New("work", item("w1", "a", time.Hour))
	home := scheduletest.New("home", item("h1", "b", time.Hour))
	refreshAll(t, work, home)

	merged := schedule.Merge([]schedule.Backend{home, work})
	if merged[0].ID != "h1" || merged[1].ID != "w1" {
		t.Fatalf("expected [h1 w1], got [%s %s]", merged[0].ID, merged[1].ID)
	}
}

func TestFailedRefreshKeepsPreviousItems(t *testing.T) {
	work := scheduletest.New("work", item("w1", "a", time.Hour))
	refreshAll(t, work)

	work.SetItems()
	work.FailRefresh(errors.New("offline"))
	if err := work.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if got := len(work.Items()); got != 1 {
		t.Fatalf("expected stale snapshot of 1 item, got %d", got)
	}
}

func TestMatcherSelect(t *testing.T) {
	items := []schedule.Item{
		item("1", "Call the dentist", 0),
		item("2", "Buy milk", 0),
		item("3", "Pay the milkman", 0),
	}

	if it, ok := schedule.Fuzzy("milk").Select(items); !ok || it.ID != "2" {
		t.Fatalf("expected substring match on item 2, got %v %v", it.ID, ok)
	}
	if it, ok := schedule.Fuzzy("PAY").Select(items); !ok || it.ID != "3" {
		t.Fatalf("expected prefix match on item 3, got %v %v", it.ID, ok)
	}
	if _, ok := schedule.Fuzzy("  ").Select(items); ok {
		t.Fatalf("expected blank text to match nothing")
	}
	if _, ok := (schedule.Matcher{Text: "buy milk", Exact: true}).Select(items); ok {
		t.Fatalf("expected exact matcher to be case sensitive")
	}
	if it, ok := schedule.ExactItem(items[0]).Select(items); !ok || it.ID != "1" {
		t.Fatalf("expected exact item match, got %v %v", it.ID, ok)
	}
}

func TestMatcherStaleIDMatchesNothing(t *testing.T) {
	items := []schedule.Item{
		{ID: "gcal:work:abc", Description: ""},
		{ID: "gcal:work:def", Description: "standup"},
	}
	if it, ok := (schedule.Matcher{ID: "gcal:work:gone", Exact: true}).Select(items); ok {
		t.Fatalf("expected no match for an unknown id, got %q", it.ID)
	}
	if it, ok := (schedule.Matcher{ID: "gcal:work:gone", Text: "standup", Exact: true}).Select(items); !ok || it.ID != "gcal:work:def" {
		t.Fatalf("expected description fallback to standup, got %q %v", it.ID, ok)
	}
}

func TestLookupMiss(t *testing.T) {
	backends := []schedule.Backend{scheduletest.New("work"), scheduletest.New("home")}

	_, err := schedule.Lookup(backends, "unknown-backend")
	var miss *schedule.RoutingMissError
	if !errors.As(err, &miss) {
		t.Fatalf("expected RoutingMissError, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown-backend") || !strings.Contains(err.Error(), "work, home") {
		t.Fatalf("unexpected message: %s", err)
	}

	b, err := schedule.Lookup(backends, "home")
	if err != nil || b.ID() != "home" {
		t.Fatalf("expected home backend, got %v %v", b, err)
	}
}

func TestInProgress(t *testing.T) {
	end := base.Add(time.Hour)
	it := schedule.Item{StartTime: base, EndTime: &end}

	if it.InProgress(base.Add(4*time.Minute), 5*time.Minute) {
		t.Fatalf("expected not in progress inside the grace period")
	}
	if !it.InProgress(base.Add(30*time.Minute), 5*time.Minute) {
		t.Fatalf("expected in progress half way through")
	}
	if it.InProgress(end.Add(time.Second), 5*time.Minute) {
		t.Fatalf("expected not in progress after the end")
	}
}

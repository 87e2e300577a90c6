package journal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tableflip.dev/todor/pkg/schedule"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New("home", t.TempDir())
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}
	return b
}

func at(day, hour int) time.Time {
	return time.Date(2020, time.April, day, hour, 0, 0, 0, time.Local)
}

func TestAddRefreshRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)

	if b.ID() != "journal:home" {
		t.Fatalf("expected id journal:home, got %q", b.ID())
	}
	for _, add := range []struct {
		desc string
		due  time.Time
	}{
		{"pay rent", at(3, 23)},
		{"buy milk", at(2, 23)},
	} {
		ok, err := b.Add(ctx, add.desc, add.due)
		if err != nil || !ok {
			t.Fatalf("add %q: ok=%v err=%v", add.desc, ok, err)
		}
	}

	if len(b.Items()) != 0 {
		t.Fatalf("expected items to wait for a refresh, got %v", b.Items())
	}
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Description != "buy milk" || items[1].Description != "pay rent" {
		t.Fatalf("expected due order, got %v", items)
	}
	for _, it := range items {
		if it.Scheduler != "journal:home" || it.Type != schedule.Todo {
			t.Fatalf("unexpected item %+v", it)
		}
		if !strings.HasPrefix(it.ID, "journal:home:") {
			t.Fatalf("expected qualified id, got %q", it.ID)
		}
	}
	if !items[0].StartTime.Equal(at(2, 23)) {
		t.Fatalf("expected due time kept, got %v", items[0].StartTime)
	}
}

func TestAddEmptyDescription(t *testing.T) {
	b := newBackend(t)
	ok, err := b.Add(context.Background(), "  ", at(2, 9))
	if err != nil || ok {
		t.Fatalf("expected refusal, got ok=%v err=%v", ok, err)
	}
}

func TestEntriesLandInDayDirectories(t *testing.T) {
	b := newBackend(t)
	if _, err := b.Add(context.Background(), "dentist", at(2, 12)); err != nil {
		t.Fatalf("add: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(b.Store().BasePath(), "2020", "04", "02", "*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one file for the day, got %v", matches)
	}
}

func TestRemoveFuzzyAndExact(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	b.Add(ctx, "Call the bank", at(2, 9))
	b.Add(ctx, "bank statement", at(2, 10))
	b.Refresh(ctx)

	ok, err := b.Remove(ctx, schedule.Fuzzy("bank"))
	if err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	b.Refresh(ctx)
	items := b.Items()
	if len(items) != 1 || items[0].Description != "Call the bank" {
		t.Fatalf("expected prefix match removed first, got %v", items)
	}

	ok, err = b.Remove(ctx, schedule.ExactItem(items[0]))
	if err != nil || !ok {
		t.Fatalf("remove exact: ok=%v err=%v", ok, err)
	}
	ok, err = b.Remove(ctx, schedule.Fuzzy("bank"))
	if err != nil || ok {
		t.Fatalf("expected nothing left to match, got ok=%v err=%v", ok, err)
	}
}

func TestUpdateMovesEntry(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	b.Add(ctx, "review", at(2, 23))
	b.Refresh(ctx)
	it := b.Items()[0]

	ok, err := b.Update(ctx, it.ID, "", at(4, 23))
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	b.Refresh(ctx)
	items := b.Items()
	if len(items) != 1 {
		t.Fatalf("expected the entry to move, got %v", items)
	}
	if items[0].ID != it.ID || items[0].Description != "review" || !items[0].StartTime.Equal(at(4, 23)) {
		t.Fatalf("unexpected moved item %+v", items[0])
	}

	ok, err = b.Update(ctx, "journal:home:missing", "x", at(4, 23))
	if err != nil || ok {
		t.Fatalf("expected unknown id to be refused, got ok=%v err=%v", ok, err)
	}
}

func TestRefreshSkipsBrokenFiles(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	b.Add(ctx, "fine", at(2, 9))
	dir := filepath.Join(b.Store().BasePath(), "2020", "04", "02")
	if err := os.WriteFile(filepath.Join(dir, "broken"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(b.Items()) != 1 {
		t.Fatalf("expected the broken file skipped, got %v", b.Items())
	}
}

func TestWatchReportsWrites(t *testing.T) {
	b := newBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	err := b.Store().Watch(ctx, 20*time.Millisecond, func() {
		changed <- struct{}{}
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if _, err := b.Add(context.Background(), "hello world", at(2, 9)); err != nil {
		t.Fatalf("add: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a change notification")
	}
}

package tasks

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/todor/pkg/schedule"
)

func openTemp(t *testing.T) (*Backend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.db")
	b, err := Open(context.Background(), "work", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b, path
}

func due(day int) time.Time {
	return time.Date(2020, time.April, day, 23, 59, 59, 0, time.Local)
}

func TestAddAndRefresh(t *testing.T) {
	ctx := context.Background()
	b, _ := openTemp(t)

	if ok, err := b.Add(ctx, "file taxes", due(5)); err != nil || !ok {
		t.Fatalf("add: ok=%v err=%v", ok, err)
	}
	if ok, err := b.Add(ctx, "water plants", due(2)); err != nil || !ok {
		t.Fatalf("add: ok=%v err=%v", ok, err)
	}
	if ok, _ := b.Add(ctx, " ", due(2)); ok {
		t.Fatalf("expected empty description refused")
	}

	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", items)
	}
	if items[0].Description != "water plants" || !items[0].StartTime.Equal(due(2)) {
		t.Fatalf("expected earliest first, got %+v", items[0])
	}
	if items[0].Scheduler != "tasks:work" {
		t.Fatalf("expected scheduler tasks:work, got %q", items[0].Scheduler)
	}
}

func TestRemoveMarksDone(t *testing.T) {
	ctx := context.Background()
	b, _ := openTemp(t)
	b.Add(ctx, "water plants", due(2))
	b.Add(ctx, "file taxes", due(5))

	ok, err := b.Remove(ctx, schedule.Fuzzy("TAX"))
	if err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	b.Refresh(ctx)
	items := b.Items()
	if len(items) != 1 || items[0].Description != "water plants" {
		t.Fatalf("expected taxes closed, got %v", items)
	}

	var done int
	if err := b.db.QueryRow(`SELECT count(*) FROM tasks WHERE done_at IS NOT NULL`).Scan(&done); err != nil {
		t.Fatalf("count: %v", err)
	}
	if done != 1 {
		t.Fatalf("expected the closed task kept as done, got %d", done)
	}

	if ok, _ := b.Remove(ctx, schedule.Fuzzy("taxes")); ok {
		t.Fatalf("expected a done task to stay closed")
	}
}

func TestUpdateDue(t *testing.T) {
	ctx := context.Background()
	b, _ := openTemp(t)
	b.Add(ctx, "water plants", due(2))
	b.Refresh(ctx)
	it := b.Items()[0]

	ok, err := b.Update(ctx, it.ID, "", due(9))
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	b.Refresh(ctx)
	got := b.Items()[0]
	if got.Description != "water plants" || !got.StartTime.Equal(due(9)) {
		t.Fatalf("unexpected item after update %+v", got)
	}

	if ok, _ := b.Update(ctx, "journal:x:"+it.ID, "", due(9)); ok {
		t.Fatalf("expected foreign id refused")
	}
}

func TestReopenKeepsTasks(t *testing.T) {
	ctx := context.Background()
	b, path := openTemp(t)
	b.Add(ctx, "water plants", due(2))
	b.Close()

	again, err := Open(ctx, "work", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	if err := again.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(again.Items()) != 1 {
		t.Fatalf("expected task to survive reopen, got %v", again.Items())
	}
}

func TestFailedRefreshKeepsCache(t *testing.T) {
	ctx := context.Background()
	b, _ := openTemp(t)
	b.Add(ctx, "water plants", due(2))
	b.Refresh(ctx)

	b.db.Close()
	if err := b.Refresh(ctx); err == nil {
		t.Fatalf("expected refresh on a closed db to fail")
	}
	if len(b.Items()) != 1 {
		t.Fatalf("expected the previous snapshot kept, got %v", b.Items())
	}
}

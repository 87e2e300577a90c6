package display

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/todor/pkg/bus"
	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/schedule"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var day = time.Date(2020, 4, 2, 9, 0, 0, 0, time.Local)

func fixedNow() time.Time { return day }

func items() []schedule.Item {
	return []schedule.Item{
		{ID: "w:2", Scheduler: "work", Description: "review", StartTime: day.Add(26 * time.Hour)},
		{ID: "w:1", Scheduler: "work", Description: "standup", StartTime: day.Add(time.Hour)},
		{ID: "h:1", Scheduler: "home", Description: "dentist", StartTime: day.Add(3 * time.Hour), Place: "Main St"},
	}
}

func newList() (*ScheduleList, *bus.Recorder[events.UICommand]) {
	ui := &bus.Recorder[events.UICommand]{}
	return NewScheduleList(ui, Options{MaxWidth: 30, Now: fixedNow}), ui
}

func TestSelectionOnEmptyList(t *testing.T) {
	l, _ := newList()
	l.Handle(events.SelectNext{})
	if l.Selected() != -1 {
		t.Fatalf("expected -1 on empty list, got %d", l.Selected())
	}
	l.Handle(events.SelectPrev{})
	l.Handle(events.SelectPrev{})
	if l.Selected() != -1 {
		t.Fatalf("expected -1 after prev, got %d", l.Selected())
	}
}

func TestSelectionClamps(t *testing.T) {
	l, _ := newList()
	l.Handle(events.Schedules{Items: items()})
	for i := 0; i < 10; i++ {
		l.Handle(events.SelectNext{})
	}
	if l.Selected() != 2 {
		t.Fatalf("expected selection clamped to 2, got %d", l.Selected())
	}

	l.Handle(events.Schedules{Items: items()[:1]})
	if l.Selected() != 0 {
		t.Fatalf("expected selection clamped to 0 after shrink, got %d", l.Selected())
	}

	l.Handle(events.ClearSelection{})
	if _, ok := l.SelectedItem(); ok {
		t.Fatalf("expected no selection after clear")
	}
}

func TestSchedulesSortedOnArrival(t *testing.T) {
	l, _ := newList()
	l.Handle(events.Schedules{Items: items()})
	got := l.Items()
	if got[0].ID != "w:1" || got[1].ID != "h:1" || got[2].ID != "w:2" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestSubmitCloseWithSelection(t *testing.T) {
	l, ui := newList()
	l.Handle(events.Schedules{Items: items()})
	l.Handle(events.SelectNext{})

	if !l.Handle(events.Submit{Line: "close"}) {
		t.Fatalf("expected close to be consumed")
	}
	sent := ui.Sent()
	exec, ok := sent[0].(events.ExecuteWithItem)
	if !ok || exec.Item.ID != "w:1" || exec.Line != "close" {
		t.Fatalf("unexpected command %#v", sent[0])
	}
}

func TestSubmitAckWithoutSelection(t *testing.T) {
	l, ui := newList()
	l.Handle(events.Schedules{Items: items()})

	if !l.Handle(events.Submit{Line: "ACK dentist"}) {
		t.Fatalf("expected ack to be consumed")
	}
	exec, ok := ui.Sent()[0].(events.Execute)
	if !ok || exec.Line != "ACK dentist" {
		t.Fatalf("unexpected command %#v", ui.Sent()[0])
	}
}

func TestSubmitOtherVerbsPassThrough(t *testing.T) {
	l, ui := newList()
	if l.Handle(events.Submit{Line: "refresh"}) {
		t.Fatalf("expected refresh to pass through the list")
	}
	if len(ui.Sent()) != 0 {
		t.Fatalf("expected nothing sent")
	}
}

func TestListRenderGroupsByDay(t *testing.T) {
	l, _ := newList()
	l.Handle(events.Schedules{Items: items()})
	l.Handle(events.SelectNext{})

	f := NewFrame(0, 0)
	l.Render(f)
	body := f.Body()
	want := []string{
		"Thursday, April 2, 2020",
		"--------2---------",
		"> standup  10:00",
		"  dentist  12:00",
		"",
		"Friday, April 3, 2020",
		"--------1---------",
		"  review   11:00",
		"",
	}
	if len(body) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(body), body)
	}
	for i := range want {
		if body[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], body[i])
		}
	}
}

func TestListRenderEmpty(t *testing.T) {
	l, _ := newList()
	f := NewFrame(0, 0)
	l.Render(f)
	if body := f.Body(); len(body) != 1 || !strings.Contains(body[0], "Nothing") {
		t.Fatalf("unexpected empty render %q", body)
	}
}

func TestPromptToastExpires(t *testing.T) {
	now := day
	ui := &bus.Recorder[events.UICommand]{}
	p := NewPrompt(ui, Options{Now: func() time.Time { return now }})
	p.Handle(events.UpdateUserInput{Input: "add"})
	p.Handle(events.Toast{Message: events.NewMessage("backend offline", events.Error, 10*time.Second, now)})

	f := NewFrame(0, 0)
	p.Render(f)
	if footer := f.Footer(); len(footer) != 2 || footer[0] != "backend offline" || footer[1] != ":> add" {
		t.Fatalf("unexpected footer %q", footer)
	}

	now = day.Add(11 * time.Second)
	f = NewFrame(0, 0)
	p.Render(f)
	if footer := f.Footer(); len(footer) != 1 || footer[0] != ":> add" {
		t.Fatalf("expected toast gone, got %q", footer)
	}
}

func TestPromptToastSchedulesRedraw(t *testing.T) {
	ui := &bus.Recorder[events.UICommand]{}
	p := NewPrompt(ui, Options{})
	p.Handle(events.Toast{Message: events.NewMessage("saved", events.Normal, 10*time.Millisecond, time.Now())})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, cmd := range ui.Sent() {
			if _, ok := cmd.(events.Redraw); ok {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected a Redraw after the toast expired")
}

func TestPromptUpdatePrompt(t *testing.T) {
	p := NewPrompt(nil, Options{})
	p.Handle(events.UpdatePrompt{Prompt: "pick>"})
	f := NewFrame(0, 0)
	p.Render(f)
	if footer := f.Footer(); footer[0] != "pick> " {
		t.Fatalf("unexpected prompt %q", footer[0])
	}
}

func TestFrameLayout(t *testing.T) {
	f := NewFrame(5, 4)
	f.Println("one\ntwo")
	f.Println("a long line")
	f.Println("dropped")
	f.SetFooter(":>")

	lines := f.Lines()
	want := []string{"one", "two", "a lon", ":>"}
	if len(lines) != len(want) {
		t.Fatalf("expected %q, got %q", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}

	f.Clear()
	lines = f.Lines()
	if len(lines) != 4 || lines[3] != ":>" || lines[0] != "" {
		t.Fatalf("expected footer pinned to the bottom, got %q", lines)
	}
}

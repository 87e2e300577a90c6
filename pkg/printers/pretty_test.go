package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/todor/pkg/schedule"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

var now = time.Date(2020, time.April, 2, 9, 0, 0, 0, time.Local)

func TestScheduleGroupsByDay(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, Now: now}
	end := now.Add(2 * time.Hour)
	pp.Schedule(
		schedule.Item{ID: "a:1", Description: "standup", StartTime: now.Add(time.Hour), EndTime: &end},
		schedule.Item{ID: "a:2", Description: "lunch", StartTime: now.Add(3 * time.Hour), Place: "cafe"},
		schedule.Item{ID: "a:3", Description: "dentist", StartTime: now.Add(24 * time.Hour)},
	)
	out := buf.String()
	if !strings.Contains(out, "Thursday, April 2 - 2 items") {
		t.Fatalf("expected a title for the first day, got:\n%s", out)
	}
	if !strings.Contains(out, "Friday, April 3 - 1 item\n") {
		t.Fatalf("expected a title for the second day, got:\n%s", out)
	}
	if !strings.Contains(out, "10:00-11:00") || !strings.Contains(out, "cafe") {
		t.Fatalf("expected time range and place, got:\n%s", out)
	}
	if strings.Contains(out, "a:1") {
		t.Fatalf("expected no ids without ShowID, got:\n%s", out)
	}
}

func TestScheduleShowID(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, Now: now, ShowID: true}
	pp.Schedule(schedule.Item{ID: "journal:default:2020-04-02-ab", Description: "x", StartTime: now})
	if !strings.Contains(buf.String(), "journal:default:2020-04-02-ab") {
		t.Fatalf("expected id column, got:\n%s", buf.String())
	}
}

func TestScheduleEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, Now: now}
	pp.Schedule()
	if !strings.Contains(buf.String(), "nothing scheduled") {
		t.Fatalf("expected empty note, got %q", buf.String())
	}
}

func TestBackendsMarksDefault(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Backends([]string{"journal:default", "tasks:work"}, "tasks:work")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %q", buf.String())
	}
	if !strings.Contains(lines[2], "tasks:work") || !strings.Contains(lines[2], "default") {
		t.Fatalf("expected default marked, got %q", lines[2])
	}
}

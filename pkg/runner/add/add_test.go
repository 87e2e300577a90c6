package add

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/todor/pkg/schedule/scheduletest"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

var now = time.Date(2020, time.April, 2, 9, 0, 0, 0, time.Local)

func clock() time.Time { return now }

func TestAddReadsDueFromText(t *testing.T) {
	b := scheduletest.New("journal:default")
	var buf bytes.Buffer
	a := Add{Backend: b, Text: " buy milk tomorrow ", Out: &buf, Now: clock}
	if err := a.Do(context.Background()); err != nil {
		t.Fatalf("add: %v", err)
	}
	calls := b.Calls()
	if len(calls) != 1 || calls[0].Description != "buy milk tomorrow" {
		t.Fatalf("expected one trimmed add, got %+v", calls)
	}
	want := time.Date(2020, time.April, 3, 23, 59, 59, 0, time.Local)
	if !calls[0].Due.Equal(want) {
		t.Fatalf("expected due %v, got %v", want, calls[0].Due)
	}
	if !strings.Contains(buf.String(), "April 3, 2020 23:59") {
		t.Fatalf("expected due date echoed, got %q", buf.String())
	}
}

func TestAddExplicitDue(t *testing.T) {
	b := scheduletest.New("journal:default")
	due := now.Add(90 * time.Minute)
	a := Add{Backend: b, Text: "call tomorrow", Due: &due, Out: &bytes.Buffer{}, Now: clock}
	if err := a.Do(context.Background()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := b.Calls()[0].Due; !got.Equal(due) {
		t.Fatalf("expected %v, got %v", due, got)
	}
}

func TestAddEmpty(t *testing.T) {
	b := scheduletest.New("journal:default")
	a := Add{Backend: b, Text: "   ", Now: clock}
	if err := a.Do(context.Background()); err == nil {
		t.Fatalf("expected an error for empty text")
	}
	if len(b.Calls()) != 0 {
		t.Fatalf("expected nothing sent, got %+v", b.Calls())
	}
}

func TestAddBackendFailure(t *testing.T) {
	b := scheduletest.New("journal:default")
	b.FailMutations(errors.New("read-only"))
	a := Add{Backend: b, Text: "x", Out: &bytes.Buffer{}, Now: clock}
	err := a.Do(context.Background())
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

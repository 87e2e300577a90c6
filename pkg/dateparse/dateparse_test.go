package dateparse

import (
	"testing"
	"time"
)

var now = time.Date(2020, 4, 2, 10, 30, 0, 0, time.Local)

func TestDueDateTomorrow(t *testing.T) {
	p := New()
	got := p.DueDate("buy milk tomorrow", now)
	want := time.Date(2020, 4, 3, 23, 59, 59, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDueDateFallsBackToToday(t *testing.T) {
	p := New()
	got := p.DueDate("buy milk", now)
	want := time.Date(2020, 4, 2, 23, 59, 59, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseNothing(t *testing.T) {
	p := New()
	if _, ok := p.Parse("", now); ok {
		t.Fatalf("expected no date in empty text")
	}
}

func TestEndOfDay(t *testing.T) {
	got := EndOfDay(time.Date(2021, 12, 31, 0, 0, 1, 0, time.UTC))
	if got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 || got.Day() != 31 {
		t.Fatalf("unexpected end of day %v", got)
	}
}

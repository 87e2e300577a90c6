// Package format turns schedule items into display lines. Everything here is
// a pure function of the item, the width and the current time.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/todor/pkg/schedule"
)

const (
	// PlaceBefore and PlaceAfter bound the window, relative to the start
	// time, in which the place is shown on a second line.
	PlaceBefore = 10 * time.Minute
	PlaceAfter  = 5 * time.Minute

	// InProgressGrace is how long after the start an item with an end time
	// switches to showing that end time.
	InProgressGrace = 5 * time.Minute

	// timeColumn is the width of "  H:MM" plus one spare column.
	timeColumn  = 7
	untilColumn = timeColumn + len("until ")
)

var (
	urgent      = color.New(color.FgRed, color.Bold)
	approaching = color.New(color.FgYellow)
)

// Clock renders t as H:MM on a 24 hour clock with no hour padding.
func Clock(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}

// RenderLine formats an item for the schedule list. The bool is false when
// the item should be left out of the current pass; nothing is filtered yet.
func RenderLine(it schedule.Item, selected bool, maxWidth int, now time.Time) (string, bool) {
	text := formatItem(it, maxWidth, now)
	if !selected {
		return "  " + text, true
	}

	lines := strings.SplitN(text, "\n", 2)
	if w := ansi.PrintableRuneWidth(lines[0]); w < maxWidth {
		lines[0] = padding.String(lines[0], uint(maxWidth))
	}
	return "> " + strings.Join(lines, "\n"), true
}

func formatItem(it schedule.Item, maxWidth int, now time.Time) string {
	if it.InProgress(now, InProgressGrace) {
		return column(it.Description, maxWidth-untilColumn) + "  until " + Clock(*it.EndTime)
	}

	line := column(it.Description, maxWidth-timeColumn) + "  " + Clock(it.StartTime)
	if it.Place != "" && inPlaceWindow(it.Remaining(now)) {
		line += "\n\t" + it.Place
	}
	return line
}

func inPlaceWindow(remaining time.Duration) bool {
	ms := remaining.Milliseconds()
	return ms >= -PlaceAfter.Milliseconds() && ms <= PlaceBefore.Milliseconds()
}

// column left-aligns s in a field of width w, cutting it short when needed.
func column(s string, w int) string {
	if w < 1 {
		w = 1
	}
	if ansi.PrintableRuneWidth(s) > w {
		s = truncate.StringWithTail(s, uint(w), "…")
	}
	return padding.String(s, uint(w))
}

// Color styles text by how soon the item starts: bold red from one minute
// past the start up to three minutes before it, yellow from three to ten
// minutes before it, plain otherwise.
func Color(it schedule.Item, text string, now time.Time) string {
	ms := it.Remaining(now).Milliseconds()
	switch {
	case ms >= -60_000 && ms < 180_000:
		return urgent.Sprint(text)
	case ms >= 180_000 && ms <= 600_000:
		return approaching.Sprint(text)
	default:
		return text
	}
}

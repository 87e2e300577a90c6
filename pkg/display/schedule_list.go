package display

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/format"
	"tableflip.dev/todor/pkg/schedule"
)

const (
	DefaultMaxWidth = 50
	layoutDay       = "Monday, January 2, 2006"
	timeColumn      = 7
)

var (
	dayTitle = color.New(color.Bold, color.Underline)
	faint    = color.New(color.Faint)
)

// ScheduleList shows the merged schedule grouped by day. Selection starts at
// -1, meaning nothing is selected.
type ScheduleList struct {
	toggle

	ui       events.UISender
	now      func() time.Time
	maxWidth int
	items    []schedule.Item
	selected int
}

func NewScheduleList(ui events.UISender, opts Options) *ScheduleList {
	width := opts.MaxWidth
	if width <= 0 {
		width = DefaultMaxWidth
	}
	return &ScheduleList{
		toggle:   toggle{active: true},
		ui:       ui,
		now:      opts.now,
		maxWidth: width,
		selected: -1,
	}
}

func (l *ScheduleList) ID() string { return PanelList }

func (l *ScheduleList) Handle(cmd events.UICommand) bool {
	switch c := cmd.(type) {
	case events.Schedules:
		l.items = append([]schedule.Item(nil), c.Items...)
		schedule.SortByStart(l.items)
		l.selected = clamp(l.selected, len(l.items))
	case events.SelectNext:
		l.selected = clamp(l.selected+1, len(l.items))
	case events.SelectPrev:
		l.selected = clamp(l.selected-1, len(l.items))
	case events.ClearSelection:
		l.selected = -1
	case events.Submit:
		verb, _ := head(c.Line)
		switch verb {
		case "close", "ack", "reschedule":
		default:
			return false
		}
		if it, ok := l.SelectedItem(); ok {
			l.ui.Send(events.ExecuteWithItem{Line: c.Line, Item: it})
		} else {
			l.ui.Send(events.Execute{Line: c.Line})
		}
	default:
		return false
	}
	return true
}

func (l *ScheduleList) SelectedItem() (schedule.Item, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		return schedule.Item{}, false
	}
	return l.items[l.selected], true
}

func (l *ScheduleList) Selected() int { return l.selected }

func (l *ScheduleList) Items() []schedule.Item {
	return append([]schedule.Item(nil), l.items...)
}

// width fits the widest description, up to maxWidth.
func (l *ScheduleList) width() int {
	widest := 0
	for _, it := range l.items {
		if w := ansi.PrintableRuneWidth(it.Description); w > widest {
			widest = w
		}
	}
	if w := widest + timeColumn; w < l.maxWidth {
		return w
	}
	return l.maxWidth
}

func (l *ScheduleList) Render(f *Frame) {
	f.Clear()
	if len(l.items) == 0 {
		f.Println(faint.Sprint("Nothing scheduled."))
		return
	}

	now := l.now()
	width := l.width()
	idx := 0
	for start := 0; start < len(l.items); {
		end := start + 1
		for end < len(l.items) && sameDay(l.items[start].StartTime, l.items[end].StartTime) {
			end++
		}

		f.Println(dayTitle.Sprint(l.items[start].StartTime.Format(layoutDay)))
		f.Println(fmt.Sprintf("--------%d---------", end-start))
		for _, it := range l.items[start:end] {
			if line, ok := format.RenderLine(it, idx == l.selected, width, now); ok {
				f.Println(format.Color(it, line, now))
			}
			idx++
		}
		f.Println("")
		start = end
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

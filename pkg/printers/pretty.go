package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/todor/pkg/format"
	"tableflip.dev/todor/pkg/schedule"
)

const layoutDay = "Monday, January 2"

type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
	Now    time.Time
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " item")
	default:
		_, _ = c.Fprintln(pp.out(), " items")
	}
}

// Schedule prints items grouped under one title per day. Items are expected
// in start order.
func (pp *PrettyPrint) Schedule(items ...schedule.Item) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " nothing scheduled\n\n")
		return
	}

	start := 0
	for i := 1; i <= len(items); i++ {
		if i < len(items) && sameDay(items[i].StartTime, items[start].StartTime) {
			continue
		}
		day := items[start:i]
		pp.TitleWithCount(items[start].StartTime.Format(layoutDay), len(day))
		pp.Day(day...)
		start = i
	}
}

// Day prints one table row per item: time, description, place and, with
// ShowID, the item id.
func (pp *PrettyPrint) Day(items ...schedule.Item) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	for _, it := range items {
		when := format.Clock(it.StartTime)
		if it.EndTime != nil {
			when += "-" + format.Clock(*it.EndTime)
		}
		row := []interface{}{format.Color(it, when, pp.Now), it.Description, it.Place}
		if pp.ShowID {
			row = append(row, y.Sprint(it.ID))
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Backends prints the backend ids in registry order, marking the default.
func (pp *PrettyPrint) Backends(ids []string, def string) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Backend"), bold.Sprint("Kind"), "")
	for _, id := range ids {
		kind, _, _ := strings.Cut(id, ":")
		mark := ""
		if id == def {
			mark = "default"
		}
		tbl.AddRow(id, kind, mark)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

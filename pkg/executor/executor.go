// Package executor turns submitted command lines into schedule and UI
// commands.
//
// Grammar:
//
//	""                    no-op
//	refresh               refresh every backend
//	add <text>            pick a backend, then add text to it
//	close|ack [<text>]    close the selected item, or the item matching text
//	reschedule <when>     move the selected item to another day
//	exit|quit             leave
//	help                  list the commands
package executor

import (
	"strings"
	"time"

	"tableflip.dev/todor/pkg/display"
	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/logging"
	"tableflip.dev/todor/pkg/logging/trace"
	"tableflip.dev/todor/pkg/schedule"
)

const helpText = "commands: refresh | add <text> | close|ack [text] | reschedule <when> | exit"

type Executor struct {
	ui             events.UISender
	sched          events.ScheduleSender
	defaultBackend string
	toastTTL       time.Duration
	now            func() time.Time
}

type Option func(*Executor)

func WithToastTTL(ttl time.Duration) Option {
	return func(e *Executor) {
		if ttl > 0 {
			e.toastTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

func New(ui events.UISender, sched events.ScheduleSender, defaultBackend string, opts ...Option) *Executor {
	e := &Executor{
		ui:             ui,
		sched:          sched,
		defaultBackend: defaultBackend,
		toastTTL:       events.DefaultToastTTL,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs a line with nothing selected.
func (e *Executor) Execute(line string) {
	e.run(line, nil)
}

// ExecuteWithItem runs a line against the selected item.
func (e *Executor) ExecuteWithItem(line string, it schedule.Item) {
	e.run(line, &it)
}

func (e *Executor) run(line string, selected *schedule.Item) {
	head, rest := split(line)
	trace.Command.Execute(head, rest, selected != nil)

	switch head {
	case "":
	case "refresh":
		e.sched.Send(events.Refresh{})
	case "add":
		if rest == "" {
			e.toast("Nothing to add.", events.Error)
			return
		}
		e.ui.Send(events.PanelPush{Name: display.PanelPicker})
		e.ui.Send(events.RequestBackendForAdd{Text: rest})
	case "close", "ack":
		e.close(rest, selected)
	case "reschedule":
		e.reschedule(rest, selected)
	case "exit", "quit":
		e.ui.Send(events.Exit{})
	case "help":
		e.toast(helpText, events.Normal)
	default:
		trace.Command.Unknown(head)
		logging.Infof("ignoring unknown command %q", head)
	}
}

func (e *Executor) close(rest string, selected *schedule.Item) {
	if selected != nil {
		e.sched.Send(events.Close{BackendID: selected.Scheduler, Matcher: schedule.ExactItem(*selected)})
		return
	}
	if rest == "" {
		e.toast("Nothing selected to close.", events.Error)
		return
	}
	if e.defaultBackend == "" {
		e.toast("No default backend configured, select an item first.", events.Error)
		return
	}
	e.sched.Send(events.Close{BackendID: e.defaultBackend, Matcher: schedule.Fuzzy(rest)})
}

func (e *Executor) reschedule(rest string, selected *schedule.Item) {
	if selected == nil {
		e.toast("Select an item to reschedule.", events.Error)
		return
	}
	if rest == "" {
		e.toast("Reschedule to when?", events.Error)
		return
	}
	e.sched.Send(events.Reschedule{BackendID: selected.Scheduler, Item: *selected, When: rest})
}

func (e *Executor) toast(text string, kind events.MessageKind) {
	e.ui.Send(events.Toast{Message: events.NewMessage(text, kind, e.toastTTL, e.now())})
}

func split(line string) (string, string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ""
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	return strings.ToLower(fields[0]), rest
}

// Package scheduler runs the master scheduler: the one goroutine that talks
// to backends, polls them on an interval and publishes merged snapshots.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/todor/pkg/dateparse"
	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/logging"
	"tableflip.dev/todor/pkg/logging/trace"
	"tableflip.dev/todor/pkg/schedule"
)

const DefaultInterval = 60 * time.Second

// Inbox is the schedule queue as seen by its consumer. The master also
// sends to it to queue follow up refreshes.
type Inbox interface {
	events.ScheduleSender
	Recv() <-chan events.ScheduleCommand
}

type Config struct {
	// Interval is how long the master waits for a command before refreshing
	// on its own.
	Interval time.Duration
	ToastTTL time.Duration
	Dates    *dateparse.Parser
	Now      func() time.Time
}

type Master struct {
	backends []schedule.Backend
	inbox    Inbox
	ui       events.UISender
	cfg      Config

	pending []events.ScheduleCommand
	items   []schedule.Item
}

func New(backends []schedule.Backend, inbox Inbox, ui events.UISender, cfg Config) *Master {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.ToastTTL <= 0 {
		cfg.ToastTTL = events.DefaultToastTTL
	}
	if cfg.Dates == nil {
		cfg.Dates = dateparse.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Master{
		backends: backends,
		inbox:    inbox,
		ui:       ui,
		cfg:      cfg,
	}
}

// Run announces the backends, refreshes once and then serves commands until
// ctx is done, the inbox closes or the UI stops listening.
func (m *Master) Run(ctx context.Context) error {
	ids := schedule.IDs(m.backends)
	trace.Scheduler.Start(ids)

	if !m.ui.Send(events.Schedulers{IDs: ids}) {
		trace.Scheduler.Stop("ui closed")
		return nil
	}
	if !m.refresh(ctx, "startup") {
		trace.Scheduler.Stop("ui closed")
		return nil
	}

	for {
		cmd, ok := m.next(ctx)
		if !ok {
			trace.Scheduler.Stop("inbox closed")
			return ctx.Err()
		}
		if !m.handle(ctx, cmd) {
			trace.Scheduler.Stop("ui closed")
			return nil
		}
	}
}

// next returns deferred commands first, then waits on the inbox. A quiet
// interval produces a Refresh.
func (m *Master) next(ctx context.Context) (events.ScheduleCommand, bool) {
	if len(m.pending) > 0 {
		cmd := m.pending[0]
		m.pending = m.pending[1:]
		return cmd, true
	}
	select {
	case <-ctx.Done():
		return nil, false
	case cmd, ok := <-m.inbox.Recv():
		return cmd, ok
	case <-time.After(m.cfg.Interval):
		return timeoutRefresh{}, true
	}
}

// timeoutRefresh is a Refresh caused by the interval expiring.
type timeoutRefresh struct{ events.Refresh }

func (m *Master) handle(ctx context.Context, cmd events.ScheduleCommand) bool {
	switch c := cmd.(type) {
	case timeoutRefresh:
		return m.refresh(ctx, "interval")
	case events.Refresh:
		return m.refresh(ctx, "requested")
	case events.AddItem:
		trace.Scheduler.Command("add", c.BackendID)
		return m.add(ctx, c)
	case events.Close:
		trace.Scheduler.Command("close", c.BackendID)
		return m.close(ctx, c)
	case events.Reschedule:
		trace.Scheduler.Command("reschedule", c.BackendID)
		return m.reschedule(ctx, c)
	default:
		logging.Warnf("scheduler: ignoring %T", cmd)
		return true
	}
}

// collapse takes everything already queued. Refresh requests fold into the
// pass about to run; anything else waits in pending.
func (m *Master) collapse() int {
	folded := 0
	for {
		select {
		case cmd, ok := <-m.inbox.Recv():
			if !ok {
				return folded
			}
			if _, isRefresh := cmd.(events.Refresh); isRefresh {
				folded++
				continue
			}
			m.pending = append(m.pending, cmd)
		default:
			return folded
		}
	}
}

// refresh runs one pass over every backend. A failing backend is reported
// and skipped; its last good snapshot still goes into the merge.
func (m *Master) refresh(ctx context.Context, reason string) bool {
	if n := m.collapse(); n > 0 {
		trace.Scheduler.Collapsed(n)
	}

	for _, b := range m.backends {
		if err := b.Refresh(ctx); err != nil {
			berr := &schedule.BackendError{Backend: b.ID(), Op: "refresh", Err: err}
			logging.Error(berr)
			if !m.toast(berr.Error(), events.Error) {
				return false
			}
		}
	}

	m.items = schedule.Merge(m.backends)
	trace.Scheduler.Refresh(reason, len(m.items))
	return m.ui.Send(events.Schedules{Items: m.items})
}

func (m *Master) lookup(id string) (schedule.Backend, bool, bool) {
	b, err := schedule.Lookup(m.backends, id)
	if err != nil {
		logging.Warnf("scheduler: %v", err)
		return nil, false, m.toast(err.Error(), events.Error)
	}
	return b, true, true
}

func (m *Master) add(ctx context.Context, c events.AddItem) bool {
	b, found, alive := m.lookup(c.BackendID)
	if !found {
		return alive
	}

	due := m.cfg.Dates.DueDate(c.Text, m.cfg.Now())
	ok, err := b.Add(ctx, c.Text, due)
	switch {
	case err != nil:
		return m.fail(b.ID(), "add", err)
	case !ok:
		return m.toast(fmt.Sprintf("%s did not add %q", b.ID(), c.Text), events.Error)
	}
	m.inbox.Send(events.Refresh{})
	return m.toast(fmt.Sprintf("Added %q to %s.", c.Text, b.ID()), events.Normal)
}

func (m *Master) close(ctx context.Context, c events.Close) bool {
	b, found, alive := m.lookup(c.BackendID)
	if !found {
		return alive
	}

	ok, err := b.Remove(ctx, c.Matcher)
	switch {
	case err != nil:
		return m.fail(b.ID(), "remove", err)
	case !ok:
		return m.toast(fmt.Sprintf("Nothing in %s matches %q.", b.ID(), c.Matcher.String()), events.Error)
	}
	if !m.refresh(ctx, "close") {
		return false
	}
	return m.ui.Send(events.ClearSelection{})
}

func (m *Master) reschedule(ctx context.Context, c events.Reschedule) bool {
	b, found, alive := m.lookup(c.BackendID)
	if !found {
		return alive
	}

	due := m.cfg.Dates.DueDate(c.When, m.cfg.Now())
	ok, err := b.Update(ctx, c.Item.ID, c.Item.Description, due)
	switch {
	case err != nil:
		return m.fail(b.ID(), "update", err)
	case !ok:
		return m.toast(fmt.Sprintf("%s could not reschedule %q", b.ID(), c.Item.Description), events.Error)
	}
	return m.refresh(ctx, "reschedule")
}

func (m *Master) fail(backend, op string, err error) bool {
	berr := &schedule.BackendError{Backend: backend, Op: op, Err: err}
	logging.Error(berr)
	return m.toast(berr.Error(), events.Error)
}

func (m *Master) toast(text string, kind events.MessageKind) bool {
	return m.ui.Send(events.Toast{Message: events.NewMessage(text, kind, m.cfg.ToastTTL, m.cfg.Now())})
}

// Items is the last merged snapshot.
func (m *Master) Items() []schedule.Item {
	return append([]schedule.Item(nil), m.items...)
}

package ui

import (
	"context"
	"fmt"

	"tableflip.dev/todor/pkg/display"
	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/executor"
	"tableflip.dev/todor/pkg/logging"
	"tableflip.dev/todor/pkg/logging/trace"
)

// Renderer is where frames end up.
type Renderer interface {
	Size() (int, int)
	Draw(f *display.Frame) error
}

// Inbox is the UI queue as seen by its only reader.
type Inbox interface {
	Recv() <-chan events.UICommand
}

// Loop is the single reader of the UI queue. Every command either runs
// through the executor or the window stack, and a frame is drawn after each.
//
// Loop is also the executor's UI sender: what a command produces is handled
// before the next queued command, so typed-ahead lines see the panels the
// earlier lines opened.
type Loop struct {
	Inbox  Inbox
	Sched  events.ScheduleSender
	Stack  *display.WindowStack
	Exec   *executor.Executor
	Screen Renderer

	local []events.UICommand
}

// Send queues cmd behind the command being handled. Only the loop's own
// goroutine may call it.
func (l *Loop) Send(cmd events.UICommand) bool {
	l.local = append(l.local, cmd)
	return true
}

func (l *Loop) Run(ctx context.Context) error {
	l.render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd, ok := <-l.Inbox.Recv():
			if !ok {
				return nil
			}
			if !l.step(cmd) {
				trace.Loop.Exit()
				return nil
			}
			l.render()
		}
	}
}

// step handles cmd and then everything it produced locally.
func (l *Loop) step(cmd events.UICommand) bool {
	if !l.handle(cmd) {
		l.local = nil
		return false
	}
	for len(l.local) > 0 {
		next := l.local[0]
		l.local = l.local[1:]
		if !l.handle(next) {
			l.local = nil
			return false
		}
	}
	return true
}

func (l *Loop) handle(cmd events.UICommand) bool {
	trace.Loop.Receive(fmt.Sprintf("%T", cmd))
	switch c := cmd.(type) {
	case events.Exit:
		return false
	case events.Execute:
		l.Exec.Execute(c.Line)
	case events.ExecuteWithItem:
		l.Exec.ExecuteWithItem(c.Line, c.Item)
	case events.Add:
		l.Sched.Send(events.AddItem{BackendID: c.BackendID, Text: c.Text})
	case events.Submit:
		// Lines no panel claims are plain commands, run before anything
		// queued behind them.
		if !l.Stack.Dispatch(c) {
			l.Exec.Execute(c.Line)
		}
	case events.Redraw:
	default:
		l.Stack.Dispatch(cmd)
	}
	return true
}

func (l *Loop) render() {
	w, h := l.Screen.Size()
	f := display.NewFrame(w, h)
	l.Stack.Render(f)
	if err := l.Screen.Draw(f); err != nil {
		logging.Errorf("ui: draw: %v", err)
	}
}

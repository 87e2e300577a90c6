// Package trace holds the typed trace events written by each task.
package trace

import "tableflip.dev/todor/pkg/logging"

type SchedulerTracer struct{}

var Scheduler = SchedulerTracer{}

func (SchedulerTracer) Start(backends []string) {
	logging.Trace("scheduler.start", map[string]interface{}{"backends": backends})
}

func (SchedulerTracer) Refresh(reason string, items int) {
	logging.Trace("scheduler.refresh", map[string]interface{}{"reason": reason, "items": items})
}

func (SchedulerTracer) Collapsed(n int) {
	logging.Trace("scheduler.refresh.collapsed", map[string]interface{}{"count": n})
}

func (SchedulerTracer) Command(kind, backend string) {
	logging.Trace("scheduler.command", map[string]interface{}{"kind": kind, "backend": backend})
}

func (SchedulerTracer) Stop(reason string) {
	logging.Trace("scheduler.stop", map[string]interface{}{"reason": reason})
}

type WindowTracer struct{}

var Window = WindowTracer{}

func (WindowTracer) Push(name string, depth int) {
	logging.Trace("window.push", map[string]interface{}{"name": name, "depth": depth})
}

func (WindowTracer) Pop(name string, depth int) {
	logging.Trace("window.pop", map[string]interface{}{"name": name, "depth": depth})
}

func (WindowTracer) Unhandled(command string) {
	logging.Trace("window.unhandled", map[string]interface{}{"command": command})
}

type InputTracer struct{}

var Input = InputTracer{}

func (InputTracer) Submit(line string) {
	logging.Trace("input.submit", map[string]interface{}{"line": line})
}

func (InputTracer) Stop(reason string) {
	logging.Trace("input.stop", map[string]interface{}{"reason": reason})
}

type CommandTracer struct{}

var Command = CommandTracer{}

func (CommandTracer) Execute(head, remainder string, selected bool) {
	logging.Trace("command.execute", map[string]interface{}{"head": head, "remainder": remainder, "selected": selected})
}

func (CommandTracer) Unknown(head string) {
	logging.Trace("command.unknown", map[string]interface{}{"head": head})
}

type LoopTracer struct{}

var Loop = LoopTracer{}

func (LoopTracer) Receive(command string) {
	logging.Trace("loop.receive", map[string]interface{}{"command": command})
}

func (LoopTracer) Exit() {
	logging.Trace("loop.exit", nil)
}

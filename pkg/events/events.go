// Package events is the message vocabulary exchanged between the input
// reader, the dispatch loop, the window stack and the master scheduler.
package events

import (
	"time"

	"tableflip.dev/todor/pkg/bus"
	"tableflip.dev/todor/pkg/schedule"
)

// UICommand is anything the dispatch loop consumes.
type UICommand interface {
	uiCommand()
}

// ScheduleCommand is anything the master scheduler consumes.
type ScheduleCommand interface {
	scheduleCommand()
}

type (
	UISender       = bus.Sender[UICommand]
	ScheduleSender = bus.Sender[ScheduleCommand]
)

// Schedules is a full replacement of the merged item list.
type Schedules struct{ Items []schedule.Item }

// Schedulers lists the registered backend ids.
type Schedulers struct{ IDs []string }

type Toast struct{ Message PromptMessage }

type UpdatePrompt struct{ Prompt string }

type UpdateUserInput struct{ Input string }

// Submit carries the line the user pressed enter on.
type Submit struct{ Line string }

type ExecuteWithItem struct {
	Line string
	Item schedule.Item
}

type Execute struct{ Line string }

type PanelPush struct{ Name string }

type PanelPop struct{}

type ClearSelection struct{}

type SelectPrev struct{}

type SelectNext struct{}

// RequestBackendForAdd hands the pending add text to a backend picker.
type RequestBackendForAdd struct{ Text string }

type Add struct {
	BackendID string
	Text      string
}

// Redraw asks for a render pass with no state change.
type Redraw struct{}

type Exit struct{}

func (Schedules) uiCommand()            {}
func (Schedulers) uiCommand()           {}
func (Toast) uiCommand()                {}
func (UpdatePrompt) uiCommand()         {}
func (UpdateUserInput) uiCommand()      {}
func (Submit) uiCommand()               {}
func (ExecuteWithItem) uiCommand()      {}
func (Execute) uiCommand()              {}
func (PanelPush) uiCommand()            {}
func (PanelPop) uiCommand()             {}
func (ClearSelection) uiCommand()       {}
func (SelectPrev) uiCommand()           {}
func (SelectNext) uiCommand()           {}
func (RequestBackendForAdd) uiCommand() {}
func (Add) uiCommand()                  {}
func (Redraw) uiCommand()               {}
func (Exit) uiCommand()                 {}

type Refresh struct{}

type AddItem struct {
	BackendID string
	Text      string
}

type Close struct {
	BackendID string
	Matcher   schedule.Matcher
}

// Reschedule moves an item to the date found in When.
type Reschedule struct {
	BackendID string
	Item      schedule.Item
	When      string
}

func (Refresh) scheduleCommand()    {}
func (AddItem) scheduleCommand()    {}
func (Close) scheduleCommand()      {}
func (Reschedule) scheduleCommand() {}

// MessageKind styles a toast.
type MessageKind int

const (
	Normal MessageKind = iota
	Error
)

const DefaultToastTTL = 10 * time.Second

// PromptMessage is a status line message that disappears after Expires.
type PromptMessage struct {
	Text    string
	Expires time.Time
	Kind    MessageKind
}

func NewMessage(text string, kind MessageKind, ttl time.Duration, now time.Time) PromptMessage {
	return PromptMessage{Text: text, Kind: kind, Expires: now.Add(ttl)}
}

func (m PromptMessage) Expired(now time.Time) bool {
	return !now.Before(m.Expires)
}

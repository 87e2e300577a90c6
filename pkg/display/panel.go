// Package display holds the window stack and the panels it routes commands
// through.
package display

import (
	"strings"
	"time"

	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/schedule"
)

const (
	PanelPrompt = "prompt"
	PanelList   = "list"
	PanelPicker = "picker"
)

// Panel is one interactive region of the screen.
type Panel interface {
	ID() string
	Active() bool
	Enable()
	Disable()
	// Handle reports whether the panel consumed cmd.
	Handle(cmd events.UICommand) bool
	Render(f *Frame)
	SelectedItem() (schedule.Item, bool)
}

type toggle struct {
	active bool
}

func (t *toggle) Active() bool { return t.active }
func (t *toggle) Enable()      { t.active = true }
func (t *toggle) Disable()     { t.active = false }

// head splits a command line into its lower cased verb and the rest.
func head(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	fields := strings.Fields(line)
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
	return strings.ToLower(fields[0]), rest
}

// clamp keeps a selection index within [-1, n-1].
func clamp(idx, n int) int {
	if idx > n-1 {
		idx = n - 1
	}
	if idx < -1 {
		idx = -1
	}
	return idx
}

// Options configures the panels built by Factories.
type Options struct {
	MaxWidth int
	Now      func() time.Time
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Factory builds a panel by name from the known backend ids.
type Factory func(backends []string) Panel

// Factories returns the panel constructors used for PanelPush.
func Factories(ui events.UISender, opts Options) map[string]Factory {
	return map[string]Factory{
		PanelList: func(_ []string) Panel {
			return NewScheduleList(ui, opts)
		},
		PanelPicker: func(backends []string) Panel {
			return NewBackendPicker(backends, ui)
		},
	}
}

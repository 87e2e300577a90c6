package display

import (
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/schedule"
)

const pickerPrompt = "backend #>"

// BackendPicker is the modal that asks which backend a new item goes to. A
// submit picks the backend named (or numbered) on the line, falling back to
// the highlighted one, and always closes the picker.
type BackendPicker struct {
	toggle

	backends []string
	ui       events.UISender
	selected int
	pending  *string
}

func NewBackendPicker(backends []string, ui events.UISender) *BackendPicker {
	return &BackendPicker{
		toggle:   toggle{active: true},
		backends: append([]string(nil), backends...),
		ui:       ui,
		selected: -1,
	}
}

func (p *BackendPicker) ID() string { return PanelPicker }

func (p *BackendPicker) Handle(cmd events.UICommand) bool {
	switch c := cmd.(type) {
	case events.RequestBackendForAdd:
		text := c.Text
		p.pending = &text
		p.ui.Send(events.UpdatePrompt{Prompt: pickerPrompt})
	case events.SelectNext:
		p.selected = clamp(p.selected+1, len(p.backends))
	case events.SelectPrev:
		p.selected = clamp(p.selected-1, len(p.backends))
	case events.ClearSelection:
		p.selected = -1
	case events.Submit:
		if id, ok := p.choose(c.Line); ok && p.pending != nil {
			p.ui.Send(events.Add{BackendID: id, Text: *p.pending})
		}
		p.ui.Send(events.UpdatePrompt{Prompt: defaultPrompt})
		p.ui.Send(events.PanelPop{})
	default:
		return false
	}
	return true
}

func (p *BackendPicker) choose(line string) (string, bool) {
	typed := strings.TrimSpace(line)
	if typed != "" {
		for _, id := range p.backends {
			if strings.EqualFold(id, typed) {
				return id, true
			}
		}
		if n, err := strconv.Atoi(typed); err == nil && n >= 1 && n <= len(p.backends) {
			return p.backends[n-1], true
		}
	}
	if p.selected >= 0 && p.selected < len(p.backends) {
		return p.backends[p.selected], true
	}
	return "", false
}

// Pending is the text waiting for a backend, if any.
func (p *BackendPicker) Pending() (string, bool) {
	if p.pending == nil {
		return "", false
	}
	return *p.pending, true
}

func (p *BackendPicker) Render(f *Frame) {
	f.Clear()
	f.Println("Select Scheduler:")
	f.Println("-------------")
	for i, id := range p.backends {
		marker := "  "
		if i == p.selected {
			marker = "> "
		}
		f.Println(fmt.Sprintf("%s%d. %s", marker, i+1, id))
	}
}

func (p *BackendPicker) SelectedItem() (schedule.Item, bool) {
	return schedule.Item{}, false
}

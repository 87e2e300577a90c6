package display

import (
	"fmt"

	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/logging/trace"
	"tableflip.dev/todor/pkg/schedule"
)

// WindowStack routes commands through its panels top down. The prompt sits at
// index 0 for the life of the stack; everything above it is pushed and
// popped by name.
type WindowStack struct {
	panels    []Panel
	backends  []string
	factories map[string]Factory
}

func NewWindowStack(prompt Panel, factories map[string]Factory) *WindowStack {
	prompt.Enable()
	return &WindowStack{
		panels:    []Panel{prompt},
		factories: factories,
	}
}

func (s *WindowStack) Push(p Panel) {
	p.Enable()
	s.panels = append(s.panels, p)
	trace.Window.Push(p.ID(), len(s.panels))
}

// Pop never removes the prompt.
func (s *WindowStack) Pop() {
	if len(s.panels) == 1 {
		return
	}
	top := s.panels[len(s.panels)-1]
	top.Disable()
	s.panels = s.panels[:len(s.panels)-1]
	trace.Window.Pop(top.ID(), len(s.panels))
}

// PushNamed builds a panel with the named factory. Unknown names are ignored.
func (s *WindowStack) PushNamed(name string) bool {
	factory, ok := s.factories[name]
	if !ok {
		return false
	}
	s.Push(factory(append([]string(nil), s.backends...)))
	return true
}

// Dispatch reports whether anything consumed cmd.
func (s *WindowStack) Dispatch(cmd events.UICommand) bool {
	switch c := cmd.(type) {
	case events.PanelPush:
		return s.PushNamed(c.Name)
	case events.PanelPop:
		s.Pop()
		return true
	case events.Schedulers:
		s.backends = append([]string(nil), c.IDs...)
		s.offer(cmd)
		return true
	}
	if s.offer(cmd) {
		return true
	}
	trace.Window.Unhandled(fmt.Sprintf("%T", cmd))
	return false
}

func (s *WindowStack) offer(cmd events.UICommand) bool {
	for i := len(s.panels) - 1; i >= 0; i-- {
		p := s.panels[i]
		if !p.Active() {
			continue
		}
		if p.Handle(cmd) {
			return true
		}
	}
	return false
}

// Render draws the active panels bottom up and the prompt last.
func (s *WindowStack) Render(f *Frame) {
	for _, p := range s.panels[1:] {
		if p.Active() {
			p.Render(f)
		}
	}
	s.panels[0].Render(f)
}

// SelectedItem is the selection of the topmost panel that has one.
func (s *WindowStack) SelectedItem() (schedule.Item, bool) {
	for i := len(s.panels) - 1; i >= 0; i-- {
		if it, ok := s.panels[i].SelectedItem(); ok {
			return it, true
		}
	}
	return schedule.Item{}, false
}

func (s *WindowStack) Len() int { return len(s.panels) }

func (s *WindowStack) Top() Panel { return s.panels[len(s.panels)-1] }

func (s *WindowStack) At(i int) Panel { return s.panels[i] }

func (s *WindowStack) Backends() []string {
	return append([]string(nil), s.backends...)
}

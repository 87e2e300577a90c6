package display

import (
	"time"

	"github.com/fatih/color"

	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/schedule"
)

const defaultPrompt = ":>"

var (
	toastNormal = color.New(color.FgCyan)
	toastError  = color.New(color.FgRed, color.Bold)
)

// Prompt is the input line pinned to the bottom of the screen, with room for
// one toast message above it.
type Prompt struct {
	toggle

	ui      events.UISender
	now     func() time.Time
	prompt  string
	input   string
	message *events.PromptMessage
	timer   *time.Timer
}

func NewPrompt(ui events.UISender, opts Options) *Prompt {
	return &Prompt{
		toggle: toggle{active: true},
		ui:     ui,
		now:    opts.now,
		prompt: defaultPrompt,
	}
}

func (p *Prompt) ID() string { return PanelPrompt }

func (p *Prompt) Handle(cmd events.UICommand) bool {
	switch c := cmd.(type) {
	case events.UpdateUserInput:
		p.input = c.Input
	case events.UpdatePrompt:
		p.prompt = c.Prompt
	case events.Toast:
		msg := c.Message
		p.message = &msg
		p.expireLater(msg)
	case events.Redraw:
	default:
		return false
	}
	return true
}

// expireLater asks for one more render once the toast has gone stale.
func (p *Prompt) expireLater(msg events.PromptMessage) {
	if p.ui == nil {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	wait := msg.Expires.Sub(p.now())
	if wait < 0 {
		wait = 0
	}
	ui := p.ui
	p.timer = time.AfterFunc(wait, func() {
		ui.Send(events.Redraw{})
	})
}

func (p *Prompt) Render(f *Frame) {
	line := p.prompt + " " + p.input
	if p.message == nil || p.message.Expired(p.now()) {
		f.SetFooter(line)
		return
	}
	style := toastNormal
	if p.message.Kind == events.Error {
		style = toastError
	}
	f.SetFooter(style.Sprint(p.message.Text), line)
}

func (p *Prompt) SelectedItem() (schedule.Item, bool) {
	return schedule.Item{}, false
}

func (p *Prompt) Input() string { return p.input }

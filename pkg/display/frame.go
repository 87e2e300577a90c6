package display

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// Frame collects one render pass. Panels write body lines top down; the
// prompt owns the footer, which always lands on the last rows.
type Frame struct {
	Width  int
	Height int

	body   []string
	footer []string
}

func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height}
}

// Clear drops the body so a full screen panel can draw over what is below it.
func (f *Frame) Clear() {
	f.body = f.body[:0]
}

// Println appends text, splitting embedded newlines into separate rows.
func (f *Frame) Println(text string) {
	f.body = append(f.body, strings.Split(text, "\n")...)
}

func (f *Frame) SetFooter(lines ...string) {
	f.footer = append([]string(nil), lines...)
}

func (f *Frame) Body() []string {
	return append([]string(nil), f.body...)
}

func (f *Frame) Footer() []string {
	return append([]string(nil), f.footer...)
}

// Lines lays the frame out as screen rows. With a known height the body is
// cut to fit and blank rows push the footer to the bottom.
func (f *Frame) Lines() []string {
	body := f.body
	if f.Height > 0 {
		room := f.Height - len(f.footer)
		if room < 0 {
			room = 0
		}
		if len(body) > room {
			body = body[:room]
		}
	}

	out := make([]string, 0, len(body)+len(f.footer))
	for _, l := range body {
		out = append(out, f.fit(l))
	}
	if f.Height > 0 {
		for len(out)+len(f.footer) < f.Height {
			out = append(out, "")
		}
	}
	for _, l := range f.footer {
		out = append(out, f.fit(l))
	}
	return out
}

func (f *Frame) fit(line string) string {
	line = strings.ReplaceAll(line, "\t", "    ")
	if f.Width > 0 && ansi.PrintableRuneWidth(line) > f.Width {
		return truncate.String(line, uint(f.Width))
	}
	return line
}

func (f *Frame) String() string {
	return strings.Join(f.Lines(), "\n")
}

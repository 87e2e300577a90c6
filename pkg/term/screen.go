package term

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"tableflip.dev/todor/pkg/display"
)

var ErrNotTerminal = errors.New("term: not a terminal")

// Screen is a raw mode terminal in the alternate screen.
type Screen struct {
	in    *os.File
	out   io.Writer
	outFd int
	state *term.State
	drawn bool
}

// Open switches in to raw mode and the alternate screen. Close undoes both.
func Open(in, out *os.File) (*Screen, error) {
	if !isatty.IsTerminal(in.Fd()) || !isatty.IsTerminal(out.Fd()) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("term: raw mode: %w", err)
	}
	s := &Screen{in: in, out: out, outFd: int(out.Fd()), state: state}

	o := termenv.NewOutput(out)
	o.AltScreen()
	o.ClearScreen()
	return s, nil
}

// Keys decodes key presses from the terminal input.
func (s *Screen) Keys() *Decoder {
	return NewDecoder(s.in)
}

// Size is the terminal width and height, with a fallback when unknown.
func (s *Screen) Size() (int, int) {
	w, h, err := term.GetSize(s.outFd)
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// Draw repaints every row of f and leaves the cursor after the prompt.
func (s *Screen) Draw(f *display.Frame) error {
	var buf bytes.Buffer
	writeFrame(&buf, f, !s.drawn)
	s.drawn = true
	_, err := s.out.Write(buf.Bytes())
	return err
}

func writeFrame(w io.Writer, f *display.Frame, clear bool) {
	o := termenv.NewOutput(w)
	if clear {
		o.ClearScreen()
	}
	lines := f.Lines()
	for i, line := range lines {
		o.MoveCursor(i+1, 1)
		_, _ = io.WriteString(w, line)
		o.ClearLineRight()
	}
	if n := len(lines); n > 0 {
		o.MoveCursor(n, ansi.PrintableRuneWidth(lines[n-1])+1)
	}
}

func (s *Screen) Close() error {
	o := termenv.NewOutput(s.out)
	o.ExitAltScreen()
	o.ShowCursor()
	if s.state == nil {
		return nil
	}
	return term.Restore(int(s.in.Fd()), s.state)
}

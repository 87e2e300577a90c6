// Package input turns a stream of key presses into UI commands while keeping
// the line the user is typing.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode"

	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/logging/trace"
)

type KeyKind int

const (
	KeyUnknown KeyKind = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyCtrlC
	KeyCtrlD
	KeyCtrlU
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyDelete
	KeyPageUp
	KeyPageDown
)

type Key struct {
	Kind KeyKind
	Rune rune
}

func Rune(r rune) Key { return Key{Kind: KeyRune, Rune: r} }

// KeySource blocks until the next key. io.EOF means the input is gone.
type KeySource interface {
	Next() (Key, error)
}

// Reader owns the line buffer. Every change to the buffer is followed by an
// UpdateUserInput so the prompt can mirror it.
type Reader struct {
	keys KeySource
	ui   events.UISender
	buf  []rune
}

func NewReader(keys KeySource, ui events.UISender) *Reader {
	return &Reader{keys: keys, ui: ui}
}

// Run reads keys until Ctrl-C, Ctrl-D, end of input, a read error, a
// cancelled ctx or a closed UI queue.
func (r *Reader) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			trace.Input.Stop("cancelled")
			return nil
		}
		k, err := r.keys.Next()
		if err != nil {
			r.ui.Send(events.Exit{})
			if errors.Is(err, io.EOF) {
				trace.Input.Stop("eof")
				return nil
			}
			trace.Input.Stop("error")
			return fmt.Errorf("input: read key: %w", err)
		}
		if !r.Handle(k) {
			return nil
		}
	}
}

// Handle applies one key. It reports false when the reader should stop.
func (r *Reader) Handle(k Key) bool {
	switch k.Kind {
	case KeyRune:
		if !unicode.IsPrint(k.Rune) {
			return true
		}
		r.buf = append(r.buf, k.Rune)
		return r.sync()
	case KeyEnter:
		line := string(r.buf)
		trace.Input.Submit(line)
		if !r.ui.Send(events.Submit{Line: line}) {
			return false
		}
		r.buf = r.buf[:0]
		return r.sync()
	case KeyBackspace:
		if len(r.buf) > 0 {
			r.buf = r.buf[:len(r.buf)-1]
		}
		return r.sync()
	case KeyCtrlU:
		r.buf = r.buf[:0]
		return r.sync()
	case KeyCtrlC, KeyCtrlD:
		r.ui.Send(events.Exit{})
		trace.Input.Stop("exit")
		return false
	case KeyEscape:
		return r.ui.Send(events.ClearSelection{})
	case KeyUp:
		return r.ui.Send(events.SelectPrev{})
	case KeyDown:
		return r.ui.Send(events.SelectNext{})
	default:
		return true
	}
}

func (r *Reader) sync() bool {
	return r.ui.Send(events.UpdateUserInput{Input: string(r.buf)})
}

func (r *Reader) Buffer() string {
	return string(r.buf)
}

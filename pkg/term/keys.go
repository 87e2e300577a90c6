// Package term owns the real terminal: raw mode, key decoding and drawing
// frames.
package term

import (
	"bufio"
	"io"

	"tableflip.dev/todor/pkg/input"
)

// Decoder reads key presses from a raw mode terminal.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

func (d *Decoder) Next() (input.Key, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return input.Key{}, err
	}

	switch b {
	case 0x03:
		return input.Key{Kind: input.KeyCtrlC}, nil
	case 0x04:
		return input.Key{Kind: input.KeyCtrlD}, nil
	case 0x15:
		return input.Key{Kind: input.KeyCtrlU}, nil
	case 0x7f, 0x08:
		return input.Key{Kind: input.KeyBackspace}, nil
	case '\r', '\n':
		return input.Key{Kind: input.KeyEnter}, nil
	case '\t':
		return input.Key{Kind: input.KeyTab}, nil
	case 0x1b:
		return d.escape()
	}

	if b < 0x20 {
		return input.Key{Kind: input.KeyUnknown}, nil
	}
	if err := d.r.UnreadByte(); err != nil {
		return input.Key{}, err
	}
	r, _, err := d.r.ReadRune()
	if err != nil {
		return input.Key{}, err
	}
	return input.Rune(r), nil
}

// escape decodes CSI and SS3 sequences. An ESC with nothing behind it in the
// buffer is the escape key itself.
func (d *Decoder) escape() (input.Key, error) {
	if d.r.Buffered() == 0 {
		return input.Key{Kind: input.KeyEscape}, nil
	}
	intro, err := d.r.ReadByte()
	if err != nil {
		return input.Key{}, err
	}
	if intro != '[' && intro != 'O' {
		// Alt+key: drop the ESC, the key itself is read next.
		if err := d.r.UnreadByte(); err != nil {
			return input.Key{}, err
		}
		return input.Key{Kind: input.KeyUnknown}, nil
	}

	var params []byte
	for {
		c, err := d.r.ReadByte()
		if err != nil {
			return input.Key{}, err
		}
		if c >= 0x40 && c <= 0x7e {
			return input.Key{Kind: finalKey(c, string(params))}, nil
		}
		params = append(params, c)
		if len(params) > 16 {
			return input.Key{Kind: input.KeyUnknown}, nil
		}
	}
}

func finalKey(final byte, params string) input.KeyKind {
	switch final {
	case 'A':
		return input.KeyUp
	case 'B':
		return input.KeyDown
	case 'C':
		return input.KeyRight
	case 'D':
		return input.KeyLeft
	case 'H':
		return input.KeyHome
	case 'F':
		return input.KeyEnd
	case '~':
		switch params {
		case "1", "7":
			return input.KeyHome
		case "4", "8":
			return input.KeyEnd
		case "3":
			return input.KeyDelete
		case "5":
			return input.KeyPageUp
		case "6":
			return input.KeyPageDown
		}
	}
	return input.KeyUnknown
}

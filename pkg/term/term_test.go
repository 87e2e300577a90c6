package term

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"tableflip.dev/todor/pkg/display"
	"tableflip.dev/todor/pkg/input"
)

func decodeAll(t *testing.T, raw string) []input.Key {
	t.Helper()
	d := NewDecoder(strings.NewReader(raw))
	var keys []input.Key
	for {
		k, err := d.Next()
		if errors.Is(err, io.EOF) {
			return keys
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		keys = append(keys, k)
	}
}

func TestDecodeKeys(t *testing.T) {
	keys := decodeAll(t, "aé\r\x7f\x15\x03\x04\x1b[A\x1b[B\x1b[3~\x1bOH\x01")
	want := []input.Key{
		input.Rune('a'),
		input.Rune('é'),
		{Kind: input.KeyEnter},
		{Kind: input.KeyBackspace},
		{Kind: input.KeyCtrlU},
		{Kind: input.KeyCtrlC},
		{Kind: input.KeyCtrlD},
		{Kind: input.KeyUp},
		{Kind: input.KeyDown},
		{Kind: input.KeyDelete},
		{Kind: input.KeyHome},
		{Kind: input.KeyUnknown},
	}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d: %v", len(want), len(keys), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: expected %#v, got %#v", i, want[i], keys[i])
		}
	}
}

func TestDecodeLoneEscape(t *testing.T) {
	keys := decodeAll(t, "\x1b")
	if len(keys) != 1 || keys[0].Kind != input.KeyEscape {
		t.Fatalf("expected a single escape, got %v", keys)
	}
}

func TestDecodeAltKeepsKey(t *testing.T) {
	keys := decodeAll(t, "\x1bxy")
	want := []input.Key{{Kind: input.KeyUnknown}, input.Rune('x'), input.Rune('y')}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d: %v", len(want), len(keys), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: expected %#v, got %#v", i, want[i], keys[i])
		}
	}
}

func TestWriteFrame(t *testing.T) {
	f := display.NewFrame(20, 3)
	f.Println("hello")
	f.SetFooter(":> hi")

	var buf bytes.Buffer
	writeFrame(&buf, f, false)
	out := buf.String()

	if !strings.Contains(out, "\x1b[1;1Hhello") {
		t.Fatalf("expected first row drawn at the top, got %q", out)
	}
	if !strings.Contains(out, "\x1b[3;1H:> hi") {
		t.Fatalf("expected prompt on the last row, got %q", out)
	}
	if !strings.HasSuffix(out, "\x1b[3;6H") {
		t.Fatalf("expected cursor parked after the prompt, got %q", out)
	}
}

func TestOpenRejectsNonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	defer f.Close()
	if _, err := Open(f, f); !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}
}

// Package strike closes an item from the command line.
package strike

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/todor/pkg/schedule"
)

// ErrNoMatch means the backend had nothing the id or text refers to.
var ErrNoMatch = errors.New("nothing matched")

type Strike struct {
	Backend schedule.Backend
	// ID is a full item id as shown by "get --id". It wins over Text.
	ID   string
	Text string

	Out io.Writer
}

func (n *Strike) Do(ctx context.Context) error {
	if n.Backend == nil {
		return errors.New("can not strike, no backend")
	}
	m := schedule.Fuzzy(n.Text)
	if n.ID != "" {
		m = schedule.Matcher{ID: n.ID, Exact: true}
	}
	if m.Empty() {
		return errors.New("can not strike, give an id or some text")
	}

	ok, err := n.Backend.Remove(ctx, m)
	if err != nil {
		return &schedule.BackendError{Backend: n.Backend.ID(), Op: "close", Err: err}
	}
	if !ok {
		return fmt.Errorf("%s: %q: %w", n.Backend.ID(), m.String(), ErrNoMatch)
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	s := color.New(color.CrossedOut)
	_, _ = fmt.Fprint(out, "Closed ")
	_, _ = s.Fprint(out, strings.TrimSpace(m.String()))
	_, _ = fmt.Fprintf(out, " on %s\n", n.Backend.ID())
	return nil
}

package add

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/todor/pkg/dateparse"
	"tableflip.dev/todor/pkg/format"
	"tableflip.dev/todor/pkg/schedule"
)

const layoutUS = "January 2, 2006"

// Add hands one new item to a backend. Without Due, the due date is read
// out of the text the same way the interactive add does it.
type Add struct {
	Backend schedule.Backend
	Text    string
	Due     *time.Time

	Out io.Writer
	Now func() time.Time
}

func (n *Add) Do(ctx context.Context) error {
	if n.Backend == nil {
		return errors.New("can not add, no backend")
	}
	text := strings.TrimSpace(n.Text)
	if text == "" {
		return errors.New("can not add an empty item")
	}
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	due := dateparse.New().DueDate(text, now())
	if n.Due != nil {
		due = *n.Due
	}

	ok, err := n.Backend.Add(ctx, text, due)
	if err != nil {
		return &schedule.BackendError{Backend: n.Backend.ID(), Op: "add", Err: err}
	}
	if !ok {
		return fmt.Errorf("%s did not accept %q", n.Backend.ID(), text)
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	c := color.New(color.Faint)
	_, _ = fmt.Fprintf(out, "Added %q to %s ", text, n.Backend.ID())
	_, _ = c.Fprintf(out, "(%s %s)\n", due.Format(layoutUS), format.Clock(due))
	return nil
}

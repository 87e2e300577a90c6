package get

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/todor/pkg/logging"
	"tableflip.dev/todor/pkg/printers"
	"tableflip.dev/todor/pkg/schedule"
)

// Get refreshes every backend once and prints the merged schedule.
type Get struct {
	Backends []schedule.Backend
	ShowID   bool
	JSON     bool
	Out      io.Writer
	Now      func() time.Time
}

type result struct {
	Items  []schedule.Item   `json:"items"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (n *Get) Do(ctx context.Context) error {
	if len(n.Backends) == 0 {
		return errors.New("can not get, no backends")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	res := result{Items: []schedule.Item{}}
	var errs []error
	for _, b := range n.Backends {
		if err := b.Refresh(ctx); err != nil {
			err = &schedule.BackendError{Backend: b.ID(), Op: "refresh", Err: err}
			logging.Error(err)
			errs = append(errs, err)
			if res.Errors == nil {
				res.Errors = map[string]string{}
			}
			res.Errors[b.ID()] = err.Error()
		}
	}
	// One working backend is enough to print something.
	if len(errs) == len(n.Backends) {
		return errors.Join(errs...)
	}
	res.Items = append(res.Items, schedule.Merge(n.Backends)...)

	if n.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: out, Now: now()}
	pp.NewLine()
	pp.Schedule(res.Items...)
	warn := color.New(color.FgRed, color.Faint)
	for _, err := range errs {
		_, _ = warn.Fprintln(out, fmt.Sprintf("! %v", err))
	}
	return nil
}

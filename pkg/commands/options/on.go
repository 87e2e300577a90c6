package options

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/todor/pkg/dateparse"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOTime  = "2006-1-2 15:04"
	layoutISOShort = "1/2"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify the due date, example: --on="2020-2-28", --on="2020-2-28 14:30", --on="2/28" or --on="next friday".`)
}

// GetOn returns nil when --on was not given. Dates without a time of day are
// due at the end of that day.
func (o *OnOptions) GetOn(now time.Time) (*time.Time, error) {
	if o.OnString == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(layoutISOTime, o.OnString, now.Location()); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation(layoutISO, o.OnString, now.Location()); err == nil {
		t = dateparse.EndOfDay(t)
		return &t, nil
	}
	if t, err := time.ParseInLocation(layoutISOShort, o.OnString, now.Location()); err == nil {
		// Let the year be the same.
		t = dateparse.EndOfDay(t.AddDate(now.Year(), 0, 0))
		// 1/3 asked for on 12/5 means next year, not 11 months ago.
		if t.Before(now) {
			t = t.AddDate(1, 0, 0)
		}
		return &t, nil
	}
	if t, ok := dateparse.New().Parse(o.OnString, now); ok {
		t = dateparse.EndOfDay(t)
		return &t, nil
	}
	return nil, fmt.Errorf("can not read a date from --on=%q", o.OnString)
}

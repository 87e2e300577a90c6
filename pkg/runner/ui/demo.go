package ui

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/todor/pkg/schedule"
)

type demoEntry struct {
	text string
	in   time.Duration
}

var demoEntries = []demoEntry{
	{"stand up with the team", 2 * time.Minute},
	{"review the release notes", 8 * time.Minute},
	{"lunch", 3 * time.Hour},
	{"call the dentist back", 5 * time.Hour},
	{"water the plants", 26 * time.Hour},
	{"renew passport", 3 * 24 * time.Hour},
}

// SeedDemo fills b with entries spread from a few minutes to a few days
// after now, so every colour and grouping shows up in the view.
func SeedDemo(ctx context.Context, b schedule.Backend, now time.Time) (int, error) {
	added := 0
	for _, e := range demoEntries {
		ok, err := b.Add(ctx, e.text, now.Add(e.in).Truncate(time.Minute))
		if err != nil {
			return added, fmt.Errorf("demo: add %q: %w", e.text, err)
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// Package registry builds the configured backends in a fixed order: journals,
// task lists, Todoist projects, then Google calendars.
package registry

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/todor/pkg/backend/gcal"
	"tableflip.dev/todor/pkg/backend/journal"
	"tableflip.dev/todor/pkg/backend/tasks"
	"tableflip.dev/todor/pkg/backend/todoist"
	"tableflip.dev/todor/pkg/config"
	"tableflip.dev/todor/pkg/schedule"
)

// Registry owns the backends and anything they hold open.
type Registry struct {
	Backends []schedule.Backend
	Journals []*journal.Backend

	closers []func() error
}

// Build constructs every backend. Any failure is a *schedule.StartupError
// and closes what was already opened.
func Build(ctx context.Context, cfg *config.Config) (*Registry, error) {
	r := &Registry{}
	seen := map[string]bool{}
	add := func(b schedule.Backend) error {
		if seen[b.ID()] {
			return &schedule.StartupError{Backend: b.ID(), Err: errors.New("duplicate backend id")}
		}
		seen[b.ID()] = true
		r.Backends = append(r.Backends, b)
		return nil
	}
	fail := func(err error) (*Registry, error) {
		r.Close()
		return nil, err
	}

	for _, jc := range cfg.Journals {
		b, err := journal.New(jc.Name, jc.Path)
		if err != nil {
			return fail(&schedule.StartupError{Backend: "journal:" + jc.Name, Err: err})
		}
		if err := add(b); err != nil {
			return fail(err)
		}
		r.Journals = append(r.Journals, b)
	}

	for _, tc := range cfg.Tasks {
		if tc.Path == "" {
			return fail(&schedule.StartupError{Backend: "tasks:" + tc.Name, Err: errors.New("path required")})
		}
		b, err := tasks.Open(ctx, tc.Name, tc.Path)
		if err != nil {
			return fail(&schedule.StartupError{Backend: "tasks:" + tc.Name, Err: err})
		}
		r.closers = append(r.closers, b.Close)
		if err := add(b); err != nil {
			return fail(err)
		}
	}

	for _, tc := range cfg.Todoist {
		token := tc.Token
		if token == "" {
			if tc.TokenFile == "" {
				return fail(&schedule.StartupError{Backend: "todoist:" + tc.Name, Err: errors.New("token or token_file required")})
			}
			var err error
			if token, err = todoist.LoadToken(tc.TokenFile); err != nil {
				return fail(&schedule.StartupError{Backend: "todoist:" + tc.Name, Err: err})
			}
		}
		if err := add(todoist.New(tc.Name, tc.Project, todoist.NewClient(token))); err != nil {
			return fail(err)
		}
	}

	for _, gc := range cfg.GoogleCal {
		svc, err := gcal.NewService(ctx, gc.Credentials, gc.Token)
		if err != nil {
			return fail(&schedule.StartupError{Backend: "gcal:" + gc.Name, Err: err})
		}
		if err := add(gcal.New(gc.Name, gc.Calendar, gc.Days, svc)); err != nil {
			return fail(err)
		}
	}

	if len(r.Backends) == 0 {
		return fail(&schedule.StartupError{Err: errors.New("no backends configured")})
	}
	return r, nil
}

// DefaultBackend is the configured default, or the first backend when none
// is configured. A configured id that does not exist is an error.
func (r *Registry) DefaultBackend(configured string) (string, error) {
	if configured == "" {
		return r.Backends[0].ID(), nil
	}
	if _, err := schedule.Lookup(r.Backends, configured); err != nil {
		return "", fmt.Errorf("default_backend: %w", err)
	}
	return configured, nil
}

func (r *Registry) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

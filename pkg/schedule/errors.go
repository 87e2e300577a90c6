package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMatch is returned by backends when a Matcher selects nothing.
var ErrNoMatch = errors.New("no matching item")

// BackendError wraps a failure inside a single backend call.
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// RoutingMissError means a command named a backend that is not registered.
type RoutingMissError struct {
	ID    string
	Known []string
}

func (e *RoutingMissError) Error() string {
	return fmt.Sprintf("could not find backend '%s', known backends: [%s]", e.ID, strings.Join(e.Known, ", "))
}

// StartupError means the backend registry could not be built.
type StartupError struct {
	Backend string
	Err     error
}

func (e *StartupError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("startup: %v", e.Err)
	}
	return fmt.Sprintf("startup: backend %s: %v", e.Backend, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

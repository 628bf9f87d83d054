package ondevice

import (
	"errors"
	"fmt"

	"reflectd/pkg/types"
)

// DependencyUnavailableError indicates a runtime dependency is missing from
// this build or host (build tag, executable, model file).
type DependencyUnavailableError struct{ Msg string }

func (e DependencyUnavailableError) Error() string { return "dependency unavailable: " + e.Msg }

// ErrDependencyUnavailable constructs a DependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return DependencyUnavailableError{Msg: msg} }

// IsDependencyUnavailable reports whether err is (or wraps) a DependencyUnavailableError.
func IsDependencyUnavailable(err error) bool {
	var d DependencyUnavailableError
	return errors.As(err, &d)
}

// UnsupportedTaskError is returned when no engine serves a task on-device.
type UnsupportedTaskError struct{ Task types.Task }

func (e UnsupportedTaskError) Error() string {
	return fmt.Sprintf("task %q is not supported on-device", e.Task)
}

var errRuntimeClosed = errors.New("runtime is closed")

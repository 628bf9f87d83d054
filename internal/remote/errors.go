package remote

import (
	"errors"
	"fmt"
)

// RemoteInferenceError wraps any failure of a remote chat call.
type RemoteInferenceError struct {
	Provider string
	Model    string
	Err      error
}

func (e *RemoteInferenceError) Error() string {
	return fmt.Sprintf("remote inference failed (%s %s): %v", e.Provider, e.Model, e.Err)
}

func (e *RemoteInferenceError) Unwrap() error { return e.Err }

// IsRemoteInferenceError reports whether err is (or wraps) a RemoteInferenceError.
func IsRemoteInferenceError(err error) bool {
	var re *RemoteInferenceError
	return errors.As(err, &re)
}

var (
	errUnknownProvider = errors.New("provider not configured")
	errEmptyContent    = errors.New("empty response content")
)

// StatusError is a non-2xx HTTP reply from a provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string { return fmt.Sprintf("status %d: %s", e.Code, e.Body) }

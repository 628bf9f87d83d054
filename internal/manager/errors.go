package manager

import (
	"errors"
	"fmt"

	"reflectd/internal/ondevice"
	"reflectd/internal/registry"
	"reflectd/internal/remote"
	"reflectd/pkg/types"
)

// ModelLoadError signals that on-device pipeline construction failed. It is
// never cached; a later call retries construction.
type ModelLoadError struct {
	ModelID string
	Task    types.Task
	Err     error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.ModelID, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// IsModelLoadError reports whether err is (or wraps) a ModelLoadError.
func IsModelLoadError(err error) bool {
	var le *ModelLoadError
	return errors.As(err, &le)
}

// IsConfigNotFound reports whether err indicates an unknown model or prompt id.
func IsConfigNotFound(err error) bool { return registry.IsConfigNotFound(err) }

// IsRemoteInferenceError reports whether err is a remote chat failure.
func IsRemoteInferenceError(err error) bool { return remote.IsRemoteInferenceError(err) }

// IsDependencyUnavailable reports whether err indicates a missing runtime
// dependency (build tag, executable).
func IsDependencyUnavailable(err error) bool { return ondevice.IsDependencyUnavailable(err) }

var (
	errNotOnDevice    = errors.New("model is not served on-device")
	errNotRemote      = errors.New("model is not served by a remote chat backend")
	errNoRemote       = errors.New("no remote chat clients configured")
	errUnknownBackend = errors.New("unknown backend kind")
)

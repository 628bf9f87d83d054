package registry

import "errors"

// ConfigNotFound is returned when a model or prompt id is absent from the registry.
type ConfigNotFound struct {
	Kind string // "model" or "prompt"
	ID   string
}

func (e *ConfigNotFound) Error() string { return e.Kind + " not found: " + e.ID }

func errModelNotFound(id string) error  { return &ConfigNotFound{Kind: "model", ID: id} }
func errPromptNotFound(id string) error { return &ConfigNotFound{Kind: "prompt", ID: id} }

// IsConfigNotFound reports whether err (or anything it wraps) is a ConfigNotFound.
func IsConfigNotFound(err error) bool {
	var nf *ConfigNotFound
	return errors.As(err, &nf)
}

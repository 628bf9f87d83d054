// Package registry holds the static model catalogue and prompt templates.
//
// A Registry is immutable once built, so lookups are safe from any number
// of goroutines without locking.
package registry

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"reflectd/pkg/types"
)

// Registry maps model and prompt ids to their static configuration.
type Registry struct {
	models  map[string]types.ModelConfig
	prompts map[string]types.PromptTemplate
}

var validate = validator.New()

// New validates the given entries and builds a Registry.
// Duplicate ids are rejected.
func New(models []types.ModelConfig, prompts []types.PromptTemplate) (*Registry, error) {
	r := &Registry{
		models:  make(map[string]types.ModelConfig, len(models)),
		prompts: make(map[string]types.PromptTemplate, len(prompts)),
	}
	for _, m := range models {
		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("model %q: %w", m.ID, err)
		}
		if _, dup := r.models[m.ID]; dup {
			return nil, fmt.Errorf("duplicate model id %q", m.ID)
		}
		r.models[m.ID] = clone(m)
	}
	for _, p := range prompts {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("prompt %q: %w", p.ID, err)
		}
		if _, dup := r.prompts[p.ID]; dup {
			return nil, fmt.Errorf("duplicate prompt id %q", p.ID)
		}
		r.prompts[p.ID] = p
	}
	return r, nil
}

// LookupModel returns the model configuration for id.
func (r *Registry) LookupModel(id string) (types.ModelConfig, error) {
	m, ok := r.models[id]
	if !ok {
		return types.ModelConfig{}, errModelNotFound(id)
	}
	return clone(m), nil
}

// LookupPrompt returns the prompt template for id.
func (r *Registry) LookupPrompt(id string) (types.PromptTemplate, error) {
	p, ok := r.prompts[id]
	if !ok {
		return types.PromptTemplate{}, errPromptNotFound(id)
	}
	return p, nil
}

// ListModels returns all models sorted by id.
func (r *Registry) ListModels() []types.ModelConfig {
	out := make([]types.ModelConfig, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, clone(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// clone detaches the optional temperature so callers cannot mutate registry state.
func clone(m types.ModelConfig) types.ModelConfig {
	if m.Temperature != nil {
		t := *m.Temperature
		m.Temperature = &t
	}
	return m
}

// ListPrompts returns all prompt templates sorted by id.
func (r *Registry) ListPrompts() []types.PromptTemplate {
	out := make([]types.PromptTemplate, 0, len(r.prompts))
	for _, p := range r.prompts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int { return len(r.models) }

package manager

import (
	"sort"
	"sync"
)

// PromptOverrides holds runtime system prompt overrides keyed by model id.
// Process memory only; overrides are lost on restart.
type PromptOverrides struct {
	models ModelLookup

	mu sync.RWMutex
	m  map[string]string
}

// NewPromptOverrides returns an empty store that falls back to the
// registry defaults in models.
func NewPromptOverrides(models ModelLookup) *PromptOverrides {
	return &PromptOverrides{models: models, m: make(map[string]string)}
}

// Set upserts the override for modelID. Last write wins; text is not validated.
func (p *PromptOverrides) Set(modelID, text string) {
	p.mu.Lock()
	p.m[modelID] = text
	p.mu.Unlock()
}

// Clear removes the override for modelID, restoring the registry default.
// It reports whether an override was present.
func (p *PromptOverrides) Clear(modelID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.m[modelID]
	delete(p.m, modelID)
	return ok
}

// Get returns the override for modelID, if any.
func (p *PromptOverrides) Get(modelID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.m[modelID]
	return v, ok
}

// Effective returns the override if present, else the model's default
// system prompt, else "". Unknown ids yield "".
func (p *PromptOverrides) Effective(modelID string) string {
	if v, ok := p.Get(modelID); ok {
		return v
	}
	if p.models == nil {
		return ""
	}
	cfg, err := p.models.LookupModel(modelID)
	if err != nil {
		return ""
	}
	return cfg.SystemPrompt
}

// Snapshot returns a copy of the current overrides.
func (p *PromptOverrides) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.m))
	for k, v := range p.m {
		out[k] = v
	}
	return out
}

// IDs returns the model ids that currently have an override, sorted.
func (p *PromptOverrides) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.m))
	for k := range p.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

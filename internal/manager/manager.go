package manager

import (
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"reflectd/internal/ondevice"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// Manager composes the pipeline cache, the override store and the
// dispatcher around one registry.
type Manager struct {
	registry   ModelLookup
	runtime    ondevice.Runtime
	cache      *PipelineCache
	overrides  *PromptOverrides
	dispatcher *Dispatcher
	log        zerolog.Logger
	startTime  time.Time
}

// Cache returns the pipeline cache.
func (m *Manager) Cache() *PipelineCache { return m.cache }

// Overrides returns the system prompt override store.
func (m *Manager) Overrides() *PromptOverrides { return m.overrides }

// Dispatcher returns the backend dispatcher.
func (m *Manager) Dispatcher() *Dispatcher { return m.dispatcher }

// Ready reports whether the manager can serve requests. Pipelines load
// lazily, so a manager with a registry is ready immediately.
func (m *Manager) Ready() bool { return m != nil && m.registry != nil }

// Close releases every cached pipeline, then the runtime if it holds
// shared resources.
func (m *Manager) Close() error {
	err := m.cache.Close()
	if c, ok := m.runtime.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	m.log.Info().Str("event", "shutdown").Msg("pipelines released")
	return err
}

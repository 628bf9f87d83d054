package manager

import (
	"github.com/rs/zerolog"

	"reflectd/internal/ondevice"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultAcceleration = ondevice.AccelAuto
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Registry resolves model ids. Required.
	Registry ModelLookup
	// Runtime constructs on-device pipelines.
	Runtime ondevice.Runtime
	// Remote sends remote-chat requests.
	Remote RemoteChat
	// Publisher receives pipeline lifecycle events; nil drops them.
	Publisher EventPublisher
	Logger    *zerolog.Logger
	// AccelerationHint is passed to every construction (auto|cpu|gpu).
	AccelerationHint ondevice.Acceleration
	// MaxConcurrentLoads bounds how many different models construct at
	// once; 0 means unbounded.
	MaxConcurrentLoads int
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	pub := cfg.Publisher
	if pub == nil {
		pub = discardEvents
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "manager").Logger()
	}
	accel := cfg.AccelerationHint
	if accel == "" {
		accel = defaultAcceleration
	}
	m := &Manager{
		registry: cfg.Registry,
		runtime:  cfg.Runtime,
		log:      log,
	}
	m.cache = newPipelineCache(cfg.Registry, cfg.Runtime, accel, cfg.MaxConcurrentLoads, pub, log)
	m.overrides = NewPromptOverrides(cfg.Registry)
	m.dispatcher = &Dispatcher{
		models:    cfg.Registry,
		cache:     m.cache,
		overrides: m.overrides,
		remote:    cfg.Remote,
		log:       log,
	}
	m.startTime = timeNow()
	return m
}

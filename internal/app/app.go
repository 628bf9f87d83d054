// Package app wires configuration into the orchestration core: registry,
// on-device engines, remote clients, manager and inference facade.
package app

import (
	"time"

	"github.com/rs/zerolog"

	"reflectd/internal/config"
	"reflectd/internal/httpapi"
	"reflectd/internal/inference"
	"reflectd/internal/manager"
	"reflectd/internal/ondevice"
	"reflectd/internal/registry"
	"reflectd/internal/remote"
	"reflectd/pkg/types"
)

// App is the wired orchestration core.
type App struct {
	Registry *registry.Registry
	Manager  *manager.Manager
	Facade   *inference.Facade
	Remotes  remote.Clients
}

type options struct {
	runtime ondevice.Runtime
	remotes remote.Clients
}

// Option adjusts Build.
type Option func(*options)

// WithRuntime replaces the default on-device engines.
func WithRuntime(rt ondevice.Runtime) Option { return func(o *options) { o.runtime = rt } }

// WithRemotes replaces the clients derived from configuration.
func WithRemotes(c remote.Clients) Option { return func(o *options) { o.remotes = c } }

// Build assembles an App from cfg. cfg is expected to have defaults applied.
func Build(cfg config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	reg, err := registry.Build(cfg.RegistryFile, cfg.ModelsDir)
	if err != nil {
		return nil, err
	}
	if o.remotes == nil {
		o.remotes = BuildRemotes(cfg)
	}
	if o.runtime == nil {
		o.runtime = ondevice.NewEngines(ondevice.EnginesConfig{
			LlamaCtx:     cfg.Llama.Ctx,
			LlamaThreads: cfg.Llama.Threads,
			WhisperBin:   cfg.Whisper.Bin,
			Threads:      cfg.Whisper.Threads,
		})
	}
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Registry:           reg,
		Runtime:            o.runtime,
		Remote:             o.remotes,
		Logger:             &log,
		AccelerationHint:   ondevice.Acceleration(cfg.Acceleration),
		MaxConcurrentLoads: cfg.MaxConcurrentLoads,
	})
	facade := inference.FromManager(mgr, reg, inference.Config{
		Logger:         &log,
		SentimentModel: cfg.SentimentModel,
		SpeechModel:    cfg.SpeechModel,
		EmbeddingModel: cfg.EmbeddingModel,
	})
	log.Info().Str("event", "wired").Int("models", reg.Len()).Strs("providers", o.remotes.Providers()).
		Bool("llama", ondevice.LlamaBuilt()).Msg("orchestrator ready")
	return &App{Registry: reg, Manager: mgr, Facade: facade, Remotes: o.remotes}, nil
}

// BuildRemotes always configures Ollama; OpenAI and Anthropic only when an
// API key is present.
func BuildRemotes(cfg config.Config) remote.Clients {
	c := remote.Clients{
		types.ProviderOllama: remote.NewOllama(
			cfg.Ollama.BaseURL,
			time.Duration(cfg.Ollama.TimeoutSeconds)*time.Second,
			time.Duration(cfg.Ollama.ConnectTimeoutSeconds)*time.Second,
		),
	}
	if cfg.OpenAI.APIKey != "" {
		c[types.ProviderOpenAI] = remote.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	}
	if cfg.Anthropic.APIKey != "" {
		c[types.ProviderAnthropic] = remote.NewAnthropic(cfg.Anthropic.APIKey)
	}
	return c
}

// Close releases cached pipelines and engine resources.
func (a *App) Close() error { return a.Manager.Close() }

// Service adapts the wired core to httpapi.Service.
type Service struct {
	*inference.Facade
	*registry.Registry
	*manager.Manager
}

var _ httpapi.Service = (*Service)(nil)

// Service returns the HTTP-facing view of a.
func (a *App) Service() *Service {
	return &Service{Facade: a.Facade, Registry: a.Registry, Manager: a.Manager}
}

package manager

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"reflectd/internal/ondevice"
	"reflectd/internal/remote"
	"reflectd/pkg/types"
)

// RemoteChat sends a chat request to the named provider. remote.Clients
// implements it.
type RemoteChat interface {
	Chat(ctx context.Context, provider string, req remote.ChatRequest) (remote.ChatResponse, error)
}

// Invocable is a uniform text-in, text-out callable over either backend.
type Invocable interface {
	Backend() types.BackendKind
	Invoke(ctx context.Context, input string) (string, error)
}

type resolveOptions struct {
	backend      types.BackendKind
	systemPrompt *string
}

// ResolveOption adjusts a single Resolve call.
type ResolveOption func(*resolveOptions)

// WithBackend forces the backend kind instead of the registry's.
func WithBackend(kind types.BackendKind) ResolveOption {
	return func(o *resolveOptions) { o.backend = kind }
}

// WithSystemPrompt replaces the effective system prompt for this
// invocation only. An empty text sends no system message.
func WithSystemPrompt(text string) ResolveOption {
	return func(o *resolveOptions) { o.systemPrompt = &text }
}

// Dispatcher resolves a model id to the backend that serves it.
type Dispatcher struct {
	models    ModelLookup
	cache     *PipelineCache
	overrides *PromptOverrides
	remote    RemoteChat
	log       zerolog.Logger
}

// Resolve returns an Invocable for modelID. On-device models are
// constructed (or fetched from the cache) here, so load failures surface
// as *ModelLoadError from Resolve.
func (d *Dispatcher) Resolve(ctx context.Context, modelID string, opts ...ResolveOption) (Invocable, error) {
	cfg, err := d.models.LookupModel(modelID)
	if err != nil {
		return nil, err
	}
	o := resolveOptions{backend: cfg.Backend}
	for _, opt := range opts {
		opt(&o)
	}
	switch o.backend {
	case types.BackendOnDevice:
		h, err := d.cache.getOrCreate(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &onDeviceInvocable{handle: h, cfg: cfg}, nil
	case types.BackendRemoteChat:
		system := d.overrides.Effective(modelID)
		if o.systemPrompt != nil {
			system = *o.systemPrompt
		}
		return &remoteInvocable{d: d, cfg: cfg, system: system}, nil
	}
	return nil, fmt.Errorf("model %s: %w: %q", modelID, errUnknownBackend, o.backend)
}

// Converse sends caller-owned history to a remote-chat model with the
// effective system prompt prepended.
func (d *Dispatcher) Converse(ctx context.Context, modelID string, turns []types.ConversationTurn) (string, error) {
	cfg, err := d.models.LookupModel(modelID)
	if err != nil {
		return "", err
	}
	if cfg.Backend != types.BackendRemoteChat {
		return "", fmt.Errorf("model %s: %w", modelID, errNotRemote)
	}
	msgs := make([]types.ConversationTurn, 0, len(turns)+1)
	if system := d.overrides.Effective(modelID); system != "" {
		msgs = append(msgs, types.ConversationTurn{Role: types.RoleSystem, Content: system})
	}
	msgs = append(msgs, turns...)
	return d.chat(ctx, cfg, msgs)
}

func (d *Dispatcher) chat(ctx context.Context, cfg types.ModelConfig, msgs []types.ConversationTurn) (string, error) {
	provider := cfg.RemoteProvider()
	if d.remote == nil {
		remoteCallsTotal.WithLabelValues(provider, "error").Inc()
		return "", &remote.RemoteInferenceError{Provider: provider, Model: cfg.Path, Err: errNoRemote}
	}
	resp, err := d.remote.Chat(ctx, provider, remote.ChatRequest{
		Model:       cfg.Path,
		Messages:    msgs,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	remoteCallsTotal.WithLabelValues(provider, resultLabel(err)).Inc()
	if err != nil {
		d.log.Debug().Str("event", "remote_error").Str("model", cfg.ID).Str("provider", provider).Err(err).Msg("remote chat failed")
		return "", err
	}
	return resp.Content, nil
}

type onDeviceInvocable struct {
	handle ondevice.Handle
	cfg    types.ModelConfig
}

func (i *onDeviceInvocable) Backend() types.BackendKind { return types.BackendOnDevice }

func (i *onDeviceInvocable) Invoke(ctx context.Context, input string) (string, error) {
	out, err := i.handle.Run(ctx, ondevice.Input{Text: input}, ondevice.GenOptions{
		MaxTokens:   i.cfg.MaxTokens,
		Temperature: i.cfg.TemperatureOr(0),
	})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

type remoteInvocable struct {
	d      *Dispatcher
	cfg    types.ModelConfig
	system string
}

func (i *remoteInvocable) Backend() types.BackendKind { return types.BackendRemoteChat }

// Invoke sends [system?, user].
func (i *remoteInvocable) Invoke(ctx context.Context, input string) (string, error) {
	msgs := make([]types.ConversationTurn, 0, 2)
	if i.system != "" {
		msgs = append(msgs, types.ConversationTurn{Role: types.RoleSystem, Content: i.system})
	}
	msgs = append(msgs, types.ConversationTurn{Role: types.RoleUser, Content: input})
	return i.d.chat(ctx, i.cfg, msgs)
}

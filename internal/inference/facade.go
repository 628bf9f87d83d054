// Package inference is the public surface over the orchestration core. Each
// operation composes the registry, the dispatcher and the pipeline cache,
// and some operations degrade to a fixed fallback instead of failing.
package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"reflectd/internal/manager"
	"reflectd/internal/ondevice"
	"reflectd/pkg/types"
)

// Catalogue resolves models and prompt templates.
type Catalogue interface {
	LookupModel(id string) (types.ModelConfig, error)
	LookupPrompt(id string) (types.PromptTemplate, error)
}

// Dispatcher resolves model ids to invocables and runs conversations.
type Dispatcher interface {
	Resolve(ctx context.Context, modelID string, opts ...manager.ResolveOption) (manager.Invocable, error)
	Converse(ctx context.Context, modelID string, turns []types.ConversationTurn) (string, error)
}

// Pipelines hands out cached on-device pipelines.
type Pipelines interface {
	GetOrCreate(ctx context.Context, modelID string) (ondevice.Handle, error)
}

// Overrides is the runtime system prompt store.
type Overrides interface {
	Set(modelID, text string)
	Clear(modelID string) bool
	Get(modelID string) (string, bool)
	Effective(modelID string) string
}

// Default model ids, matching the built-in catalogue.
const (
	DefaultSentimentModel  = "sentiment-local"
	DefaultSpeechModel     = "whisper-local"
	DefaultEmbeddingModel  = "embeddings-local"
	DefaultGenerateModel   = "ollama-mistral"
	DefaultChatModel       = "ollama-chat"
	DefaultSummaryModel    = "ollama-summarize"
	DefaultMoodModel       = "ollama-chat"
	DefaultReflectionModel = "ollama-mistral"
)

// Config wires a Facade. Model ids left empty get the defaults above.
type Config struct {
	Catalogue  Catalogue
	Dispatcher Dispatcher
	Pipelines  Pipelines
	Overrides  Overrides
	Logger     *zerolog.Logger

	SentimentModel  string
	SpeechModel     string
	EmbeddingModel  string
	GenerateModel   string
	ChatModel       string
	SummaryModel    string
	MoodModel       string
	ReflectionModel string
}

// Facade implements the inference operations.
type Facade struct {
	cfg Config
	log zerolog.Logger
}

// New returns a Facade, applying defaults to empty model ids.
func New(cfg Config) *Facade {
	def := func(p *string, v string) {
		if *p == "" {
			*p = v
		}
	}
	def(&cfg.SentimentModel, DefaultSentimentModel)
	def(&cfg.SpeechModel, DefaultSpeechModel)
	def(&cfg.EmbeddingModel, DefaultEmbeddingModel)
	def(&cfg.GenerateModel, DefaultGenerateModel)
	def(&cfg.ChatModel, DefaultChatModel)
	def(&cfg.SummaryModel, DefaultSummaryModel)
	def(&cfg.MoodModel, DefaultMoodModel)
	def(&cfg.ReflectionModel, DefaultReflectionModel)
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "inference").Logger()
	}
	return &Facade{cfg: cfg, log: log}
}

// FromManager fills the dispatcher, pipelines and overrides from m.
func FromManager(m *manager.Manager, cat Catalogue, cfg Config) *Facade {
	cfg.Catalogue = cat
	cfg.Dispatcher = m.Dispatcher()
	cfg.Pipelines = m.Cache()
	cfg.Overrides = m.Overrides()
	return New(cfg)
}

// ErrNotRemote is returned for operations that only remote-chat models
// serve when given an on-device model id.
var ErrNotRemote = errors.New("model is not served by a remote chat backend")

// resolveRemote resolves modelID for a remote-only operation.
func (f *Facade) resolveRemote(ctx context.Context, modelID string, opts ...manager.ResolveOption) (manager.Invocable, error) {
	cfg, err := f.cfg.Catalogue.LookupModel(modelID)
	if err != nil {
		return nil, err
	}
	if cfg.Backend != types.BackendRemoteChat {
		return nil, fmt.Errorf("model %s: %w", modelID, ErrNotRemote)
	}
	return f.cfg.Dispatcher.Resolve(ctx, modelID, opts...)
}

func orDefault(id, def string) string {
	if strings.TrimSpace(id) == "" {
		return def
	}
	return id
}

// GenerateText runs text through modelID. With a prompt template, the
// on-device path prepends the template to the input while the remote path
// folds it into the system prompt. Errors propagate.
func (f *Facade) GenerateText(ctx context.Context, text, modelID, promptID string) (string, error) {
	modelID = orDefault(modelID, f.cfg.GenerateModel)
	cfg, err := f.cfg.Catalogue.LookupModel(modelID)
	if err != nil {
		return "", err
	}
	var tmpl string
	if promptID != "" {
		p, err := f.cfg.Catalogue.LookupPrompt(promptID)
		if err != nil {
			return "", err
		}
		tmpl = p.Content
	}
	input := text
	var opts []manager.ResolveOption
	if tmpl != "" {
		if cfg.Backend == types.BackendOnDevice {
			input = tmpl + "\n\n" + text
		} else {
			opts = append(opts, manager.WithSystemPrompt(joinNonEmpty("\n\n", f.cfg.Overrides.Effective(modelID), tmpl)))
		}
	}
	inv, err := f.cfg.Dispatcher.Resolve(ctx, modelID, opts...)
	if err != nil {
		return "", err
	}
	return inv.Invoke(ctx, input)
}

// GenerateChatResponse continues a conversation on a remote-chat model.
// Any failure yields ChatApology.
func (f *Facade) GenerateChatResponse(ctx context.Context, turns []types.ConversationTurn, modelID string) string {
	modelID = orDefault(modelID, f.cfg.ChatModel)
	return withFallback(ctx, f, "chat", ChatApology, func(ctx context.Context) (string, error) {
		return f.cfg.Dispatcher.Converse(ctx, modelID, turns)
	})
}

// SummarizeText asks a remote model for a short summary and strips quote
// characters wrapping the answer. Any failure yields SummaryFailure.
func (f *Facade) SummarizeText(ctx context.Context, text, modelID string) string {
	modelID = orDefault(modelID, f.cfg.SummaryModel)
	return withFallback(ctx, f, "summarize", SummaryFailure, func(ctx context.Context) (string, error) {
		inv, err := f.resolveRemote(ctx, modelID)
		if err != nil {
			return "", err
		}
		out, err := inv.Invoke(ctx, summaryInstruction+text)
		if err != nil {
			return "", err
		}
		return StripQuotes(out), nil
	})
}

// AnalyzeMood maps the sentiment pipeline's positive score to a mood.
// Any failure yields neutral.
func (f *Facade) AnalyzeMood(ctx context.Context, text string) types.Mood {
	return withFallback(ctx, f, "mood", types.MoodNeutral, func(ctx context.Context) (types.Mood, error) {
		score, err := f.sentimentScore(ctx, text)
		if err != nil {
			return "", err
		}
		return MoodFromScore(score), nil
	})
}

func (f *Facade) sentimentScore(ctx context.Context, text string) (float64, error) {
	h, err := f.cfg.Pipelines.GetOrCreate(ctx, f.cfg.SentimentModel)
	if err != nil {
		return 0, err
	}
	out, err := h.Run(ctx, ondevice.Input{Text: text}, ondevice.GenOptions{})
	if err != nil {
		return 0, err
	}
	score, ok := ondevice.SentimentScore(out.Labels)
	if !ok {
		return 0, fmt.Errorf("unrecognized sentiment labels: %v", out.Labels)
	}
	return score, nil
}

// AnalyzeAdvancedMood asks a remote model for a single mood word. Output
// outside the four labels, or any failure, falls back to AnalyzeMood.
func (f *Facade) AnalyzeAdvancedMood(ctx context.Context, text, modelID string) types.Mood {
	modelID = orDefault(modelID, f.cfg.MoodModel)
	return withFallbackFunc(ctx, f, "advanced_mood", func(ctx context.Context) types.Mood {
		return f.AnalyzeMood(ctx, text)
	}, func(ctx context.Context) (types.Mood, error) {
		inv, err := f.resolveRemote(ctx, modelID, manager.WithSystemPrompt(moodClassifierPrompt))
		if err != nil {
			return "", err
		}
		out, err := inv.Invoke(ctx, text)
		if err != nil {
			return "", err
		}
		return types.ParseMood(out)
	})
}

// GenerateReflection writes a short empathetic reflection on an entry
// given its mood. Any failure yields a canned reflection for the mood.
func (f *Facade) GenerateReflection(ctx context.Context, text string, mood types.Mood, modelID string) string {
	modelID = orDefault(modelID, f.cfg.ReflectionModel)
	return withFallback(ctx, f, "reflect", CannedReflection(mood), func(ctx context.Context) (string, error) {
		inv, err := f.cfg.Dispatcher.Resolve(ctx, modelID)
		if err != nil {
			return "", err
		}
		return inv.Invoke(ctx, fmt.Sprintf(reflectionInstruction, mood, text))
	})
}

// TranscribeSpeech runs audio through the speech-recognition pipeline.
// Errors propagate.
func (f *Facade) TranscribeSpeech(ctx context.Context, audio []byte) (string, error) {
	h, err := f.cfg.Pipelines.GetOrCreate(ctx, f.cfg.SpeechModel)
	if err != nil {
		return "", err
	}
	out, err := h.Run(ctx, ondevice.Input{Audio: audio}, ondevice.GenOptions{})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// GetEmbeddings returns the mean-pooled, L2-normalized embedding of text.
// Errors propagate.
func (f *Facade) GetEmbeddings(ctx context.Context, text string) ([]float32, error) {
	h, err := f.cfg.Pipelines.GetOrCreate(ctx, f.cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	out, err := h.Run(ctx, ondevice.Input{Text: text}, ondevice.GenOptions{Pooling: ondevice.PoolingMean, Normalize: true})
	if err != nil {
		return nil, err
	}
	if len(out.Vector) == 0 {
		return nil, fmt.Errorf("embedding model %s returned an empty vector", f.cfg.EmbeddingModel)
	}
	return out.Vector, nil
}

// SetSystemPrompt overrides the system prompt for modelID.
func (f *Facade) SetSystemPrompt(modelID, text string) { f.cfg.Overrides.Set(modelID, text) }

// ClearSystemPrompt removes the override for modelID.
func (f *Facade) ClearSystemPrompt(modelID string) bool { return f.cfg.Overrides.Clear(modelID) }

// SystemPrompt returns the effective system prompt for modelID and whether
// it comes from an override.
func (f *Facade) SystemPrompt(modelID string) (string, bool) {
	_, overridden := f.cfg.Overrides.Get(modelID)
	return f.cfg.Overrides.Effective(modelID), overridden
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

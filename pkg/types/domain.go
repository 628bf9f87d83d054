package types

import (
	"fmt"
	"strings"
)

// Task is the capability a model provides.
type Task string

const (
	TaskTextGeneration    Task = "text-generation"
	TaskFeatureExtraction Task = "feature-extraction"
	TaskSpeechRecognition Task = "speech-recognition"
	TaskSentiment         Task = "sentiment-analysis"
	TaskSummarization     Task = "summarization"
	TaskChat              Task = "chat"
)

// BackendKind selects which backend services a model.
type BackendKind string

const (
	BackendOnDevice   BackendKind = "on-device"
	BackendRemoteChat BackendKind = "remote-chat"
)

// Remote chat providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ModelConfig describes a logical model capability in the registry.
type ModelConfig struct {
	// Stable identifier for the model.
	// example: ollama-chat
	ID string `json:"id" yaml:"id" toml:"id" validate:"required" example:"ollama-chat"`
	// Human-friendly name.
	// example: Chat Assistant
	Name string `json:"name" yaml:"name" toml:"name" example:"Chat Assistant"`
	// Capability of the model.
	// example: chat
	Task Task `json:"task" yaml:"task" toml:"task" validate:"required,oneof=text-generation feature-extraction speech-recognition sentiment-analysis summarization chat" example:"chat"`
	// Backend servicing the model.
	// example: remote-chat
	Backend BackendKind `json:"backend" yaml:"backend" toml:"backend" validate:"required,oneof=on-device remote-chat" example:"remote-chat"`
	// Remote provider for remote-chat models (ollama, openai, anthropic).
	// example: ollama
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider,omitempty" validate:"omitempty,oneof=ollama openai anthropic" example:"ollama"`
	// Opaque identifier passed to the backend: a model path on-device, a model name remotely.
	// example: mistral:latest
	Path string `json:"path" yaml:"path" toml:"path" validate:"required" example:"mistral:latest"`
	// Maximum number of tokens to generate.
	// example: 500
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" toml:"max_tokens,omitempty" validate:"gte=0" example:"500"`
	// Sampling temperature in [0,1].
	// example: 0.7
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" toml:"temperature,omitempty" validate:"omitempty,gte=0,lte=1" example:"0.7"`
	// Default system prompt.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty" toml:"system_prompt,omitempty"`
}

// TemperatureOr returns the configured temperature or def when unset.
func (m ModelConfig) TemperatureOr(def float64) float64 {
	if m.Temperature == nil {
		return def
	}
	return *m.Temperature
}

// RemoteProvider returns the provider for remote-chat models, defaulting to ollama.
func (m ModelConfig) RemoteProvider() string {
	if m.Provider == "" {
		return ProviderOllama
	}
	return m.Provider
}

// PromptUsage is the category a prompt template serves.
type PromptUsage string

const (
	UsageSummary    PromptUsage = "summary"
	UsageReflection PromptUsage = "reflection"
	UsageAnalysis   PromptUsage = "analysis"
	UsageChat       PromptUsage = "chat"
)

// PromptTemplate is a reusable instruction fragment.
type PromptTemplate struct {
	// example: journal-summary
	ID string `json:"id" yaml:"id" toml:"id" validate:"required" example:"journal-summary"`
	// example: Journal Summary
	Name string `json:"name" yaml:"name" toml:"name" example:"Journal Summary"`
	// example: Summarize this journal entry concisely, focusing on key emotions and events.
	Content string `json:"content" yaml:"content" toml:"content" validate:"required"`
	// example: summary
	Usage PromptUsage `json:"usage" yaml:"usage" toml:"usage" validate:"required,oneof=summary reflection analysis chat" example:"summary"`
}

// Role of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationTurn is one message in a chat request.
type ConversationTurn struct {
	// example: user
	Role Role `json:"role" example:"user"`
	// example: I had a long day at work.
	Content string `json:"content" example:"I had a long day at work."`
}

// Mood is one of four ordered mood labels.
type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodNeutral    Mood = "neutral"
	MoodReflective Mood = "reflective"
	MoodSad        Mood = "sad"
)

// Moods lists the labels from highest to lowest.
var Moods = []Mood{MoodHappy, MoodNeutral, MoodReflective, MoodSad}

// ParseMood normalizes case and surrounding whitespace and validates
// the result against the closed set of mood labels.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Moods {
		if m == v {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mood %q", s)
}

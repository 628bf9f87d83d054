// Package config holds the reflectd runtime configuration.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by Defaults.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr" mapstructure:"addr" validate:"required"`
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level" mapstructure:"log_level" validate:"oneof=debug info warn error off"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format" mapstructure:"log_format" validate:"oneof=console json"`

	ModelsDir    string `json:"models_dir" yaml:"models_dir" toml:"models_dir" mapstructure:"models_dir"`
	RegistryFile string `json:"registry_file" yaml:"registry_file" toml:"registry_file" mapstructure:"registry_file"`

	Acceleration       string `json:"acceleration" yaml:"acceleration" toml:"acceleration" mapstructure:"acceleration" validate:"oneof=auto cpu gpu"`
	MaxConcurrentLoads int    `json:"max_concurrent_loads" yaml:"max_concurrent_loads" toml:"max_concurrent_loads" mapstructure:"max_concurrent_loads" validate:"gte=0"`

	SentimentModel string `json:"sentiment_model" yaml:"sentiment_model" toml:"sentiment_model" mapstructure:"sentiment_model"`
	SpeechModel    string `json:"speech_model" yaml:"speech_model" toml:"speech_model" mapstructure:"speech_model"`
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model" toml:"embedding_model" mapstructure:"embedding_model"`

	Ollama    OllamaConfig    `json:"ollama" yaml:"ollama" toml:"ollama" mapstructure:"ollama"`
	OpenAI    OpenAIConfig    `json:"openai" yaml:"openai" toml:"openai" mapstructure:"openai"`
	Anthropic AnthropicConfig `json:"anthropic" yaml:"anthropic" toml:"anthropic" mapstructure:"anthropic"`
	Whisper   WhisperConfig   `json:"whisper" yaml:"whisper" toml:"whisper" mapstructure:"whisper"`
	Llama     LlamaConfig     `json:"llama" yaml:"llama" toml:"llama" mapstructure:"llama"`
	HTTP      HTTPConfig      `json:"http" yaml:"http" toml:"http" mapstructure:"http"`
}

// OllamaConfig configures the local Ollama chat endpoint.
type OllamaConfig struct {
	BaseURL               string `json:"base_url" yaml:"base_url" toml:"base_url" mapstructure:"base_url" validate:"url"`
	TimeoutSeconds        int    `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds" mapstructure:"timeout_seconds" validate:"gte=0"`
	ConnectTimeoutSeconds int    `json:"connect_timeout_seconds" yaml:"connect_timeout_seconds" toml:"connect_timeout_seconds" mapstructure:"connect_timeout_seconds" validate:"gte=0"`
}

// OpenAIConfig enables the openai provider when APIKey is set.
type OpenAIConfig struct {
	APIKey  string `json:"api_key" yaml:"api_key" toml:"api_key" mapstructure:"api_key"`
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
}

// AnthropicConfig enables the anthropic provider when APIKey is set.
type AnthropicConfig struct {
	APIKey string `json:"api_key" yaml:"api_key" toml:"api_key" mapstructure:"api_key"`
}

// WhisperConfig configures the whisper.cpp executable used for speech recognition.
type WhisperConfig struct {
	Bin     string `json:"bin" yaml:"bin" toml:"bin" mapstructure:"bin"`
	Threads int    `json:"threads" yaml:"threads" toml:"threads" mapstructure:"threads" validate:"gte=0"`
}

// LlamaConfig configures on-device text generation.
type LlamaConfig struct {
	Ctx     int `json:"ctx" yaml:"ctx" toml:"ctx" mapstructure:"ctx" validate:"gte=0"`
	Threads int `json:"threads" yaml:"threads" toml:"threads" mapstructure:"threads" validate:"gte=0"`
}

// HTTPConfig configures the HTTP surface.
type HTTPConfig struct {
	MaxBodyBytes          int64      `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gte=0"`
	MaxAudioBytes         int64      `json:"max_audio_bytes" yaml:"max_audio_bytes" toml:"max_audio_bytes" mapstructure:"max_audio_bytes" validate:"gte=0"`
	RequestTimeoutSeconds int64      `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds" mapstructure:"request_timeout_seconds" validate:"gte=0"`
	CORS                  CORSConfig `json:"cors" yaml:"cors" toml:"cors" mapstructure:"cors"`
}

// CORSConfig is opt-in; when disabled no CORS middleware is installed.
type CORSConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers" mapstructure:"allowed_headers"`
}

// Defaults for unspecified fields.
const (
	DefaultAddr          = ":8080"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultAcceleration  = "auto"
	DefaultOllamaURL     = "http://localhost:11434"
	DefaultOllamaTimeout = 120
	DefaultOllamaConnect = 5
	DefaultMaxBodyBytes  = 1 << 20
	DefaultMaxAudioBytes = 25 << 20
	DefaultWhisperBin    = "whisper-cli"
	DefaultModelsDir     = "~/.reflectd/models"
)

// Defaults returns a copy of c with every zero value replaced by its default.
func (c Config) Defaults() Config {
	set := func(p *string, v string) {
		if *p == "" {
			*p = v
		}
	}
	set(&c.Addr, DefaultAddr)
	set(&c.LogLevel, DefaultLogLevel)
	set(&c.LogFormat, DefaultLogFormat)
	set(&c.Acceleration, DefaultAcceleration)
	set(&c.ModelsDir, DefaultModelsDir)
	set(&c.Ollama.BaseURL, DefaultOllamaURL)
	set(&c.Whisper.Bin, DefaultWhisperBin)
	if c.Ollama.TimeoutSeconds == 0 {
		c.Ollama.TimeoutSeconds = DefaultOllamaTimeout
	}
	if c.Ollama.ConnectTimeoutSeconds == 0 {
		c.Ollama.ConnectTimeoutSeconds = DefaultOllamaConnect
	}
	if c.HTTP.MaxBodyBytes == 0 {
		c.HTTP.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.HTTP.MaxAudioBytes == 0 {
		c.HTTP.MaxAudioBytes = DefaultMaxAudioBytes
	}
	if c.HTTP.CORS.Enabled {
		if len(c.HTTP.CORS.AllowedOrigins) == 0 {
			c.HTTP.CORS.AllowedOrigins = []string{"*"}
		}
		if len(c.HTTP.CORS.AllowedMethods) == 0 {
			c.HTTP.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		}
		if len(c.HTTP.CORS.AllowedHeaders) == 0 {
			c.HTTP.CORS.AllowedHeaders = []string{"Content-Type", "X-Log-Level"}
		}
	}
	return c
}

var validate = validator.New()

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

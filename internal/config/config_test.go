package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_FillsZeroValues(t *testing.T) {
	cfg := Config{}.Defaults()
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultAcceleration, cfg.Acceleration)
	assert.Equal(t, DefaultOllamaURL, cfg.Ollama.BaseURL)
	assert.Equal(t, DefaultWhisperBin, cfg.Whisper.Bin)
	assert.EqualValues(t, DefaultMaxBodyBytes, cfg.HTTP.MaxBodyBytes)
	assert.EqualValues(t, DefaultMaxAudioBytes, cfg.HTTP.MaxAudioBytes)
	assert.Equal(t, DefaultOllamaTimeout, cfg.Ollama.TimeoutSeconds)
	assert.Empty(t, cfg.HTTP.CORS.AllowedOrigins, "cors lists filled while disabled")
	require.NoError(t, cfg.Validate())
}

func TestDefaults_KeepsExplicitValues(t *testing.T) {
	in := Config{Addr: ":1", LogFormat: "json", HTTP: HTTPConfig{MaxBodyBytes: 10, CORS: CORSConfig{Enabled: true, AllowedOrigins: []string{"x"}}}}
	cfg := in.Defaults()
	assert.Equal(t, ":1", cfg.Addr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.EqualValues(t, 10, cfg.HTTP.MaxBodyBytes)
	assert.Len(t, cfg.HTTP.CORS.AllowedOrigins, 1)
	assert.NotEmpty(t, cfg.HTTP.CORS.AllowedMethods)
	assert.Empty(t, in.LogLevel, "Defaults mutated its receiver")
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"log level":    func(c *Config) { c.LogLevel = "loud" },
		"log format":   func(c *Config) { c.LogFormat = "xml" },
		"acceleration": func(c *Config) { c.Acceleration = "tpu" },
		"loads":        func(c *Config) { c.MaxConcurrentLoads = -1 },
		"ollama url":   func(c *Config) { c.Ollama.BaseURL = "not a url" },
		"body":         func(c *Config) { c.HTTP.MaxBodyBytes = -5 },
	}
	for name, mutate := range cases {
		cfg := Config{}.Defaults()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

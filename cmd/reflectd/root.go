package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"reflectd/internal/config"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "reflectd",
	Short: "Model orchestration for the journaling app",
	Long: `reflectd serves mood analysis, reflections, summaries, chat, speech
transcription and embeddings over a catalogue of on-device and remote models.

Examples:
  # Run the HTTP daemon
  reflectd serve --addr :8080

  # Print the model catalogue
  reflectd models

  # One-shot mood analysis
  reflectd mood "Today was long but I feel lighter."`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(envFile)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (.yaml, .json or .toml)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file with API keys; ignored when missing")
	pf.String("log-level", "", "log level (debug, info, warn, error, off)")
	pf.String("log-format", "", "log format (console, json)")
	pf.String("registry-file", "", "extra model/prompt catalogue merged over the built-in one")
	pf.String("models-dir", "", "directory scanned for *.gguf models; relative on-device paths resolve here")
	pf.String("ollama-url", "", "Ollama base URL")
	pf.String("acceleration", "", "on-device acceleration hint (auto, cpu, gpu)")

	mustBindPFlag("log_level", pf.Lookup("log-level"))
	mustBindPFlag("log_format", pf.Lookup("log-format"))
	mustBindPFlag("registry_file", pf.Lookup("registry-file"))
	mustBindPFlag("models_dir", pf.Lookup("models-dir"))
	mustBindPFlag("ollama.base_url", pf.Lookup("ollama-url"))
	mustBindPFlag("acceleration", pf.Lookup("acceleration"))

	initViper(viper.GetViper())
}

// initViper enables REFLECTD_* environment variables. Provider API keys
// also accept their conventional unprefixed names.
func initViper(v *viper.Viper) {
	v.SetEnvPrefix("REFLECTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("openai.api_key", "REFLECTD_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("anthropic.api_key", "REFLECTD_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
}

func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// loadConfig reads the config file (if any), applies flag and environment
// overrides, fills defaults and validates.
func loadConfig(v *viper.Viper) (config.Config, error) {
	var cfg config.Config
	if cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return cfg, err
		}
	}
	applyOverrides(&cfg, v)
	cfg = cfg.Defaults()
	return cfg, cfg.Validate()
}

// applyOverrides copies every key set through flags or environment onto cfg.
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	strs := map[string]*string{
		"addr":              &cfg.Addr,
		"log_level":         &cfg.LogLevel,
		"log_format":        &cfg.LogFormat,
		"registry_file":     &cfg.RegistryFile,
		"models_dir":        &cfg.ModelsDir,
		"acceleration":      &cfg.Acceleration,
		"sentiment_model":   &cfg.SentimentModel,
		"speech_model":      &cfg.SpeechModel,
		"embedding_model":   &cfg.EmbeddingModel,
		"ollama.base_url":   &cfg.Ollama.BaseURL,
		"openai.api_key":    &cfg.OpenAI.APIKey,
		"openai.base_url":   &cfg.OpenAI.BaseURL,
		"anthropic.api_key": &cfg.Anthropic.APIKey,
		"whisper.bin":       &cfg.Whisper.Bin,
	}
	for k, p := range strs {
		if v.IsSet(k) && v.GetString(k) != "" {
			*p = v.GetString(k)
		}
	}
	ints := map[string]*int{
		"max_concurrent_loads":   &cfg.MaxConcurrentLoads,
		"ollama.timeout_seconds": &cfg.Ollama.TimeoutSeconds,
		"whisper.threads":        &cfg.Whisper.Threads,
		"llama.ctx":              &cfg.Llama.Ctx,
		"llama.threads":          &cfg.Llama.Threads,
	}
	for k, p := range ints {
		if v.IsSet(k) && v.GetInt(k) != 0 {
			*p = v.GetInt(k)
		}
	}
	if v.IsSet("http.max_body_bytes") && v.GetInt64("http.max_body_bytes") != 0 {
		cfg.HTTP.MaxBodyBytes = v.GetInt64("http.max_body_bytes")
	}
	if v.IsSet("http.max_audio_bytes") && v.GetInt64("http.max_audio_bytes") != 0 {
		cfg.HTTP.MaxAudioBytes = v.GetInt64("http.max_audio_bytes")
	}
	if v.IsSet("http.request_timeout_seconds") && v.GetInt64("http.request_timeout_seconds") != 0 {
		cfg.HTTP.RequestTimeoutSeconds = v.GetInt64("http.request_timeout_seconds")
	}
	if v.IsSet("http.cors.enabled") {
		cfg.HTTP.CORS.Enabled = v.GetBool("http.cors.enabled")
	}
	if origins := splitCSV(v.GetString("http.cors.allowed_origins")); len(origins) > 0 {
		cfg.HTTP.CORS.AllowedOrigins = origins
	}
}

// splitCSV splits a comma-separated list, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

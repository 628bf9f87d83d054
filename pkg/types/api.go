package types

// ModelsResponse wraps the list of models returned by GET /v1/models.
type ModelsResponse struct {
	// Registered models.
	Models []ModelConfig `json:"models"`
}

// PromptsResponse wraps the list of prompt templates returned by GET /v1/prompts.
type PromptsResponse struct {
	Prompts []PromptTemplate `json:"prompts"`
}

// SystemPromptRequest sets a system prompt override for a model.
type SystemPromptRequest struct {
	// New system prompt text. Not validated.
	// example: You are a concise assistant.
	Prompt string `json:"prompt" example:"You are a concise assistant."`
}

// SystemPromptResponse reports the effective system prompt for a model.
type SystemPromptResponse struct {
	// example: ollama-chat
	ModelID string `json:"model_id" example:"ollama-chat"`
	// Effective prompt (override, else registry default, else empty).
	Prompt string `json:"prompt"`
	// Whether a runtime override is in effect.
	// example: true
	Overridden bool `json:"overridden" example:"true"`
}

// GenerateRequest is the payload for POST /v1/generate.
type GenerateRequest struct {
	// example: Today I finally finished the garden.
	Text string `json:"text" example:"Today I finally finished the garden."`
	// example: text-gen-local
	Model string `json:"model" example:"text-gen-local"`
	// Optional prompt template id.
	// example: journal-reflection
	PromptID string `json:"prompt_id,omitempty" example:"journal-reflection"`
}

// ChatRequest is the payload for POST /v1/chat.
type ChatRequest struct {
	// Conversation history, oldest first.
	Messages []ConversationTurn `json:"messages"`
	// example: ollama-chat
	Model string `json:"model,omitempty" example:"ollama-chat"`
}

// TextRequest carries a single text and optional model id.
type TextRequest struct {
	// example: I went for a walk and felt calmer afterwards.
	Text string `json:"text" example:"I went for a walk and felt calmer afterwards."`
	// example: ollama-summarize
	Model string `json:"model,omitempty" example:"ollama-summarize"`
}

// MoodRequest is the payload for POST /v1/mood.
type MoodRequest struct {
	// example: I went for a walk and felt calmer afterwards.
	Text string `json:"text" example:"I went for a walk and felt calmer afterwards."`
	// Use the remote single-word classifier instead of the sentiment pipeline.
	// example: false
	Advanced bool `json:"advanced,omitempty" example:"false"`
	// Remote model for advanced analysis.
	// example: ollama-chat
	Model string `json:"model,omitempty" example:"ollama-chat"`
}

// ReflectRequest is the payload for POST /v1/reflect.
type ReflectRequest struct {
	Text string `json:"text"`
	// example: reflective
	Mood Mood `json:"mood" example:"reflective"`
	// example: ollama-mistral
	Model string `json:"model,omitempty" example:"ollama-mistral"`
}

// TextResponse wraps a generated text.
type TextResponse struct {
	// example: It sounds like the walk gave you room to breathe.
	Text string `json:"text" example:"It sounds like the walk gave you room to breathe."`
}

// MoodResponse wraps a mood label.
type MoodResponse struct {
	// example: neutral
	Mood Mood `json:"mood" example:"neutral"`
}

// EmbeddingResponse wraps an L2-normalized embedding vector.
type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
	// example: 384
	Dims int `json:"dims" example:"384"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// PipelineStatus summarizes a cached on-device pipeline for /status.
type PipelineStatus struct {
	// example: sentiment-local
	ModelID string `json:"model_id" example:"sentiment-local"`
	// example: sentiment-analysis
	Task Task `json:"task" example:"sentiment-analysis"`
	// Unix seconds when the pipeline finished loading.
	// example: 1700000000
	LoadedAt int64 `json:"loaded_unix" example:"1700000000"`
	// Unix seconds of the last cache hit or load.
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
	// Construction time in milliseconds.
	// example: 840
	LoadMillis int64 `json:"load_ms" example:"840"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Cached on-device pipelines.
	Pipelines []PipelineStatus `json:"pipelines"`
	// Model ids with an active system prompt override.
	Overrides []string `json:"overrides"`
	// Number of registered models.
	// example: 8
	Models int `json:"models" example:"8"`
	// Last load error observed (if any).
	LastError string `json:"last_error,omitempty"`
	// Total pipeline constructions.
	// example: 3
	LoadsTotal uint64 `json:"loads_total" example:"3"`
	// Total failed constructions.
	// example: 0
	LoadErrorsTotal uint64 `json:"load_errors_total" example:"0"`
	// Pipelines currently being constructed.
	// example: 1
	LoadsInProgress int `json:"loads_in_progress" example:"1"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

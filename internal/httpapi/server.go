// Package httpapi exposes the inference operations and the system prompt
// override store over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reflectd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.ModelConfig
	ListPrompts() []types.PromptTemplate
	LookupModel(id string) (types.ModelConfig, error)
	Status() types.StatusResponse
	Ready() bool

	GenerateText(ctx context.Context, text, modelID, promptID string) (string, error)
	GenerateChatResponse(ctx context.Context, turns []types.ConversationTurn, modelID string) string
	SummarizeText(ctx context.Context, text, modelID string) string
	AnalyzeMood(ctx context.Context, text string) types.Mood
	AnalyzeAdvancedMood(ctx context.Context, text, modelID string) types.Mood
	GenerateReflection(ctx context.Context, text string, mood types.Mood, modelID string) string
	TranscribeSpeech(ctx context.Context, audio []byte) (string, error)
	GetEmbeddings(ctx context.Context, text string) ([]float32, error)

	SetSystemPrompt(modelID, text string)
	ClearSystemPrompt(modelID string) bool
	SystemPrompt(modelID string) (string, bool)
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	h := &handlers{svc: svc}
	r.Route("/v1", func(r chi.Router) {
		r.Get("/models", h.listModels)
		r.Get("/prompts", h.listPrompts)
		r.Get("/models/{id}/system-prompt", h.getSystemPrompt)
		r.Put("/models/{id}/system-prompt", h.putSystemPrompt)
		r.Delete("/models/{id}/system-prompt", h.deleteSystemPrompt)
		r.Post("/generate", h.generate)
		r.Post("/chat", h.chat)
		r.Post("/summarize", h.summarize)
		r.Post("/reflect", h.reflect)
		r.Post("/mood", h.mood)
		r.Post("/transcribe", h.transcribe)
		r.Post("/embeddings", h.embeddings)
	})

	r.Get("/status", h.status)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("starting"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// NewServer wraps the mux in an http.Server with conservative timeouts.
// WriteTimeout stays unset because on-device loads can exceed any fixed bound.
func NewServer(addr string, svc Service) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"reflectd/pkg/types"
)

type handlers struct {
	svc Service
}

// decodeJSON enforces the JSON content type and body limit and decodes into
// v. It writes the error response and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		reject("unsupported_media_type")
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			reject("body_too_large")
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		reject("bad_json")
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func requireText(w http.ResponseWriter, field, v string) bool {
	if strings.TrimSpace(v) == "" {
		reject("missing_field")
		writeJSONError(w, http.StatusBadRequest, field+" is required")
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err.Error())
}

// listModels godoc
// @Summary      List registered models
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Router       /v1/models [get]
func (h *handlers) listModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.ModelsResponse{Models: h.svc.ListModels()})
}

// listPrompts godoc
// @Summary      List prompt templates
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.PromptsResponse
// @Router       /v1/prompts [get]
func (h *handlers) listPrompts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.PromptsResponse{Prompts: h.svc.ListPrompts()})
}

// knownModel resolves the {id} URL parameter, writing 404 for unknown ids.
func (h *handlers) knownModel(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := h.svc.LookupModel(id); err != nil {
		writeServiceError(w, err)
		return "", false
	}
	return id, true
}

func (h *handlers) writeSystemPrompt(w http.ResponseWriter, id string) {
	prompt, overridden := h.svc.SystemPrompt(id)
	writeJSON(w, types.SystemPromptResponse{ModelID: id, Prompt: prompt, Overridden: overridden})
}

// getSystemPrompt godoc
// @Summary      Effective system prompt for a model
// @Tags         system-prompt
// @Produce      json
// @Param        id   path      string  true  "Model id"
// @Success      200  {object}  types.SystemPromptResponse
// @Failure      404  {object}  types.ErrorResponse
// @Router       /v1/models/{id}/system-prompt [get]
func (h *handlers) getSystemPrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.knownModel(w, r)
	if !ok {
		return
	}
	h.writeSystemPrompt(w, id)
}

// putSystemPrompt godoc
// @Summary      Override the system prompt for a model
// @Tags         system-prompt
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "Model id"
// @Param        body  body      types.SystemPromptRequest  true  "New prompt"
// @Success      200   {object}  types.SystemPromptResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Router       /v1/models/{id}/system-prompt [put]
func (h *handlers) putSystemPrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.knownModel(w, r)
	if !ok {
		return
	}
	var req types.SystemPromptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.svc.SetSystemPrompt(id, req.Prompt)
	h.writeSystemPrompt(w, id)
}

// deleteSystemPrompt godoc
// @Summary      Remove a system prompt override
// @Tags         system-prompt
// @Produce      json
// @Param        id   path      string  true  "Model id"
// @Success      200  {object}  types.SystemPromptResponse
// @Failure      404  {object}  types.ErrorResponse
// @Router       /v1/models/{id}/system-prompt [delete]
func (h *handlers) deleteSystemPrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.knownModel(w, r)
	if !ok {
		return
	}
	h.svc.ClearSystemPrompt(id)
	h.writeSystemPrompt(w, id)
}

// generate godoc
// @Summary      Generate text
// @Description  Runs text through a model, optionally shaped by a prompt template. Errors are not masked.
// @Tags         inference
// @Accept       json
// @Produce      json
// @Param        body  body      types.GenerateRequest  true  "Request"
// @Success      200   {object}  types.TextResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Failure      502   {object}  types.ErrorResponse
// @Failure      503   {object}  types.ErrorResponse
// @Router       /v1/generate [post]
func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if !decodeJSON(w, r, &req) || !requireText(w, "text", req.Text) {
		return
	}
	ctx, cancel := workContext(r.Context())
	defer cancel()
	out, err := h.svc.GenerateText(ctx, req.Text, req.Model, req.PromptID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, types.TextResponse{Text: out})
}

// chat godoc
// @Summary      Continue a conversation
// @Description  Falls back to a fixed apology when the model cannot answer.
// @Tags         inference
// @Accept       json
// @Produce      json
// @Param        body  body      types.ChatRequest  true  "Request"
// @Success      200   {object}  types.TextResponse
// @Failure      400   {object}  types.ErrorResponse
// @Router       /v1/chat [post]
func (h *handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Messages) == 0 {
		reject("missing_field")
		writeJSONError(w, http.StatusBadRequest, "messages is required")
		return
	}
	for _, m := range req.Messages {
		switch m.Role {
		case types.RoleUser, types.RoleAssistant, types.RoleSystem:
		default:
			reject("bad_role")
			writeJSONError(w, http.StatusBadRequest, "invalid message role: "+string(m.Role))
			return
		}
	}
	ctx, cancel := workContext(r.Context())
	defer cancel()
	writeJSON(w, types.TextResponse{Text: h.svc.GenerateChatResponse(ctx, req.Messages, req.Model)})
}

// summarize godoc
// @Summary      Summarize a journal entry
// @Description  Falls back to a fixed failure string when the model cannot answer.
// @Tags         inference
// @Accept       json
// @Produce      json
// @Param        body  body      types.TextRequest  true  "Request"
// @Success      200   {object}  types.TextResponse
// @Failure      400   {object}  types.ErrorResponse
// @Router       /v1/summarize [post]
func (h *handlers) summarize(w http.ResponseWriter, r *http.Request) {
	var req types.TextRequest
	if !decodeJSON(w, r, &req) || !requireText(w, "text", req.Text) {
		return
	}
	ctx, cancel := workContext(r.Context())
	defer cancel()
	writeJSON(w, types.TextResponse{Text: h.svc.SummarizeText(ctx, req.Text, req.Model)})
}

// reflect godoc
// @Summary      Reflect on a journal entry
// @Description  When mood is omitted it is derived with basic mood analysis.
// @Tags         inference
// @Accept       json
// @Produce      json
// @Param        body  body      types.ReflectRequest  true  "Request"
// @Success      200   {object}  types.TextResponse
// @Failure      400   {object}  types.ErrorResponse
// @Router       /v1/reflect [post]
func (h *handlers) reflect(w http.ResponseWriter, r *http.Request) {
	var req types.ReflectRequest
	if !decodeJSON(w, r, &req) || !requireText(w, "text", req.Text) {
		return
	}
	ctx, cancel := workContext(r.Context())
	defer cancel()
	mood := req.Mood
	if strings.TrimSpace(string(mood)) == "" {
		mood = h.svc.AnalyzeMood(ctx, req.Text)
	} else {
		m, err := types.ParseMood(string(mood))
		if err != nil {
			reject("bad_mood")
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		mood = m
	}
	writeJSON(w, types.TextResponse{Text: h.svc.GenerateReflection(ctx, req.Text, mood, req.Model)})
}

// mood godoc
// @Summary      Analyze the mood of a text
// @Description  Basic analysis uses the sentiment pipeline; advanced asks a remote model and falls back to basic.
// @Tags         inference
// @Accept       json
// @Produce      json
// @Param        body  body      types.MoodRequest  true  "Request"
// @Success      200   {object}  types.MoodResponse
// @Failure      400   {object}  types.ErrorResponse
// @Router       /v1/mood [post]
func (h *handlers) mood(w http.ResponseWriter, r *http.Request) {
	var req types.MoodRequest
	if !decodeJSON(w, r, &req) || !requireText(w, "text", req.Text) {
		return
	}
	ctx, cancel := workContext(r.Context())
	defer cancel()
	var m types.Mood
	if req.Advanced {
		m = h.svc.AnalyzeAdvancedMood(ctx, req.Text, req.Model)
	} else {
		m = h.svc.AnalyzeMood(ctx, req.Text)
	}
	writeJSON(w, types.MoodResponse{Mood: m})
}

// transcribe godoc
// @Summary      Transcribe speech
// @Description  The request body is the raw audio (WAV).
// @Tags         inference
// @Accept       octet-stream
// @Produce      json
// @Success      200  {object}  types.TextResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      413  {object}  types.ErrorResponse
// @Failure      415  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /v1/transcribe [post]
func (h *handlers) transcribe(w http.ResponseWriter, r *http.Request) {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(ct, "audio/") && !strings.HasPrefix(ct, "application/octet-stream") {
		reject("unsupported_media_type")
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be audio/* or application/octet-stream")
		return
	}
	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			reject("body_too_large")
			writeJSONError(w, http.StatusRequestEntityTooLarge, "audio body too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(audio) == 0 {
		reject("missing_field")
		writeJSONError(w, http.StatusBadRequest, "audio body is required")
		return
	}
	ctx, cancel := workContext(r.Context())
	defer cancel()
	text, err := h.svc.TranscribeSpeech(ctx, audio)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, types.TextResponse{Text: text})
}

// embeddings godoc
// @Summary      Embed a text
// @Tags         inference
// @Accept       json
// @Produce      json
// @Param        body  body      types.TextRequest  true  "Request"
// @Success      200   {object}  types.EmbeddingResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      503   {object}  types.ErrorResponse
// @Router       /v1/embeddings [post]
func (h *handlers) embeddings(w http.ResponseWriter, r *http.Request) {
	var req types.TextRequest
	if !decodeJSON(w, r, &req) || !requireText(w, "text", req.Text) {
		return
	}
	ctx, cancel := workContext(r.Context())
	defer cancel()
	vec, err := h.svc.GetEmbeddings(ctx, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, types.EmbeddingResponse{Embedding: vec, Dims: len(vec)})
}

// status godoc
// @Summary      Orchestrator status
// @Tags         ops
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Status())
}

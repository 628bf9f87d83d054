package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"reflectd/internal/manager"
	"reflectd/internal/ondevice"
	"reflectd/internal/registry"
	"reflectd/internal/remote"
	"reflectd/pkg/types"
)

// mockService records calls and returns canned results.
type mockService struct {
	mu sync.Mutex

	models    []types.ModelConfig
	prompts   []types.PromptTemplate
	status    types.StatusResponse
	ready     bool
	overrides map[string]string

	text     string
	mood     types.Mood
	advanced types.Mood
	vector   []float32
	err      error
	block    bool

	calls     []string
	lastModel string
	lastText  string
	lastMood  types.Mood
	lastTurns []types.ConversationTurn
	lastAudio []byte
}

func newMockService() *mockService {
	return &mockService{
		models: []types.ModelConfig{
			{ID: "ollama-chat", Task: types.TaskChat, Backend: types.BackendRemoteChat, Path: "mistral:latest", SystemPrompt: "be kind"},
			{ID: "sentiment-local", Task: types.TaskSentiment, Backend: types.BackendOnDevice, Path: "/m/sst2"},
		},
		prompts:   []types.PromptTemplate{{ID: "journal-summary", Content: "Summarize.", Usage: types.UsageSummary}},
		ready:     true,
		overrides: map[string]string{},
		text:      "ok",
		mood:      types.MoodNeutral,
		advanced:  types.MoodHappy,
	}
}

func (m *mockService) record(op string) {
	m.mu.Lock()
	m.calls = append(m.calls, op)
	m.mu.Unlock()
}

func (m *mockService) ListModels() []types.ModelConfig { return m.models }
func (m *mockService) ListPrompts() []types.PromptTemplate { return m.prompts }
func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool { return m.ready }
func (m *mockService) SetSystemPrompt(modelID, text string) { m.overrides[modelID] = text }
func (m *mockService) GetEmbeddings(ctx context.Context, text string) ([]float32, error) {
	m.record("embeddings")
	m.lastText = text
	return m.vector, m.err
}

func (m *mockService) LookupModel(id string) (types.ModelConfig, error) {
	for _, c := range m.models {
		if c.ID == id {
			return c, nil
		}
	}
	return types.ModelConfig{}, &registry.ConfigNotFound{Kind: "model", ID: id}
}

func (m *mockService) ClearSystemPrompt(modelID string) bool {
	_, ok := m.overrides[modelID]
	delete(m.overrides, modelID)
	return ok
}

func (m *mockService) SystemPrompt(modelID string) (string, bool) {
	if v, ok := m.overrides[modelID]; ok {
		return v, true
	}
	c, _ := m.LookupModel(modelID)
	return c.SystemPrompt, false
}

func (m *mockService) GenerateText(ctx context.Context, text, modelID, promptID string) (string, error) {
	m.record("generate")
	m.lastText, m.lastModel = text, modelID
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.text, m.err
}

func (m *mockService) GenerateChatResponse(ctx context.Context, turns []types.ConversationTurn, modelID string) string {
	m.record("chat")
	m.lastTurns, m.lastModel = turns, modelID
	return m.text
}

func (m *mockService) SummarizeText(ctx context.Context, text, modelID string) string {
	m.record("summarize")
	m.lastText, m.lastModel = text, modelID
	return m.text
}

func (m *mockService) AnalyzeMood(ctx context.Context, text string) types.Mood {
	m.record("mood")
	m.lastText = text
	return m.mood
}

func (m *mockService) AnalyzeAdvancedMood(ctx context.Context, text, modelID string) types.Mood {
	m.record("advanced_mood")
	m.lastText, m.lastModel = text, modelID
	return m.advanced
}

func (m *mockService) GenerateReflection(ctx context.Context, text string, mood types.Mood, modelID string) string {
	m.record("reflect")
	m.lastText, m.lastMood, m.lastModel = text, mood, modelID
	return m.text
}

func (m *mockService) TranscribeSpeech(ctx context.Context, audio []byte) (string, error) {
	m.record("transcribe")
	m.lastAudio = audio
	return m.text, m.err
}

func (m *mockService) called(op string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == op {
			return true
		}
	}
	return false
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

var (
	errLoad   = &manager.ModelLoadError{ModelID: "text-gen-local", Task: types.TaskTextGeneration, Err: errors.New("bad weights")}
	errRemote = &remote.RemoteInferenceError{Provider: "ollama", Model: "mistral:latest", Err: errors.New("connection refused")}
	errDep    = ondevice.ErrDependencyUnavailable("whisper-cli not found in PATH")
)

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body=%q", w.Body.String())
	return v
}

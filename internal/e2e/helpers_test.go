package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"reflectd/internal/app"
	"reflectd/internal/config"
	"reflectd/internal/httpapi"
	"reflectd/internal/ondevice"
	"reflectd/pkg/types"
)

// createTempModelsDir creates a temporary directory populated with empty .gguf files.
func createTempModelsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte(""), 0o644))
	}
	return dir
}

// fakeRuntime stands in for the on-device engines.
type fakeRuntime struct {
	constructs atomic.Int32
	positive   float64
}

func (f *fakeRuntime) Construct(_ context.Context, task types.Task, _ string, _ ondevice.Options) (ondevice.Handle, error) {
	f.constructs.Add(1)
	return fakeHandle{task: task, positive: f.positive}, nil
}

type fakeHandle struct {
	task     types.Task
	positive float64
}

func (h fakeHandle) Run(_ context.Context, in ondevice.Input, _ ondevice.GenOptions) (ondevice.Output, error) {
	switch h.task {
	case types.TaskSentiment:
		return ondevice.Output{Labels: []ondevice.LabelScore{
			{Label: "POSITIVE", Score: h.positive},
			{Label: "NEGATIVE", Score: 1 - h.positive},
		}}, nil
	case types.TaskFeatureExtraction:
		return ondevice.Output{Vector: []float32{0.6, 0.8}}, nil
	case types.TaskSpeechRecognition:
		return ondevice.Output{Text: "hello from audio"}, nil
	default:
		return ondevice.Output{Text: "local: " + in.Text}, nil
	}
}

func (fakeHandle) Close() error { return nil }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

// fakeOllama serves /api/chat and records every request.
type fakeOllama struct {
	mu     sync.Mutex
	reqs   []ollamaRequest
	reply  string
	status int
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/chat" {
		http.NotFound(w, r)
		return
	}
	var req ollamaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	status, reply := f.status, f.reply
	f.mu.Unlock()
	if status != 0 {
		http.Error(w, "model not found", status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model":   req.Model,
		"message": ollamaMessage{Role: "assistant", Content: reply},
		"done":    true,
	})
}

func (f *fakeOllama) last(t *testing.T) ollamaRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.reqs, "ollama received no requests")
	return f.reqs[len(f.reqs)-1]
}

func (f *fakeOllama) set(reply string, status int) {
	f.mu.Lock()
	f.reply, f.status = reply, status
	f.mu.Unlock()
}

type harness struct {
	srv    *httptest.Server
	ollama *fakeOllama
	rt     *fakeRuntime
}

// newHarness wires the real registry, manager, facade and HTTP layer with a
// fake on-device runtime and a fake Ollama server behind the real client.
func newHarness(t *testing.T, modelsDir string) *harness {
	t.Helper()
	ol := &fakeOllama{reply: "ok"}
	olSrv := httptest.NewServer(ol)
	t.Cleanup(olSrv.Close)

	if modelsDir == "" {
		modelsDir = t.TempDir()
	}
	cfg := config.Config{ModelsDir: modelsDir}.Defaults()
	cfg.Ollama.BaseURL = olSrv.URL
	rt := &fakeRuntime{positive: 0.95}
	a, err := app.Build(cfg, zerolog.Nop(), app.WithRuntime(rt))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(httpapi.NewMux(a.Service()))
	t.Cleanup(srv.Close)
	return &harness{srv: srv, ollama: ol, rt: rt}
}

func do(t *testing.T, method, url, contentType string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	return do(t, http.MethodGet, url, "", nil)
}

func httpPostJSON(t *testing.T, url string, v any) (*http.Response, []byte) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return do(t, http.MethodPost, url, "application/json", b)
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "decode %s", body)
	return v
}

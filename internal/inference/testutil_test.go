package inference

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"reflectd/internal/manager"
	"reflectd/internal/ondevice"
	"reflectd/internal/registry"
	"reflectd/internal/remote"
	"reflectd/pkg/types"
)

// stubRuntime answers every pipeline with canned output per task.
type stubRuntime struct {
	constructs atomic.Int32
	failTask   types.Task

	mu       sync.Mutex
	score    map[string]float64 // sentiment input -> positive probability
	runErr   error
	lastIn   ondevice.Input
	lastGen  ondevice.GenOptions
	vector   []float32
	text     string
	rawLabel []ondevice.LabelScore
}

func (s *stubRuntime) Construct(ctx context.Context, task types.Task, path string, _ ondevice.Options) (ondevice.Handle, error) {
	s.constructs.Add(1)
	if task == s.failTask {
		return nil, errors.New("cannot load " + path)
	}
	return &stubHandle{rt: s, task: task}, nil
}

type stubHandle struct {
	rt   *stubRuntime
	task types.Task
}

func (h *stubHandle) Run(ctx context.Context, in ondevice.Input, gen ondevice.GenOptions) (ondevice.Output, error) {
	s := h.rt
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIn, s.lastGen = in, gen
	if s.runErr != nil {
		return ondevice.Output{}, s.runErr
	}
	switch h.task {
	case types.TaskSentiment:
		if s.rawLabel != nil {
			return ondevice.Output{Labels: s.rawLabel}, nil
		}
		p := s.score[in.Text]
		return ondevice.Output{Labels: []ondevice.LabelScore{{Label: "POSITIVE", Score: p}, {Label: "NEGATIVE", Score: 1 - p}}}, nil
	case types.TaskFeatureExtraction:
		return ondevice.Output{Vector: append([]float32(nil), s.vector...)}, nil
	}
	return ondevice.Output{Text: s.text}, nil
}

func (h *stubHandle) Close() error { return nil }

// stubRemote returns reply (or err) and records requests.
type stubRemote struct {
	mu    sync.Mutex
	reply string
	err   error
	reqs  []remote.ChatRequest
}

func (r *stubRemote) Chat(ctx context.Context, provider string, req remote.ChatRequest) (remote.ChatResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	if r.err != nil {
		return remote.ChatResponse{}, r.err
	}
	return remote.ChatResponse{Content: r.reply}, nil
}

func (r *stubRemote) last() remote.ChatRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reqs[len(r.reqs)-1]
}

var errRemoteDown = &remote.RemoteInferenceError{Provider: types.ProviderOllama, Model: "mistral:latest", Err: errors.New("connection refused")}

func testCatalogue(t *testing.T) *registry.Registry {
	t.Helper()
	models := append(registry.DefaultModels(),
		types.ModelConfig{ID: "mood-fast", Name: "Fast mood", Task: types.TaskSentiment, Backend: types.BackendOnDevice, Path: "/m/sst2"},
	)
	r, err := registry.New(models, registry.DefaultPrompts())
	require.NoError(t, err)
	return r
}

type fixture struct {
	facade  *Facade
	runtime *stubRuntime
	remote  *stubRemote
	manager *manager.Manager
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	rt := &stubRuntime{score: map[string]float64{}}
	rc := &stubRemote{}
	reg := testCatalogue(t)
	m := manager.NewWithConfig(manager.ManagerConfig{Registry: reg, Runtime: rt, Remote: rc})
	t.Cleanup(func() { _ = m.Close() })
	return &fixture{facade: FromManager(m, reg, cfg), runtime: rt, remote: rc, manager: m}
}

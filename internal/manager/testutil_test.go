package manager

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reflectd/internal/ondevice"
	"reflectd/internal/registry"
	"reflectd/internal/remote"
	"reflectd/pkg/types"
)

func temp(v float64) *float64 { return &v }

// testRegistry has one model per backend and task the tests exercise.
func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.New([]types.ModelConfig{
		{ID: "mood-fast", Task: types.TaskSentiment, Backend: types.BackendOnDevice, Path: "/m/sst2"},
		{ID: "gen-local", Task: types.TaskTextGeneration, Backend: types.BackendOnDevice, Path: "/m/gpt2.gguf", MaxTokens: 100, Temperature: temp(0.7)},
		{ID: "emb", Task: types.TaskFeatureExtraction, Backend: types.BackendOnDevice, Path: "/m/emb"},
		{ID: "chat", Task: types.TaskChat, Backend: types.BackendRemoteChat, Path: "mistral:latest", MaxTokens: 500, Temperature: temp(0.7), SystemPrompt: "default prompt"},
		{ID: "bare", Task: types.TaskTextGeneration, Backend: types.BackendRemoteChat, Provider: types.ProviderOpenAI, Path: "gpt-4o-mini"},
	}, nil)
	require.NoError(t, err)
	return r
}

// fakeRuntime counts constructions and can block or fail them.
type fakeRuntime struct {
	constructs atomic.Int32
	gate       chan struct{} // when non-nil, Construct waits for it to close
	started    chan struct{} // when non-nil, receives once per Construct entry

	mu      sync.Mutex
	failN   int // fail the first failN constructions
	panicky bool
	out     ondevice.Output
	lastGen ondevice.GenOptions
	lastIn  ondevice.Input
	accel   ondevice.Acceleration
}

func (f *fakeRuntime) Construct(ctx context.Context, task types.Task, path string, opts ondevice.Options) (ondevice.Handle, error) {
	f.constructs.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accel = opts.Acceleration
	if f.panicky {
		panic("constructor exploded")
	}
	if f.failN > 0 {
		f.failN--
		return nil, errors.New("weights missing")
	}
	return &fakeHandle{rt: f, path: path}, nil
}

type fakeHandle struct {
	rt     *fakeRuntime
	path   string
	closed atomic.Bool
}

func (h *fakeHandle) Run(ctx context.Context, in ondevice.Input, gen ondevice.GenOptions) (ondevice.Output, error) {
	h.rt.mu.Lock()
	defer h.rt.mu.Unlock()
	h.rt.lastIn = in
	h.rt.lastGen = gen
	out := h.rt.out
	if out.Text == "" {
		out.Text = "generated: " + in.Text
	}
	return out, nil
}

func (h *fakeHandle) Close() error { h.closed.Store(true); return nil }

// fakeRemote records the last request and returns a canned reply or error.
type fakeRemote struct {
	mu       sync.Mutex
	provider string
	req      remote.ChatRequest
	reply    string
	err      error
	calls    int
}

func (f *fakeRemote) Chat(ctx context.Context, provider string, req remote.ChatRequest) (remote.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.provider = provider
	f.req = req
	if f.err != nil {
		return remote.ChatResponse{}, f.err
	}
	return remote.ChatResponse{Content: f.reply}, nil
}

func newTestManager(t *testing.T, rt ondevice.Runtime, rc RemoteChat) (*Manager, *MemoryPublisher) {
	t.Helper()
	pub := NewMemoryPublisher()
	m := NewWithConfig(ManagerConfig{Registry: testRegistry(t), Runtime: rt, Remote: rc, Publisher: pub})
	t.Cleanup(func() { _ = m.Close() })
	return m, pub
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

//go:build llama

package ondevice

import (
	"context"
	"errors"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"reflectd/pkg/types"
)

// llamaBuilt indicates this binary was compiled with real llama support.
const llamaBuilt = true

// Llama serves on-device text generation with go-llama.cpp.
type Llama struct {
	ctxSize int
	threads int
}

// NewLlama returns the go-llama.cpp runtime.
func NewLlama(ctxSize, threads int) Runtime {
	return &Llama{ctxSize: zn(ctxSize, 2048), threads: zn(threads, 4)}
}

func (a *Llama) Construct(ctx context.Context, task types.Task, modelPath string, opts Options) (Handle, error) {
	if task != types.TaskTextGeneration && task != types.TaskSummarization {
		return nil, UnsupportedTaskError{Task: task}
	}
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mo := []llama.ModelOption{llama.SetContext(a.ctxSize)}
	if opts.Acceleration == AccelGPU {
		mo = append(mo, llama.SetGPULayers(999))
	}
	m, err := llama.New(modelPath, mo...)
	if err != nil {
		return nil, err
	}
	return &llamaHandle{model: m, threads: a.threads}, nil
}

// llamaHandle owns the loaded model. go-llama.cpp models are not safe for
// concurrent prediction, so Run is serialized.
type llamaHandle struct {
	mu      sync.Mutex
	model   *llama.LLama
	threads int
}

func (h *llamaHandle) Run(ctx context.Context, in Input, gen GenOptions) (Output, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model == nil {
		return Output{}, errors.New("llama model not initialized")
	}
	h.model.SetTokenCallback(func(string) bool {
		return ctx.Err() == nil
	})
	text, err := h.model.Predict(in.Text, predictOptions(gen, h.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return Output{}, ctx.Err()
		}
		return Output{}, err
	}
	return Output{Text: text}, nil
}

func (h *llamaHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model != nil {
		h.model.Free()
		h.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func predictOptions(gen GenOptions, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(zn(gen.MaxTokens, 128)),
		llama.SetThreads(zn(threads, 1)),
		llama.SetTopP(llama.DefaultOptions.TopP),
		llama.SetTopK(llama.DefaultOptions.TopK),
	}
	if gen.Temperature > 0 {
		po = append(po, llama.SetTemperature(float32(gen.Temperature)))
	} else {
		po = append(po, llama.SetTemperature(llama.DefaultOptions.Temperature))
	}
	return po
}

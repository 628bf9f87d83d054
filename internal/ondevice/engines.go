package ondevice

import (
	"context"
	"errors"

	"reflectd/pkg/types"
)

// Engines is a composite Runtime that routes construction by task.
// A nil engine makes its tasks unsupported.
type Engines struct {
	Classifier Runtime // sentiment-analysis
	Embedder   Runtime // feature-extraction
	Generator  Runtime // text-generation, summarization
	Speech     Runtime // speech-recognition
}

// Construct implements Runtime.
func (e *Engines) Construct(ctx context.Context, task types.Task, modelPath string, opts Options) (Handle, error) {
	rt := e.engineFor(task)
	if rt == nil {
		return nil, UnsupportedTaskError{Task: task}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rt.Construct(ctx, task, modelPath, opts)
}

func (e *Engines) engineFor(task types.Task) Runtime {
	switch task {
	case types.TaskSentiment:
		return e.Classifier
	case types.TaskFeatureExtraction:
		return e.Embedder
	case types.TaskTextGeneration, types.TaskSummarization:
		return e.Generator
	case types.TaskSpeechRecognition:
		return e.Speech
	}
	return nil
}

// Close releases shared engine resources (e.g. the hugot session).
func (e *Engines) Close() error {
	var errs []error
	seen := map[Runtime]bool{}
	for _, rt := range []Runtime{e.Classifier, e.Embedder, e.Generator, e.Speech} {
		if rt == nil || seen[rt] {
			continue
		}
		seen[rt] = true
		if c, ok := rt.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// EnginesConfig configures NewEngines.
type EnginesConfig struct {
	LlamaCtx     int
	LlamaThreads int
	WhisperBin   string
	WhisperArgs  []string
	Threads      int
	TempDir      string
}

// NewEngines wires the default engines: hugot for classification and
// embeddings, go-llama.cpp for generation and whisper.cpp for speech.
func NewEngines(cfg EnginesConfig) *Engines {
	h := NewHugot()
	return &Engines{
		Classifier: h,
		Embedder:   h,
		Generator:  NewLlama(cfg.LlamaCtx, cfg.LlamaThreads),
		Speech: &Whisper{
			Bin:       cfg.WhisperBin,
			Threads:   cfg.Threads,
			ExtraArgs: cfg.WhisperArgs,
			TempDir:   cfg.TempDir,
		},
	}
}

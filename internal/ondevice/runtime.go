// Package ondevice is the boundary to locally executed inference pipelines.
//
// A Runtime constructs a Handle for a (task, model path) pair; the Handle
// is then invoked any number of times. Engines routes construction to the
// library that serves each task.
package ondevice

import (
	"context"

	"reflectd/pkg/types"
)

// Runtime constructs inference handles. Construction may be slow (model
// download, weight loading) and is expected to happen once per model.
type Runtime interface {
	Construct(ctx context.Context, task types.Task, modelPath string, opts Options) (Handle, error)
}

// Handle is a constructed, invocable pipeline.
type Handle interface {
	Run(ctx context.Context, in Input, gen GenOptions) (Output, error)
	Close() error
}

// Acceleration is a device hint passed at construction.
type Acceleration string

const (
	AccelAuto Acceleration = "auto"
	AccelCPU  Acceleration = "cpu"
	AccelGPU  Acceleration = "gpu"
)

// Options are construction-time settings.
type Options struct {
	Acceleration Acceleration
}

// Pooling strategy for feature extraction.
type Pooling string

const PoolingMean Pooling = "mean"

// GenOptions are per-invocation settings. Zero values mean runtime defaults.
type GenOptions struct {
	MaxTokens   int
	Temperature float64
	Pooling     Pooling
	Normalize   bool
}

// Input to a pipeline: Text for text tasks, Audio for speech recognition.
type Input struct {
	Text  string
	Audio []byte
}

// LabelScore is one ranked classification result.
type LabelScore struct {
	Label string
	Score float64
}

// Output carries the primary result field for the pipeline's task.
type Output struct {
	Text   string
	Labels []LabelScore
	Vector []float32
}

// LlamaBuilt reports whether on-device generation was compiled in.
func LlamaBuilt() bool { return llamaBuilt }

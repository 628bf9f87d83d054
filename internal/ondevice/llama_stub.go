//go:build !llama

package ondevice

// Default builds stay CGO-free; on-device generation needs -tags=llama.

import (
	"context"

	"reflectd/pkg/types"
)

const llamaBuilt = false

type llamaStub struct{}

// NewLlama returns a runtime that refuses construction in builds without
// the 'llama' tag.
func NewLlama(ctxSize, threads int) Runtime { return llamaStub{} }

func (llamaStub) Construct(ctx context.Context, task types.Task, modelPath string, opts Options) (Handle, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

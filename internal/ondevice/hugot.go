package ondevice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"

	"reflectd/pkg/types"
)

// Hugot serves sentiment classification and feature extraction with hugot
// pipelines. Each construction gets its own pure-Go session: a hugot
// Session registers pipelines in an unsynchronized map, so sharing one would
// force loads of different models to run one at a time.
type Hugot struct {
	mu       sync.Mutex
	sessions map[*hugot.Session]struct{}
	closed   bool
}

// NewHugot returns a Hugot runtime.
func NewHugot() *Hugot { return &Hugot{sessions: make(map[*hugot.Session]struct{})} }

func (h *Hugot) track(s *hugot.Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errRuntimeClosed
	}
	h.sessions[s] = struct{}{}
	return nil
}

// release destroys s unless Close already did.
func (h *Hugot) release(s *hugot.Session) error {
	h.mu.Lock()
	_, ok := h.sessions[s]
	delete(h.sessions, s)
	h.mu.Unlock()
	if !ok {
		return nil
	}
	return s.Destroy()
}

// Construct implements Runtime. The acceleration hint is ignored; the Go
// session always runs on CPU. No lock is held while the model loads.
func (h *Hugot) Construct(ctx context.Context, task types.Task, modelPath string, _ Options) (Handle, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, fmt.Errorf("model path is empty")
	}
	if task != types.TaskSentiment && task != types.TaskFeatureExtraction {
		return nil, UnsupportedTaskError{Task: task}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("hugot session: %w", err)
	}
	if err := h.track(s); err != nil {
		_ = s.Destroy()
		return nil, err
	}
	handle, err := h.pipeline(s, task, modelPath)
	if err != nil {
		_ = h.release(s)
		return nil, err
	}
	return handle, nil
}

func (h *Hugot) pipeline(s *hugot.Session, task types.Task, modelPath string) (Handle, error) {
	name := string(task)
	closeFn := func() error { return h.release(s) }
	if task == types.TaskSentiment {
		p, err := hugot.NewPipeline(s, hugot.TextClassificationConfig{ModelPath: modelPath, Name: name})
		if err != nil {
			return nil, fmt.Errorf("text classification pipeline: %w", err)
		}
		return &classifierHandle{close: closeFn, run: func(texts []string) ([][]LabelScore, error) {
			out, err := p.RunPipeline(texts)
			if err != nil {
				return nil, err
			}
			res := make([][]LabelScore, len(out.ClassificationOutputs))
			for i, row := range out.ClassificationOutputs {
				for _, c := range row {
					res[i] = append(res[i], LabelScore{Label: c.Label, Score: float64(c.Score)})
				}
			}
			return res, nil
		}}, nil
	}
	p, err := hugot.NewPipeline(s, hugot.FeatureExtractionConfig{ModelPath: modelPath, Name: name})
	if err != nil {
		return nil, fmt.Errorf("feature extraction pipeline: %w", err)
	}
	return &embedderHandle{close: closeFn, run: func(texts []string) ([][]float32, error) {
		out, err := p.RunPipeline(texts)
		if err != nil {
			return nil, err
		}
		return out.Embeddings, nil
	}}, nil
}

// Close destroys every live session. Later constructions fail.
func (h *Hugot) Close() error {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[*hugot.Session]struct{})
	h.closed = true
	h.mu.Unlock()
	var errs []error
	for s := range sessions {
		if err := s.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type classifierHandle struct {
	run   func([]string) ([][]LabelScore, error)
	close func() error
}

func (c *classifierHandle) Run(ctx context.Context, in Input, _ GenOptions) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	res, err := c.run([]string{in.Text})
	if err != nil {
		return Output{}, fmt.Errorf("classify: %w", err)
	}
	if len(res) == 0 || len(res[0]) == 0 {
		return Output{}, fmt.Errorf("classify: empty output")
	}
	labels := res[0]
	sort.SliceStable(labels, func(i, j int) bool { return labels[i].Score > labels[j].Score })
	return Output{Labels: labels}, nil
}

func (c *classifierHandle) Close() error { return c.close() }

type embedderHandle struct {
	run   func([]string) ([][]float32, error)
	close func() error
}

// Run returns the pooled sentence embedding. hugot mean-pools token
// states; normalization is applied here when requested.
func (e *embedderHandle) Run(ctx context.Context, in Input, gen GenOptions) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	res, err := e.run([]string{in.Text})
	if err != nil {
		return Output{}, fmt.Errorf("embed: %w", err)
	}
	if len(res) == 0 || len(res[0]) == 0 {
		return Output{}, fmt.Errorf("embed: empty output")
	}
	v := append([]float32(nil), res[0]...)
	if gen.Normalize {
		L2Normalize(v)
	}
	return Output{Vector: v}, nil
}

func (e *embedderHandle) Close() error { return e.close() }

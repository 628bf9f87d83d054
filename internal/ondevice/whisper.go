package ondevice

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"reflectd/internal/common/fsutil"
	"reflectd/pkg/types"
)

// Whisper transcribes audio by running a whisper.cpp executable over a
// temporary WAV file and reading the transcript from stdout.
type Whisper struct {
	Bin       string // executable; defaults to "whisper-cli"
	Threads   int
	ExtraArgs []string
	TempDir   string
}

func (w *Whisper) bin() string {
	if w.Bin == "" {
		return "whisper-cli"
	}
	return w.Bin
}

// Construct resolves the executable and checks the model file exists.
func (w *Whisper) Construct(ctx context.Context, task types.Task, modelPath string, _ Options) (Handle, error) {
	if task != types.TaskSpeechRecognition {
		return nil, UnsupportedTaskError{Task: task}
	}
	bin, err := exec.LookPath(w.bin())
	if err != nil {
		return nil, ErrDependencyUnavailable(fmt.Sprintf("whisper executable %q not found", w.bin()))
	}
	model, err := fsutil.ResolvePath(modelPath)
	if err != nil {
		return nil, err
	}
	if !fsutil.PathExists(model) {
		return nil, fmt.Errorf("whisper model not found: %s", model)
	}
	threads := w.Threads
	if threads <= 0 {
		threads = 4
	}
	return &whisperHandle{bin: bin, model: model, threads: threads, extra: w.ExtraArgs, tmp: w.TempDir}, nil
}

type whisperHandle struct {
	bin     string
	model   string
	threads int
	extra   []string
	tmp     string
}

func (h *whisperHandle) Run(ctx context.Context, in Input, _ GenOptions) (Output, error) {
	if len(in.Audio) == 0 {
		return Output{}, fmt.Errorf("empty audio data")
	}
	file, cleanup, err := fsutil.WriteTemp(h.tmp, "reflectd-*.wav", in.Audio)
	if err != nil {
		return Output{}, err
	}
	defer cleanup()

	args := append([]string{
		"-m", h.model,
		"-f", file,
		"-t", strconv.Itoa(h.threads),
		"-nt", // no timestamps
		"-np", // no progress or system prints
	}, h.extra...)
	cmd := exec.CommandContext(ctx, h.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Output{}, ctx.Err()
		}
		return Output{}, fmt.Errorf("whisper failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return Output{Text: joinTranscript(stdout.String())}, nil
}

func (h *whisperHandle) Close() error { return nil }

// joinTranscript collapses whisper's per-segment lines into one string.
func joinTranscript(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"reflectd/internal/ondevice"
	"reflectd/pkg/types"
)

// ModelLookup resolves model configuration by id.
type ModelLookup interface {
	LookupModel(id string) (types.ModelConfig, error)
}

type cacheEntry struct {
	handle   ondevice.Handle
	task     types.Task
	loadedAt time.Time
	loadDur  time.Duration
	lastUsed atomic.Int64 // unix nanos
}

func (e *cacheEntry) touch() { e.lastUsed.Store(time.Now().UnixNano()) }

// PipelineCache owns every on-device pipeline handle. Each model id is
// constructed at most once for the process lifetime: concurrent callers
// for the same uncached id share one construction, and different ids load
// independently (bounded by the optional load semaphore).
type PipelineCache struct {
	models  ModelLookup
	runtime ondevice.Runtime
	accel   ondevice.Acceleration
	pub     EventPublisher
	log     zerolog.Logger
	sem     *semaphore.Weighted

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	lastErr string

	loadsTotal      atomic.Int64
	loadErrorsTotal atomic.Int64
	inProgress      atomic.Int64
}

func newPipelineCache(models ModelLookup, rt ondevice.Runtime, accel ondevice.Acceleration, maxLoads int, pub EventPublisher, log zerolog.Logger) *PipelineCache {
	c := &PipelineCache{
		models:  models,
		runtime: rt,
		accel:   accel,
		pub:     pub,
		log:     log,
		entries: make(map[string]*cacheEntry),
	}
	if maxLoads > 0 {
		c.sem = semaphore.NewWeighted(int64(maxLoads))
	}
	return c
}

// GetOrCreate returns the cached handle for modelID, constructing it on
// first use. Unknown ids fail with ConfigNotFound; remote-chat ids and
// construction failures with *ModelLoadError.
//
// Construction is not cancelled when ctx ends: the caller gets ctx.Err()
// while the load runs to completion and is cached for later callers.
func (c *PipelineCache) GetOrCreate(ctx context.Context, modelID string) (ondevice.Handle, error) {
	if e := c.lookup(modelID); e != nil {
		c.hit(modelID, e)
		return e.handle, nil
	}
	cfg, err := c.models.LookupModel(modelID)
	if err != nil {
		return nil, err
	}
	if cfg.Backend != types.BackendOnDevice {
		return nil, &ModelLoadError{ModelID: modelID, Task: cfg.Task, Err: errNotOnDevice}
	}
	return c.getOrCreate(ctx, cfg)
}

// getOrCreate skips the registry backend check; the dispatcher calls it
// when a caller forces the on-device backend.
func (c *PipelineCache) getOrCreate(ctx context.Context, cfg types.ModelConfig) (ondevice.Handle, error) {
	modelID := cfg.ID
	if e := c.lookup(modelID); e != nil {
		c.hit(modelID, e)
		return e.handle, nil
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(modelID, func() (any, error) {
		return c.load(loadCtx, cfg)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(ondevice.Handle), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *PipelineCache) lookup(modelID string) *cacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[modelID]
}

func (c *PipelineCache) hit(modelID string, e *cacheEntry) {
	e.touch()
	pipelineCacheHits.WithLabelValues(modelID).Inc()
	c.pub.Publish(Event{Kind: EventCacheHit, ModelID: modelID, Task: e.task, At: time.Now()})
}

// load runs inside the singleflight for cfg.ID.
func (c *PipelineCache) load(ctx context.Context, cfg types.ModelConfig) (h ondevice.Handle, err error) {
	// A flight for this id may have finished between the caller's cache
	// miss and joining this one.
	if e := c.lookup(cfg.ID); e != nil {
		e.touch()
		return e.handle, nil
	}
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, &ModelLoadError{ModelID: cfg.ID, Task: cfg.Task, Err: err}
		}
		defer c.sem.Release(1)
	}

	c.inProgress.Add(1)
	defer c.inProgress.Add(-1)
	c.loadsTotal.Add(1)
	c.pub.Publish(Event{Kind: EventLoadStart, ModelID: cfg.ID, Task: cfg.Task, At: time.Now()})
	c.log.Info().Str("event", string(EventLoadStart)).Str("model", cfg.ID).Str("task", string(cfg.Task)).Msg("constructing pipeline")

	start := time.Now()
	h, err = c.construct(ctx, cfg)
	dur := time.Since(start)
	pipelineLoadsTotal.WithLabelValues(cfg.ID, resultLabel(err)).Inc()
	if err != nil {
		c.loadErrorsTotal.Add(1)
		le := &ModelLoadError{ModelID: cfg.ID, Task: cfg.Task, Err: err}
		c.mu.Lock()
		c.lastErr = le.Error()
		c.mu.Unlock()
		c.pub.Publish(Event{Kind: EventLoadError, ModelID: cfg.ID, Task: cfg.Task, At: time.Now(), Took: dur, Err: err})
		c.log.Warn().Str("event", string(EventLoadError)).Str("model", cfg.ID).Dur("dur", dur).Err(err).Msg("pipeline construction failed")
		return nil, le
	}
	pipelineLoadSeconds.WithLabelValues(cfg.ID).Observe(dur.Seconds())

	e := &cacheEntry{handle: h, task: cfg.Task, loadedAt: time.Now(), loadDur: dur}
	e.touch()
	c.mu.Lock()
	c.entries[cfg.ID] = e
	c.mu.Unlock()
	c.pub.Publish(Event{Kind: EventLoadReady, ModelID: cfg.ID, Task: cfg.Task, At: e.loadedAt, Took: dur})
	c.log.Info().Str("event", string(EventLoadReady)).Str("model", cfg.ID).Dur("dur", dur).Msg("pipeline ready")
	return h, nil
}

// construct calls the runtime, converting a panic into an error so a
// broken constructor cannot take down every waiter.
func (c *PipelineCache) construct(ctx context.Context, cfg types.ModelConfig) (h ondevice.Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			h, err = nil, fmt.Errorf("panic during construction: %v", r)
		}
	}()
	if c.runtime == nil {
		return nil, ondevice.ErrDependencyUnavailable("no on-device runtime configured")
	}
	h, err = c.runtime.Construct(ctx, cfg.Task, cfg.Path, ondevice.Options{Acceleration: c.accel})
	if err == nil && h == nil {
		err = errors.New("runtime returned a nil handle")
	}
	return h, err
}

// Loaded lists cached pipelines sorted by model id.
func (c *PipelineCache) Loaded() []types.PipelineStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.PipelineStatus, 0, len(c.entries))
	for id, e := range c.entries {
		out = append(out, types.PipelineStatus{
			ModelID:    id,
			Task:       e.task,
			LoadedAt:   e.loadedAt.Unix(),
			LastUsed:   time.Unix(0, e.lastUsed.Load()).Unix(),
			LoadMillis: e.loadDur.Milliseconds(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelID < out[j].ModelID })
	return out
}

// Len returns the number of cached pipelines.
func (c *PipelineCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close releases every cached handle. Intended for process teardown.
func (c *PipelineCache) Close() error {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
	var errs []error
	for id, e := range entries {
		if err := e.handle.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

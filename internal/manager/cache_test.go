package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflectd/internal/ondevice"
	"reflectd/pkg/types"
)

func TestGetOrCreate_ReturnsSameHandle(t *testing.T) {
	rt := &fakeRuntime{}
	m, pub := newTestManager(t, rt, nil)
	ctx := testCtx(t)

	h1, err := m.Cache().GetOrCreate(ctx, "mood-fast")
	require.NoError(t, err)
	h2, err := m.Cache().GetOrCreate(ctx, "mood-fast")
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.EqualValues(t, 1, rt.constructs.Load())
	assert.Equal(t, 1, pub.Count(EventLoadReady, "mood-fast"))
	assert.Equal(t, 1, pub.Count(EventCacheHit, "mood-fast"))
	assert.Equal(t, ondevice.AccelAuto, rt.accel)
}

func TestGetOrCreate_ConcurrentSingleConstruction(t *testing.T) {
	rt := &fakeRuntime{gate: make(chan struct{}), started: make(chan struct{}, 64)}
	m, _ := newTestManager(t, rt, nil)
	ctx := testCtx(t)

	const callers = 32
	var wg sync.WaitGroup
	handles := make([]ondevice.Handle, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = m.Cache().GetOrCreate(ctx, "mood-fast")
		}(i)
	}
	// wait until the first construction is in flight, give the others time
	// to pile up behind it, then release it
	select {
	case <-rt.started:
	case <-ctx.Done():
		require.FailNow(t, "construction never started")
	}
	time.Sleep(50 * time.Millisecond)
	close(rt.gate)
	wg.Wait()

	assert.EqualValues(t, 1, rt.constructs.Load())
	for i := range handles {
		require.NoError(t, errs[i], "caller %d", i)
		assert.Same(t, handles[0], handles[i], "caller %d got a different handle", i)
	}
}

func TestGetOrCreate_DifferentKeysIndependent(t *testing.T) {
	rt := &fakeRuntime{}
	m, _ := newTestManager(t, rt, nil)
	ctx := testCtx(t)
	a, err := m.Cache().GetOrCreate(ctx, "mood-fast")
	require.NoError(t, err)
	b, err := m.Cache().GetOrCreate(ctx, "emb")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, m.Cache().Len())
}

func TestGetOrCreate_FailureNotCached(t *testing.T) {
	rt := &fakeRuntime{failN: 1}
	m, pub := newTestManager(t, rt, nil)
	ctx := testCtx(t)

	_, err := m.Cache().GetOrCreate(ctx, "mood-fast")
	require.True(t, IsModelLoadError(err), "got %v", err)
	var le *ModelLoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "mood-fast", le.ModelID)
	assert.Contains(t, le.Error(), "weights missing")
	assert.Zero(t, m.Cache().Len(), "failed construction must not be cached")

	_, err = m.Cache().GetOrCreate(ctx, "mood-fast")
	require.NoError(t, err, "retry should succeed")
	assert.EqualValues(t, 2, rt.constructs.Load())

	assert.Equal(t, 1, pub.Count(EventLoadError, "mood-fast"))
	for _, e := range pub.Events() {
		if e.Kind != EventLoadError {
			continue
		}
		assert.Error(t, e.Err)
		assert.Equal(t, types.TaskSentiment, e.Task)
		assert.False(t, e.At.IsZero())
	}

	st := m.Status()
	assert.EqualValues(t, 2, st.LoadsTotal)
	assert.EqualValues(t, 1, st.LoadErrorsTotal)
	assert.NotEmpty(t, st.LastError)
}

func TestGetOrCreate_PanicBecomesModelLoadError(t *testing.T) {
	rt := &fakeRuntime{panicky: true}
	m, _ := newTestManager(t, rt, nil)
	_, err := m.Cache().GetOrCreate(testCtx(t), "mood-fast")
	require.True(t, IsModelLoadError(err), "got %v", err)
	assert.Contains(t, err.Error(), "panic")
}

func TestGetOrCreate_UnknownAndRemoteIDs(t *testing.T) {
	rt := &fakeRuntime{}
	m, _ := newTestManager(t, rt, nil)
	ctx := testCtx(t)

	_, err := m.Cache().GetOrCreate(ctx, "nonexistent")
	assert.True(t, IsConfigNotFound(err), "got %v", err)

	_, err = m.Cache().GetOrCreate(ctx, "chat")
	assert.True(t, IsModelLoadError(err), "got %v", err)
	assert.ErrorIs(t, err, errNotOnDevice)
	assert.Zero(t, rt.constructs.Load())
}

func TestGetOrCreate_NoRuntimeIsDependencyUnavailable(t *testing.T) {
	m, _ := newTestManager(t, nil, nil)
	_, err := m.Cache().GetOrCreate(testCtx(t), "mood-fast")
	assert.True(t, IsModelLoadError(err), "got %v", err)
	assert.True(t, IsDependencyUnavailable(err), "got %v", err)
}

func TestGetOrCreate_AbandonedCallerLeavesLoadRunning(t *testing.T) {
	rt := &fakeRuntime{gate: make(chan struct{}), started: make(chan struct{}, 4)}
	m, _ := newTestManager(t, rt, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := m.Cache().GetOrCreate(ctx, "mood-fast")
		done <- err
	}()
	<-rt.started
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	close(rt.gate)

	// the construction completes in the background and is cached
	require.Eventually(t, func() bool { return m.Cache().Len() == 1 }, 2*time.Second, 5*time.Millisecond)
	_, err := m.Cache().GetOrCreate(testCtx(t), "mood-fast")
	require.NoError(t, err)
	assert.EqualValues(t, 1, rt.constructs.Load())
}

func TestGetOrCreate_LoadSemaphoreBoundsDifferentKeys(t *testing.T) {
	rt := &fakeRuntime{gate: make(chan struct{}), started: make(chan struct{}, 4)}
	pub := NewMemoryPublisher()
	m := NewWithConfig(ManagerConfig{Registry: testRegistry(t), Runtime: rt, Publisher: pub, MaxConcurrentLoads: 1})
	defer m.Close()
	ctx := testCtx(t)

	var wg sync.WaitGroup
	for _, id := range []string{"mood-fast", "emb"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := m.Cache().GetOrCreate(ctx, id)
			assert.NoError(t, err, id)
		}(id)
	}
	<-rt.started
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, rt.constructs.Load(), "second load should wait for the semaphore")
	close(rt.gate)
	wg.Wait()
	assert.EqualValues(t, 2, rt.constructs.Load())
}

func TestCacheCloseReleasesHandles(t *testing.T) {
	rt := &fakeRuntime{}
	m := NewWithConfig(ManagerConfig{Registry: testRegistry(t), Runtime: rt})
	h, err := m.Cache().GetOrCreate(testCtx(t), "mood-fast")
	require.NoError(t, err)
	require.NoError(t, m.Close())

	assert.True(t, h.(*fakeHandle).closed.Load(), "handle not closed")
	assert.Zero(t, m.Cache().Len())
}

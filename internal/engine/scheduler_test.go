package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaudiBrother/Audio-checker/pkg/audio/pcm"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/quality"
)

var errFakeDecode = errors.New("decode failed")

// fakeAnalyzer counts concurrent invocations and fails on nil buffers.
// When release is set, every call blocks until the channel yields.
type fakeAnalyzer struct {
	current int32
	peak    int32
	delay   time.Duration
	release chan struct{}
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, buf *pcm.Buffer) (*quality.Verdict, error) {
	cur := atomic.AddInt32(&f.current, 1)
	for {
		peak := atomic.LoadInt32(&f.peak)
		if cur <= peak || atomic.CompareAndSwapInt32(&f.peak, peak, cur) {
			break
		}
	}

	if f.release != nil {
		<-f.release
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	atomic.AddInt32(&f.current, -1)

	if buf == nil {
		return nil, errFakeDecode
	}
	return &quality.Verdict{QualityLabel: "Lossless", QualityScore: 100}, nil
}

func validBuffer(t *testing.T) *pcm.Buffer {
	t.Helper()
	buf, err := pcm.NewBuffer(make([]float64, 64), 1, 44100)
	require.NoError(t, err)
	return buf
}

func drain(t *testing.T, results <-chan BatchResult) []BatchResult {
	t.Helper()
	var out []BatchResult
	timeout := time.After(5 * time.Second)
	for {
		select {
		case r, ok := <-results:
			if !ok {
				return out
			}
			out = append(out, r)
		case <-timeout:
			t.Fatal("timed out draining batch results")
		}
	}
}

func TestSchedulerRespectsConcurrencyLimit(t *testing.T) {
	fake := &fakeAnalyzer{delay: 10 * time.Millisecond}
	s := NewScheduler(fake, 2, nil)

	var batch []BatchItem
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		batch = append(batch, BatchItem{ID: id, Buffer: validBuffer(t)})
	}

	results, err := s.SubmitBatch(context.Background(), batch)
	require.NoError(t, err)

	out := drain(t, results)
	require.Len(t, out, 5)
	assert.LessOrEqual(t, atomic.LoadInt32(&fake.peak), int32(2))

	stats := s.Stats()
	assert.Equal(t, 5, stats.Submitted)
	assert.Equal(t, 5, stats.Completed)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 0, stats.Pending)
}

func TestSchedulerFailureIsolation(t *testing.T) {
	s := NewScheduler(&fakeAnalyzer{}, 2, nil)

	results, err := s.SubmitBatch(context.Background(), []BatchItem{
		{ID: "good-1", Buffer: validBuffer(t)},
		{ID: "bad", Buffer: nil},
		{ID: "good-2", Buffer: validBuffer(t)},
	})
	require.NoError(t, err)

	out := drain(t, results)
	require.Len(t, out, 3)

	byID := make(map[string]BatchResult)
	for _, r := range out {
		byID[r.ID] = r
	}
	assert.ErrorIs(t, byID["bad"].Err, errFakeDecode)
	assert.NoError(t, byID["good-1"].Err)
	assert.Equal(t, 100, byID["good-2"].Verdict.QualityScore)

	stats := s.Stats()
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
}

func TestSchedulerFIFOWithSingleWorker(t *testing.T) {
	s := NewScheduler(&fakeAnalyzer{}, 1, nil)

	results, err := s.SubmitBatch(context.Background(), []BatchItem{
		{ID: "first", Buffer: validBuffer(t)},
		{ID: "second", Buffer: validBuffer(t)},
		{ID: "third", Buffer: validBuffer(t)},
	})
	require.NoError(t, err)

	out := drain(t, results)
	require.Len(t, out, 3)
	assert.Equal(t, "first", out[0].ID)
	assert.Equal(t, "second", out[1].ID)
	assert.Equal(t, "third", out[2].ID)
}

func TestSchedulerClearQueue(t *testing.T) {
	fake := &fakeAnalyzer{release: make(chan struct{})}
	s := NewScheduler(fake, 1, nil)

	results, err := s.SubmitBatch(context.Background(), []BatchItem{
		{ID: "running", Buffer: validBuffer(t)},
		{ID: "queued-1", Buffer: validBuffer(t)},
		{ID: "queued-2", Buffer: validBuffer(t)},
	})
	require.NoError(t, err)

	// Wait for the dispatcher to start the first item
	require.Eventually(t, func() bool {
		return s.Stats().Processing == 1
	}, 5*time.Second, time.Millisecond)

	assert.Equal(t, 2, s.ClearQueue())
	close(fake.release)

	out := drain(t, results)
	require.Len(t, out, 3)

	cleared := 0
	for _, r := range out {
		if errors.Is(r.Err, ErrQueueCleared) {
			cleared++
		}
	}
	assert.Equal(t, 2, cleared)

	stats := s.Stats()
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Dropped)
	assert.Equal(t, 0, stats.Pending)
}

func TestSchedulerStatusTracking(t *testing.T) {
	fake := &fakeAnalyzer{release: make(chan struct{})}
	s := NewScheduler(fake, 1, nil)

	results, err := s.SubmitBatch(context.Background(), []BatchItem{
		{ID: "one", Buffer: validBuffer(t)},
		{ID: "two", Buffer: validBuffer(t)},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, ok := s.Status("one")
		return ok && status == StatusProcessing
	}, 5*time.Second, time.Millisecond)

	status, ok := s.Status("two")
	require.True(t, ok)
	assert.Equal(t, StatusQueued, status)

	close(fake.release)
	drain(t, results)

	status, ok = s.Status("one")
	require.True(t, ok)
	assert.Equal(t, StatusDone, status)
}

func TestSchedulerContextCancellation(t *testing.T) {
	fake := &fakeAnalyzer{release: make(chan struct{})}
	s := NewScheduler(fake, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	results, err := s.SubmitBatch(ctx, []BatchItem{
		{ID: "running", Buffer: validBuffer(t)},
		{ID: "queued-1", Buffer: validBuffer(t)},
		{ID: "queued-2", Buffer: validBuffer(t)},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.Stats().Processing == 1
	}, 5*time.Second, time.Millisecond)

	cancel()
	close(fake.release)

	out := drain(t, results)
	require.Len(t, out, 3)

	canceled := 0
	for _, r := range out {
		if errors.Is(r.Err, context.Canceled) {
			canceled++
		}
	}
	assert.Equal(t, 2, canceled, "queued items fail with the context error; the in-flight one finishes")
	assert.Equal(t, 1, s.Stats().Completed)
	assert.Equal(t, 2, s.Stats().Failed)
}

func TestSchedulerRejectsDuplicateIDs(t *testing.T) {
	s := NewScheduler(&fakeAnalyzer{}, 1, nil)

	_, err := s.SubmitBatch(context.Background(), []BatchItem{
		{ID: "same", Buffer: validBuffer(t)},
		{ID: "same", Buffer: validBuffer(t)},
	})
	require.Error(t, err)

	_, err = s.SubmitBatch(context.Background(), []BatchItem{{ID: "", Buffer: validBuffer(t)}})
	require.Error(t, err)

	assert.Equal(t, 0, s.Stats().Submitted, "a rejected batch must not enqueue anything")
}

func TestSchedulerRejectsEmptyBatch(t *testing.T) {
	s := NewScheduler(&fakeAnalyzer{}, 1, nil)

	_, err := s.SubmitBatch(context.Background(), nil)
	require.Error(t, err)
}

func TestSchedulerSetConcurrencyLimit(t *testing.T) {
	fake := &fakeAnalyzer{delay: 10 * time.Millisecond}
	s := NewScheduler(fake, 1, nil)
	s.SetConcurrencyLimit(3)

	var batch []BatchItem
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		batch = append(batch, BatchItem{ID: id, Buffer: validBuffer(t)})
	}

	results, err := s.SubmitBatch(context.Background(), batch)
	require.NoError(t, err)
	drain(t, results)

	assert.LessOrEqual(t, atomic.LoadInt32(&fake.peak), int32(3))
	assert.Equal(t, 6, s.Stats().Completed)
}

func TestSchedulerSequentialBatches(t *testing.T) {
	s := NewScheduler(&fakeAnalyzer{}, 2, nil)

	first, err := s.SubmitBatch(context.Background(), []BatchItem{
		{ID: "batch1-a", Buffer: validBuffer(t)},
	})
	require.NoError(t, err)
	drain(t, first)

	second, err := s.SubmitBatch(context.Background(), []BatchItem{
		{ID: "batch2-a", Buffer: validBuffer(t)},
		{ID: "batch2-b", Buffer: validBuffer(t)},
	})
	require.NoError(t, err)
	out := drain(t, second)

	require.Len(t, out, 2)
	assert.Equal(t, 3, s.Stats().Completed)
}

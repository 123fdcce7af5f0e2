package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/SaudiBrother/Audio-checker/pkg/audio/pcm"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/quality"
)

// ErrQueueCleared is reported for items evicted from the queue before
// processing started.
var ErrQueueCleared = errors.New("queue cleared before processing")

// ItemStatus tracks a queued item through its lifecycle.
type ItemStatus string

const (
	StatusQueued     ItemStatus = "queued"
	StatusProcessing ItemStatus = "processing"
	StatusDone       ItemStatus = "done"
	StatusFailed     ItemStatus = "failed"
)

// Analyzer is the processing hook the scheduler drives. *Engine satisfies
// it; tests substitute their own.
type Analyzer interface {
	Analyze(ctx context.Context, buf *pcm.Buffer) (*quality.Verdict, error)
}

// BatchItem is one unit of work handed to SubmitBatch.
type BatchItem struct {
	ID     string
	Buffer *pcm.Buffer
}

// BatchResult reports the outcome for a single item. Exactly one of
// Verdict or Err is set.
type BatchResult struct {
	ID      string
	Verdict *quality.Verdict
	Err     error
}

// Stats is an aggregate snapshot of scheduler activity.
type Stats struct {
	Submitted  int `json:"submitted"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Dropped    int `json:"dropped"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
}

type queueItem struct {
	id      string
	buffer  *pcm.Buffer
	status  ItemStatus
	ctx     context.Context
	results chan<- BatchResult
	done    func()
}

// Scheduler runs analyses over a FIFO queue with a bounded number of
// concurrent workers. Items are pulled in batches of up to the concurrency
// limit; a batch fully drains before the next one is pulled. One item's
// failure never affects the others.
type Scheduler struct {
	analyzer Analyzer
	logger   logging.Logger

	mu         sync.Mutex
	queue      []*queueItem
	items      map[string]*queueItem
	limit      int
	processing int
	running    bool

	submitted int
	completed int
	failed    int
	dropped   int
}

// NewScheduler creates a scheduler with the given concurrency limit.
// Limits below 1 are raised to 1.
func NewScheduler(analyzer Analyzer, concurrency int, logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		analyzer: analyzer,
		logger:   logger.WithFields(logging.Fields{"component": "scheduler"}),
		items:    make(map[string]*queueItem),
		limit:    concurrency,
	}
}

// SetConcurrencyLimit changes how many items the next scheduling pass may
// run at once. In-flight items are unaffected.
func (s *Scheduler) SetConcurrencyLimit(n int) {
	if n < 1 {
		n = 1
	}
	s.mu.Lock()
	s.limit = n
	s.mu.Unlock()
}

// SubmitBatch enqueues the items and returns a channel that receives one
// result per item, in completion order. The channel is closed once every
// item has reached a terminal state. Item IDs must be non-empty and not
// collide with items already tracked.
func (s *Scheduler) SubmitBatch(ctx context.Context, batch []BatchItem) (<-chan BatchResult, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("empty batch")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	seen := make(map[string]struct{}, len(batch))
	for _, it := range batch {
		if it.ID == "" {
			s.mu.Unlock()
			return nil, fmt.Errorf("batch item with empty ID")
		}
		if _, dup := seen[it.ID]; dup {
			s.mu.Unlock()
			return nil, fmt.Errorf("duplicate batch item ID: %s", it.ID)
		}
		if _, exists := s.items[it.ID]; exists {
			s.mu.Unlock()
			return nil, fmt.Errorf("duplicate batch item ID: %s", it.ID)
		}
		seen[it.ID] = struct{}{}
	}

	results := make(chan BatchResult, len(batch))
	var wg sync.WaitGroup
	wg.Add(len(batch))
	go func() {
		wg.Wait()
		close(results)
	}()

	for _, it := range batch {
		qi := &queueItem{
			id:      it.ID,
			buffer:  it.Buffer,
			status:  StatusQueued,
			ctx:     ctx,
			results: results,
			done:    wg.Done,
		}
		s.queue = append(s.queue, qi)
		s.items[it.ID] = qi
		s.submitted++
	}
	start := !s.running
	if start {
		s.running = true
	}
	queued := len(s.queue)
	s.mu.Unlock()

	s.logger.Debug("Batch submitted", logging.Fields{
		"items":  len(batch),
		"queued": queued,
	})

	if start {
		go s.run()
	}
	return results, nil
}

// ClearQueue drops every item that has not started processing and returns
// how many were dropped. In-flight items run to completion.
func (s *Scheduler) ClearQueue() int {
	s.mu.Lock()
	cleared := s.queue
	s.queue = nil
	for _, qi := range cleared {
		qi.status = StatusFailed
		delete(s.items, qi.id)
		s.dropped++
	}
	s.mu.Unlock()

	for _, qi := range cleared {
		qi.results <- BatchResult{ID: qi.id, Err: ErrQueueCleared}
		qi.done()
	}
	if len(cleared) > 0 {
		s.logger.Debug("Queue cleared", logging.Fields{"dropped": len(cleared)})
	}
	return len(cleared)
}

// Stats returns an aggregate snapshot of scheduler activity.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Submitted:  s.submitted,
		Completed:  s.completed,
		Failed:     s.failed,
		Dropped:    s.dropped,
		Pending:    len(s.queue),
		Processing: s.processing,
	}
}

// Status reports the lifecycle state of a tracked item.
func (s *Scheduler) Status(id string) (ItemStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	qi, ok := s.items[id]
	if !ok {
		return "", false
	}
	return qi.status, true
}

// run is the single dispatch loop. It pulls up to limit items, runs them
// concurrently, waits for all of them, then pulls again until the queue
// is empty.
func (s *Scheduler) run() {
	for {
		batch := s.nextBatch()
		if len(batch) == 0 {
			return
		}

		var wg sync.WaitGroup
		for _, qi := range batch {
			wg.Add(1)
			go func(qi *queueItem) {
				defer wg.Done()
				s.process(qi)
			}(qi)
		}
		wg.Wait()

		s.mu.Lock()
		s.processing = 0
		s.mu.Unlock()
	}
}

func (s *Scheduler) nextBatch() []*queueItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.limit
	if n > len(s.queue) {
		n = len(s.queue)
	}
	if n == 0 {
		s.running = false
		return nil
	}

	batch := s.queue[:n]
	s.queue = s.queue[n:]
	for _, qi := range batch {
		qi.status = StatusProcessing
	}
	s.processing = n
	return batch
}

func (s *Scheduler) process(qi *queueItem) {
	var verdict *quality.Verdict
	err := qi.ctx.Err()
	if err == nil {
		verdict, err = s.analyzer.Analyze(qi.ctx, qi.buffer)
	}

	s.mu.Lock()
	if err != nil {
		qi.status = StatusFailed
		s.failed++
	} else {
		qi.status = StatusDone
		s.completed++
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(err, "Item analysis failed", logging.Fields{"id": qi.id})
		qi.results <- BatchResult{ID: qi.id, Err: err}
	} else {
		qi.results <- BatchResult{ID: qi.id, Verdict: verdict}
	}
	qi.done()
}

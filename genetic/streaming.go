package genetic

import (
	"context"
	"sync"
	"sync/atomic"
)

// StreamingRun provides non-blocking evolution
// The engine runs in its own goroutine and publishes a report per generation
type StreamingRun struct {
	engine  *Engine
	initial *Population
	stop    StoppingCondition

	reports chan GenerationReport
	done    chan struct{}

	latestMu sync.RWMutex
	latest   GenerationReport
	hasLast  bool

	result *Population
	err    error

	cancelMu sync.Mutex
	cancel   context.CancelFunc
	stopped  bool
	running  atomic.Bool
}

// NewStreamingRun prepares a background run
// The engine must not be used elsewhere until Wait returns; afterwards it can run again
// Reports are dropped when the buffer is full, Latest always holds the newest
func NewStreamingRun(engine *Engine, initial *Population, stop StoppingCondition, bufferSize int) *StreamingRun {
	return &StreamingRun{
		engine:  engine,
		initial: initial,
		stop:    stop,
		reports: make(chan GenerationReport, max(bufferSize, 0)),
		done:    make(chan struct{}),
	}
}

// Start launches evolution, later calls and calls after Stop are no-ops
func (r *StreamingRun) Start(ctx context.Context) {
	r.cancelMu.Lock()
	defer r.cancelMu.Unlock()
	if r.stopped || !r.running.CompareAndSwap(false, true) {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	go func() {
		defer close(r.done)
		defer close(r.reports)
		defer cancel()
		r.result, r.err = r.engine.evolve(ctx, r.initial, r.stop, ObserverFunc(r.publish))
	}()
}

// Stop requests termination at the next generation boundary
// Stopping before Start ends the run at once: Wait returns the initial population with context.Canceled
func (r *StreamingRun) Stop() {
	r.cancelMu.Lock()
	defer r.cancelMu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	if r.cancel != nil {
		r.cancel()
		return
	}

	// Never started: finish without touching the engine
	r.running.Store(true)
	r.result, r.err = r.initial, context.Canceled
	close(r.reports)
	close(r.done)
}

// Reports streams generation reports, closed when the run ends
func (r *StreamingRun) Reports() <-chan GenerationReport {
	return r.reports
}

// Done is closed when the run ends
func (r *StreamingRun) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run ends and returns Evolve's result
func (r *StreamingRun) Wait() (*Population, error) {
	<-r.done
	return r.result, r.err
}

// Latest returns the newest report without blocking
func (r *StreamingRun) Latest() (GenerationReport, bool) {
	r.latestMu.RLock()
	defer r.latestMu.RUnlock()
	return r.latest, r.hasLast
}

func (r *StreamingRun) publish(report GenerationReport) {
	r.latestMu.Lock()
	r.latest = report
	r.hasLast = true
	r.latestMu.Unlock()

	select {
	case r.reports <- report:
	default:
	}
}

package rawunravel

import "sync"

// ProgressEvent describes one pipeline phase transition. Events for a
// single job arrive in order; events for different jobs may interleave.
type ProgressEvent struct {
	JobID string
	Phase string
	Step  string
	Iter  int
	Total int
}

// ProgressFunc consumes progress events. It runs on the reporter's
// consumer goroutine, never on a decode worker, so UI-affinity callers
// can marshal from exactly one goroutine.
type ProgressFunc func(ProgressEvent)

// ProgressReporter is a fire-and-forget side channel from decode workers
// to a single consumer loop. Post never blocks the producing worker: events
// queue in an internal FIFO drained by one goroutine.
type ProgressReporter struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []ProgressEvent
	closed bool
	done   chan struct{}
}

// NewProgressReporter starts a reporter delivering events to fn. A nil fn
// yields a reporter that discards everything.
func NewProgressReporter(fn ProgressFunc) *ProgressReporter {
	p := &ProgressReporter{done: make(chan struct{})}
	p.cond = sync.NewCond(&p.mu)
	go p.run(fn)
	return p
}

// Post enqueues an event. Safe for concurrent use; never blocks. Events
// posted after Close are dropped.
func (p *ProgressReporter) Post(ev ProgressEvent) {
	p.mu.Lock()
	if !p.closed {
		p.queue = append(p.queue, ev)
		p.cond.Signal()
	}
	p.mu.Unlock()
}

// Close drains the queue, stops the consumer loop and waits for it to
// finish. Idempotent.
func (p *ProgressReporter) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	p.cond.Signal()
	p.mu.Unlock()
	<-p.done
}

func (p *ProgressReporter) run(fn ProgressFunc) {
	defer close(p.done)
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		batch := p.queue
		p.queue = nil
		closed := p.closed
		p.mu.Unlock()

		if fn != nil {
			for _, ev := range batch {
				fn(ev)
			}
		}
		if closed && len(batch) == 0 {
			return
		}
		if closed {
			// One more pass to drain anything racing with Close.
			p.mu.Lock()
			empty := len(p.queue) == 0
			p.mu.Unlock()
			if empty {
				return
			}
		}
	}
}

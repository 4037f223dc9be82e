// Package workerpool implements the fixed-size task executor (C2) shared by
// the whole process. Tasks are fire-and-forget closures; completion is
// observed externally via latches (pkg/latch), not via this package's API.
package workerpool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultSize is the default worker count, per spec.md §4.2.
const DefaultSize = 512

// Task is a unit of fire-and-forget work submitted to the pool.
type Task func()

// Pool is a fixed-size pool of worker goroutines pulling tasks from a
// shared queue. The invariant in_flight = enqueued - completed >= 0 holds
// at all times; Wait unblocks exactly when in_flight reaches zero.
type Pool struct {
	tasks    chan Task
	wg       sync.WaitGroup
	inFlight int64
	idleCond *sync.Cond
	idleMu   sync.Mutex
	capacity int

	closeOnce sync.Once
	closed    chan struct{}
}

// New starts a Pool with size worker goroutines and a task queue buffered
// to the given capacity. When the queue is full, TryAdd refuses the task
// and Add blocks until a worker frees a slot.
func New(size, capacity int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	if capacity <= 0 {
		capacity = size * 4
	}
	p := &Pool{
		tasks:    make(chan Task, capacity),
		capacity: capacity,
		closed:   make(chan struct{}),
	}
	p.idleCond = sync.NewCond(&p.idleMu)

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			p.runTask(t)
		case <-p.closed:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					p.runTask(t)
				default:
					return
				}
			}
		}
	}
}

// runTask executes a single task, recovering a panic so one bad leaf never
// kills a pool worker (spec.md §7: "the worker pool worker recovers and
// continues").
func (p *Pool) runTask(t Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("workerpool: task panicked: %v", r)
		}
		if atomic.AddInt64(&p.inFlight, -1) == 0 {
			p.idleMu.Lock()
			p.idleCond.Broadcast()
			p.idleMu.Unlock()
		}
	}()
	t()
}

// Add enqueues a task unconditionally; the in-flight counter increments
// immediately so a racing Wait observes the task as pending.
func (p *Pool) Add(t Task) {
	atomic.AddInt64(&p.inFlight, 1)
	select {
	case p.tasks <- t:
	case <-p.closed:
		// Pool shut down under us; run inline rather than drop the task
		// silently, matching "fire-and-forget" semantics as closely as
		// possible post-shutdown.
		p.runTask(t)
	}
}

// TryAdd enqueues t iff the queue has room, returning whether it was
// enqueued. The caller owns the task (and must run it itself) when this
// returns false.
func (p *Pool) TryAdd(t Task) bool {
	select {
	case <-p.closed:
		return false
	default:
	}
	atomic.AddInt64(&p.inFlight, 1)
	select {
	case p.tasks <- t:
		return true
	default:
		atomic.AddInt64(&p.inFlight, -1)
		return false
	}
}

// InFlight returns the current number of enqueued-but-not-completed tasks.
func (p *Pool) InFlight() int64 { return atomic.LoadInt64(&p.inFlight) }

// Wait blocks until in-flight reaches zero.
func (p *Pool) Wait() {
	p.idleMu.Lock()
	defer p.idleMu.Unlock()
	for atomic.LoadInt64(&p.inFlight) > 0 {
		p.idleCond.Wait()
	}
}

// WaitWithTimeout blocks until in-flight reaches zero or the deadline
// elapses, whichever comes first. Returns true iff the pool drained.
func (p *Pool) WaitWithTimeout(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(d):
		return atomic.LoadInt64(&p.inFlight) == 0
	}
}

// Shutdown signals producers-finished; workers exit once the queue drains.
// Shutdown blocks until every worker has exited, so tasks already queued
// or running when it is called have finished by the time it returns.
func (p *Pool) Shutdown() {
	p.closeOnce.Do(func() {
		close(p.closed)
	})
	p.wg.Wait()
}

package conut

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/vanrein/conut/metrics"
	"github.com/vanrein/conut/nut"
)

// schedulable is the scheduler-facing view of a coroutine, independent
// of its record type: Coroutine[T] implements it for every T, which
// lets one Scheduler drive coroutines of different classes in a single
// FIFO.
type schedulable interface {
	resume() (Outcome, error)
	terminated() bool
	wantsProcessTermination() bool
	Name() string
}

type node struct {
	s    schedulable
	next *node
}

// Scheduler maintains a FIFO of runnable coroutines and drives them to
// completion one resume at a time, on the calling goroutine. Within a
// single Scheduler, execution is strictly single-threaded cooperative:
// at most one coroutine runs at any instant, and it runs to its next
// voluntary yield.
type Scheduler struct {
	head, tail *node

	log     *zerolog.Logger
	metrics metrics.Provider

	spawnedCounter    metrics.Counter
	terminatedCounter metrics.Counter
	depthGauge        metrics.UpDownCounter
	resumeLatency     metrics.Histogram

	stopped bool
}

// NewScheduler constructs an empty Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	o := newOptions(opts...)
	return &Scheduler{
		log:               o.logger,
		metrics:           o.metrics,
		spawnedCounter:    o.metrics.Counter("conut_coroutines_spawned_total"),
		terminatedCounter: o.metrics.Counter("conut_coroutines_terminated_total"),
		depthGauge:        o.metrics.UpDownCounter("conut_runnable_queue_depth"),
		resumeLatency:     o.metrics.Histogram("conut_resume_seconds", metrics.WithUnit("s")),
	}
}

func (s *Scheduler) enqueue(sc schedulable) {
	n := &node{s: sc}
	if s.tail == nil {
		s.head, s.tail = n, n
	} else {
		s.tail.next = n
		s.tail = n
	}
	s.depthGauge.Add(1)
}

// Spawn allocates a coroutine of class with data and appends it to s's
// runnable queue. It becomes visible at the scheduler's next dequeue
// step: spawning from inside a running coroutine's entry function does
// not preempt the caller.
func Spawn[T any](s *Scheduler, class *Class[T], data T) (*Coroutine[T], error) {
	c, err := NewCoroutine(class, data)
	if err != nil {
		return nil, err
	}
	s.spawnedCounter.Add(1)
	s.enqueue(c)
	s.log.Debug().Str("coroutine", c.Name()).Msg("spawned")
	return c, nil
}

// Schedule enqueues root, then runs the FIFO until it drains: dequeue
// the head, resume it, re-enqueue at the tail if it returned More, drop
// it otherwise. Newly spawned coroutines are visible at the next
// dequeue step; there is no preemption. Returns once the queue is
// empty, or once a coroutine's exception handler requested process
// termination. Returns ErrEmptySchedule without running anything if root
// is nil and s has no already-enqueued coroutine of its own.
func Schedule[T any](s *Scheduler, root *Coroutine[T]) error {
	if root == nil && s.head == nil {
		return ErrEmptySchedule
	}
	if root != nil {
		s.spawnedCounter.Add(1)
		s.enqueue(root)
		s.log.Debug().Str("coroutine", root.Name()).Msg("scheduled")
	}
	s.run()
	return nil
}

func (s *Scheduler) run() {
	for s.head != nil && !s.stopped {
		n := s.head
		s.head = n.next
		n.next = nil
		if s.head == nil {
			s.tail = nil
		}
		s.depthGauge.Add(-1)

		start := time.Now()
		outcome, err := n.s.resume()
		s.resumeLatency.Record(time.Since(start).Seconds())

		if err != nil {
			s.log.Debug().Str("coroutine", n.s.Name()).Err(err).Msg("resume on terminated coroutine")
			continue
		}

		if outcome == Done {
			s.terminatedCounter.Add(1)
			s.log.Debug().Str("coroutine", n.s.Name()).Msg("terminated")
			if n.s.wantsProcessTermination() {
				s.stopped = true
			}
			continue
		}

		s.enqueue(n.s)
	}
}

// Destroy sets a connection-reset error on both ends of each of c's
// connected pipe nuts (each end drops its peer reference when it next
// calls Sync and receives the error), and marks c terminated
// without running its cleanup sweep: the caller is asserting that c is
// being force-abandoned, not that it finished normally. Idempotent.
// Deallocation itself needs no client action -- once the caller drops
// its own reference to c, the garbage collector reclaims it -- Destroy
// exists to give callers the same deterministic "done with this
// coroutine" moment the source runtime's destroy(C) offered.
func Destroy[T any](c *Coroutine[T]) {
	for _, p := range c.Pipes {
		if peer := p.Peer(); peer != nil {
			peer.SetError(nut.CodeConnReset)
		}
	}
	c.isTerminated = true
}

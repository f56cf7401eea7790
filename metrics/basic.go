package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// InMemoryProvider is a concurrency-safe Provider that keeps every
// instrument's value in the process's own memory: good enough for the
// sieve demo, conut's own tests, and any embedder that wants to read a
// Scheduler's spawn/terminate/resume-latency counts back out without
// standing up a real telemetry backend. Instruments of all three kinds
// share one registry keyed by (kind, name), created lazily on first use
// and reused for every later call with that name.
type InMemoryProvider struct {
	mu       sync.Mutex
	registry map[instrumentKey]any
	meta     map[instrumentKey]InstrumentMeta
}

type instrumentKind int

const (
	kindCounter instrumentKind = iota
	kindUpDownCounter
	kindHistogram
)

type instrumentKey struct {
	kind instrumentKind
	name string
}

// NewInMemoryProvider constructs an empty InMemoryProvider.
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		registry: make(map[instrumentKey]any),
		meta:     make(map[instrumentKey]InstrumentMeta),
	}
}

func getOrCreate[I any](p *InMemoryProvider, kind instrumentKind, name string, opts []InstrumentOption, construct func() I) I {
	key := instrumentKey{kind: kind, name: name}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.registry[key]; ok {
		return existing.(I)
	}
	p.meta[key] = newInstrumentMeta(opts)
	inst := construct()
	p.registry[key] = inst
	return inst
}

// Counter returns the monotonic counter instrument for name, creating it
// on first use.
func (p *InMemoryProvider) Counter(name string, opts ...InstrumentOption) Counter {
	return getOrCreate(p, kindCounter, name, opts, func() *MemoryCounter { return &MemoryCounter{} })
}

// UpDownCounter returns the up/down counter instrument for name,
// creating it on first use.
func (p *InMemoryProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	return getOrCreate(p, kindUpDownCounter, name, opts, func() *MemoryUpDownCounter { return &MemoryUpDownCounter{} })
}

// Histogram returns the histogram instrument for name, creating it on
// first use.
func (p *InMemoryProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	return getOrCreate(p, kindHistogram, name, opts, func() *MemoryHistogram {
		return &MemoryHistogram{min: math.Inf(1), max: math.Inf(-1)}
	})
}

// MemoryCounter is a thread-safe monotonic counter, e.g. conut's
// "coroutines spawned" / "coroutines terminated" instruments.
type MemoryCounter struct {
	val atomic.Int64
}

// Add increments the counter by n.
func (c *MemoryCounter) Add(n int64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *MemoryCounter) Snapshot() int64 { return c.val.Load() }

// MemoryUpDownCounter is a thread-safe bidirectional counter, e.g.
// conut's runnable-queue-depth gauge.
type MemoryUpDownCounter struct {
	val atomic.Int64
}

// Add adds n (positive or negative) to the current value.
func (u *MemoryUpDownCounter) Add(n int64) { u.val.Add(n) }

// Snapshot returns the current value.
func (u *MemoryUpDownCounter) Snapshot() int64 { return u.val.Load() }

// MemoryHistogram is a thread-safe distribution aggregator tracking
// count, sum, min, and max -- e.g. conut's per-resume latency
// instrument. It does not maintain buckets; it's a lightweight summary,
// not a percentile estimator.
type MemoryHistogram struct {
	mu    sync.Mutex
	count int64
	sum   float64
	min   float64
	max   float64
}

// Record adds a measurement to the histogram.
func (h *MemoryHistogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		h.min, h.max = v, v
	} else if v < h.min {
		h.min = v
	} else if v > h.max {
		h.max = v
	}
	h.count++
	h.sum += v
}

// HistogramSnapshot is an immutable snapshot of a MemoryHistogram.
type HistogramSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}

// Snapshot returns a copy of the histogram's state at the time of call.
func (h *MemoryHistogram) Snapshot() HistogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	var mean float64
	if h.count > 0 {
		mean = h.sum / float64(h.count)
	}
	return HistogramSnapshot{Count: h.count, Sum: h.sum, Min: h.min, Max: h.max, Mean: mean}
}

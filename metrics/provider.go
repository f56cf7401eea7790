// Package metrics gives a Scheduler somewhere to send its own
// operational counts -- coroutines spawned and terminated, runnable-queue
// depth, resume latency -- without committing this module to any one
// telemetry backend. A client that already ships zerolog/prometheus/otel
// wiring implements Provider once and passes it to conut.WithMetrics;
// a client that doesn't gets InMemoryProvider or NoopProvider for free.
package metrics

// Provider constructs the instruments a Scheduler records against. An
// instrument is created once per name and reused for every later call
// with that name -- a Scheduler asks for "conut_coroutines_spawned_total"
// exactly once at construction time and holds onto the returned Counter
// for the rest of its life.
//
// Keep this interface minimal and stable. If conut needs a new
// instrument kind later, add a separate optional interface rather than
// expanding this one.
type Provider interface {
	Counter(name string, opts ...InstrumentOption) Counter
	UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter
	Histogram(name string, opts ...InstrumentOption) Histogram
}

// Counter records a monotonically increasing count -- conut's Scheduler
// uses one for coroutines spawned and another for coroutines terminated.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records a value that moves in both directions -- conut's
// Scheduler uses one for the runnable-queue depth, which grows on every
// spawn/re-enqueue and shrinks on every dequeue.
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution of float64 measurements -- conut's
// Scheduler uses one for per-resume wall-clock latency, in seconds.
type Histogram interface {
	Record(v float64)
}

// InstrumentMeta carries the advisory metadata an instrument was
// constructed with. Providers are free to ignore all of it; it exists so
// a richer Provider (backed by a real metrics library) has somewhere to
// read a unit or description from without conut's call sites needing to
// know which backend is listening.
type InstrumentMeta struct {
	Description string
	Unit        string
	// Attributes are static key-value pairs associated with the
	// instrument itself, not with any one measurement. Keep cardinality
	// bounded -- this is metadata about the instrument, not a per-event
	// label set.
	Attributes map[string]string
}

// InstrumentOption mutates an InstrumentMeta at construction time.
type InstrumentOption func(*InstrumentMeta)

// WithDescription sets an advisory description for the instrument.
func WithDescription(desc string) InstrumentOption {
	return func(m *InstrumentMeta) { m.Description = desc }
}

// WithUnit sets an advisory unit for the instrument (e.g. "1", "s").
// conut's Scheduler uses this for its resume-latency histogram.
func WithUnit(unit string) InstrumentOption {
	return func(m *InstrumentMeta) { m.Unit = unit }
}

// WithAttributes attaches static attributes to the instrument (bounded
// cardinality only).
func WithAttributes(attrs map[string]string) InstrumentOption {
	return func(m *InstrumentMeta) {
		if len(attrs) == 0 {
			return
		}
		if m.Attributes == nil {
			m.Attributes = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			m.Attributes[k] = v
		}
	}
}

func newInstrumentMeta(opts []InstrumentOption) InstrumentMeta {
	var m InstrumentMeta
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

package metrics

// NoopProvider is the default Provider a Scheduler gets when no
// conut.WithMetrics option is supplied: every instrument it hands out
// discards whatever is recorded against it, so instrumentation calls in
// the hot resume path cost a method call and nothing else.
type NoopProvider struct{}

// NewNoopProvider constructs a Provider that discards all metrics.
func NewNoopProvider() NoopProvider { return NoopProvider{} }

func (NoopProvider) Counter(string, ...InstrumentOption) Counter { return noopInstrument{} }

func (NoopProvider) UpDownCounter(string, ...InstrumentOption) UpDownCounter {
	return noopInstrument{}
}

func (NoopProvider) Histogram(string, ...InstrumentOption) Histogram { return noopInstrument{} }

// noopInstrument satisfies Counter, UpDownCounter, and Histogram at
// once: none of the three retains any state, so one zero-size value
// serves all of them instead of three separate named types.
type noopInstrument struct{}

func (noopInstrument) Add(int64)      {}
func (noopInstrument) Record(float64) {}

package conut

import (
	"github.com/rs/zerolog"

	"github.com/vanrein/conut/metrics"
)

type schedulerOptions struct {
	logger  *zerolog.Logger
	metrics metrics.Provider
}

// Option configures a Scheduler at construction time.
type Option func(*schedulerOptions)

// WithLogger attaches a structured logger; the default is a no-op
// logger (zerolog.Nop()).
func WithLogger(logger zerolog.Logger) Option {
	return func(o *schedulerOptions) { o.logger = &logger }
}

// WithMetrics attaches a metrics.Provider; the default is
// metrics.NewNoopProvider().
func WithMetrics(provider metrics.Provider) Option {
	return func(o *schedulerOptions) {
		if provider != nil {
			o.metrics = provider
		}
	}
}

func newOptions(opts ...Option) schedulerOptions {
	nop := zerolog.Nop()
	o := schedulerOptions{
		logger:  &nop,
		metrics: metrics.NewNoopProvider(),
	}
	for _, opt := range opts {
		if opt == nil {
			panic("nil conut scheduler option")
		}
		opt(&o)
	}
	return o
}

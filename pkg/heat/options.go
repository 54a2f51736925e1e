package heat

import (
	"runtime"

	"go.uber.org/zap"
)

type options struct {
	workers   int
	logger    *zap.Logger
	smoothing float64
	limit     float64
}

// Option configures a Solver.
type Option func(*options)

func defaultOptions() options {
	return options{
		workers:   runtime.GOMAXPROCS(0),
		logger:    zap.NewNop(),
		smoothing: DefaultSmoothingFactor,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// WithWorkers sets how many goroutines share the per-point update. Results
// do not depend on it.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger sets the solver's logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSmoothingFactor scales the kernel smoothing length relative to the
// point spacing. The interaction radius is twice the smoothing length.
func WithSmoothingFactor(f float64) Option {
	return func(o *options) { o.smoothing = f }
}

// WithTimeLimit sets the simulated time after which Running reports false.
// A non-positive limit means no limit.
func WithTimeLimit(seconds float64) Option {
	return func(o *options) { o.limit = seconds }
}

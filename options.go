package cachetree

import "log/slog"

// treeOptions holds FilterTree construction-time configuration.
type treeOptions[O comparable] struct {
	metrics    MetricsCollector
	logger     *Logger
	setFactory SetFactory[O]
}

// Option configures FilterTree construction.
//
// Today options primarily exist to avoid exploding New's signature (metrics, logging,
// and the candidate-set representation). Breaking changes are possible while this
// module is pre-1.0.
type Option[O comparable] func(*treeOptions[O])

// WithMetrics configures a MetricsCollector for monitoring node builds and cache
// hit/miss rates. Pass nil to disable metrics collection (the default).
//
// Example with BasicMetricsCollector:
//
//	metrics := &cachetree.BasicMetricsCollector{}
//	tree, _ := cachetree.New(pipeline, candidates, cachetree.WithMetrics[Output](metrics))
//	stats := metrics.GetStats()
func WithMetrics[O comparable](mc MetricsCollector) Option[O] {
	return func(o *treeOptions[O]) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithLogger configures structured logging for node construction and error events.
// Pass nil to disable logging (the default).
func WithLogger[O comparable](logger *Logger) Option[O] {
	return func(o *treeOptions[O]) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger at the given level and installs it. Convenience
// wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel[O comparable](level slog.Level) Option[O] {
	return func(o *treeOptions[O]) {
		o.logger = NewTextLogger(level)
	}
}

// WithSetFactory overrides the candidate-set representation used internally by the
// tree. The default is a plain Go map (NewMapSetFactory); see package
// candidateset/roaring for a bitmap-backed alternative when O is uint32.
func WithSetFactory[O comparable](factory SetFactory[O]) Option[O] {
	return func(o *treeOptions[O]) {
		if factory != nil {
			o.setFactory = factory
		}
	}
}

func applyOptions[O comparable](optFns []Option[O]) treeOptions[O] {
	o := treeOptions[O]{
		metrics:    NoopMetricsCollector{},
		logger:     NoopLogger(),
		setFactory: NewMapSetFactory[O](),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

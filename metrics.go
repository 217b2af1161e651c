package cachetree

import "sync/atomic"

// MetricsCollector receives node-lifecycle events from a FilterTree. Implement this to
// integrate with monitoring systems; see package cachetreemetrics for a
// Prometheus-backed implementation.
type MetricsCollector interface {
	// RecordCacheHit is called when a fingerprint lookup finds an already-materialized
	// child node.
	RecordCacheHit()

	// RecordCacheMiss is called when a fingerprint lookup finds nothing and a new
	// child node must be built.
	RecordCacheMiss()

	// RecordNodeBuilt is called once a new child node has been constructed and
	// successfully installed as the durable entry for its fingerprint.
	RecordNodeBuilt()

	// RecordCollapsedEval is called each time an uncached branch runs its
	// straight-line narrowing pass instead of materializing tree nodes.
	RecordCollapsedEval()

	// RecordFingerprintError is called when a predicate returns the reserved zero
	// Fingerprint.
	RecordFingerprintError()

	// RecordPredicatePanic is called when predicate code panics during Matches.
	RecordPredicatePanic()
}

// NoopMetricsCollector discards all events. Use this when metrics collection is not
// needed; it is the default.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCacheHit()         {}
func (NoopMetricsCollector) RecordCacheMiss()        {}
func (NoopMetricsCollector) RecordNodeBuilt()        {}
func (NoopMetricsCollector) RecordCollapsedEval()    {}
func (NoopMetricsCollector) RecordFingerprintError() {}
func (NoopMetricsCollector) RecordPredicatePanic()   {}

// BasicMetricsCollector provides simple in-memory counters, useful for debugging and
// basic monitoring without wiring an external system.
type BasicMetricsCollector struct {
	CacheHits         atomic.Int64
	CacheMisses       atomic.Int64
	NodesBuilt        atomic.Int64
	CollapsedEvals    atomic.Int64
	FingerprintErrors atomic.Int64
	PredicatePanics   atomic.Int64
}

func (m *BasicMetricsCollector) RecordCacheHit()         { m.CacheHits.Add(1) }
func (m *BasicMetricsCollector) RecordCacheMiss()        { m.CacheMisses.Add(1) }
func (m *BasicMetricsCollector) RecordNodeBuilt()        { m.NodesBuilt.Add(1) }
func (m *BasicMetricsCollector) RecordCollapsedEval()    { m.CollapsedEvals.Add(1) }
func (m *BasicMetricsCollector) RecordFingerprintError() { m.FingerprintErrors.Add(1) }
func (m *BasicMetricsCollector) RecordPredicatePanic()   { m.PredicatePanics.Add(1) }

// GetStats returns a snapshot of the current counters.
func (m *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CacheHits:         m.CacheHits.Load(),
		CacheMisses:       m.CacheMisses.Load(),
		NodesBuilt:        m.NodesBuilt.Load(),
		CollapsedEvals:    m.CollapsedEvals.Load(),
		FingerprintErrors: m.FingerprintErrors.Load(),
		PredicatePanics:   m.PredicatePanics.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CacheHits         int64
	CacheMisses       int64
	NodesBuilt        int64
	CollapsedEvals    int64
	FingerprintErrors int64
	PredicatePanics   int64
}

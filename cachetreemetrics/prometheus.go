// Package cachetreemetrics provides a Prometheus-backed cachetree.MetricsCollector.
package cachetreemetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bisdreamz/caching-filter-tree"
)

// Prometheus implements cachetree.MetricsCollector with one unlabeled counter per
// event kind, registered under the "cachetree" namespace.
type Prometheus struct {
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	nodesBuilt        prometheus.Counter
	collapsedEvals    prometheus.Counter
	fingerprintErrors prometheus.Counter
	predicatePanics   prometheus.Counter
}

// NewPrometheus creates a Prometheus collector and registers its counters against reg.
// Pass prometheus.DefaultRegisterer to use the global registry.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	p := &Prometheus{
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cachetree",
			Name:      "cache_hits_total",
			Help:      "Number of fingerprint lookups that found an already-materialized child node.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cachetree",
			Name:      "cache_misses_total",
			Help:      "Number of fingerprint lookups that required building a new child node.",
		}),
		nodesBuilt: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cachetree",
			Name:      "nodes_built_total",
			Help:      "Number of child nodes constructed and installed as a durable cache entry.",
		}),
		collapsedEvals: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cachetree",
			Name:      "collapsed_evals_total",
			Help:      "Number of straight-line narrowing passes run by an uncached branch.",
		}),
		fingerprintErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cachetree",
			Name:      "fingerprint_errors_total",
			Help:      "Number of times a predicate returned the reserved absent fingerprint.",
		}),
		predicatePanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cachetree",
			Name:      "predicate_panics_total",
			Help:      "Number of panics recovered from predicate code during Matches.",
		}),
	}
	return p
}

func (p *Prometheus) RecordCacheHit()         { p.cacheHits.Inc() }
func (p *Prometheus) RecordCacheMiss()        { p.cacheMisses.Inc() }
func (p *Prometheus) RecordNodeBuilt()        { p.nodesBuilt.Inc() }
func (p *Prometheus) RecordCollapsedEval()    { p.collapsedEvals.Inc() }
func (p *Prometheus) RecordFingerprintError() { p.fingerprintErrors.Inc() }
func (p *Prometheus) RecordPredicatePanic()   { p.predicatePanics.Inc() }

var _ cachetree.MetricsCollector = (*Prometheus)(nil)

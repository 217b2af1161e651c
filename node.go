package cachetree

import "fmt"

// TreeNode is the recursive heart of the tree. It owns the immutable candidate frame it
// inherited from its parent, its predicate and cache instance (unless it is a leaf), and
// the tail of the pipeline its own children will consume. TreeNode fields are never
// mutated after construction — only the cache's contents change over the node's life.
type TreeNode[I any, O comparable] struct {
	frame     Set[O]
	predicate Predicate[I, O]
	cache     NodeCache[I, O]
	tail      []PipelineStep[I, O]
	leaf      bool
	depth     int

	metrics MetricsCollector
	logger  *Logger
}

// newTreeNode constructs a node for a given position in the tree. steps is the
// remaining pipeline this node and its descendants must consume; frame is the candidate
// set inherited from the parent (or the full candidate set, for the root).
func newTreeNode[I any, O comparable](steps []PipelineStep[I, O], frame Set[O], depth int, metrics MetricsCollector, logger *Logger) *TreeNode[I, O] {
	n := &TreeNode[I, O]{
		frame:   frame,
		depth:   depth,
		metrics: metrics,
		logger:  logger,
	}

	if len(steps) == 0 {
		n.leaf = true
		return n
	}

	head := steps[0]
	n.predicate = head.predicate
	if head.cache != nil {
		n.cache = head.cache.Spawn()
	}

	tail := make([]PipelineStep[I, O], len(steps)-1)
	copy(tail, steps[1:])
	n.tail = tail

	return n
}

// matches implements the recursive decision rules from spec.md §4.2.
func (n *TreeNode[I, O]) matches(input I) (Set[O], error) {
	if n.leaf || n.frame.Len() == 0 {
		return n.frame, nil
	}

	if n.cache != nil {
		return n.matchesCached(input)
	}

	return n.matchesCollapsed(input)
}

// matchesCached implements decision rule 2: consult the cache, building and installing
// a new child node on a miss.
func (n *TreeNode[I, O]) matchesCached(input I) (Set[O], error) {
	k, err := n.fingerprint(input)
	if err != nil {
		return nil, err
	}

	if child, ok := n.cache.Get(k); ok {
		n.metrics.RecordCacheHit()
		return child.matches(input)
	}

	n.metrics.RecordCacheMiss()

	if coalescer, ok := n.cache.(buildCoalescer[I, O]); ok {
		var built *TreeNode[I, O]
		winner, err := coalescer.GetOrBuild(k, func() (*TreeNode[I, O], error) {
			child, err := n.build(input)
			built = child
			return child, err
		})
		if err != nil {
			return nil, err
		}
		if winner == built {
			n.metrics.RecordNodeBuilt()
			n.logger.LogNodeBuilt(n.depth, winner.frame.Len())
		}
		return winner.matches(input)
	}

	child, err := n.build(input)
	if err != nil {
		return nil, err
	}

	winner := n.cache.Put(k, child)
	if winner == child {
		n.metrics.RecordNodeBuilt()
		n.logger.LogNodeBuilt(n.depth, winner.frame.Len())
	}

	return winner.matches(input)
}

// build narrows a fresh copy of this node's frame for input and constructs the child
// node that will own the result. It never touches the cache.
func (n *TreeNode[I, O]) build(input I) (child *TreeNode[I, O], err error) {
	defer n.recoverPredicate(&err)

	working := n.frame.Clone()
	n.predicate.Filter(input, working)

	child = newTreeNode[I, O](n.tail, working, n.depth+1, n.metrics, n.logger)

	return child, nil
}

// matchesCollapsed implements decision rule 3: no cache means no descendant has one
// either (the monotonic caching rule), so the remainder of the pipeline is evaluated as
// a single straight-line narrowing pass instead of materializing tree nodes.
func (n *TreeNode[I, O]) matchesCollapsed(input I) (result Set[O], err error) {
	defer n.recoverPredicate(&err)

	working := n.frame.Clone()
	n.predicate.Filter(input, working)

	for _, step := range n.tail {
		if working.Len() == 0 {
			break
		}
		step.predicate.Filter(input, working)
	}

	n.metrics.RecordCollapsedEval()

	return working, nil
}

func (n *TreeNode[I, O]) fingerprint(input I) (k Fingerprint, err error) {
	defer n.recoverPredicate(&err)

	k = n.predicate.Fingerprint(input)
	if k.IsZero() {
		n.metrics.RecordFingerprintError()
		n.logger.LogFingerprintError(n.depth)
		return Fingerprint{}, &ErrNilFingerprint{StepIndex: n.depth}
	}

	return k, nil
}

// recoverPredicate turns a panic raised by predicate code into an *ErrPredicate,
// recording it via the node's metrics/logger. It is meant to be deferred around any
// call into caller-supplied Predicate methods.
func (n *TreeNode[I, O]) recoverPredicate(errOut *error) {
	r := recover()
	if r == nil {
		return
	}

	var cause error
	if e, ok := r.(error); ok {
		cause = e
	} else {
		cause = fmt.Errorf("%v", r)
	}

	n.metrics.RecordPredicatePanic()
	n.logger.LogPredicatePanic(n.depth, cause)

	*errOut = &ErrPredicate{StepIndex: n.depth, cause: cause}
}

package cachetree

// PipelineStep immutably pairs a Predicate with an optional NodeCache prototype. The
// cache, if present, is used only to Spawn a per-node instance — see NodeCache.
type PipelineStep[I any, O comparable] struct {
	predicate Predicate[I, O]
	cache     NodeCache[I, O]
}

// NewPipelineStep constructs a PipelineStep. predicate must not be nil; cachePrototype
// may be nil (equivalently, NoCache[I, O]()) to mark this step and all subsequent steps
// as uncached.
func NewPipelineStep[I any, O comparable](predicate Predicate[I, O], cachePrototype NodeCache[I, O]) (PipelineStep[I, O], error) {
	if predicate == nil {
		return PipelineStep[I, O]{}, ErrNilPredicate
	}
	return PipelineStep[I, O]{predicate: predicate, cache: cachePrototype}, nil
}

// Pipeline is an ordered, finite, non-empty sequence of PipelineSteps. The order is
// load-bearing: it dictates the shape of the tree built from it and its cache locality.
type Pipeline[I any, O comparable] struct {
	steps []PipelineStep[I, O]
}

// NewPipeline constructs a Pipeline from one or more steps, in order. The step slice is
// copied; later mutation of the caller's slice does not affect the returned Pipeline.
func NewPipeline[I any, O comparable](steps ...PipelineStep[I, O]) (Pipeline[I, O], error) {
	if len(steps) == 0 {
		return Pipeline[I, O]{}, ErrEmptyPipeline
	}
	cp := make([]PipelineStep[I, O], len(steps))
	copy(cp, steps)
	return Pipeline[I, O]{steps: cp}, nil
}

// Len returns the number of steps in the pipeline.
func (p Pipeline[I, O]) Len() int {
	return len(p.steps)
}

package cachetree

import "reflect"

// FilterTree is the user-facing façade: it validates a Pipeline, constructs the root
// TreeNode seeded with the full candidate set, and forwards match queries to it.
type FilterTree[I any, O comparable] struct {
	root *TreeNode[I, O]
}

// New validates pipeline and candidates per spec.md §4.1's validation contract, then
// constructs the root node. Validation runs in this fixed order:
//  1. reject an empty pipeline
//  2. reject an empty candidate set
//  3. reject a pipeline containing two structurally equal steps
//  4. enforce the monotonic caching rule (no cache-bearing step may follow a
//     cacheless one)
//
// candidates is copied; the caller's slice is never retained or mutated.
func New[I any, O comparable](pipeline Pipeline[I, O], candidates []O, opts ...Option[O]) (*FilterTree[I, O], error) {
	if len(pipeline.steps) == 0 {
		return nil, ErrEmptyPipeline
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}
	if err := checkDuplicateSteps(pipeline.steps); err != nil {
		return nil, err
	}
	if err := checkMonotonicCaching(pipeline.steps); err != nil {
		return nil, err
	}

	o := applyOptions(opts)

	seed := make([]O, len(candidates))
	copy(seed, candidates)
	frame := Set[O](o.setFactory(seed))

	root := newTreeNode[I, O](pipeline.steps, frame, 0, o.metrics, o.logger)

	return &FilterTree[I, O]{root: root}, nil
}

// Matches evaluates input against the tree and returns the surviving candidates. The
// returned Set is read-only from the caller's perspective; it is empty if no candidate
// survives. Errors surface from predicate failures (a predicate panicking) or a
// predicate returning an absent fingerprint where the pipeline requires caching.
func (t *FilterTree[I, O]) Matches(input I) (Set[O], error) {
	return t.root.matches(input)
}

func checkDuplicateSteps[I any, O comparable](steps []PipelineStep[I, O]) error {
	for i := 0; i < len(steps); i++ {
		for j := i + 1; j < len(steps); j++ {
			if reflect.DeepEqual(steps[i], steps[j]) {
				return &ErrDuplicateStep{Index: j}
			}
		}
	}
	return nil
}

// checkMonotonicCaching enforces spec.md's monotonic caching rule: scan the pipeline;
// the first step with no cache switches an internal flag off; every subsequent step
// must also have no cache.
func checkMonotonicCaching[I any, O comparable](steps []PipelineStep[I, O]) error {
	cachingAllowed := true
	for i, step := range steps {
		hasCache := step.cache != nil
		if !hasCache {
			cachingAllowed = false
			continue
		}
		if !cachingAllowed {
			return &ErrInvalidCacheOrdering{Index: i}
		}
	}
	return nil
}

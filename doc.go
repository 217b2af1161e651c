// Package cachetree evaluates a fixed set of candidate values against a stream of
// inputs using an ordered pipeline of predicates, memoizing intermediate results along
// a tree of computation paths so repeated inputs converge to a sequence of map lookups
// instead of full re-evaluation.
//
// Callers bring their own predicates (the matching logic for one field of the input) and
// their own cache backends (how a node remembers a previously computed subtree); this
// package composes them into a concurrency-safe decision tree.
//
// # Quick Start
//
//	rangeStep, _ := cachetree.NewPipelineStep[Input, Output](rangePredicate, cache.NewMapCache[Input, Output]())
//	constStep, _ := cachetree.NewPipelineStep[Input, Output](constPredicate, cachetree.NoCache[Input, Output]())
//	pipeline, _ := cachetree.NewPipeline(rangeStep, constStep)
//	tree, err := cachetree.New(pipeline, candidates)
//	matched, err := tree.Matches(input)
//
// # Pipeline Order
//
// The order of pipeline steps dictates the shape of the tree and its cache locality.
// Place high-selectivity or expensive predicates first to get the best hit rates.
//
// # Caching Rule
//
// Once a pipeline step omits its cache, every later step must also omit its cache
// (the monotonic caching rule). A fully uncached pipeline is valid; it is evaluated as a
// single straight-line narrowing pass with no tree materialization at all.
//
// # Concurrency
//
// Many goroutines may call Matches concurrently on the same FilterTree. There is no
// internal worker pool; all work runs on the caller's goroutine. Two goroutines racing
// to build the same child node will both evaluate the predicate, but the cache's Put
// guarantees exactly one child becomes durable — see the cache package for backends
// that additionally coalesce concurrent build attempts.
package cachetree

package cachetree

import (
	"errors"
	"fmt"
)

// Configuration errors — returned synchronously from NewPipeline/NewPipelineStep/New,
// never from Matches.
var (
	// ErrNilPredicate is returned by NewPipelineStep when predicate is nil.
	ErrNilPredicate = errors.New("cachetree: predicate must not be nil")

	// ErrEmptyPipeline is returned when a Pipeline has no steps.
	ErrEmptyPipeline = errors.New("cachetree: pipeline must not be empty")

	// ErrEmptyCandidateSet is returned when New is given no candidates.
	ErrEmptyCandidateSet = errors.New("cachetree: candidate set must not be empty")
)

// ErrDuplicateStep indicates two pipeline steps are structurally equal (spec invariant:
// pipeline steps must be pairwise distinct).
type ErrDuplicateStep struct {
	// Index is the position of the second occurrence of the duplicated step.
	Index int
}

func (e *ErrDuplicateStep) Error() string {
	return fmt.Sprintf("cachetree: duplicate pipeline step at index %d", e.Index)
}

// ErrInvalidCacheOrdering indicates a cache-bearing step follows a cacheless one,
// violating the monotonic caching rule: once a step omits its cache, every later step
// must also omit its cache.
type ErrInvalidCacheOrdering struct {
	// Index is the position of the offending cache-bearing step.
	Index int
}

func (e *ErrInvalidCacheOrdering) Error() string {
	return fmt.Sprintf("cachetree: step %d has a cache but follows a cacheless step", e.Index)
}

// ErrNilFingerprint is a fatal, runtime (not construction-time) error: a Predicate
// returned the reserved zero Fingerprint where spec invariant 4 requires one to always
// be present.
type ErrNilFingerprint struct {
	// StepIndex is the depth of the offending node, counted from the root.
	StepIndex int
}

func (e *ErrNilFingerprint) Error() string {
	return fmt.Sprintf("cachetree: predicate at step %d returned an absent fingerprint", e.StepIndex)
}

// ErrPredicate wraps a panic recovered from user predicate code during Matches. The
// tree is left consistent: no partial cache entry is committed for a build that failed
// this way.
type ErrPredicate struct {
	// StepIndex is the depth of the node whose predicate failed.
	StepIndex int
	cause     error
}

func (e *ErrPredicate) Error() string {
	return fmt.Sprintf("cachetree: predicate at step %d failed: %v", e.StepIndex, e.cause)
}

func (e *ErrPredicate) Unwrap() error { return e.cause }

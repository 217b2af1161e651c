package cachetree

// Predicate is the unit of filtering logic for one field/dimension of the pipeline.
// Implementations are supplied by the caller; the core never inspects candidate or
// input internals beyond what Predicate exposes.
//
// Filter must narrow outputs in place by removing every candidate that does not satisfy
// the predicate for the given input. Fingerprint must derive a memoization key for the
// given input and must never return the zero Fingerprint — doing so is a fatal
// configuration/runtime error (ErrNilFingerprint), surfaced from Matches.
//
// Implementations should fold multiple input fields into a single compound Fingerprint
// when they participate together, so one cache lookup covers the whole compound — see
// the samples package for worked examples.
type Predicate[I any, O comparable] interface {
	// Filter removes candidates from outputs that do not satisfy this predicate for
	// input. outputs is a private working copy; mutating it does not affect the
	// caller's original candidate set.
	Filter(input I, outputs MutableSet[O])

	// Fingerprint derives the memoization key for input. Must never return the zero
	// Fingerprint.
	Fingerprint(input I) Fingerprint
}

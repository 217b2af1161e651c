package cachetree

// Set is a read-only view over a candidate frame — the surviving candidates at a given
// tree depth. Implementations must be safe for concurrent reads; a Set is never mutated
// once it has been observed by a caller (spec invariant: frames are immutable).
type Set[O comparable] interface {
	// Contains reports whether o survived narrowing.
	Contains(o O) bool
	// Len returns the number of surviving candidates.
	Len() int
	// Each calls fn for every surviving candidate, stopping early if fn returns false.
	Each(fn func(O) bool)
	// Clone returns an independent mutable copy, used to narrow a child frame without
	// touching the parent's.
	Clone() MutableSet[O]
}

// MutableSet is a Set a Predicate may narrow in place by removing candidates that fail
// to match. Narrowing always begins from a Clone of the parent frame — the parent frame
// itself is never mutated.
type MutableSet[O comparable] interface {
	Set[O]
	// Remove drops o from the set. A no-op if o is not present.
	Remove(o O)
}

// SetFactory builds the mutable candidate-set representation a FilterTree uses
// internally, seeded from the caller-supplied candidates. The default, used when no
// SetFactory option is given, is a plain Go map. See package candidateset/roaring for a
// bitmap-backed alternative tuned for dense uint32 candidate IDs.
type SetFactory[O comparable] func(candidates []O) MutableSet[O]

// mapSet is the default, general-purpose Set/MutableSet backed by a Go map. It never
// assumes anything about O beyond comparability.
type mapSet[O comparable] struct {
	m map[O]struct{}
}

// NewMapSetFactory returns the default map-backed SetFactory. FilterTree uses this
// automatically unless WithSetFactory overrides it.
func NewMapSetFactory[O comparable]() SetFactory[O] {
	return func(candidates []O) MutableSet[O] {
		m := make(map[O]struct{}, len(candidates))
		for _, c := range candidates {
			m[c] = struct{}{}
		}
		return &mapSet[O]{m: m}
	}
}

func (s *mapSet[O]) Contains(o O) bool {
	_, ok := s.m[o]
	return ok
}

func (s *mapSet[O]) Len() int {
	return len(s.m)
}

func (s *mapSet[O]) Each(fn func(O) bool) {
	for c := range s.m {
		if !fn(c) {
			return
		}
	}
}

func (s *mapSet[O]) Clone() MutableSet[O] {
	cp := make(map[O]struct{}, len(s.m))
	for c := range s.m {
		cp[c] = struct{}{}
	}
	return &mapSet[O]{m: cp}
}

func (s *mapSet[O]) Remove(o O) {
	delete(s.m, o)
}

// ToSlice materializes a Set as a slice. The element order is unspecified — spec.md
// makes no ordering guarantee among match results.
func ToSlice[O comparable](s Set[O]) []O {
	out := make([]O, 0, s.Len())
	s.Each(func(o O) bool {
		out = append(out, o)
		return true
	})
	return out
}

package samples

import (
	"fmt"

	"github.com/bisdreamz/caching-filter-tree"
)

// RangePredicate removes candidates whose Value falls outside the Input's
// [RangeMin, RangeMax] window, mirroring the original demo's range filter.
type RangePredicate struct{}

func (RangePredicate) Filter(input Input, outputs cachetree.MutableSet[Output]) {
	var toRemove []Output
	outputs.Each(func(o Output) bool {
		if o.Value < input.RangeMin || o.Value > input.RangeMax {
			toRemove = append(toRemove, o)
		}
		return true
	})
	for _, o := range toRemove {
		outputs.Remove(o)
	}
}

// Fingerprint keys on the range bounds alone: every input sharing the same
// [RangeMin, RangeMax] window produces an identical narrowing, so they share a cache
// entry regardless of any other field.
func (RangePredicate) Fingerprint(input Input) cachetree.Fingerprint {
	return cachetree.NewFingerprint(fmt.Sprintf("%d:%d", input.RangeMin, input.RangeMax))
}

package samples

import (
	"sort"
	"strings"

	"github.com/bisdreamz/caching-filter-tree"
)

// ConstPredicate removes candidates whose Tag does not appear in the Input's Tags list,
// mirroring the original demo's const-membership filter.
type ConstPredicate struct{}

func (ConstPredicate) Filter(input Input, outputs cachetree.MutableSet[Output]) {
	allowed := make(map[Const]struct{}, len(input.Tags))
	for _, t := range input.Tags {
		allowed[t] = struct{}{}
	}

	var toRemove []Output
	outputs.Each(func(o Output) bool {
		if _, ok := allowed[o.Tag]; !ok {
			toRemove = append(toRemove, o)
		}
		return true
	})
	for _, o := range toRemove {
		outputs.Remove(o)
	}
}

// Fingerprint keys on the sorted, deduplicated tag set: unlike the original demo's
// order-and-duplicate-sensitive hashCode() summation, two inputs whose Tags contain the
// same set of values in any order or multiplicity produce the same key.
func (ConstPredicate) Fingerprint(input Input) cachetree.Fingerprint {
	seen := make(map[Const]struct{}, len(input.Tags))
	unique := make([]string, 0, len(input.Tags))
	for _, t := range input.Tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, string(t))
	}
	sort.Strings(unique)
	return cachetree.NewFingerprint(strings.Join(unique, ","))
}

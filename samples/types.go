// Package samples provides a worked, runnable Input/Output pair and two Predicate
// implementations over them, modeled on the original demo's TestInput/TestOutput and
// TestRangeFilter/TestConstFilter. cmd/cachetreedemo wires them into a FilterTree.
package samples

import (
	"fmt"
	"math/rand"
)

// Const is a small closed enumeration used by ConstPredicate, standing in for whatever
// discrete tag a real deployment's candidates carry.
type Const string

const (
	ConstAlpha Const = "alpha"
	ConstBeta  Const = "beta"
	ConstGamma Const = "gamma"
	ConstDelta Const = "delta"
)

var allConsts = []Const{ConstAlpha, ConstBeta, ConstGamma, ConstDelta}

// Input is a sample input type carrying the fields the sample predicates read: a numeric
// range to test candidates against, and a list of Const tags a candidate's own tag must
// appear in.
type Input struct {
	RangeMin int
	RangeMax int
	Tags     []Const
}

// Output is a sample candidate type: a numeric value tested against an Input's range,
// and a single Const tag tested against an Input's tag list.
type Output struct {
	ID    int
	Value int
	Tag   Const
}

// SampleOne returns a narrow input: a tight range and a single accepted tag.
func SampleOne() Input {
	return Input{RangeMin: 10, RangeMax: 20, Tags: []Const{ConstAlpha}}
}

// SampleTwo returns a wider input: a broad range and two accepted tags.
func SampleTwo() Input {
	return Input{RangeMin: 0, RangeMax: 100, Tags: []Const{ConstAlpha, ConstGamma}}
}

// SampleRandomPool generates n candidates with values spread across [0, 200) and tags
// drawn uniformly from allConsts, for exercising cache build volume in the demo.
func SampleRandomPool(n int, rng *rand.Rand) []Output {
	pool := make([]Output, n)
	for i := 0; i < n; i++ {
		pool[i] = Output{
			ID:    i,
			Value: rng.Intn(200),
			Tag:   allConsts[rng.Intn(len(allConsts))],
		}
	}
	return pool
}

func (o Output) String() string {
	return fmt.Sprintf("Output{ID: %d, Value: %d, Tag: %s}", o.ID, o.Value, o.Tag)
}

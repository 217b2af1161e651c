package cachetree_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/bisdreamz/caching-filter-tree"
	"github.com/bisdreamz/caching-filter-tree/cache"
)

// candidate and input types local to this test file, independent of package samples.

type candidate struct {
	Name       string
	RangeValue int
	Const      string
}

type input struct {
	Str      string
	RangeMin int
	RangeMax int
	List     []string
}

// countingRangePredicate counts calls to Filter/Fingerprint so tests can assert on
// exactly how many times predicate code actually ran (testable property 3, scenario S6).
type countingRangePredicate struct {
	filterCalls      atomic.Int64
	fingerprintCalls atomic.Int64
}

func (p *countingRangePredicate) Filter(in input, outputs cachetree.MutableSet[candidate]) {
	p.filterCalls.Add(1)
	var remove []candidate
	outputs.Each(func(c candidate) bool {
		if c.RangeValue < in.RangeMin || c.RangeValue > in.RangeMax {
			remove = append(remove, c)
		}
		return true
	})
	for _, c := range remove {
		outputs.Remove(c)
	}
}

func (p *countingRangePredicate) Fingerprint(in input) cachetree.Fingerprint {
	p.fingerprintCalls.Add(1)
	return cachetree.NewFingerprint([2]int{in.RangeMin, in.RangeMax})
}

type countingConstPredicate struct {
	filterCalls      atomic.Int64
	fingerprintCalls atomic.Int64
}

func (p *countingConstPredicate) Filter(in input, outputs cachetree.MutableSet[candidate]) {
	p.filterCalls.Add(1)
	allowed := make(map[string]struct{}, len(in.List))
	for _, v := range in.List {
		allowed[v] = struct{}{}
	}
	var remove []candidate
	outputs.Each(func(c candidate) bool {
		if _, ok := allowed[c.Const]; !ok {
			remove = append(remove, c)
		}
		return true
	})
	for _, c := range remove {
		outputs.Remove(c)
	}
}

func (p *countingConstPredicate) Fingerprint(in input) cachetree.Fingerprint {
	p.fingerprintCalls.Add(1)
	key := ""
	for _, v := range in.List {
		key += v + ","
	}
	return cachetree.NewFingerprint(key)
}

func s1Candidates() []candidate {
	return []candidate{
		{Name: "A", RangeValue: 4, Const: "ONE"},
		{Name: "B", RangeValue: 5, Const: "ONE"},
	}
}

func s1Input() input {
	return input{Str: "s", RangeMin: 5, RangeMax: 10, List: []string{"ONE", "FOUR"}}
}

func TestS1BothNodesCached(t *testing.T) {
	rangePred := &countingRangePredicate{}
	constPred := &countingConstPredicate{}

	step1, err := cachetree.NewPipelineStep[input, candidate](rangePred, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	step2, err := cachetree.NewPipelineStep[input, candidate](constPred, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)

	pipeline, err := cachetree.NewPipeline(step1, step2)
	require.NoError(t, err)

	tree, err := cachetree.New(pipeline, s1Candidates())
	require.NoError(t, err)

	result, err := tree.Matches(s1Input())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Len())
	assert.True(t, result.Contains(candidate{Name: "B", RangeValue: 5, Const: "ONE"}))
}

func TestS2SecondNodeUncached(t *testing.T) {
	rangePred := &countingRangePredicate{}
	constPred := &countingConstPredicate{}

	step1, err := cachetree.NewPipelineStep[input, candidate](rangePred, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	step2, err := cachetree.NewPipelineStep[input, candidate](constPred, cachetree.NoCache[input, candidate]())
	require.NoError(t, err)

	pipeline, err := cachetree.NewPipeline(step1, step2)
	require.NoError(t, err)

	tree, err := cachetree.New(pipeline, s1Candidates())
	require.NoError(t, err)

	result, err := tree.Matches(s1Input())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Len())
}

func TestS3InvalidPipelineRejected(t *testing.T) {
	rangePred := &countingRangePredicate{}
	constPred := &countingConstPredicate{}

	step1, err := cachetree.NewPipelineStep[input, candidate](rangePred, cachetree.NoCache[input, candidate]())
	require.NoError(t, err)
	step2, err := cachetree.NewPipelineStep[input, candidate](constPred, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)

	pipeline, err := cachetree.NewPipeline(step1, step2)
	require.NoError(t, err)

	_, err = cachetree.New(pipeline, s1Candidates())
	require.Error(t, err)
	var target *cachetree.ErrInvalidCacheOrdering
	assert.ErrorAs(t, err, &target)
}

func TestS4EmptyPipelineRejected(t *testing.T) {
	_, err := cachetree.NewPipeline[input, candidate]()
	require.ErrorIs(t, err, cachetree.ErrEmptyPipeline)
}

func TestS5EmptyCandidateSetRejected(t *testing.T) {
	rangePred := &countingRangePredicate{}
	step, err := cachetree.NewPipelineStep[input, candidate](rangePred, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	pipeline, err := cachetree.NewPipeline(step)
	require.NoError(t, err)

	_, err = cachetree.New(pipeline, nil)
	require.ErrorIs(t, err, cachetree.ErrEmptyCandidateSet)
}

func TestS6CacheHitSkipsPredicate(t *testing.T) {
	rangePred := &countingRangePredicate{}
	constPred := &countingConstPredicate{}

	step1, err := cachetree.NewPipelineStep[input, candidate](rangePred, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	step2, err := cachetree.NewPipelineStep[input, candidate](constPred, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)

	pipeline, err := cachetree.NewPipeline(step1, step2)
	require.NoError(t, err)

	tree, err := cachetree.New(pipeline, s1Candidates())
	require.NoError(t, err)

	in := s1Input()

	first, err := tree.Matches(in)
	require.NoError(t, err)

	rangeFiltersBefore := rangePred.filterCalls.Load()
	constFiltersBefore := constPred.filterCalls.Load()
	require.Equal(t, int64(1), rangeFiltersBefore)
	require.Equal(t, int64(1), constFiltersBefore)

	second, err := tree.Matches(in)
	require.NoError(t, err)

	assert.Equal(t, rangeFiltersBefore, rangePred.filterCalls.Load())
	assert.Equal(t, constFiltersBefore, constPred.filterCalls.Load())
	assert.ElementsMatch(t, cachetree.ToSlice[candidate](first), cachetree.ToSlice[candidate](second))
}

func TestS7ConcurrentMissInstallsExactlyOneWinner(t *testing.T) {
	rangePred := &countingRangePredicate{}
	constPred := &countingConstPredicate{}

	step1, err := cachetree.NewPipelineStep[input, candidate](rangePred, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	step2, err := cachetree.NewPipelineStep[input, candidate](constPred, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)

	pipeline, err := cachetree.NewPipeline(step1, step2)
	require.NoError(t, err)

	metrics := &cachetree.BasicMetricsCollector{}
	tree, err := cachetree.New(pipeline, s1Candidates(), cachetree.WithMetrics[candidate](metrics))
	require.NoError(t, err)

	in := s1Input()
	const n = 64

	results := make([]cachetree.Set[candidate], n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			r, err := tree.Matches(in)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	require.NoError(t, g.Wait())

	want := cachetree.ToSlice(results[0])
	for i := 1; i < n; i++ {
		assert.ElementsMatch(t, want, cachetree.ToSlice(results[i]))
	}
	assert.Equal(t, int64(2), metrics.GetStats().NodesBuilt, "exactly one durable child per cached node")
}

// TestCorrectnessVsStraightLine verifies property 1: matches(x) equals applying every
// predicate in order to a fresh copy of the candidate set, regardless of caching.
func TestCorrectnessVsStraightLine(t *testing.T) {
	candidates := []candidate{
		{Name: "A", RangeValue: 1, Const: "ONE"},
		{Name: "B", RangeValue: 6, Const: "TWO"},
		{Name: "C", RangeValue: 9, Const: "ONE"},
		{Name: "D", RangeValue: 50, Const: "THREE"},
	}
	in := input{RangeMin: 5, RangeMax: 10, List: []string{"ONE"}}

	step1, err := cachetree.NewPipelineStep[input, candidate](&countingRangePredicate{}, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	step2, err := cachetree.NewPipelineStep[input, candidate](&countingConstPredicate{}, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	pipeline, err := cachetree.NewPipeline(step1, step2)
	require.NoError(t, err)

	tree, err := cachetree.New(pipeline, candidates)
	require.NoError(t, err)

	got, err := tree.Matches(in)
	require.NoError(t, err)

	want := straightLine(candidates, in)
	assert.ElementsMatch(t, want, cachetree.ToSlice(got))
}

func straightLine(candidates []candidate, in input) []candidate {
	var out []candidate
	for _, c := range candidates {
		if c.RangeValue < in.RangeMin || c.RangeValue > in.RangeMax {
			continue
		}
		ok := false
		for _, v := range in.List {
			if v == c.Const {
				ok = true
				break
			}
		}
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// TestNoMutationOfCallerCandidateSet verifies property 5: the slice passed to New is
// never observably modified by repeated Matches calls.
func TestNoMutationOfCallerCandidateSet(t *testing.T) {
	original := s1Candidates()
	candidatesCopy := make([]candidate, len(original))
	copy(candidatesCopy, original)

	step1, err := cachetree.NewPipelineStep[input, candidate](&countingRangePredicate{}, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	step2, err := cachetree.NewPipelineStep[input, candidate](&countingConstPredicate{}, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	pipeline, err := cachetree.NewPipeline(step1, step2)
	require.NoError(t, err)

	tree, err := cachetree.New(pipeline, original)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := tree.Matches(s1Input())
		require.NoError(t, err)
	}

	assert.Equal(t, candidatesCopy, original)
}

// TestMonotonicCacheRuleAllowsFullyUncachedPipeline covers spec.md's open question: a
// pipeline whose first step has no cache is valid and evaluates via the collapsed path.
func TestMonotonicCacheRuleAllowsFullyUncachedPipeline(t *testing.T) {
	step1, err := cachetree.NewPipelineStep[input, candidate](&countingRangePredicate{}, cachetree.NoCache[input, candidate]())
	require.NoError(t, err)
	step2, err := cachetree.NewPipelineStep[input, candidate](&countingConstPredicate{}, cachetree.NoCache[input, candidate]())
	require.NoError(t, err)
	pipeline, err := cachetree.NewPipeline(step1, step2)
	require.NoError(t, err)

	tree, err := cachetree.New(pipeline, s1Candidates())
	require.NoError(t, err)

	result, err := tree.Matches(s1Input())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Len())
}

func TestFingerprintAbsentIsFatal(t *testing.T) {
	pred := zeroFingerprintPredicate{}
	step, err := cachetree.NewPipelineStep[input, candidate](pred, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	pipeline, err := cachetree.NewPipeline(step)
	require.NoError(t, err)

	tree, err := cachetree.New(pipeline, s1Candidates())
	require.NoError(t, err)

	_, err = tree.Matches(s1Input())
	require.Error(t, err)
	var target *cachetree.ErrNilFingerprint
	assert.ErrorAs(t, err, &target)
}

type zeroFingerprintPredicate struct{}

func (zeroFingerprintPredicate) Filter(in input, outputs cachetree.MutableSet[candidate]) {}
func (zeroFingerprintPredicate) Fingerprint(in input) cachetree.Fingerprint {
	return cachetree.Fingerprint{}
}

func TestPredicatePanicIsRecovered(t *testing.T) {
	step, err := cachetree.NewPipelineStep[input, candidate](panickingPredicate{}, cache.NewMapCache[input, candidate]())
	require.NoError(t, err)
	pipeline, err := cachetree.NewPipeline(step)
	require.NoError(t, err)

	tree, err := cachetree.New(pipeline, s1Candidates())
	require.NoError(t, err)

	_, err = tree.Matches(s1Input())
	require.Error(t, err)
	var target *cachetree.ErrPredicate
	assert.ErrorAs(t, err, &target)
}

type panickingPredicate struct{}

func (panickingPredicate) Filter(in input, outputs cachetree.MutableSet[candidate]) {
	panic("boom")
}
func (panickingPredicate) Fingerprint(in input) cachetree.Fingerprint {
	return cachetree.NewFingerprint(in.Str)
}

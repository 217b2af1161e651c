package cache

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bisdreamz/caching-filter-tree"
)

// CoalescingCache strengthens MapCache by additionally collapsing concurrent build
// *attempts* for the same fingerprint into a single predicate evaluation, using
// singleflight.Group. MapCache alone guarantees at most one *durable* entry per
// fingerprint but lets every racing goroutine evaluate the predicate independently;
// CoalescingCache makes only the winner of the race do that work at all.
//
// TreeNode detects this capability through an internal interface and calls GetOrBuild
// instead of its default build-then-Put path when present.
type CoalescingCache[I any, O comparable] struct {
	m      sync.Map // cachetree.Fingerprint -> *cachetree.TreeNode[I, O]
	flight singleflight.Group
}

// NewCoalescingCache returns an empty CoalescingCache prototype.
func NewCoalescingCache[I any, O comparable]() *CoalescingCache[I, O] {
	return &CoalescingCache[I, O]{}
}

func (c *CoalescingCache[I, O]) Spawn() cachetree.NodeCache[I, O] {
	return &CoalescingCache[I, O]{}
}

func (c *CoalescingCache[I, O]) Get(k cachetree.Fingerprint) (*cachetree.TreeNode[I, O], bool) {
	v, ok := c.m.Load(k)
	if !ok {
		return nil, false
	}
	return v.(*cachetree.TreeNode[I, O]), true
}

func (c *CoalescingCache[I, O]) Put(k cachetree.Fingerprint, node *cachetree.TreeNode[I, O]) *cachetree.TreeNode[I, O] {
	actual, _ := c.m.LoadOrStore(k, node)
	return actual.(*cachetree.TreeNode[I, O])
}

// GetOrBuild dedupes concurrent build attempts for k: only one goroutine among any
// racing set actually calls build; the rest block and receive its result. A successful
// build is installed with the same insert-if-absent semantics as Put, so a fingerprint
// that was concurrently installed by a caller going through the plain Put path (e.g. a
// sibling node sharing the same prototype before a Spawn) still resolves to a single
// durable node.
func (c *CoalescingCache[I, O]) GetOrBuild(k cachetree.Fingerprint, build func() (*cachetree.TreeNode[I, O], error)) (*cachetree.TreeNode[I, O], error) {
	if child, ok := c.Get(k); ok {
		return child, nil
	}

	flightKey := fmt.Sprintf("%#v", k)
	v, err, _ := c.flight.Do(flightKey, func() (any, error) {
		if child, ok := c.Get(k); ok {
			return child, nil
		}
		child, err := build()
		if err != nil {
			return nil, err
		}
		return c.Put(k, child), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cachetree.TreeNode[I, O]), nil
}

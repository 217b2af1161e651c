package cache

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/bisdreamz/caching-filter-tree"
)

// RateLimitedCache decorates another cachetree.NodeCache, throttling only the build
// path: Get and the already-resolved half of Put/GetOrBuild pass straight through, but
// a build that would miss the underlying cache first waits on a token from limiter. This
// bounds the rate of expensive predicate evaluations under a burst of distinct
// fingerprints without changing the tree's correctness contract.
type RateLimitedCache[I any, O comparable] struct {
	next    cachetree.NodeCache[I, O]
	limiter *rate.Limiter
}

// NewRateLimitedCache wraps next, a prototype for the decorated backend, with a limiter
// governing how often a build is allowed to proceed.
func NewRateLimitedCache[I any, O comparable](next cachetree.NodeCache[I, O], limiter *rate.Limiter) *RateLimitedCache[I, O] {
	return &RateLimitedCache[I, O]{next: next, limiter: limiter}
}

func (c *RateLimitedCache[I, O]) Spawn() cachetree.NodeCache[I, O] {
	return &RateLimitedCache[I, O]{next: c.next.Spawn(), limiter: c.limiter}
}

func (c *RateLimitedCache[I, O]) Get(k cachetree.Fingerprint) (*cachetree.TreeNode[I, O], bool) {
	return c.next.Get(k)
}

func (c *RateLimitedCache[I, O]) Put(k cachetree.Fingerprint, node *cachetree.TreeNode[I, O]) *cachetree.TreeNode[I, O] {
	return c.next.Put(k, node)
}

// GetOrBuild always runs the throttled build behind a rate-limiter wait, whether or not
// the decorated backend natively coalesces build attempts: if it does, the token wait is
// nested inside its own singleflight.Do so only the attempt that actually builds pays
// for a token; otherwise this falls back to a plain throttled build-then-Put.
func (c *RateLimitedCache[I, O]) GetOrBuild(k cachetree.Fingerprint, build func() (*cachetree.TreeNode[I, O], error)) (*cachetree.TreeNode[I, O], error) {
	coalescer, ok := c.next.(interface {
		GetOrBuild(cachetree.Fingerprint, func() (*cachetree.TreeNode[I, O], error)) (*cachetree.TreeNode[I, O], error)
	})
	if !ok {
		if child, found := c.next.Get(k); found {
			return child, nil
		}
		child, err := c.buildThrottled(build)
		if err != nil {
			return nil, err
		}
		return c.next.Put(k, child), nil
	}
	return coalescer.GetOrBuild(k, func() (*cachetree.TreeNode[I, O], error) {
		return c.buildThrottled(build)
	})
}

func (c *RateLimitedCache[I, O]) buildThrottled(build func() (*cachetree.TreeNode[I, O], error)) (*cachetree.TreeNode[I, O], error) {
	if err := c.limiter.Wait(context.Background()); err != nil {
		return nil, err
	}
	return build()
}

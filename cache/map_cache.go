// Package cache provides NodeCache backends for the cachetree package: the spec's
// required sync.Map-backed reference implementation, and optional stronger/decorated
// backends layered on top of it.
package cache

import (
	"sync"

	"github.com/bisdreamz/caching-filter-tree"
)

// MapCache is a sync.Map-backed cachetree.NodeCache with insert-if-absent Put
// semantics, the reference implementation spec.md §4.3 describes.
type MapCache[I any, O comparable] struct {
	m sync.Map // cachetree.Fingerprint -> *cachetree.TreeNode[I, O]
}

// NewMapCache returns an empty MapCache prototype. Pass it as a PipelineStep's cache
// argument; FilterTree construction calls Spawn to obtain the actual per-node instance.
func NewMapCache[I any, O comparable]() *MapCache[I, O] {
	return &MapCache[I, O]{}
}

func (c *MapCache[I, O]) Spawn() cachetree.NodeCache[I, O] {
	return &MapCache[I, O]{}
}

func (c *MapCache[I, O]) Get(k cachetree.Fingerprint) (*cachetree.TreeNode[I, O], bool) {
	v, ok := c.m.Load(k)
	if !ok {
		return nil, false
	}
	return v.(*cachetree.TreeNode[I, O]), true
}

func (c *MapCache[I, O]) Put(k cachetree.Fingerprint, node *cachetree.TreeNode[I, O]) *cachetree.TreeNode[I, O] {
	actual, _ := c.m.LoadOrStore(k, node)
	return actual.(*cachetree.TreeNode[I, O])
}

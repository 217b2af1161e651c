// Package roaring provides a cachetree.MutableSet[uint32] backed by
// github.com/RoaringBitmap/roaring/v2, for candidate sets whose output type is a dense
// integer ID (document IDs, row IDs) rather than an arbitrary comparable value.
package roaring

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/bisdreamz/caching-filter-tree"
)

// Set is a cachetree.MutableSet[uint32] backed by a roaring.Bitmap. It never assumes a
// dense or sparse distribution of IDs; the bitmap compresses either way.
type Set struct {
	bitmap *roaring.Bitmap
}

// NewSet is a cachetree.SetFactory[uint32]: pass it to cachetree.WithSetFactory when the
// candidate output type is uint32.
func NewSet(candidates []uint32) cachetree.MutableSet[uint32] {
	bitmap := roaring.New()
	bitmap.AddMany(candidates)
	return &Set{bitmap: bitmap}
}

func (s *Set) Contains(o uint32) bool {
	return s.bitmap.Contains(o)
}

func (s *Set) Len() int {
	return int(s.bitmap.GetCardinality())
}

func (s *Set) Each(fn func(uint32) bool) {
	it := s.bitmap.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			return
		}
	}
}

func (s *Set) Clone() cachetree.MutableSet[uint32] {
	return &Set{bitmap: s.bitmap.Clone()}
}

func (s *Set) Remove(o uint32) {
	s.bitmap.Remove(o)
}

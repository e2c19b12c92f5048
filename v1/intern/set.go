// Copyright 2024 The str-intern Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package intern

import (
	"iter"
	"slices"
)

// Set is a collection of handles keyed and deduplicated by content, not by
// identity. At most one member per distinct content string exists at any
// instant; Insert enforces this, so a set assembled from arbitrary handles is
// still duplicate-free.
//
// Set is not safe for concurrent use. Engines own their set exclusively and
// are the only mutators.
type Set struct {
	hasher  Hasher
	buckets map[uint64][]*Handle
	n       int
}

// NewSet returns an empty set using the default hasher.
func NewSet() *Set {
	return NewSetWithHasher(DefaultHasher())
}

// NewSetWithHasher returns an empty set bucketing with h. A nil h falls back
// to the default hasher.
func NewSetWithHasher(h Hasher) *Set {
	if h == nil {
		h = DefaultHasher()
	}
	return &Set{hasher: h, buckets: make(map[uint64][]*Handle)}
}

// Hasher returns the hasher that parameterizes this set's bucketing.
func (s *Set) Hasher() Hasher {
	return s.hasher
}

// Len returns the number of distinct contents in the set.
func (s *Set) Len() int {
	return s.n
}

// get returns the member with the given content, or nil. The lookup borrows
// its argument: nothing is allocated on this path.
func (s *Set) get(content string) *Handle {
	for _, h := range s.buckets[s.hasher.Hash(content)] {
		if h.s == content {
			return h
		}
	}
	return nil
}

// getBytes is get for raw bytes. The string conversion in the comparison does
// not escape, so a hit costs no allocation.
func (s *Set) getBytes(content []byte) *Handle {
	for _, h := range s.buckets[s.hasher.HashBytes(content)] {
		if h.s == string(content) {
			return h
		}
	}
	return nil
}

// add appends h to its bucket without a membership check. Callers must have
// established absence under the same exclusive hold.
func (s *Set) add(h *Handle) {
	k := s.hasher.Hash(h.s)
	s.buckets[k] = append(s.buckets[k], h)
	s.n++
}

// Contains reports whether content is a member.
func (s *Set) Contains(content string) bool {
	return s.get(content) != nil
}

// Insert adds h unless a member with equal content already exists. It reports
// whether h became a member.
func (s *Set) Insert(h *Handle) bool {
	if h == nil || s.get(h.s) != nil {
		return false
	}
	s.add(h)
	return true
}

// Clear removes every member. Handles held outside the set keep their
// content.
func (s *Set) Clear() {
	clear(s.buckets)
	s.n = 0
}

// All iterates over the members. Order is unspecified and derives from hash
// bucketing; the set must not be mutated during iteration.
func (s *Set) All() iter.Seq[*Handle] {
	return func(yield func(*Handle) bool) {
		for _, bucket := range s.buckets {
			for _, h := range bucket {
				if !yield(h) {
					return
				}
			}
		}
	}
}

// Equal reports whether s and other hold the same distinct contents,
// regardless of hasher, allocation identity, or insertion order.
func (s *Set) Equal(other *Set) bool {
	if s.n != other.n {
		return false
	}
	for _, bucket := range s.buckets {
		for _, h := range bucket {
			if other.get(h.s) == nil {
				return false
			}
		}
	}
	return true
}

// clone returns a set with the same hasher and members. Members are shared,
// not reallocated.
func (s *Set) clone() *Set {
	c := &Set{
		hasher:  s.hasher,
		buckets: make(map[uint64][]*Handle, len(s.buckets)),
		n:       s.n,
	}
	for k, bucket := range s.buckets {
		c.buckets[k] = slices.Clone(bucket)
	}
	return c
}

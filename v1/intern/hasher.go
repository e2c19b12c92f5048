// Copyright 2024 The str-intern Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package intern

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher computes the bucket hash for string content. It parameterizes a
// Set's bucketing only: engines with different hashers still compare equal by
// content, but their handles are never interchangeable for identity purposes.
//
// Hash and HashBytes must agree: HashBytes(b) == Hash(string(b)) for all b.
type Hasher interface {
	Hash(s string) uint64
	HashBytes(b []byte) uint64
}

// DefaultHasher returns the hasher used by New and NewSync: unseeded xxhash.
// It is deterministic across processes, which keeps bucket layout (and
// therefore iteration grouping) reproducible.
func DefaultHasher() Hasher {
	return xxHasher{}
}

type xxHasher struct{}

func (xxHasher) Hash(s string) uint64 {
	return xxhash.Sum64String(s)
}

func (xxHasher) HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// NewSeededHasher returns a maphash-based Hasher with a fresh random seed.
// Use it when interned contents may be attacker-chosen and hash-flooding the
// buckets is a concern.
func NewSeededHasher() Hasher {
	return seededHasher{seed: maphash.MakeSeed()}
}

type seededHasher struct {
	seed maphash.Seed
}

func (h seededHasher) Hash(s string) uint64 {
	return maphash.String(h.seed, s)
}

func (h seededHasher) HashBytes(b []byte) uint64 {
	return maphash.Bytes(h.seed, b)
}

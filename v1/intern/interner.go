// Copyright 2024 The str-intern Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package intern

import "iter"

// Interner deduplicates strings: for any distinct content it keeps exactly
// one allocation and hands every caller a handle aliasing that allocation.
//
// Interner is the single-owner variant with no internal locking. It must not
// be shared across goroutines; for that, use SyncInterner.
type Interner struct {
	set    *Set
	hits   uint64
	misses uint64
}

// New constructs an empty Interner using the default hasher.
func New() *Interner {
	return FromSet(NewSet())
}

// NewWithHasher constructs an empty Interner whose set buckets with h.
func NewWithHasher(h Hasher) *Interner {
	return FromSet(NewSetWithHasher(h))
}

// FromSet constructs an Interner whose contents are the members of set,
// adopting set's hasher. The interner takes exclusive ownership of set; the
// caller must not use it afterwards.
func FromSet(set *Set) *Interner {
	if set == nil {
		set = NewSet()
	}
	return &Interner{set: set}
}

// Intern returns the handle for content, allocating it on first sight. A hit
// compares borrowed content and allocates nothing; a miss makes exactly one
// allocation, stores it, and returns it. Check and insert happen as one step
// under the owner, so the engine can never hold two allocations for equal
// content.
func (in *Interner) Intern(content string) *Handle {
	if h := in.set.get(content); h != nil {
		in.hits++
		return h
	}
	in.misses++
	h := newHandle(content)
	in.set.add(h)
	return h
}

// InternBytes is Intern for raw bytes. A hit allocates nothing; a miss
// allocates only the one stored string.
func (in *Interner) InternBytes(content []byte) *Handle {
	if h := in.set.getBytes(content); h != nil {
		in.hits++
		return h
	}
	in.misses++
	h := &Handle{s: string(content)}
	in.set.add(h)
	return h
}

// Len returns the number of distinct contents interned.
func (in *Interner) Len() int {
	return in.set.Len()
}

// Clear removes every interned entry, releasing the engine's references.
// Handles already returned to callers keep their content.
func (in *Interner) Clear() {
	in.set.Clear()
}

// All iterates over the interned handles in unspecified order. The interner
// must not be mutated during iteration.
func (in *Interner) All() iter.Seq[*Handle] {
	return in.set.All()
}

// IntoSet consumes the interner and returns its underlying set, hasher
// included. The interner must not be used afterwards.
func (in *Interner) IntoSet() *Set {
	set := in.set
	in.set = nil
	return set
}

// Drain consumes the interner, yielding each interned handle exactly once in
// unspecified order.
func (in *Interner) Drain() iter.Seq[*Handle] {
	return in.IntoSet().All()
}

// Equal reports whether both interners hold the same distinct contents,
// regardless of hasher, allocation identity, or insertion order.
func (in *Interner) Equal(other *Interner) bool {
	return in.set.Equal(other.set)
}

// Clone returns an interner with the same hasher and contents. The clone
// shares handle allocations with the original at the time of the call but
// deduplicates independently from then on.
func (in *Interner) Clone() *Interner {
	return &Interner{set: in.set.clone()}
}

// Stats returns a point-in-time view of the engine's intern traffic.
func (in *Interner) Stats() Stats {
	return Stats{
		Hits:    in.hits,
		Misses:  in.misses,
		Entries: uint64(in.set.Len()),
	}
}

// Stats is a snapshot of an engine's intern traffic. Hits reuse an existing
// allocation; misses created one. Entries counts distinct contents currently
// stored, so Entries <= Misses unless the engine was built from a set.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries uint64
}

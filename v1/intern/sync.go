// Copyright 2024 The str-intern Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package intern

import (
	"errors"
	"iter"
	"sync"
	"sync/atomic"
)

// ErrPoisoned is the value carried by panics from a SyncInterner whose lock
// was poisoned: a goroutine panicked while holding the lock mid-mutation, so
// the underlying set may be inconsistent and every later acquisition refuses
// to proceed. Poisoning is permanent.
var ErrPoisoned = errors.New("intern: sync interner poisoned")

// SyncInterner is the shared variant of Interner, safe for concurrent use by
// any number of goroutines.
//
// Every operation serializes on one mutex: each Intern either observes a
// prior completed insertion or performs the one authoritative allocation for
// that content. Lock acquisition blocks without timeout.
//
// If a goroutine panics while holding the lock (inside With, a convenience
// method, or a critical section closed by a deferred Unlock), the interner is
// poisoned and all further access panics with ErrPoisoned rather than
// exposing a possibly half-mutated set.
type SyncInterner struct {
	mu       sync.Mutex
	poisoned bool
	set      *Set
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// NewSync constructs an empty SyncInterner using the default hasher.
func NewSync() *SyncInterner {
	return SyncFromSet(NewSet())
}

// NewSyncWithHasher constructs an empty SyncInterner whose set buckets
// with h.
func NewSyncWithHasher(h Hasher) *SyncInterner {
	return SyncFromSet(NewSetWithHasher(h))
}

// SyncFromSet constructs a SyncInterner whose contents are the members of
// set, adopting set's hasher. The interner takes exclusive ownership of set;
// the caller must not use it afterwards.
func SyncFromSet(set *Set) *SyncInterner {
	if set == nil {
		set = NewSet()
	}
	return &SyncInterner{set: set}
}

// Lock blocks until the calling goroutine holds exclusive access, then
// returns the guard through which batch operations run. Release the guard
// with Unlock, normally deferred; a deferred Unlock is also what poisons the
// interner when the critical section panics.
//
// Lock panics with ErrPoisoned if a previous holder poisoned the interner.
func (in *SyncInterner) Lock() *LockedInterner {
	in.mu.Lock()
	if in.poisoned {
		in.mu.Unlock()
		panic(ErrPoisoned)
	}
	return &LockedInterner{in: in}
}

// With runs f while holding the lock. The unlock is guaranteed even when f
// panics, so the poison flag is always set before the panic propagates.
func (in *SyncInterner) With(f func(*LockedInterner)) {
	l := in.Lock()
	defer l.Unlock()
	f(l)
}

// Intern returns the handle for content, fully serialized with all other
// operations on this interner. If K goroutines intern equal content
// concurrently, exactly one allocation occurs and all K receive it.
// Equivalent to one Intern inside With.
func (in *SyncInterner) Intern(content string) (h *Handle) {
	in.With(func(l *LockedInterner) {
		h = l.Intern(content)
	})
	return h
}

// InternBytes is Intern for raw bytes; a hit allocates nothing.
func (in *SyncInterner) InternBytes(content []byte) (h *Handle) {
	in.With(func(l *LockedInterner) {
		h = l.InternBytes(content)
	})
	return h
}

// Clear acquires the lock and removes every interned entry. Handles already
// returned to callers keep their content.
func (in *SyncInterner) Clear() {
	in.With(func(l *LockedInterner) {
		l.Clear()
	})
}

// Len acquires the lock and returns the number of distinct contents. The
// value is stale as soon as it is returned; hold the lock if the count must
// stay consistent with subsequent operations.
func (in *SyncInterner) Len() (n int) {
	in.With(func(l *LockedInterner) {
		n = l.Len()
	})
	return n
}

// IntoSet consumes the interner and returns its underlying set. The caller
// must be the sole owner at this point: no lock is taken, mirroring that no
// concurrent borrower can exist when an engine is torn down. IntoSet panics
// with ErrPoisoned if the interner was poisoned.
func (in *SyncInterner) IntoSet() *Set {
	if in.poisoned {
		panic(ErrPoisoned)
	}
	set := in.set
	in.set = nil
	return set
}

// Equal reports whether both interners hold the same distinct contents. The
// two are locked one after the other, not together, so the result is a
// consistent snapshot of each side but not of the pair under concurrent
// mutation.
func (in *SyncInterner) Equal(other *SyncInterner) bool {
	if in == other {
		return true
	}
	var snap *Set
	in.With(func(l *LockedInterner) {
		snap = l.in.set.clone()
	})
	eq := false
	other.With(func(l *LockedInterner) {
		eq = l.in.set.Equal(snap)
	})
	return eq
}

// Clone returns a new unlocked SyncInterner with the same hasher and
// contents. Handles are shared with the original at the time of the call.
func (in *SyncInterner) Clone() *SyncInterner {
	var snap *Set
	in.With(func(l *LockedInterner) {
		snap = l.in.set.clone()
	})
	return SyncFromSet(snap)
}

// Stats returns a point-in-time traffic snapshot. Unlike Lock it does not
// panic on a poisoned interner: counters stay readable while the process
// fails, and counting entries never touches string contents.
func (in *SyncInterner) Stats() Stats {
	in.mu.Lock()
	var n int
	if in.set != nil {
		n = in.set.Len()
	}
	in.mu.Unlock()
	return Stats{
		Hits:    in.hits.Load(),
		Misses:  in.misses.Load(),
		Entries: uint64(n),
	}
}

// LockedInterner is an exclusive lease on a SyncInterner, created by Lock.
// It mirrors the single-owner API for the lifetime of the hold. Iteration and
// clear live here rather than on SyncInterner because their results would be
// stale the moment another goroutine could interleave.
type LockedInterner struct {
	in *SyncInterner
}

// Intern returns the handle for content, allocating it on first sight.
func (l *LockedInterner) Intern(content string) *Handle {
	if h := l.in.set.get(content); h != nil {
		l.in.hits.Add(1)
		return h
	}
	l.in.misses.Add(1)
	h := newHandle(content)
	l.in.set.add(h)
	return h
}

// InternBytes is Intern for raw bytes; a hit allocates nothing.
func (l *LockedInterner) InternBytes(content []byte) *Handle {
	if h := l.in.set.getBytes(content); h != nil {
		l.in.hits.Add(1)
		return h
	}
	l.in.misses.Add(1)
	h := &Handle{s: string(content)}
	l.in.set.add(h)
	return h
}

// Clear removes every interned entry.
func (l *LockedInterner) Clear() {
	l.in.set.Clear()
}

// Len returns the number of distinct contents interned.
func (l *LockedInterner) Len() int {
	return l.in.set.Len()
}

// All iterates over the interned handles in unspecified order. Valid only
// while the lock is held.
func (l *LockedInterner) All() iter.Seq[*Handle] {
	return l.in.set.All()
}

// Unlock releases the hold for the next waiter. When deferred, an Unlock
// running during a panic poisons the interner before re-raising the original
// value, so later acquisitions fail fast instead of reading a half-mutated
// set. Poisoning therefore requires that Unlock be deferred; an Unlock called
// on the normal path never poisons.
func (l *LockedInterner) Unlock() {
	if r := recover(); r != nil {
		l.in.poisoned = true
		l.in.mu.Unlock()
		panic(r)
	}
	l.in.mu.Unlock()
}

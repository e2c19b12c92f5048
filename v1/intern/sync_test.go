// Copyright 2024 The str-intern Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package intern

import (
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/fortytw2/leaktest"
	"golang.org/x/sync/errgroup"
)

func TestSyncInternConvergence(t *testing.T) {
	defer leaktest.Check(t)()

	in := NewSync()
	const callers = 100

	handles := make([]*Handle, callers)
	var g errgroup.Group
	for i := range callers {
		g.Go(func() error {
			handles[i] = in.Intern("x")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if in.Len() != 1 {
		t.Fatalf("Len() = %d, want exactly one stored entry", in.Len())
	}
	for i, h := range handles {
		if h != handles[0] {
			t.Fatalf("caller %d received a non-aliasing handle", i)
		}
	}
}

func TestSyncInternManyKeysConcurrent(t *testing.T) {
	defer leaktest.Check(t)()

	in := NewSync()
	const workers = 8
	const keys = 200

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for i := range keys {
				h := in.Intern(strconv.Itoa(i))
				if h.String() != strconv.Itoa(i) {
					return errors.New("handle content mismatch")
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if in.Len() != keys {
		t.Errorf("Len() = %d, want %d", in.Len(), keys)
	}
}

func TestLockedBatch(t *testing.T) {
	in := NewSync()

	l := in.Lock()
	h1 := l.Intern("a")
	h2 := l.Intern("b")
	if l.Len() != 2 {
		t.Errorf("Len() = %d under lock, want 2", l.Len())
	}

	var got []string
	for h := range l.All() {
		got = append(got, h.String())
	}
	slices.Sort(got)
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("All() = %v, want [a b]", got)
	}

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", l.Len())
	}
	l.Unlock()

	// Handles cloned out before the clear stay readable.
	if h1.String() != "a" || h2.String() != "b" {
		t.Error("handles invalidated by Clear")
	}

	// The lock must be free again.
	if h := in.Intern("c"); h.String() != "c" {
		t.Errorf("post-unlock intern = %q, want c", h.String())
	}
}

func TestSyncConvenienceEquivalence(t *testing.T) {
	in := NewSync()

	h1 := in.Intern("x")
	l := in.Lock()
	h2 := l.Intern("x")
	l.Unlock()
	if h1 != h2 {
		t.Error("convenience Intern and locked Intern must alias")
	}

	in.Clear()
	if in.Len() != 0 {
		t.Errorf("Len() = %d after convenience Clear, want 0", in.Len())
	}
}

// mustPanicWith runs f and fails the test unless it panics with want.
func mustPanicWith(t *testing.T, want error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Fatalf("panicked with %v, want %v", r, want)
		}
	}()
	f()
}

func TestPoisonOnPanicInWith(t *testing.T) {
	in := NewSync()
	in.Intern("before")

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the caller's panic to propagate")
			}
		}()
		in.With(func(l *LockedInterner) {
			l.Intern("partial")
			panic("boom")
		})
	}()

	// Every later acquisition fails fast, permanently, from any goroutine.
	mustPanicWith(t, ErrPoisoned, func() { in.Lock() })
	mustPanicWith(t, ErrPoisoned, func() { in.Intern("x") })
	mustPanicWith(t, ErrPoisoned, func() { in.Clear() })
	mustPanicWith(t, ErrPoisoned, func() { in.IntoSet() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		mustPanicWith(t, ErrPoisoned, func() { in.Intern("other goroutine") })
	}()
	<-done
}

func TestPoisonOnPanicWithDeferredUnlock(t *testing.T) {
	in := NewSync()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the panic to propagate through Unlock")
			}
		}()
		l := in.Lock()
		defer l.Unlock()
		l.Intern("partial")
		panic("boom")
	}()

	mustPanicWith(t, ErrPoisoned, func() { in.Lock() })
}

func TestUnlockWithoutPanicDoesNotPoison(t *testing.T) {
	in := NewSync()

	l := in.Lock()
	l.Intern("fine")
	l.Unlock()

	if h := in.Intern("fine"); h.String() != "fine" {
		t.Error("healthy interner refused further access")
	}
}

func TestSyncIntoSet(t *testing.T) {
	in := NewSync()
	h := in.Intern("kept")

	set := in.IntoSet()
	if set.Len() != 1 || !set.Contains("kept") {
		t.Fatalf("IntoSet() lost contents: Len() = %d", set.Len())
	}
	for got := range set.All() {
		if got != h {
			t.Error("IntoSet() must transfer the stored allocation, not copy it")
		}
	}
}

func TestSyncEqual(t *testing.T) {
	a := NewSync()
	b := NewSyncWithHasher(NewSeededHasher())
	for _, s := range []string{"x", "y"} {
		a.Intern(s)
	}
	for _, s := range []string{"y", "x"} {
		b.Intern(s)
	}

	if !a.Equal(b) {
		t.Error("content-equal sync interners must compare equal")
	}
	if !a.Equal(a) {
		t.Error("an interner must equal itself")
	}

	b.Intern("z")
	if a.Equal(b) {
		t.Error("differing sync interners must not compare equal")
	}
}

func TestSyncClone(t *testing.T) {
	in := NewSync()
	h := in.Intern("foo")

	clone := in.Clone()
	if !clone.Equal(in) {
		t.Fatal("clone must be content-equal to the original")
	}
	if clone.Intern("foo") != h {
		t.Error("clone must share allocations present at clone time")
	}
	if clone.Intern("bar") == in.Intern("bar") {
		t.Error("post-clone interns must not share allocations")
	}
}

func TestSyncStats(t *testing.T) {
	in := NewSync()
	in.Intern("a")
	in.Intern("a")
	in.Intern("b")

	st := in.Stats()
	if st.Hits != 1 || st.Misses != 2 || st.Entries != 2 {
		t.Errorf("Stats() = %+v, want {Hits:1 Misses:2 Entries:2}", st)
	}
}

// Copyright 2024 The str-intern Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package intern

import "sync"

// global is constructed exactly once, on first use, however many goroutines
// race to be first. It lives for the process lifetime and is never replaced;
// only its contents can be cleared.
var global = sync.OnceValue(NewSync)

// Global returns the process-wide SyncInterner, constructing it on first use.
//
// It behaves like any other SyncInterner: a string interned in a local engine
// is not automatically interned here, and its handles never alias a local
// engine's handles.
func Global() *SyncInterner {
	return global()
}

// Intern interns content in the process-wide interner. Equivalent to
// Global().Intern(content).
func Intern(content string) *Handle {
	return Global().Intern(content)
}

// InternBytes interns content in the process-wide interner. Equivalent to
// Global().InternBytes(content).
func InternBytes(content []byte) *Handle {
	return Global().InternBytes(content)
}

// Str gives any text-bearing value a zero-argument intern operation: convert
// to Str and call Intern, which delegates to the process-wide interner.
//
//	tag := intern.Str(r.Header.Get("X-Tag")).Intern()
type Str string

// Intern is equivalent to Intern(string(s)).
func (s Str) Intern() *Handle {
	return Intern(string(s))
}

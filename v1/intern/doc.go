// Copyright 2024 The str-intern Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package intern implements content-addressed string deduplication: repeated
// requests to store the same text collapse into a single allocation, and every
// caller gets back a shared handle aliasing that allocation.
//
// The package provides:
//   - Interner: a single-owner engine with no locking overhead
//   - SyncInterner: the same engine behind a mutex, safe across goroutines,
//     with fail-fast lock poisoning
//   - A lazily-constructed process-wide interner (Global, Intern, InternBytes)
//   - Pluggable bucket hashing (xxhash by default)
//   - An optional Prometheus collector for intern traffic
//
// Interning pays off when a program holds many copies of a small vocabulary
// (symbol tables, tag sets, parsed keys): memory collapses to one allocation
// per distinct string, and equality between handles is a pointer compare.
//
// Handles produced by one engine for equal content always alias; handles from
// different engines never share allocations, even for identical content.
package intern

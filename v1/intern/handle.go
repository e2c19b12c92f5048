// Copyright 2024 The str-intern Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package intern

import "strings"

// Handle is a shared reference to one interned string allocation. Content
// never changes after creation.
//
// Two handles are identity-equal iff they are the same pointer. Handles
// returned by the same engine for equal content always alias one allocation;
// handles from different engines are never guaranteed to, even when their
// contents match. A handle stays valid and readable after the engine that
// produced it is cleared or dropped.
type Handle struct {
	s string
}

// newHandle copies content so the handle never pins a larger backing array
// the caller sliced it from.
func newHandle(content string) *Handle {
	return &Handle{s: strings.Clone(content)}
}

// String returns the interned content.
func (h *Handle) String() string {
	return h.s
}

// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package geo

import "github.com/cockroachdb/errors"

// debugAssertionsEnabled gates the structural assertions described in the
// error handling design: checked in debug builds, skippable in release.
// There is no Go build tag wired to flip this off (a debug build of a
// plain library has no separate release artifact the way a compiled binary
// does), so it stays true; the hook exists so a vendoring binary can flip
// it via an init() in its own package without forking this one.
var debugAssertionsEnabled = true

// assertf panics with an AssertionFailedf error if cond is false and
// debug assertions are enabled. A valid caller never trips this; it exists
// to catch invariant violations during development, not to validate
// caller-supplied input.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond && debugAssertionsEnabled {
		panic(errors.AssertionFailedf(format, args...))
	}
}

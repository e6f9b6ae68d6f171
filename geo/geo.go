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

import "fmt"

// String implements fmt.Stringer by rendering g as WKT. It never panics; a
// Geometry that violates component C's invariants (e.g. a Polygon child
// that isn't a LineString) is reported inline as "<invalid geometry: ...>"
// rather than crashing the caller, matching the source's preference for
// "defined?" returns over hard failures wherever a boolean/error distinction
// is available instead.
func (g *Geometry) String() string {
	s, err := WKT(g)
	if err != nil {
		return fmt.Sprintf("<invalid geometry: %s>", err)
	}
	return s
}

var _ fmt.Stringer = (*Geometry)(nil)

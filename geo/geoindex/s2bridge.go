// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package geoindex

import (
	"github.com/golang/geo/s2"
	"github.com/ngochoawindy/sgl/geo/geopb"
)

// CoveringCells returns an S2 cell covering of extent's xy bounds under
// rc, treating x as longitude degrees and y as latitude degrees. This
// projection is equirectangular, not geodesic — the engine has no CRS
// or projection machinery of its own, so the caller is responsible for
// deciding whether reinterpreting its planar coordinates as lon/lat is
// meaningful for the data being indexed. This exists as a narrow,
// separately-testable seam for wiring a prepared index's bounding box
// into an S2-based store, not as an endorsement of that reinterpretation.
func CoveringCells(extent geopb.Extent, rc *s2.RegionCoverer) s2.CellUnion {
	rect := s2.EmptyRect()
	rect = rect.AddPoint(s2.LatLngFromDegrees(extent.Min.Y, extent.Min.X))
	rect = rect.AddPoint(s2.LatLngFromDegrees(extent.Max.Y, extent.Max.X))
	return rc.Covering(rect)
}

// DefaultCoverer returns a RegionCoverer tuned for covering a single
// prepared index's root extent with at most maxCells cells.
func DefaultCoverer(maxCells int) *s2.RegionCoverer {
	return &s2.RegionCoverer{MinLevel: 0, MaxLevel: 30, MaxCells: maxCells}
}

// RootCoveringCells returns an S2 covering of p's root bounding box.
// It reports false if p is empty and therefore has no root box.
func RootCoveringCells(p *Prepared, rc *s2.RegionCoverer) (s2.CellUnion, bool) {
	if p.itemsCount == 0 {
		return nil, false
	}
	return CoveringCells(p.box(0, 0), rc), true
}

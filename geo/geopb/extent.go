// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package geopb

import "math"

// Extent is an axis-aligned bounding box over x, y, z, m. Most of the engine
// only cares about the xy projection (ExtentXY helpers below); the full
// Extent exists for get_total_extent_xyzm.
type Extent struct {
	Min, Max Vertex
}

// Smallest returns an Extent initialized so that the first Update call
// establishes correct bounds: min is math.MaxFloat64, max is
// -math.MaxFloat64 in every ordinate.
func Smallest() Extent {
	return Extent{
		Min: Vertex{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64, M: math.MaxFloat64},
		Max: Vertex{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64, M: -math.MaxFloat64},
	}
}

// Zero returns the degenerate Extent [0,0]-[0,0].
func Zero() Extent {
	return Extent{}
}

// Update merges a vertex into the extent's xy bounds.
func (e *Extent) Update(x, y float64) {
	e.Min.X = math.Min(e.Min.X, x)
	e.Min.Y = math.Min(e.Min.Y, y)
	e.Max.X = math.Max(e.Max.X, x)
	e.Max.Y = math.Max(e.Max.Y, y)
}

// UpdateVertex merges every ordinate of v into the extent.
func (e *Extent) UpdateVertex(v Vertex) {
	e.Min.X = math.Min(e.Min.X, v.X)
	e.Min.Y = math.Min(e.Min.Y, v.Y)
	e.Min.Z = math.Min(e.Min.Z, v.Z)
	e.Min.M = math.Min(e.Min.M, v.M)
	e.Max.X = math.Max(e.Max.X, v.X)
	e.Max.Y = math.Max(e.Max.Y, v.Y)
	e.Max.Z = math.Max(e.Max.Z, v.Z)
	e.Max.M = math.Max(e.Max.M, v.M)
}

// Merge merges another extent's xy bounds into e.
func (e *Extent) Merge(o Extent) {
	e.Min.X = math.Min(e.Min.X, o.Min.X)
	e.Min.Y = math.Min(e.Min.Y, o.Min.Y)
	e.Max.X = math.Max(e.Max.X, o.Max.X)
	e.Max.Y = math.Max(e.Max.Y, o.Max.Y)
}

// Contains reports whether v's xy falls within e, inclusive.
func (e Extent) Contains(v Vertex) bool {
	return v.X >= e.Min.X && v.X <= e.Max.X && v.Y >= e.Min.Y && v.Y <= e.Max.Y
}

// Intersects reports whether e and o overlap, inclusive.
func (e Extent) Intersects(o Extent) bool {
	return e.Min.X <= o.Max.X && e.Max.X >= o.Min.X && e.Min.Y <= o.Max.Y && e.Max.Y >= o.Min.Y
}

// DistanceToSq returns the squared euclidean distance between e and v; 0 if
// v falls within e.
func (e Extent) DistanceToSq(v Vertex) float64 {
	dx := math.Max(0, math.Max(e.Min.X-v.X, v.X-e.Max.X))
	dy := math.Max(0, math.Max(e.Min.Y-v.Y, v.Y-e.Max.Y))
	return dx*dx + dy*dy
}

// DistanceTo returns the euclidean distance between e and v.
func (e Extent) DistanceTo(v Vertex) float64 {
	return math.Sqrt(e.DistanceToSq(v))
}

// ExtentDistanceToSq returns the squared euclidean distance between two
// axis-aligned boxes; 0 when they overlap.
func (e Extent) ExtentDistanceToSq(o Extent) float64 {
	dx := math.Max(0, math.Max(e.Min.X-o.Max.X, o.Min.X-e.Max.X))
	dy := math.Max(0, math.Max(e.Min.Y-o.Max.Y, o.Min.Y-e.Max.Y))
	return dx*dx + dy*dy
}

// GetArea returns the xy area of the extent.
func (e Extent) GetArea() float64 {
	return (e.Max.X - e.Min.X) * (e.Max.Y - e.Min.Y)
}

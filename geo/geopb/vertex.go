// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package geopb holds the primitive value types shared across the geometry
// engine and its subpackages: Vertex, Extent, and Affine. Keeping them here
// (rather than in the geo package itself) avoids an import cycle between geo
// and geo/geomfn/geo/geoindex, all of which need these types but not each
// other.
package geopb

import "math"

// VertexType identifies which ordinates a leaf geometry's vertex array
// carries. The physical layout is always x, y, [z], [m] in that order — z
// precedes m when both are present.
type VertexType uint8

const (
	// XY is a 2D vertex: x, y.
	XY VertexType = iota
	// XYZ is a 3D vertex: x, y, z.
	XYZ
	// XYM is a 3D vertex carrying a measure instead of an elevation: x, y, m.
	XYM
	// XYZM is a 4D vertex: x, y, z, m.
	XYZM
)

// Stride returns the number of doubles per vertex of this type.
func (t VertexType) Stride() int {
	switch t {
	case XY:
		return 2
	case XYZ, XYM:
		return 3
	case XYZM:
		return 4
	default:
		return 2
	}
}

// VertexTypeFor returns the VertexType for a (hasZ, hasM) flag pair.
func VertexTypeFor(hasZ, hasM bool) VertexType {
	switch {
	case hasZ && hasM:
		return XYZM
	case hasZ:
		return XYZ
	case hasM:
		return XYM
	default:
		return XY
	}
}

// Vertex is the full four-ordinate vertex value: x, y, z, m. A leaf stores
// its vertex array as []Vertex; only the ordinates its VertexType carries
// are meaningful. Algorithms read and write all four fields uniformly.
type Vertex struct {
	X, Y, Z, M float64
}

// XYVertex constructs a Vertex with only x, y set.
func XYVertex(x, y float64) Vertex {
	return Vertex{X: x, Y: y}
}

// Add returns the component-wise sum of two vertices' x,y,z,m.
func (v Vertex) Add(o Vertex) Vertex {
	return Vertex{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z, M: v.M + o.M}
}

// Sub returns the component-wise difference of two vertices' x,y,z,m.
func (v Vertex) Sub(o Vertex) Vertex {
	return Vertex{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z, M: v.M - o.M}
}

// Scale returns v's x,y,z,m scaled by s.
func (v Vertex) Scale(s float64) Vertex {
	return Vertex{X: v.X * s, Y: v.Y * s, Z: v.Z * s, M: v.M * s}
}

// Dot returns the xy dot product of v and o.
func (v Vertex) Dot(o Vertex) float64 {
	return v.X*o.X + v.Y*o.Y
}

// NormSq returns the squared xy length of v.
func (v Vertex) NormSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// DistanceSq returns the squared xy distance between v and o.
func (v Vertex) DistanceSq(o Vertex) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Distance returns the xy distance between v and o.
func (v Vertex) Distance(o Vertex) float64 {
	return math.Sqrt(v.DistanceSq(o))
}

// EqualXY reports whether v and o have identical x and y, bitwise.
func (v Vertex) EqualXY(o Vertex) bool {
	return v.X == o.X && v.Y == o.Y
}

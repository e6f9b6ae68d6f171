// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package geomfn

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geopb"
)

// PointRingRelation is the result of classifying a point against a ring
// via point-in-ring.
type PointRingRelation uint8

const (
	// Invalid is returned for a ring with fewer than 3 vertices.
	Invalid PointRingRelation = iota
	// Interior means the point lies strictly inside the ring.
	Interior
	// Exterior means the point lies strictly outside the ring.
	Exterior
	// Boundary means the point lies exactly on the ring.
	Boundary
)

// GetEuclideanDistance returns the minimum euclidean distance between any
// leaf of a and any leaf of b, iterating every non-collection leaf pair.
// It returns an error if either geometry is empty (no leaves to compare).
func GetEuclideanDistance(a, b *geo.Geometry) (float64, error) {
	var aLeaves, bLeaves []*geo.Geometry
	geo.VisitLeafGeometries(a, func(g *geo.Geometry) {
		if !g.IsEmpty() {
			aLeaves = append(aLeaves, g)
		}
	})
	geo.VisitLeafGeometries(b, func(g *geo.Geometry) {
		if !g.IsEmpty() {
			bLeaves = append(bLeaves, g)
		}
	})
	if len(aLeaves) == 0 || len(bLeaves) == 0 {
		return 0, errors.Newf("geomfn: cannot compute distance to or from an empty geometry")
	}

	best := math.Inf(1)
	for _, la := range aLeaves {
		for _, lb := range bLeaves {
			if d := leafDistance(la, lb); d < best {
				best = d
			}
		}
	}
	return best, nil
}

func leafDistance(a, b *geo.Geometry) float64 {
	switch {
	case a.GeomType() == geo.Point && b.GeomType() == geo.Point:
		return a.VertexXYZM(0).Distance(b.VertexXYZM(0))
	case a.GeomType() == geo.Point && b.GeomType() == geo.LineString:
		return pointToLineDistance(a.VertexXYZM(0), b)
	case a.GeomType() == geo.LineString && b.GeomType() == geo.Point:
		return pointToLineDistance(b.VertexXYZM(0), a)
	case a.GeomType() == geo.Point && b.GeomType() == geo.Polygon:
		return pointToPolygonDistance(a.VertexXYZM(0), b)
	case a.GeomType() == geo.Polygon && b.GeomType() == geo.Point:
		return pointToPolygonDistance(b.VertexXYZM(0), a)
	case a.GeomType() == geo.LineString && b.GeomType() == geo.LineString:
		return lineToLineDistance(a, b)
	case a.GeomType() == geo.LineString && b.GeomType() == geo.Polygon:
		return lineToPolygonDistance(a, b)
	case a.GeomType() == geo.Polygon && b.GeomType() == geo.LineString:
		return lineToPolygonDistance(b, a)
	case a.GeomType() == geo.Polygon && b.GeomType() == geo.Polygon:
		return polygonToPolygonDistance(a, b)
	default:
		return math.Inf(1)
	}
}

func pointToLineDistance(p geopb.Vertex, line *geo.Geometry) float64 {
	n := line.VertexCount()
	if n == 0 {
		return math.Inf(1)
	}
	if n == 1 {
		return p.Distance(line.VertexXYZM(0))
	}
	best := math.Inf(1)
	for i := 0; i+1 < n; i++ {
		a := line.VertexXYZM(i)
		b := line.VertexXYZM(i + 1)
		if d := pointToSegmentDistanceSq(p, a, b); d < best {
			best = d
		}
	}
	return math.Sqrt(best)
}

// PointToSegmentDistanceSq returns the squared distance from p to the
// segment [a,b]. Exported for the prepared index's branch-and-bound
// point-to-line search, which needs the same primitive at leaf level.
func PointToSegmentDistanceSq(p, a, b geopb.Vertex) float64 {
	return pointToSegmentDistanceSq(p, a, b)
}

// SegmentSegmentDistanceSq returns the squared distance between segments
// [a0,a1] and [b0,b1]. Exported for the prepared index's line-to-line
// best-first search.
func SegmentSegmentDistanceSq(a0, a1, b0, b1 geopb.Vertex) float64 {
	return segmentSegmentDistanceSq(a0, a1, b0, b1)
}

func pointToSegmentDistanceSq(p, a, b geopb.Vertex) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return p.DistanceSq(a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := geopb.Vertex{X: a.X + t*abx, Y: a.Y + t*aby}
	return p.DistanceSq(proj)
}

// pointInRing classifies p against ring via horizontal ray-casting with
// even-odd winding.
func pointInRing(p geopb.Vertex, ring *geo.Geometry) PointRingRelation {
	n := ring.VertexCount()
	if n < 3 {
		return Invalid
	}
	crossings, boundary := RingCrossings(p, ring, 0, n)
	if boundary {
		return Boundary
	}
	if crossings%2 == 1 {
		return Interior
	}
	return Exterior
}

// RingCrossings counts the horizontal-ray crossings p makes against the
// segments [lo, lo+1), ..., [hi-2, hi-1) of ring's vertex array (a
// contiguous sub-range, inclusive of both endpoints), reporting whether
// p landed exactly on any of those segments. The prepared index calls
// this per leaf node so it can aggregate a full ring's crossing count a
// node at a time without rescanning the whole ring.
func RingCrossings(p geopb.Vertex, ring *geo.Geometry, lo, hi int) (crossings int, boundary bool) {
	if hi-lo < 2 {
		return 0, false
	}
	x0, y0 := ring.VertexXY(lo)
	for i := lo; i+1 < hi; i++ {
		x1, y1 := x0, y0
		x0, y0 = ring.VertexXY(i + 1)

		if p.X == x1 && p.Y == y1 {
			return crossings, true
		}
		if p.X == x0 && p.Y == y0 {
			return crossings, true
		}

		if y1 == y0 {
			if p.Y == y1 && p.X >= math.Min(x1, x0) && p.X <= math.Max(x1, x0) {
				return crossings, true
			}
			continue
		}

		ymin, ymax := math.Min(y1, y0), math.Max(y1, y0)
		if p.Y < ymin || p.Y > ymax {
			continue
		}

		t := (p.Y - y1) / (y0 - y1)
		xAtY := x1 + t*(x0-x1)

		if xAtY == p.X {
			return crossings, true
		}
		if p.Y != ymax && xAtY > p.X {
			crossings++
		}
	}
	return crossings, false
}

func pointToPolygonDistance(p geopb.Vertex, poly *geo.Geometry) float64 {
	shell := poly.FirstPart()
	if shell == nil {
		return math.Inf(1)
	}
	switch pointInRing(p, shell) {
	case Exterior, Invalid:
		return pointToLineDistance(p, shell)
	case Boundary:
		return 0
	}
	for hole := shell.Next(); hole != nil; hole = hole.Next() {
		switch pointInRing(p, hole) {
		case Interior:
			return pointToLineDistance(p, hole)
		case Boundary:
			return 0
		}
	}
	return 0
}

func lineToLineDistance(a, b *geo.Geometry) float64 {
	an, bn := a.VertexCount(), b.VertexCount()
	if an == 0 || bn == 0 {
		return math.Inf(1)
	}
	if an == 1 {
		return pointToLineDistance(a.VertexXYZM(0), b)
	}
	if bn == 1 {
		return pointToLineDistance(b.VertexXYZM(0), a)
	}
	best := math.Inf(1)
	for i := 0; i+1 < an; i++ {
		a0, a1 := a.VertexXYZM(i), a.VertexXYZM(i+1)
		for j := 0; j+1 < bn; j++ {
			b0, b1 := b.VertexXYZM(j), b.VertexXYZM(j+1)
			if d := segmentSegmentDistanceSq(a0, a1, b0, b1); d < best {
				best = d
			}
		}
	}
	return math.Sqrt(best)
}

// segmentSegmentDistanceSq returns the squared distance between segments
// [a0,a1] and [b0,b1]: 0 if they intersect, otherwise the minimum of the
// four endpoint-to-segment distances (which also covers the parallel
// case).
func segmentSegmentDistanceSq(a0, a1, b0, b1 geopb.Vertex) float64 {
	if segmentsIntersect(a0, a1, b0, b1) {
		return 0
	}
	return math.Min(
		math.Min(pointToSegmentDistanceSq(a0, b0, b1), pointToSegmentDistanceSq(a1, b0, b1)),
		math.Min(pointToSegmentDistanceSq(b0, a0, a1), pointToSegmentDistanceSq(b1, a0, a1)),
	)
}

func segmentsIntersect(a0, a1, b0, b1 geopb.Vertex) bool {
	d1 := cross(a0, a1, b0)
	d2 := cross(a0, a1, b1)
	d3 := cross(b0, b1, a0)
	d4 := cross(b0, b1, a1)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(a0, a1, b0) {
		return true
	}
	if d2 == 0 && onSegment(a0, a1, b1) {
		return true
	}
	if d3 == 0 && onSegment(b0, b1, a0) {
		return true
	}
	if d4 == 0 && onSegment(b0, b1, a1) {
		return true
	}
	return false
}

func cross(a, b, p geopb.Vertex) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func onSegment(a, b, p geopb.Vertex) bool {
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

func lineToPolygonDistance(line, poly *geo.Geometry) float64 {
	shell := poly.FirstPart()
	if shell == nil || line.VertexCount() == 0 {
		return math.Inf(1)
	}
	first := line.VertexXYZM(0)
	if rel := pointInRing(first, shell); rel == Exterior || rel == Invalid {
		return lineToLineDistance(line, shell)
	}
	for hole := shell.Next(); hole != nil; hole = hole.Next() {
		if pointInRing(first, hole) == Interior {
			return lineToLineDistance(line, hole)
		}
	}
	return 0
}

func polygonToPolygonDistance(a, b *geo.Geometry) float64 {
	shellA, shellB := a.FirstPart(), b.FirstPart()
	if shellA == nil || shellB == nil || shellA.VertexCount() == 0 || shellB.VertexCount() == 0 {
		return math.Inf(1)
	}
	va := shellA.VertexXYZM(0)
	vb := shellB.VertexXYZM(0)

	aOutsideB := pointInRing(va, shellB) == Exterior
	bOutsideA := pointInRing(vb, shellA) == Exterior
	if aOutsideB && bOutsideA {
		return lineToLineDistance(shellA, shellB)
	}

	for hole := shellB.Next(); hole != nil; hole = hole.Next() {
		if rel := pointInRing(va, hole); rel == Interior || rel == Boundary {
			return lineToLineDistance(shellA, hole)
		}
	}
	for hole := shellA.Next(); hole != nil; hole = hole.Next() {
		if rel := pointInRing(vb, hole); rel == Interior || rel == Boundary {
			return lineToLineDistance(shellB, hole)
		}
	}
	return 0
}

// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package geomfn implements the metric, distance, linear-referencing,
// and vertex-transform operations of the geometry engine, all built on
// top of the geo package's tree and traversal primitives.
package geomfn

import (
	"math"

	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geopb"
)

// GetArea returns the sum of the areas of every polygon reachable from g
// (shell area minus the area of every hole), zero if g contains no
// polygons.
func GetArea(g *geo.Geometry) float64 {
	var total float64
	geo.VisitPolygons(g, func(poly *geo.Geometry) {
		total += polygonArea(poly)
	})
	return total
}

func polygonArea(poly *geo.Geometry) float64 {
	shell := poly.FirstPart()
	if shell == nil {
		return 0
	}
	area := math.Abs(signedArea(shell))
	for hole := shell.Next(); hole != nil; hole = hole.Next() {
		area -= math.Abs(signedArea(hole))
	}
	return area
}

// signedArea computes the ring's signed area by fan-triangulation from
// its first vertex, which is the same reference point the centroid
// algorithm uses as its fan apex.
func signedArea(ring *geo.Geometry) float64 {
	n := ring.VertexCount()
	if n < 3 {
		return 0
	}
	x0, y0 := ring.VertexXY(0)
	var sum float64
	for i := 1; i < n-1; i++ {
		xi, yi := ring.VertexXY(i)
		xj, yj := ring.VertexXY(i + 1)
		sum += (xi-x0)*(yj-y0) - (xj-x0)*(yi-y0)
	}
	return sum / 2
}

// GetLength returns the sum of every LineString's segment lengths
// reachable from g, excluding polygon rings.
func GetLength(g *geo.Geometry) float64 {
	var total float64
	geo.VisitLines(g, func(line *geo.Geometry) {
		total += lineLength(line)
	})
	return total
}

func lineLength(line *geo.Geometry) float64 {
	n := line.VertexCount()
	var total float64
	for i := 0; i+1 < n; i++ {
		x0, y0 := line.VertexXY(i)
		x1, y1 := line.VertexXY(i + 1)
		dx, dy := x1-x0, y1-y0
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

// GetPerimeter returns the sum of the lengths of every ring (shell and
// holes) of every polygon reachable from g.
func GetPerimeter(g *geo.Geometry) float64 {
	var total float64
	geo.VisitPolygons(g, func(poly *geo.Geometry) {
		for ring := poly.FirstPart(); ring != nil; ring = ring.Next() {
			total += lineLength(ring)
		}
	})
	return total
}

// GetTotalVertexCount returns the sum of leaf vertex counts — every
// Point, LineString, and polygon ring reachable from g.
func GetTotalVertexCount(g *geo.Geometry) int {
	var total int
	geo.VisitVertexArrays(g, func(leaf *geo.Geometry) {
		total += leaf.VertexCount()
	})
	return total
}

// GetTotalExtentXY folds every leaf vertex's x, y into a running extent
// and returns it along with the number of vertices folded.
func GetTotalExtentXY(g *geo.Geometry) (geopb.Extent, int) {
	ext := geopb.Smallest()
	count := 0
	geo.VisitVertexArrays(g, func(leaf *geo.Geometry) {
		for i := 0; i < leaf.VertexCount(); i++ {
			x, y := leaf.VertexXY(i)
			ext.Update(x, y)
			count++
		}
	})
	return ext, count
}

// GetTotalExtentXYZM is GetTotalExtentXY's full-dimension counterpart;
// leaves that lack z or m contribute zero for the missing ordinate.
func GetTotalExtentXYZM(g *geo.Geometry) (geopb.Extent, int) {
	ext := geopb.Smallest()
	count := 0
	geo.VisitVertexArrays(g, func(leaf *geo.Geometry) {
		for i := 0; i < leaf.VertexCount(); i++ {
			ext.UpdateVertex(leaf.VertexXYZM(i))
			count++
		}
	})
	return ext, count
}

// GetMaxSurfaceDimension returns the highest topological dimension among
// g's non-empty leaves — 0 for Point, 1 for LineString, 2 for Polygon —
// or -1 if every part is empty. If ignoreEmpty is false, empty parts
// contribute their dimension even though they carry no vertices.
func GetMaxSurfaceDimension(g *geo.Geometry, ignoreEmpty bool) int {
	max := -1
	geo.VisitLeafGeometries(g, func(leaf *geo.Geometry) {
		if ignoreEmpty && leaf.IsEmpty() {
			return
		}
		if d := leafDimension(leaf); d > max {
			max = d
		}
	})
	return max
}

func leafDimension(leaf *geo.Geometry) int {
	switch leaf.GeomType() {
	case geo.Point:
		return 0
	case geo.LineString:
		return 1
	case geo.Polygon:
		return 2
	default:
		return -1
	}
}

// GetCentroid returns g's centroid, selecting the point/line/polygon
// formula by the highest dimension among g's non-empty leaves. It
// reports false if g has no non-empty leaves of a classifiable
// dimension.
func GetCentroid(g *geo.Geometry) (geopb.Vertex, bool) {
	switch GetMaxSurfaceDimension(g, true) {
	case 0:
		return pointCentroid(g)
	case 1:
		return lineCentroid(g)
	case 2:
		return polygonCentroid(g)
	default:
		return geopb.Vertex{}, false
	}
}

func pointCentroid(g *geo.Geometry) (geopb.Vertex, bool) {
	var sum geopb.Vertex
	var n int
	geo.VisitPoints(g, func(pt *geo.Geometry) {
		if pt.IsEmpty() {
			return
		}
		sum = sum.Add(pt.VertexXYZM(0))
		n++
	})
	if n == 0 {
		return geopb.Vertex{}, false
	}
	return sum.Scale(1 / float64(n)), true
}

func lineCentroid(g *geo.Geometry) (geopb.Vertex, bool) {
	var weighted geopb.Vertex
	var totalLen float64
	geo.VisitLines(g, func(line *geo.Geometry) {
		n := line.VertexCount()
		for i := 0; i+1 < n; i++ {
			a := line.VertexXYZM(i)
			b := line.VertexXYZM(i + 1)
			segLen := a.Distance(b)
			weighted = weighted.Add(a.Add(b).Scale(segLen))
			totalLen += segLen
		}
	})
	if totalLen == 0 {
		return geopb.Vertex{}, false
	}
	return weighted.Scale(1 / (2 * totalLen)), true
}

func polygonCentroid(g *geo.Geometry) (geopb.Vertex, bool) {
	var weighted geopb.Vertex
	var totalArea float64
	found := false
	geo.VisitPolygons(g, func(poly *geo.Geometry) {
		for ring := poly.FirstPart(); ring != nil; ring = ring.Next() {
			isShell := ring == poly.FirstPart()
			n := ring.VertexCount()
			if n < 3 {
				continue
			}
			apex := ring.VertexXYZM(0)
			clockwise := signedArea(ring) < 0
			sign := 1.0
			if isShell == clockwise {
				sign = -1
			}
			for i := 1; i < n-1; i++ {
				prev := ring.VertexXYZM(i)
				next := ring.VertexXYZM(i + 1)
				twiceArea := (prev.X-apex.X)*(next.Y-apex.Y) - (next.X-apex.X)*(prev.Y-apex.Y)
				weighted = weighted.Add(apex.Add(prev).Add(next).Scale(sign * twiceArea))
				totalArea += sign * twiceArea
				found = true
			}
		}
	})
	if !found || totalArea == 0 {
		return geopb.Vertex{}, false
	}
	return weighted.Scale(1 / (3 * totalArea)), true
}

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

// IsClosed reports whether line's first and last vertices are identical
// in every ordinate the leaf carries. A MultiLineString is closed iff
// every one of its parts is closed.
func IsClosed(g *geo.Geometry) (bool, error) {
	switch g.GeomType() {
	case geo.LineString:
		return lineIsClosed(g), nil
	case geo.MultiLineString:
		closed := true
		geo.VisitLines(g, func(line *geo.Geometry) {
			if !lineIsClosed(line) {
				closed = false
			}
		})
		return closed, nil
	default:
		return false, errors.Newf("geomfn: IsClosed requires a LineString or MultiLineString, got %s", g.GeomType())
	}
}

func lineIsClosed(line *geo.Geometry) bool {
	n := line.VertexCount()
	if n == 0 {
		return false
	}
	return line.VertexXYZM(0) == line.VertexXYZM(n-1)
}

// asLine returns the LINESTRING line refers to: line itself, or a
// polygon's outer ring when line is actually a Polygon.
func asLine(g *geo.Geometry) (*geo.Geometry, error) {
	switch g.GeomType() {
	case geo.LineString:
		return g, nil
	case geo.Polygon:
		shell := g.FirstPart()
		if shell == nil {
			return nil, errors.Newf("geomfn: cannot linear-reference an empty polygon")
		}
		return shell, nil
	default:
		return nil, errors.Newf("geomfn: linear referencing requires a LineString or Polygon, got %s", g.GeomType())
	}
}

// Interpolate returns the point at fraction frac (clamped to [0,1]) of
// line's length, linearly interpolating every ordinate within the
// segment containing the target arc length.
func Interpolate(g *geo.Geometry, frac float64) (*geo.Geometry, error) {
	line, err := asLine(g)
	if err != nil {
		return nil, err
	}
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	n := line.VertexCount()
	if n == 0 {
		return geo.New(geo.Point, line.HasZ(), line.HasM()), nil
	}
	if n == 1 {
		out := geo.New(geo.Point, line.HasZ(), line.HasM())
		out.SetVertexArray([]geopb.Vertex{line.VertexXYZM(0)})
		return out, nil
	}

	total := lineLength(line)
	target := frac * total
	out := geo.New(geo.Point, line.HasZ(), line.HasM())
	out.SetVertexArray([]geopb.Vertex{pointAtArcLength(line, target)})
	return out, nil
}

// pointAtArcLength walks line's segments accumulating arc length and
// returns the vertex at the given target arc length, clamping to the
// line's endpoints for targets outside [0, length].
func pointAtArcLength(line *geo.Geometry, target float64) geopb.Vertex {
	n := line.VertexCount()
	if target <= 0 {
		return line.VertexXYZM(0)
	}
	var acc float64
	for i := 0; i+1 < n; i++ {
		a := line.VertexXYZM(i)
		b := line.VertexXYZM(i + 1)
		segLen := a.Distance(b)
		if acc+segLen >= target || i+2 == n {
			if segLen == 0 {
				return a
			}
			t := (target - acc) / segLen
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			return lerpVertex(a, b, t)
		}
		acc += segLen
	}
	return line.VertexXYZM(n - 1)
}

func lerpVertex(a, b geopb.Vertex, t float64) geopb.Vertex {
	return geopb.Vertex{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
		Z: a.Z + t*(b.Z-a.Z),
		M: a.M + t*(b.M-a.M),
	}
}

// InterpolatePoints returns a MultiPoint of points at arc-length fractions
// frac, 2*frac, 3*frac, ... <= 1 of the line's length. If repeat is
// false, only the first such point is returned.
func InterpolatePoints(g *geo.Geometry, frac float64, repeat bool) (*geo.Geometry, error) {
	line, err := asLine(g)
	if err != nil {
		return nil, err
	}
	if frac < 0 || frac > 1 {
		return nil, errors.Newf("geomfn: fraction %f should be within [0, 1] range", frac)
	}

	out := geo.New(geo.MultiPoint, line.HasZ(), line.HasM())
	if line.IsEmpty() {
		return out, nil
	}
	if line.VertexCount() == 1 {
		pt := geo.New(geo.Point, line.HasZ(), line.HasM())
		pt.SetVertexArray([]geopb.Vertex{line.VertexXYZM(0)})
		out.AppendPart(pt)
		return out, nil
	}
	if frac == 0 {
		pt, err := Interpolate(line, 0)
		if err != nil {
			return nil, err
		}
		out.AppendPart(pt)
		return out, nil
	}

	total := lineLength(line)
	n := 1
	if repeat {
		n = int(1 / frac)
	}
	for i := 1; i <= n; i++ {
		pt := geo.New(geo.Point, line.HasZ(), line.HasM())
		pt.SetVertexArray([]geopb.Vertex{pointAtArcLength(line, float64(i)*frac*total)})
		out.AppendPart(pt)
	}
	return out, nil
}

// InterpolatePoint projects point onto line, clamping per-segment, and
// returns the m ordinate interpolated at the closest projection. It
// reports false if line lacks an m ordinate or has fewer than 2
// vertices. On ties for closest squared distance, the first segment
// encountered wins.
func InterpolatePoint(line, point *geo.Geometry) (float64, bool) {
	if !line.HasM() || line.VertexCount() < 2 {
		return 0, false
	}
	if point.GeomType() != geo.Point || point.IsEmpty() {
		return 0, false
	}
	p := point.VertexXYZM(0)

	n := line.VertexCount()
	bestDistSq := math.Inf(1)
	var bestM float64
	for i := 0; i+1 < n; i++ {
		a := line.VertexXYZM(i)
		b := line.VertexXYZM(i + 1)
		t, distSq := projectClamped(p, a, b)
		if distSq < bestDistSq {
			bestDistSq = distSq
			bestM = a.M + t*(b.M-a.M)
		}
	}
	return bestM, true
}

// projectClamped returns the clamped projection parameter of p onto
// segment [a,b] and the squared distance from p to that projection.
func projectClamped(p, a, b geopb.Vertex) (t, distSq float64) {
	abx, aby := b.X-a.X, b.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return 0, p.DistanceSq(a)
	}
	t = ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := geopb.Vertex{X: a.X + t*abx, Y: a.Y + t*aby}
	return t, p.DistanceSq(proj)
}

// LineLocatePoint projects point onto line the same way InterpolatePoint
// does, and returns the arc length of the closest projection normalized
// by the line's total length, in [0, 1].
func LineLocatePoint(line, point *geo.Geometry) (float64, error) {
	if line.VertexCount() < 2 {
		return 0, errors.Newf("geomfn: LineLocatePoint requires a line with at least 2 vertices")
	}
	if point.GeomType() != geo.Point || point.IsEmpty() {
		return 0, errors.Newf("geomfn: LineLocatePoint requires a non-empty Point")
	}
	p := point.VertexXYZM(0)

	n := line.VertexCount()
	total := lineLength(line)
	if total == 0 {
		return 0, nil
	}

	var acc float64
	bestDistSq := math.Inf(1)
	var bestArc float64
	for i := 0; i+1 < n; i++ {
		a := line.VertexXYZM(i)
		b := line.VertexXYZM(i + 1)
		t, distSq := projectClamped(p, a, b)
		if distSq < bestDistSq {
			bestDistSq = distSq
			bestArc = acc + t*a.Distance(b)
		}
		acc += a.Distance(b)
	}
	return bestArc / total, nil
}

// LocateAlong returns every point on line whose m ordinate equals
// measure, optionally offset perpendicular to the line by offset (using
// the segment's outward normal). The result is a MultiPoint.
func LocateAlong(line *geo.Geometry, measure, offset float64) (*geo.Geometry, error) {
	if !line.HasM() {
		return nil, errors.Newf("geomfn: LocateAlong requires a line with an m ordinate")
	}
	out := geo.New(geo.MultiPoint, line.HasZ(), line.HasM())
	n := line.VertexCount()
	for i := 0; i+1 < n; i++ {
		a := line.VertexXYZM(i)
		b := line.VertexXYZM(i + 1)
		if a.M == measure {
			appendLocatedPoint(out, a, normal(a, b), offset)
		} else if (a.M < measure && measure < b.M) || (b.M < measure && measure < a.M) {
			t := (measure - a.M) / (b.M - a.M)
			appendLocatedPoint(out, lerpVertex(a, b, t), normal(a, b), offset)
		}
		if i+2 == n && b.M == measure {
			appendLocatedPoint(out, b, normal(a, b), offset)
		}
	}
	return out, nil
}

func normal(a, b geopb.Vertex) geopb.Vertex {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return geopb.Vertex{}
	}
	return geopb.Vertex{X: dy / length, Y: -dx / length}
}

func appendLocatedPoint(out *geo.Geometry, v geopb.Vertex, n geopb.Vertex, offset float64) {
	if offset != 0 {
		v = geopb.Vertex{X: v.X + offset*n.X, Y: v.Y + offset*n.Y, Z: v.Z, M: v.M}
	}
	pt := geo.New(geo.Point, out.HasZ(), out.HasM())
	pt.SetVertexArray([]geopb.Vertex{v})
	out.AppendPart(pt)
}

// LocateBetween builds the substrings of line whose vertices' m ordinate
// falls within [mLo, mHi], offsetting each emitted vertex perpendicular
// to the line by offset. A substring with exactly one vertex is emitted
// as a Point; longer substrings are emitted as LineStrings. Both are
// appended as children of a GeometryCollection.
func LocateBetween(line *geo.Geometry, mLo, mHi, offset float64) (*geo.Geometry, error) {
	if !line.HasM() {
		return nil, errors.Newf("geomfn: LocateBetween requires a line with an m ordinate")
	}
	out := geo.New(geo.GeometryCollection, line.HasZ(), line.HasM())
	n := line.VertexCount()
	if n == 0 {
		return out, nil
	}

	var current []geopb.Vertex
	flush := func() {
		if len(current) == 0 {
			return
		}
		if len(current) == 1 {
			pt := geo.New(geo.Point, line.HasZ(), line.HasM())
			pt.SetVertexArray(current)
			out.AppendPart(pt)
		} else {
			ls := geo.New(geo.LineString, line.HasZ(), line.HasM())
			ls.SetVertexArray(current)
			out.AppendPart(ls)
		}
		current = nil
	}

	offsetVertex := func(v, nrm geopb.Vertex) geopb.Vertex {
		if offset == 0 {
			return v
		}
		return geopb.Vertex{X: v.X + offset*nrm.X, Y: v.Y + offset*nrm.Y, Z: v.Z, M: v.M}
	}

	inRange := func(m float64) bool { return m >= mLo && m <= mHi }

	prev := line.VertexXYZM(0)
	if inRange(prev.M) {
		var nrm geopb.Vertex
		if n > 1 {
			nrm = normal(prev, line.VertexXYZM(1))
		}
		current = append(current, offsetVertex(prev, nrm))
	}
	for i := 0; i+1 < n; i++ {
		a := line.VertexXYZM(i)
		b := line.VertexXYZM(i + 1)
		nrm := normal(a, b)
		aIn, bIn := inRange(a.M), inRange(b.M)
		switch {
		case aIn && bIn:
			current = append(current, offsetVertex(b, nrm))
		case aIn && !bIn:
			boundaryM := mHi
			if b.M < mLo {
				boundaryM = mLo
			}
			if b.M != a.M {
				t := (boundaryM - a.M) / (b.M - a.M)
				current = append(current, offsetVertex(lerpVertex(a, b, t), nrm))
			}
			flush()
		case !aIn && bIn:
			boundaryM := mHi
			if a.M < mLo {
				boundaryM = mLo
			}
			if b.M != a.M {
				t := (boundaryM - a.M) / (b.M - a.M)
				current = append(current, offsetVertex(lerpVertex(a, b, t), nrm))
			}
			current = append(current, offsetVertex(b, nrm))
		case (a.M < mLo && b.M > mHi) || (a.M > mHi && b.M < mLo):
			// The segment enters and leaves the range without either
			// endpoint inside it.
			enterM, exitM := mLo, mHi
			if a.M > mHi {
				enterM, exitM = mHi, mLo
			}
			current = append(current,
				offsetVertex(lerpVertex(a, b, (enterM-a.M)/(b.M-a.M)), nrm),
				offsetVertex(lerpVertex(a, b, (exitM-a.M)/(b.M-a.M)), nrm))
			flush()
		}
	}
	flush()
	return out, nil
}

// Substring returns the portion of line's arc length between begFrac and
// endFrac (each clamped to [0,1]), preserving intermediate vertices and
// interpolating the two cut endpoints. If begFrac == endFrac, a single
// Point is returned via Interpolate. If begFrac > endFrac, an empty
// LineString is returned.
func Substring(g *geo.Geometry, begFrac, endFrac float64) (*geo.Geometry, error) {
	line, err := asLine(g)
	if err != nil {
		return nil, err
	}
	begFrac = clamp01(begFrac)
	endFrac = clamp01(endFrac)
	if begFrac > endFrac {
		return geo.New(geo.LineString, line.HasZ(), line.HasM()), nil
	}
	if begFrac == endFrac {
		return Interpolate(line, begFrac)
	}

	total := lineLength(line)
	begArc := begFrac * total
	endArc := endFrac * total

	n := line.VertexCount()
	var vertices []geopb.Vertex
	var acc float64
	started := false
	for i := 0; i+1 < n; i++ {
		a := line.VertexXYZM(i)
		b := line.VertexXYZM(i + 1)
		segLen := a.Distance(b)
		segStart, segEnd := acc, acc+segLen

		if !started && begArc >= segStart && begArc <= segEnd {
			if segLen == 0 {
				vertices = append(vertices, a)
			} else {
				vertices = append(vertices, lerpVertex(a, b, (begArc-segStart)/segLen))
			}
			started = true
		} else if started && a != vertices[len(vertices)-1] {
			vertices = append(vertices, a)
		}

		if started && endArc >= segStart && endArc <= segEnd {
			if segLen == 0 {
				vertices = append(vertices, b)
			} else {
				vertices = append(vertices, lerpVertex(a, b, (endArc-segStart)/segLen))
			}
			break
		}
		acc = segEnd
	}

	out := geo.New(geo.LineString, line.HasZ(), line.HasM())
	out.SetVertexArray(vertices)
	return out, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

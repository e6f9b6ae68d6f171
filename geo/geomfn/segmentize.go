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

// Segmentize returns a copy of g with every LineString (including
// polygon rings) replaced by an equal-length-segment subdivision so that
// no segment exceeds segmentMaxLength. Point and MultiPoint are
// returned unchanged since they have no segments to subdivide.
func Segmentize(g *geo.Geometry, segmentMaxLength float64) (*geo.Geometry, error) {
	if math.IsNaN(segmentMaxLength) || math.IsInf(segmentMaxLength, 1) {
		return g, nil
	}
	switch g.GeomType() {
	case geo.Point, geo.MultiPoint:
		return g, nil
	}
	if segmentMaxLength <= 0 {
		return nil, errors.Newf("geomfn: maximum segment length must be positive")
	}
	return segmentizeGeometry(g, segmentMaxLength)
}

func segmentizeGeometry(g *geo.Geometry, maxLen float64) (*geo.Geometry, error) {
	switch g.GeomType() {
	case geo.Point:
		return g, nil
	case geo.LineString:
		out := geo.New(geo.LineString, g.HasZ(), g.HasM())
		vertices, err := segmentizeVertices(g.VertexArray(), maxLen)
		if err != nil {
			return nil, err
		}
		out.SetVertexArray(vertices)
		return out, nil
	case geo.Polygon, geo.MultiPoint, geo.MultiLineString, geo.MultiPolygon, geo.GeometryCollection:
		out := geo.New(g.GeomType(), g.HasZ(), g.HasM())
		for child := g.FirstPart(); child != nil; child = child.Next() {
			seg, err := segmentizeGeometry(child, maxLen)
			if err != nil {
				return nil, err
			}
			out.AppendPart(seg)
		}
		return out, nil
	default:
		return nil, errors.AssertionFailedf("geomfn: cannot segmentize geometry of type %s", g.GeomType())
	}
}

// segmentizeVertices inserts additional points between consecutive
// vertices so that no resulting segment exceeds maxLen, preserving every
// original vertex. The number of segments between a pair of
// consecutive input vertices is the minimum number of equal-length
// segments needed, based only on their 2D distance.
func segmentizeVertices(vertices []geopb.Vertex, maxLen float64) ([]geopb.Vertex, error) {
	if len(vertices) < 2 {
		return vertices, nil
	}
	out := make([]geopb.Vertex, 0, len(vertices))
	out = append(out, vertices[0])
	for i := 0; i+1 < len(vertices); i++ {
		a, b := vertices[i], vertices[i+1]
		segs, err := segmentizeCoords(a, b, maxLen)
		if err != nil {
			return nil, err
		}
		out = append(out, segs...)
		out = append(out, b)
	}
	return out, nil
}

// segmentizeCoords returns the intermediate points (excluding both a and
// b) that subdivide [a,b] into the minimum number of equal-length
// segments such that each has length at most maxLen, using 2D distance
// to determine the segment count.
func segmentizeCoords(a, b geopb.Vertex, maxLen float64) ([]geopb.Vertex, error) {
	if maxLen <= 0 {
		return nil, errors.Newf("geomfn: maximum segment length must be positive")
	}
	dist := math.Sqrt(math.Pow(a.X-b.X, 2) + math.Pow(a.Y-b.Y, 2))
	numSegments := int(math.Ceil(dist / maxLen))
	if numSegments <= 1 {
		return nil, nil
	}
	points := make([]geopb.Vertex, 0, numSegments-1)
	frac := 1.0 / float64(numSegments)
	for i := 1; i < numSegments; i++ {
		t := float64(i) * frac
		points = append(points, lerpVertex(a, b, t))
	}
	return points, nil
}

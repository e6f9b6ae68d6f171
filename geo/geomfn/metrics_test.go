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
	"testing"

	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geopb"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, x1, y1 float64) *geo.Geometry {
	poly := geo.New(geo.Polygon, false, false)
	ring := geo.New(geo.LineString, false, false)
	ring.SetVertexArray([]geopb.Vertex{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}, {X: x0, Y: y0}})
	poly.AppendPart(ring)
	return poly
}

func TestGetAreaSquare(t *testing.T) {
	require.Equal(t, 4.0, GetArea(square(0, 0, 2, 2)))
}

func TestGetAreaPolygonWithHoleSubtracts(t *testing.T) {
	poly := geo.New(geo.Polygon, false, false)
	shell := geo.New(geo.LineString, false, false)
	shell.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0}, {X: 0, Y: 0}})
	hole := geo.New(geo.LineString, false, false)
	hole.SetVertexArray([]geopb.Vertex{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 1, Y: 1}})
	poly.AppendPart(shell)
	poly.AppendPart(hole)
	require.Equal(t, 15.0, GetArea(poly))
}

func TestGetLengthLineString(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 1, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 3}})
	require.Equal(t, 4.0, GetLength(line))
}

func TestGetLengthIgnoresPolygonRings(t *testing.T) {
	require.Equal(t, 0.0, GetLength(square(0, 0, 2, 2)))
}

func TestGetPerimeterPolygon(t *testing.T) {
	require.Equal(t, 8.0, GetPerimeter(square(0, 0, 2, 2)))
}

func TestGetTotalVertexCount(t *testing.T) {
	mls := geo.New(geo.MultiLineString, false, false)
	a := geo.New(geo.LineString, false, false)
	a.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}, {X: 1, Y: 1}})
	b := geo.New(geo.LineString, false, false)
	b.SetVertexArray([]geopb.Vertex{{X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}})
	mls.AppendPart(a)
	mls.AppendPart(b)
	require.Equal(t, 5, GetTotalVertexCount(mls))
}

func TestGetTotalExtentXY(t *testing.T) {
	ext, n := GetTotalExtentXY(square(0, 0, 2, 3))
	require.Equal(t, 5, n)
	require.Equal(t, 0.0, ext.Min.X)
	require.Equal(t, 0.0, ext.Min.Y)
	require.Equal(t, 2.0, ext.Max.X)
	require.Equal(t, 3.0, ext.Max.Y)
}

func TestGetMaxSurfaceDimension(t *testing.T) {
	require.Equal(t, 2, GetMaxSurfaceDimension(square(0, 0, 1, 1), true))

	pt := geo.New(geo.Point, false, false)
	pt.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}})
	require.Equal(t, 0, GetMaxSurfaceDimension(pt, true))

	empty := geo.New(geo.Point, false, false)
	require.Equal(t, -1, GetMaxSurfaceDimension(empty, true))
}

func TestGetCentroidPoint(t *testing.T) {
	pt := geo.New(geo.Point, false, false)
	pt.SetVertexArray([]geopb.Vertex{{X: 1, Y: 2}})
	c, ok := GetCentroid(pt)
	require.True(t, ok)
	require.Equal(t, 1.0, c.X)
	require.Equal(t, 2.0, c.Y)
}

func TestGetCentroidLine(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}, {X: 4, Y: 0}})
	c, ok := GetCentroid(line)
	require.True(t, ok)
	require.InDelta(t, 2.0, c.X, 1e-9)
	require.InDelta(t, 0.0, c.Y, 1e-9)
}

func TestGetCentroidSquare(t *testing.T) {
	c, ok := GetCentroid(square(0, 0, 2, 2))
	require.True(t, ok)
	require.InDelta(t, 1.0, c.X, 1e-9)
	require.InDelta(t, 1.0, c.Y, 1e-9)
}

func TestGetCentroidMultiPolygon(t *testing.T) {
	mp := geo.New(geo.MultiPolygon, false, false)
	mp.AppendPart(square(0, 0, 2, 2))
	mp.AppendPart(square(10, 10, 12, 12))
	c, ok := GetCentroid(mp)
	require.True(t, ok)
	require.InDelta(t, 6.0, c.X, 1e-9)
	require.InDelta(t, 6.0, c.Y, 1e-9)
}

func TestGetCentroidReportsFalseWhenNoClassifiableLeaf(t *testing.T) {
	empty := geo.New(geo.GeometryCollection, false, false)
	_, ok := GetCentroid(empty)
	require.False(t, ok)
}

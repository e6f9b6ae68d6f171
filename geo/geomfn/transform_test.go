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

func TestVisitVerticesXY(t *testing.T) {
	var xs []float64
	VisitVerticesXY(straightLine(), func(x, y float64) { xs = append(xs, x) })
	require.Equal(t, []float64{0, 10}, xs)
}

func TestFlipVertices(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 1, Y: 2}, {X: 3, Y: 4}})
	flipped := FlipVertices(line)
	x, y := flipped.VertexXY(0)
	require.Equal(t, 2.0, x)
	require.Equal(t, 1.0, y)
	// original is untouched
	ox, oy := line.VertexXY(0)
	require.Equal(t, 1.0, ox)
	require.Equal(t, 2.0, oy)
}

func TestAffineTransformTranslate(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}, {X: 1, Y: 1}})
	out := AffineTransform(line, geopb.TranslateAffine(5, 5, 0))
	x, y := out.VertexXY(1)
	require.Equal(t, 6.0, x)
	require.Equal(t, 6.0, y)
}

func TestCollectVertices(t *testing.T) {
	poly := square(0, 0, 1, 1)
	mp := CollectVertices(poly)
	require.Equal(t, poly.FirstPart().VertexCount(), mp.PartCount())
}

func TestForceZMAddsAndRemovesOrdinates(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 1, Y: 2}})

	withZ := ForceZM(line, true, false, 9, 0)
	require.True(t, withZ.HasZ())
	require.Equal(t, 9.0, withZ.VertexXYZM(0).Z)

	backTo2D := ForceZM(withZ, false, false, 0, 0)
	require.False(t, backTo2D.HasZ())
}

func TestForceZMIsIdempotent(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 1, Y: 2}})
	once := ForceZM(line, true, true, 1, 2)
	twice := ForceZM(once, true, true, 1, 2)
	require.Equal(t, once.VertexXYZM(0), twice.VertexXYZM(0))
}

func TestExtractPointsLineStringsPolygons(t *testing.T) {
	gc := geo.New(geo.GeometryCollection, false, false)
	pt := geo.New(geo.Point, false, false)
	pt.SetVertexArray([]geopb.Vertex{{X: 1, Y: 1}})
	gc.AppendPart(pt)
	gc.AppendPart(straightLine())
	gc.AppendPart(square(0, 0, 1, 1))

	require.Equal(t, 1, ExtractPoints(gc).PartCount())
	require.Equal(t, 1, ExtractLineStrings(gc).PartCount())
	require.Equal(t, 1, ExtractPolygons(gc).PartCount())
}

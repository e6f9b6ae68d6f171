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

func TestSplitLineStringAtPoints(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}, {X: 10, Y: 0}})

	splitter := geo.New(geo.Point, false, false)
	splitter.SetVertexArray([]geopb.Vertex{{X: 4, Y: 0}})

	out, err := SplitLineStringAtPoints(line, []*geo.Geometry{splitter})
	require.NoError(t, err)
	require.Equal(t, geo.MultiLineString, out.GeomType())
	require.Equal(t, 2, out.PartCount())

	first := out.FirstPart()
	xLast, _ := first.VertexXY(first.VertexCount() - 1)
	require.Equal(t, 4.0, xLast)
}

func TestSplitLineStringAtPointsSkipsEndpoints(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}, {X: 10, Y: 0}})

	atEnd := geo.New(geo.Point, false, false)
	atEnd.SetVertexArray([]geopb.Vertex{{X: 10, Y: 0}})

	out, err := SplitLineStringAtPoints(line, []*geo.Geometry{atEnd})
	require.NoError(t, err)
	require.Equal(t, 1, out.PartCount())
}

func TestSplitLineStringAtPointsSkipsOffLinePoints(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}, {X: 10, Y: 0}})

	offLine := geo.New(geo.Point, false, false)
	offLine.SetVertexArray([]geopb.Vertex{{X: 4, Y: 1}})

	out, err := SplitLineStringAtPoints(line, []*geo.Geometry{offLine})
	require.NoError(t, err)
	require.Equal(t, 1, out.PartCount())
}

func TestSplitLineStringAtPointsRejectsNonLineString(t *testing.T) {
	_, err := SplitLineStringAtPoints(square(0, 0, 1, 1), nil)
	require.Error(t, err)
}

func TestSplitLineStringAtMultiplePointsInOrder(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}, {X: 10, Y: 0}})

	a := geo.New(geo.Point, false, false)
	a.SetVertexArray([]geopb.Vertex{{X: 3, Y: 0}})
	b := geo.New(geo.Point, false, false)
	b.SetVertexArray([]geopb.Vertex{{X: 7, Y: 0}})

	out, err := SplitLineStringAtPoints(line, []*geo.Geometry{a, b})
	require.NoError(t, err)
	require.Equal(t, 3, out.PartCount())
}

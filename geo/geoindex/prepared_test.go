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
	"testing"

	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geomfn"
	"github.com/ngochoawindy/sgl/geo/geopb"
	"github.com/stretchr/testify/require"
)

func ring(vertices ...geopb.Vertex) *geo.Geometry {
	l := geo.New(geo.LineString, false, false)
	l.SetVertexArray(vertices)
	return l
}

func squareRing(x0, y0, x1, y1 float64) *geo.Geometry {
	return ring(
		geopb.Vertex{X: x0, Y: y0}, geopb.Vertex{X: x0, Y: y1},
		geopb.Vertex{X: x1, Y: y1}, geopb.Vertex{X: x1, Y: y0},
		geopb.Vertex{X: x0, Y: y0},
	)
}

func TestBuildRejectsNonLineString(t *testing.T) {
	poly := geo.New(geo.Polygon, false, false)
	_, err := Build(poly)
	require.Error(t, err)
}

func TestBuildSetsPreparedFlag(t *testing.T) {
	line := squareRing(0, 0, 1, 1)
	_, err := Build(line)
	require.NoError(t, err)
	require.True(t, line.IsPrepared())
}

func TestBuildWithAllocatorSourcesLevelBoxes(t *testing.T) {
	line := squareRing(0, 0, 10, 10)
	a := geo.NewArenaAllocator()
	p, err := Build(line, WithAllocator(a))
	require.NoError(t, err)
	require.Greater(t, a.Allocated(), 0)

	inside := geopb.Vertex{X: 5, Y: 5}
	require.Equal(t, geomfn.Interior, p.Contains(inside))
}

func TestContainsMatchesUnprepared(t *testing.T) {
	r := squareRing(0, 0, 10, 10)
	p, err := Build(r)
	require.NoError(t, err)

	inside := geopb.Vertex{X: 5, Y: 5}
	outside := geopb.Vertex{X: 20, Y: 20}
	onEdge := geopb.Vertex{X: 0, Y: 5}

	require.Equal(t, geomfn.Interior, p.Contains(inside))
	require.Equal(t, geomfn.Exterior, p.Contains(outside))
	require.Equal(t, geomfn.Boundary, p.Contains(onEdge))
}

func TestContainsWithManyVerticesSpansMultipleLeafNodes(t *testing.T) {
	vertices := make([]geopb.Vertex, 0, 200)
	for i := 0; i <= 100; i++ {
		vertices = append(vertices, geopb.Vertex{X: float64(i), Y: 0})
	}
	for i := 100; i >= 0; i-- {
		vertices = append(vertices, geopb.Vertex{X: float64(i), Y: 10})
	}
	vertices = append(vertices, vertices[0])
	line := ring(vertices...)
	p, err := Build(line)
	require.NoError(t, err)
	require.Greater(t, len(p.levelLen), 0)
	require.Equal(t, geomfn.Interior, p.Contains(geopb.Vertex{X: 50, Y: 5}))
	require.Equal(t, geomfn.Exterior, p.Contains(geopb.Vertex{X: 50, Y: 20}))
}

func TestTryGetDistancePointMatchesUnprepared(t *testing.T) {
	r := squareRing(0, 0, 10, 10)
	p, err := Build(r)
	require.NoError(t, err)

	target := geopb.Vertex{X: -3, Y: 5}
	d, ok := p.TryGetDistance(target)
	require.True(t, ok)
	require.Equal(t, 3.0, d)
}

func TestTryGetDistanceLineToLine(t *testing.T) {
	a, err := Build(ring(geopb.Vertex{X: 0, Y: 0}, geopb.Vertex{X: 0, Y: 10}))
	require.NoError(t, err)
	b, err := Build(ring(geopb.Vertex{X: 5, Y: 0}, geopb.Vertex{X: 5, Y: 10}))
	require.NoError(t, err)

	d, ok := TryGetDistance(a, b)
	require.True(t, ok)
	require.Equal(t, 5.0, d)
}

func TestTryGetDistanceReportsFalseForEmptyLine(t *testing.T) {
	empty, err := Build(geo.New(geo.LineString, false, false))
	require.NoError(t, err)
	other, err := Build(squareRing(0, 0, 1, 1))
	require.NoError(t, err)

	_, ok := TryGetDistance(empty, other)
	require.False(t, ok)
}

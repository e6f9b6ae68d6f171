// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package geomfn_test

import (
	"testing"

	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geoindex"
	"github.com/ngochoawindy/sgl/geo/geomfn"
	"github.com/ngochoawindy/sgl/geo/geopb"
	"github.com/stretchr/testify/require"
)

func donutPolygonForDistanceParity() *geo.Geometry {
	poly := geo.New(geo.Polygon, false, false)
	shell := geo.New(geo.LineString, false, false)
	shell.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}})
	hole := geo.New(geo.LineString, false, false)
	hole.SetVertexArray([]geopb.Vertex{{X: 3, Y: 3}, {X: 3, Y: 7}, {X: 7, Y: 7}, {X: 7, Y: 3}, {X: 3, Y: 3}})
	poly.AppendPart(shell)
	poly.AppendPart(hole)
	return poly
}

func TestDonutPolygonPreparedUnpreparedDistanceParity(t *testing.T) {
	donut := donutPolygonForDistanceParity()
	target := geo.New(geo.Point, false, false)
	target.SetVertexArray([]geopb.Vertex{{X: 3, Y: -1}})

	unprepared, err := geomfn.GetEuclideanDistance(target, donut)
	require.NoError(t, err)
	require.Equal(t, 1.0, unprepared)

	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 3, Y: -1}})
	prep, err := geoindex.Build(line)
	require.NoError(t, err)

	shellLine := donut.FirstPart()
	shellPrep, err := geoindex.Build(shellLine)
	require.NoError(t, err)

	d, ok := geoindex.TryGetDistance(prep, shellPrep)
	require.True(t, ok)
	require.Equal(t, unprepared, d)
}

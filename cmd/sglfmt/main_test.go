// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geomfn"

	_ "github.com/ngochoawindy/sgl/geo/wkb"
	_ "github.com/ngochoawindy/sgl/geo/wkt"
)

func TestMetricsForSquare(t *testing.T) {
	g, srid, err := geo.Parse("POLYGON((0 0, 0 2, 2 2, 2 0, 0 0))")
	require.NoError(t, err)
	m := metrics{
		SRID:        srid,
		Type:        g.GeomType().String(),
		Area:        geomfn.GetArea(g),
		Length:      geomfn.GetLength(g),
		Perimeter:   geomfn.GetPerimeter(g),
		VertexCount: geomfn.GetTotalVertexCount(g),
	}
	require.Equal(t, "POLYGON", m.Type)
	require.Equal(t, 4.0, m.Area)
	require.Equal(t, 8.0, m.Perimeter)
	require.Equal(t, 5, m.VertexCount)
}

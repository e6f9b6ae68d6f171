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

	"github.com/ngochoawindy/sgl/geo/geopb"
	"github.com/stretchr/testify/require"
)

func TestCoveringCellsNonEmpty(t *testing.T) {
	ext := geopb.Extent{
		Min: geopb.Vertex{X: -10, Y: -10},
		Max: geopb.Vertex{X: 10, Y: 10},
	}
	cells := CoveringCells(ext, DefaultCoverer(16))
	require.NotEmpty(t, cells)
	for _, c := range cells {
		require.True(t, c.IsValid())
	}
}

func TestRootCoveringCellsEmptyIndex(t *testing.T) {
	empty, err := Build(ring())
	require.NoError(t, err)
	_, ok := RootCoveringCells(empty, DefaultCoverer(8))
	require.False(t, ok)
}

func TestRootCoveringCellsNonEmptyIndex(t *testing.T) {
	p, err := Build(squareRing(-1, -1, 1, 1))
	require.NoError(t, err)
	cells, ok := RootCoveringCells(p, DefaultCoverer(8))
	require.True(t, ok)
	require.NotEmpty(t, cells)
}

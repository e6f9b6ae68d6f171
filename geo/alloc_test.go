// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package geo

import (
	"testing"

	"github.com/ngochoawindy/sgl/geo/geopb"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocatorTracksAllocated(t *testing.T) {
	a := NewArenaAllocator()
	require.Equal(t, 0, a.Allocated())
	b := a.Alloc(16)
	require.Len(t, b, 16)
	require.Equal(t, 16, a.Allocated())
	b = a.Realloc(b, 32)
	require.Len(t, b, 32)
	require.Equal(t, 32, a.Allocated())
	b = a.Realloc(b, 8)
	require.Len(t, b, 8)
	require.Equal(t, 8, a.Allocated())
}

func TestAllocVerticesWithNilAllocatorUsesHeap(t *testing.T) {
	vs := AllocVertices(nil, 3)
	require.Len(t, vs, 3)
	require.Equal(t, geopb.Vertex{}, vs[0])
}

func TestAllocVerticesZeroLengthIsNil(t *testing.T) {
	require.Nil(t, AllocVertices(nil, 0))
	require.Nil(t, AllocVertices(NewArenaAllocator(), 0))
}

func TestAllocVerticesFromArenaIsWritableAndTracked(t *testing.T) {
	a := NewArenaAllocator()
	vs := AllocVertices(a, 4)
	require.Len(t, vs, 4)
	require.Equal(t, 4*vertexSize, a.Allocated())

	vs[0] = geopb.Vertex{X: 1, Y: 2, Z: 3, M: 4}
	vs[3] = geopb.Vertex{X: -1, Y: -2, Z: -3, M: -4}
	require.Equal(t, geopb.Vertex{X: 1, Y: 2, Z: 3, M: 4}, vs[0])
	require.Equal(t, geopb.Vertex{}, vs[1])
	require.Equal(t, geopb.Vertex{X: -1, Y: -2, Z: -3, M: -4}, vs[3])
}

func TestAllocExtentsFromArenaIsWritableAndTracked(t *testing.T) {
	a := NewArenaAllocator()
	es := AllocExtents(a, 2)
	require.Len(t, es, 2)
	require.Equal(t, 2*extentSize, a.Allocated())

	es[1] = geopb.Extent{Min: geopb.Vertex{X: -1, Y: -1}, Max: geopb.Vertex{X: 1, Y: 1}}
	require.Equal(t, geopb.Extent{}, es[0])
	require.Equal(t, 1.0, es[1].Max.X)
}

func TestNewWithAllocatorIsExposedViaAccessor(t *testing.T) {
	a := NewArenaAllocator()
	g := NewWithAllocator(Point, false, false, a)
	require.Same(t, a, g.Allocator())

	plain := New(Point, false, false)
	require.Nil(t, plain.Allocator())
}

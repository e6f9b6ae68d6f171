// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package wkb

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geopb"
	"github.com/stretchr/testify/require"
)

func TestReadRoundTripsThroughGeoWKB(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}})

	b, err := geo.WKB(line, binary.LittleEndian)
	require.NoError(t, err)

	got, err := Read(b)
	require.NoError(t, err)
	require.Equal(t, geo.LineString, got.GeomType())
	require.Equal(t, 3, got.VertexCount())
	x, y := got.VertexXY(1)
	require.Equal(t, 3.0, x)
	require.Equal(t, 4.0, y)
}

func TestReadPolygonWithHoleRoundTrips(t *testing.T) {
	poly := geo.New(geo.Polygon, false, false)
	shell := geo.New(geo.LineString, false, false)
	shell.SetVertexArray([]geopb.Vertex{{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0}, {X: 0, Y: 0}})
	hole := geo.New(geo.LineString, false, false)
	hole.SetVertexArray([]geopb.Vertex{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 1, Y: 1}})
	poly.AppendPart(shell)
	poly.AppendPart(hole)

	b, err := geo.WKB(poly, binary.BigEndian)
	require.NoError(t, err)

	got, err := Read(b)
	require.NoError(t, err)
	require.Equal(t, 2, got.PartCount())

	stats, err := ReadStats(b)
	require.NoError(t, err)
	require.Equal(t, 10, stats.VertexCount)
	require.Equal(t, 0.0, stats.Extent.Min.X)
	require.Equal(t, 4.0, stats.Extent.Max.X)
}

func TestReadZMFlagsRoundTrip(t *testing.T) {
	pt := geo.New(geo.Point, true, true)
	pt.SetVertexArray([]geopb.Vertex{{X: 1, Y: 2, Z: 3, M: 4}})
	b, err := geo.WKB(pt, binary.LittleEndian)
	require.NoError(t, err)

	got, err := Read(b)
	require.NoError(t, err)
	require.True(t, got.HasZ())
	require.True(t, got.HasM())
}

func TestReadOutOfBoundsError(t *testing.T) {
	_, err := Read([]byte{1, 1, 0, 0, 0})
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, OutOfBounds, perr.Kind)
}

func TestReadUnsupportedTypeError(t *testing.T) {
	buf := make([]byte, 5)
	buf[0] = 1
	binary.LittleEndian.PutUint32(buf[1:], 16) // TIN
	_, err := Read(buf)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, UnsupportedType, perr.Kind)
}

func TestReadRecursionLimitError(t *testing.T) {
	// A MULTIPOLYGON nested inside itself beyond MaxDepth levels: build
	// a GeometryCollection that recursively contains a GeometryCollection
	// with a count of 1, deep enough to blow the cap.
	var buf []byte
	const depth = MaxDepth + 2
	appendHeader := func(b []byte, typ uint32, count uint32) []byte {
		b = append(b, 1)
		hdr := make([]byte, 4)
		binary.LittleEndian.PutUint32(hdr, typ)
		b = append(b, hdr...)
		cnt := make([]byte, 4)
		binary.LittleEndian.PutUint32(cnt, count)
		return append(b, cnt...)
	}
	buf = appendHeader(buf, 7, 1) // outer GEOMETRYCOLLECTION
	for i := 0; i < depth; i++ {
		buf = appendHeader(buf, 7, 1)
	}
	// innermost member: an empty point to terminate legally if depth were fine.
	buf = append(buf, 1)
	tag := make([]byte, 4)
	binary.LittleEndian.PutUint32(tag, 1)
	buf = append(buf, tag...)
	buf = append(buf, make([]byte, 16)...)

	_, err := Read(buf)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, RecursionLimit, perr.Kind)
}

func TestReadMixedZMError(t *testing.T) {
	// A GEOMETRYCOLLECTION whose first child is plain 2D and whose second
	// child carries Z: byte-order + type tag (no flags) + count=2, then
	// a 2D POINT(0 0) and a Z POINT(0 0 0).
	var buf []byte
	buf = append(buf, 1)
	tag := make([]byte, 4)
	binary.LittleEndian.PutUint32(tag, 7)
	buf = append(buf, tag...)
	cnt := make([]byte, 4)
	binary.LittleEndian.PutUint32(cnt, 2)
	buf = append(buf, cnt...)

	buf = append(buf, 1)
	ptTag := make([]byte, 4)
	binary.LittleEndian.PutUint32(ptTag, 1)
	buf = append(buf, ptTag...)
	buf = append(buf, make([]byte, 16)...)

	buf = append(buf, 1)
	zTag := make([]byte, 4)
	binary.LittleEndian.PutUint32(zTag, 1|0x80000000)
	buf = append(buf, zTag...)
	buf = append(buf, make([]byte, 24)...)

	_, err := Read(buf)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, MixedZM, perr.Kind)

	got, err := Read(buf, WithAllowMixedZM(true))
	require.NoError(t, err)
	require.Equal(t, 2, got.PartCount())
}

func TestReadInvalidChildTypeError(t *testing.T) {
	// MULTIPOINT containing a LINESTRING child.
	var buf []byte
	buf = append(buf, 1)
	tag := make([]byte, 4)
	binary.LittleEndian.PutUint32(tag, 4) // MULTIPOINT
	buf = append(buf, tag...)
	cnt := make([]byte, 4)
	binary.LittleEndian.PutUint32(cnt, 1)
	buf = append(buf, cnt...)

	buf = append(buf, 1)
	lsTag := make([]byte, 4)
	binary.LittleEndian.PutUint32(lsTag, 2) // LINESTRING
	buf = append(buf, lsTag...)
	lsCnt := make([]byte, 4)
	binary.LittleEndian.PutUint32(lsCnt, 0)
	buf = append(buf, lsCnt...)

	_, err := Read(buf)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, InvalidChildType, perr.Kind)
}

func TestReadNaNAsEmptyOption(t *testing.T) {
	var buf []byte
	buf = append(buf, 1)
	tag := make([]byte, 4)
	binary.LittleEndian.PutUint32(tag, 1)
	buf = append(buf, tag...)
	nan := make([]byte, 8)
	binary.LittleEndian.PutUint64(nan, math.Float64bits(math.NaN()))
	buf = append(buf, nan...)
	buf = append(buf, nan...)

	got, err := Read(buf, WithNaNAsEmpty(true))
	require.NoError(t, err)
	require.True(t, got.IsEmpty())

	got2, err := Read(buf)
	require.NoError(t, err)
	require.False(t, got2.IsEmpty())
}

func TestReadAliasesXYZMLittleEndianVerticesByDefault(t *testing.T) {
	line := geo.New(geo.LineString, true, true)
	line.SetVertexArray([]geopb.Vertex{{X: 1, Y: 2, Z: 3, M: 4}, {X: 5, Y: 6, Z: 7, M: 8}})
	buf, err := geo.WKB(line, binary.LittleEndian)
	require.NoError(t, err)

	got, err := Read(buf)
	require.NoError(t, err)
	require.Equal(t, 2, got.VertexCount())

	// Mutate the first vertex's x ordinate directly in the input buffer.
	// On a little-endian host the default reader aliases the vertex
	// array straight out of buf, so the mutation is visible through
	// got; WithCopyVertices(true) (exercised below) severs that link.
	offset := len(buf) - 2*32
	binary.LittleEndian.PutUint64(buf[offset:], math.Float64bits(99))
	if nativeIsLittleEndian {
		require.Equal(t, 99.0, got.VertexXYZM(0).X)
	} else {
		require.Equal(t, 1.0, got.VertexXYZM(0).X)
	}
}

func TestReadWithCopyVerticesForcesIndependentCopy(t *testing.T) {
	line := geo.New(geo.LineString, true, true)
	line.SetVertexArray([]geopb.Vertex{{X: 1, Y: 2, Z: 3, M: 4}})
	buf, err := geo.WKB(line, binary.LittleEndian)
	require.NoError(t, err)

	got, err := Read(buf, WithCopyVertices(true))
	require.NoError(t, err)

	offset := len(buf) - 32
	binary.LittleEndian.PutUint64(buf[offset:], math.Float64bits(99))
	require.Equal(t, 1.0, got.VertexXYZM(0).X)
}

func TestReadXYNeverAliasesEvenLittleEndian(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 1, Y: 2}})
	buf, err := geo.WKB(line, binary.LittleEndian)
	require.NoError(t, err)

	got, err := Read(buf)
	require.NoError(t, err)

	offset := len(buf) - 16
	binary.LittleEndian.PutUint64(buf[offset:], math.Float64bits(99))
	require.Equal(t, 1.0, got.VertexXYZM(0).X)
}

func TestReadWithAllocatorSourcesCopiedVertexArrays(t *testing.T) {
	line := geo.New(geo.LineString, false, false)
	line.SetVertexArray([]geopb.Vertex{{X: 1, Y: 2}, {X: 3, Y: 4}})
	buf, err := geo.WKB(line, binary.BigEndian)
	require.NoError(t, err)

	a := geo.NewArenaAllocator()
	got, err := Read(buf, WithAllocator(a))
	require.NoError(t, err)
	require.Equal(t, 2, got.VertexCount())
	require.Equal(t, 3.0, got.VertexXYZM(1).X)
	require.Greater(t, a.Allocated(), 0)
}

func TestReadRegistersWithGeoParse(t *testing.T) {
	b := []byte{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 240, 63, 0, 0, 0, 0, 0, 0, 0, 64}
	g, _, err := geo.Parse(string(b))
	require.NoError(t, err)
	require.Equal(t, geo.Point, g.GeomType())
}

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
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// WKT renders g as OGC Simple Features well-known text. It is the write-side
// counterpart of geo/wkt's reader and exists so round-trip Testable
// Property 1 is checkable without a third-party encoder: this package
// parses and writes its own wire format rather than delegating either
// direction to an external library.
func WKT(g *Geometry) (string, error) {
	var b strings.Builder
	if err := writeWKT(&b, g); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeWKT(b *strings.Builder, g *Geometry) error {
	b.WriteString(g.typ.String())
	if g.hasZ || g.hasM {
		b.WriteByte(' ')
	}
	if g.hasZ {
		b.WriteByte('Z')
	}
	if g.hasM {
		b.WriteByte('M')
	}
	if g.IsEmpty() {
		b.WriteString(" EMPTY")
		return nil
	}
	b.WriteByte(' ')
	return writeWKTBody(b, g)
}

// writeWKTBody writes the parenthesized body of a non-empty geometry,
// without the leading type keyword (used at the top level and for polygon
// rings and MULTI_* members; GEOMETRYCOLLECTION children go through
// writeWKT, since they repeat their own type keyword).
func writeWKTBody(b *strings.Builder, g *Geometry) error {
	switch g.typ {
	case Point:
		b.WriteByte('(')
		writeWKTVertex(b, g, 0)
		b.WriteByte(')')
	case LineString:
		b.WriteByte('(')
		for i := 0; i < g.VertexCount(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			writeWKTVertex(b, g, i)
		}
		b.WriteByte(')')
	case Polygon:
		b.WriteByte('(')
		for i, ring := range g.children {
			if i > 0 {
				b.WriteString(", ")
			}
			if ring.typ != LineString {
				return errors.AssertionFailedf("polygon ring %d has type %s, want LINESTRING", i, ring.typ)
			}
			if err := writeWKTBody(b, ring); err != nil {
				return err
			}
		}
		b.WriteByte(')')
	case MultiPoint:
		b.WriteByte('(')
		for i, part := range g.children {
			if i > 0 {
				b.WriteString(", ")
			}
			if part.IsEmpty() {
				b.WriteString("EMPTY")
				continue
			}
			if err := writeWKTBody(b, part); err != nil {
				return err
			}
		}
		b.WriteByte(')')
	case MultiLineString, MultiPolygon:
		b.WriteByte('(')
		for i, part := range g.children {
			if i > 0 {
				b.WriteString(", ")
			}
			if part.IsEmpty() {
				b.WriteString("EMPTY")
				continue
			}
			if err := writeWKTBody(b, part); err != nil {
				return err
			}
		}
		b.WriteByte(')')
	case GeometryCollection:
		b.WriteByte('(')
		for i, part := range g.children {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := writeWKT(b, part); err != nil {
				return err
			}
		}
		b.WriteByte(')')
	default:
		return errors.AssertionFailedf("cannot render geometry of type %s to WKT", g.typ)
	}
	return nil
}

func writeWKTVertex(b *strings.Builder, g *Geometry, i int) {
	v := g.vertices[i]
	b.WriteString(strconv.FormatFloat(v.X, 'g', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(v.Y, 'g', -1, 64))
	if g.hasZ {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(v.Z, 'g', -1, 64))
	}
	if g.hasM {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(v.M, 'g', -1, 64))
	}
}

// WKB renders g as well-known binary using the given byte order, with
// EWKB-style high-bit Z/M flags (no SRID is ever emitted — the core has no
// SRID concept per the Non-goals around CRS/projection).
func WKB(g *Geometry, order binary.ByteOrder) ([]byte, error) {
	var b []byte
	var err error
	b, err = appendWKB(b, g, order)
	return b, err
}

func appendWKB(b []byte, g *Geometry, order binary.ByteOrder) ([]byte, error) {
	if order == binary.LittleEndian {
		b = append(b, 1)
	} else {
		b = append(b, 0)
	}

	typeID := uint32(g.typ)
	if g.hasZ {
		typeID |= 0x80000000
	}
	if g.hasM {
		typeID |= 0x40000000
	}
	b = appendU32(b, typeID, order)

	switch g.typ {
	case Point:
		if g.IsEmpty() {
			// There is no WKB representation of an empty point; PostGIS
			// emits an all-NaN coordinate tuple, which wkb_reader's
			// nan_as_empty option round-trips back to empty.
			for i := 0; i < g.VertexWidth(); i++ {
				b = appendF64(b, math.NaN(), order)
			}
			return b, nil
		}
		return appendWKBVertex(b, g, 0, order), nil
	case LineString:
		b = appendU32(b, uint32(g.VertexCount()), order)
		for i := 0; i < g.VertexCount(); i++ {
			b = appendWKBVertex(b, g, i, order)
		}
		return b, nil
	case Polygon:
		b = appendU32(b, uint32(len(g.children)), order)
		for _, ring := range g.children {
			if ring.typ != LineString {
				return nil, errors.AssertionFailedf("polygon ring has type %s, want LINESTRING", ring.typ)
			}
			b = appendU32(b, uint32(ring.VertexCount()), order)
			for i := 0; i < ring.VertexCount(); i++ {
				b = appendWKBVertex(b, ring, i, order)
			}
		}
		return b, nil
	case MultiPoint, MultiLineString, MultiPolygon, GeometryCollection:
		b = appendU32(b, uint32(len(g.children)), order)
		var err error
		for _, part := range g.children {
			b, err = appendWKB(b, part, order)
			if err != nil {
				return nil, err
			}
		}
		return b, nil
	default:
		return nil, errors.AssertionFailedf("cannot render geometry of type %s to WKB", g.typ)
	}
}

func appendWKBVertex(b []byte, g *Geometry, i int, order binary.ByteOrder) []byte {
	v := g.vertices[i]
	b = appendF64(b, v.X, order)
	b = appendF64(b, v.Y, order)
	if g.hasZ {
		b = appendF64(b, v.Z, order)
	}
	if g.hasM {
		b = appendF64(b, v.M, order)
	}
	return b
}

func appendU32(b []byte, v uint32, order binary.ByteOrder) []byte {
	var buf [4]byte
	order.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

func appendF64(b []byte, v float64, order binary.ByteOrder) []byte {
	var buf [8]byte
	order.PutUint64(buf[:], math.Float64bits(v))
	return append(b, buf[:]...)
}

// StringToByteOrder maps the conventional "ndr"/"xdr" WKB byte-order names
// (as used by PostGIS's ST_AsBinary) to the corresponding encoding/binary
// ByteOrder, grounded on the same naming the teacher's encode.go uses.
func StringToByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "ndr":
		return binary.LittleEndian, nil
	case "xdr":
		return binary.BigEndian, nil
	default:
		return nil, errors.Newf("geo: unknown byte order: %q", s)
	}
}

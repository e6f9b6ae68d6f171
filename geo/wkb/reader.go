// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package wkb implements a reader for OGC/ISO well-known binary,
// including its EWKB Z/M/SRID high-bit extension, materializing a
// *geo.Geometry directly. The source walks the buffer with an explicit
// stack of per-level child cursors so that a 32-level-deep input cannot
// blow a native call stack; this port uses an ordinary recursive
// descent bounded by the same depth cap, since Go's goroutine stack
// grows dynamically and 32 frames poses no risk — the cap exists here
// purely to preserve the RECURSION_LIMIT error behavior, not to protect
// the call stack.
package wkb

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geopb"
)

// nativeIsLittleEndian is computed once from the standard library's own
// native-order detection, rather than a build-tag-gated file, since
// encoding/binary already does the work of picking NativeEndian per
// target.
var nativeIsLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// MaxDepth is the maximum nesting depth a WKB payload may reach before
// the reader fails with RecursionLimit.
const MaxDepth = 32

// ErrorKind classifies a WKB parse failure.
type ErrorKind int

const (
	// OutOfBounds means the buffer ended before an expected field.
	OutOfBounds ErrorKind = iota
	// UnsupportedType means the type code names a geometry kind this
	// reader does not materialize (curve/surface types, TIN, etc.).
	UnsupportedType
	// RecursionLimit means nesting exceeded MaxDepth.
	RecursionLimit
	// MixedZM means a nested geometry's Z/M flags disagreed with an
	// earlier one and AllowMixedZM was not set.
	MixedZM
	// InvalidChildType means a MULTI_POINT/MULTI_LINESTRING/
	// MULTI_POLYGON child was not of the matching simple type.
	InvalidChildType
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfBounds:
		return "out of bounds"
	case UnsupportedType:
		return "unsupported type"
	case RecursionLimit:
		return "recursion limit exceeded"
	case MixedZM:
		return "mixed Z/M dimensionality"
	case InvalidChildType:
		return "invalid child type"
	default:
		return "unknown error"
	}
}

// ParseError reports a WKB parse failure at a byte offset.
type ParseError struct {
	Kind ErrorKind
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("wkb: %s at byte %d", e.Kind, e.Pos)
	}
	return fmt.Sprintf("wkb: %s at byte %d: %s", e.Kind, e.Pos, e.Msg)
}

// Options configures a Read call.
type Options struct {
	// CopyVertices forces vertex arrays to be decoded into freshly
	// allocated memory. When false (the default), a little-endian,
	// XYZM vertex array is instead aliased directly out of the input
	// buffer with no decode loop and no allocation, on a host that is
	// itself little-endian; every other case (big-endian input, or a
	// vertex type other than XYZM, for which geopb.Vertex's four-field
	// layout doesn't line up with the narrower on-disk stride) always
	// decodes into a fresh slice regardless of this flag. A caller
	// that sets this to false must keep the input buffer passed to
	// Read or ReadStats alive and unmodified for as long as the
	// resulting geometry is in use.
	CopyVertices bool
	// AllowMixedZM permits nested geometries with inconsistent Z/M
	// flags instead of failing with MixedZM.
	AllowMixedZM bool
	// NaNAsEmpty materializes an all-NaN POINT payload as an empty
	// point rather than a 1-vertex point of NaNs.
	NaNAsEmpty bool
	// Allocator, if set, sources every copied (non-aliased) vertex array
	// from this arena instead of the Go heap and is recorded on every
	// materialized node; the nodes themselves are allocated on the Go
	// heap. Aliased vertex arrays bypass it entirely, since there is
	// nothing to allocate: they point directly into the input buffer.
	Allocator geo.Allocator
}

// Option mutates an Options value.
type Option func(*Options)

// WithCopyVertices sets Options.CopyVertices.
func WithCopyVertices(v bool) Option { return func(o *Options) { o.CopyVertices = v } }

// WithAllocator sets Options.Allocator.
func WithAllocator(a geo.Allocator) Option { return func(o *Options) { o.Allocator = a } }

// WithAllowMixedZM sets Options.AllowMixedZM.
func WithAllowMixedZM(v bool) Option { return func(o *Options) { o.AllowMixedZM = v } }

// WithNaNAsEmpty sets Options.NaNAsEmpty.
func WithNaNAsEmpty(v bool) Option { return func(o *Options) { o.NaNAsEmpty = v } }

func init() {
	geo.RegisterWKBReader(func(b []byte) (*geo.Geometry, error) { return Read(b) })
}

// Read parses data as well-known binary and returns the resulting
// geometry tree.
func Read(data []byte, opts ...Option) (*geo.Geometry, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	r := &reader{buf: data, opts: o, zmSet: false}
	g, err := r.parseGeometry(0)
	if err != nil {
		return nil, err
	}
	if r.pos != len(r.buf) {
		return nil, &ParseError{Kind: OutOfBounds, Pos: r.pos, Msg: "trailing bytes after geometry"}
	}
	return g, nil
}

// Stats is the result of a stats-only parse: the accumulated 2D extent
// and total vertex count, computed without materializing a tree.
type Stats struct {
	Extent      geopb.Extent
	VertexCount int
}

// ReadStats walks data the same way Read does but without building a
// tree, to support predicate pushdown (e.g. "does this blob's extent
// intersect the query window" without paying for allocation).
func ReadStats(data []byte, opts ...Option) (Stats, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	r := &reader{buf: data, opts: o}
	stats := Stats{Extent: geopb.Smallest()}
	if err := r.statGeometry(0, &stats); err != nil {
		return Stats{}, err
	}
	if r.pos != len(r.buf) {
		return Stats{}, &ParseError{Kind: OutOfBounds, Pos: r.pos, Msg: "trailing bytes after geometry"}
	}
	return stats, nil
}

type reader struct {
	buf   []byte
	pos   int
	opts  Options
	zmSet bool
	zmZ   bool
	zmM   bool

	parsedAnyZ      bool
	parsedAnyM      bool
	parsedMixedZM   bool
}

func (r *reader) errorf(kind ErrorKind, format string, args ...interface{}) error {
	return &ParseError{Kind: kind, Pos: r.pos, Msg: fmt.Sprintf(format, args...)}
}

func (r *reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return &ParseError{Kind: OutOfBounds, Pos: r.pos, Msg: fmt.Sprintf("need %d more bytes, have %d", n, len(r.buf)-r.pos)}
	}
	return nil
}

func (r *reader) readByteOrder() (binary.ByteOrder, error) {
	if err := r.need(1); err != nil {
		return nil, err
	}
	b := r.buf[r.pos]
	r.pos++
	if b == 1 {
		return binary.LittleEndian, nil
	}
	return binary.BigEndian, nil
}

func (r *reader) readU32(order binary.ByteOrder) (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := order.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) readF64(order binary.ByteOrder) (float64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	bits := order.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// typeHeader is the decoded form of a WKB type tag: the base geometry
// kind plus its dimensionality and whether an SRID follows.
type typeHeader struct {
	baseType int
	hasZ     bool
	hasM     bool
	hasSRID  bool
}

const (
	flagZ    = 0x80000000
	flagM    = 0x40000000
	flagSRID = 0x20000000
)

func decodeTypeTag(tag uint32) typeHeader {
	hasZFlag := tag&flagZ != 0
	hasMFlag := tag&flagM != 0
	hasSRID := tag&flagSRID != 0
	base := int(tag &^ (flagZ | flagM | flagSRID))
	dimPrefix := base / 1000
	baseType := base % 1000
	return typeHeader{
		baseType: baseType,
		hasZ:     hasZFlag || dimPrefix == 1 || dimPrefix == 3,
		hasM:     hasMFlag || dimPrefix == 2 || dimPrefix == 3,
		hasSRID:  hasSRID,
	}
}

func baseTypeToGeomType(baseType int) (geo.Type, bool) {
	switch baseType {
	case 1:
		return geo.Point, true
	case 2:
		return geo.LineString, true
	case 3:
		return geo.Polygon, true
	case 4:
		return geo.MultiPoint, true
	case 5:
		return geo.MultiLineString, true
	case 6:
		return geo.MultiPolygon, true
	case 7:
		return geo.GeometryCollection, true
	default:
		return geo.Invalid, false
	}
}

// guessTypeName maps a raw WKB base type code to the human-readable
// name UNSUPPORTED_TYPE messages report, covering the OGC/ISO SQL/MM
// extended types this reader does not materialize.
func guessTypeName(baseType int) string {
	switch baseType {
	case 0:
		return "GEOMETRY"
	case 1:
		return "POINT"
	case 2:
		return "LINESTRING"
	case 3:
		return "POLYGON"
	case 4:
		return "MULTIPOINT"
	case 5:
		return "MULTILINESTRING"
	case 6:
		return "MULTIPOLYGON"
	case 7:
		return "GEOMETRYCOLLECTION"
	case 8:
		return "CIRCULARSTRING"
	case 9:
		return "COMPOUNDCURVE"
	case 10:
		return "CURVEPOLYGON"
	case 11:
		return "MULTICURVE"
	case 12:
		return "MULTISURFACE"
	case 13:
		return "CURVE"
	case 14:
		return "SURFACE"
	case 15:
		return "POLYHEDRALSURFACE"
	case 16:
		return "TIN"
	case 17:
		return "TRIANGLE"
	case 100:
		return "CIRCLE"
	case 101:
		return "GEODESICSTRING"
	case 102:
		return "AFFINEPLACEMENT"
	default:
		return "UNKNOWN"
	}
}

// canAliasVertices reports whether the reader may hand back a vertex
// slice that shares memory with the input buffer instead of decoding
// into a fresh one: the wire order must match the host's native order
// (so a raw float64 load sees the same bits ReadF64 would produce), the
// caller must not have forced CopyVertices, and the vertex must carry
// all four ordinates, since geopb.Vertex's X, Y, Z, M fields only line
// up byte-for-byte with the wire format when none of them are omitted.
func (r *reader) canAliasVertices(order binary.ByteOrder, hasZ, hasM bool) bool {
	return !r.opts.CopyVertices && hasZ && hasM && order == binary.LittleEndian && nativeIsLittleEndian
}

// aliasVertices reinterprets count XYZM vertices directly out of the
// reader's buffer at the current position with no copy, advancing pos
// past them. Callers must check r.need(count*32) first.
func (r *reader) aliasVertices(count uint32) []geopb.Vertex {
	size := int(count) * 32
	b := r.buf[r.pos : r.pos+size : r.pos+size]
	r.pos += size
	return unsafe.Slice((*geopb.Vertex)(unsafe.Pointer(&b[0])), count)
}

func (r *reader) checkZM(hasZ, hasM bool) error {
	if !r.zmSet {
		r.zmSet = true
		r.zmZ, r.zmM = hasZ, hasM
	} else if hasZ != r.zmZ || hasM != r.zmM {
		r.parsedMixedZM = true
		if !r.opts.AllowMixedZM {
			return r.errorf(MixedZM, "got Z=%v M=%v, expected Z=%v M=%v", hasZ, hasM, r.zmZ, r.zmM)
		}
	}
	r.parsedAnyZ = r.parsedAnyZ || hasZ
	r.parsedAnyM = r.parsedAnyM || hasM
	return nil
}

func (r *reader) parseGeometry(depth int) (*geo.Geometry, error) {
	if depth > MaxDepth {
		return nil, r.errorf(RecursionLimit, "exceeded max nesting depth %d", MaxDepth)
	}
	order, err := r.readByteOrder()
	if err != nil {
		return nil, err
	}
	tag, err := r.readU32(order)
	if err != nil {
		return nil, err
	}
	hdr := decodeTypeTag(tag)
	var srid uint32
	if hdr.hasSRID {
		srid, err = r.readU32(order)
		if err != nil {
			return nil, err
		}
	}
	typ, ok := baseTypeToGeomType(hdr.baseType)
	if !ok {
		return nil, r.errorf(UnsupportedType, "guessed type %s (code %d, srid %d)", guessTypeName(hdr.baseType), hdr.baseType, srid)
	}
	if err := r.checkZM(hdr.hasZ, hdr.hasM); err != nil {
		return nil, err
	}

	g := geo.NewWithAllocator(typ, hdr.hasZ, hdr.hasM, r.opts.Allocator)
	switch typ {
	case geo.Point:
		vertices, err := r.readPointVertexArray(order, hdr.hasZ, hdr.hasM)
		if err != nil {
			return nil, err
		}
		if vertices != nil {
			g.SetVertexArray(vertices)
		}
	case geo.LineString:
		vertices, err := r.readVertexArray(order, hdr.hasZ, hdr.hasM)
		if err != nil {
			return nil, err
		}
		g.SetVertexArray(vertices)
	case geo.Polygon:
		count, err := r.readU32(order)
		if err != nil {
			return nil, err
		}
		for i := uint32(0); i < count; i++ {
			vertices, err := r.readVertexArray(order, hdr.hasZ, hdr.hasM)
			if err != nil {
				return nil, err
			}
			ring := geo.NewWithAllocator(geo.LineString, hdr.hasZ, hdr.hasM, r.opts.Allocator)
			ring.SetVertexArray(vertices)
			g.AppendPart(ring)
		}
	case geo.MultiPoint, geo.MultiLineString, geo.MultiPolygon:
		count, err := r.readU32(order)
		if err != nil {
			return nil, err
		}
		want, _ := multiChildType(typ)
		for i := uint32(0); i < count; i++ {
			child, err := r.parseGeometry(depth + 1)
			if err != nil {
				return nil, err
			}
			if child.GeomType() != want {
				return nil, r.errorf(InvalidChildType, "%s child %d has type %s, want %s", typ, i, child.GeomType(), want)
			}
			g.AppendPart(child)
		}
	case geo.GeometryCollection:
		count, err := r.readU32(order)
		if err != nil {
			return nil, err
		}
		for i := uint32(0); i < count; i++ {
			child, err := r.parseGeometry(depth + 1)
			if err != nil {
				return nil, err
			}
			g.AppendPart(child)
		}
	}
	return g, nil
}

func multiChildType(multi geo.Type) (geo.Type, bool) {
	switch multi {
	case geo.MultiPoint:
		return geo.Point, true
	case geo.MultiLineString:
		return geo.LineString, true
	case geo.MultiPolygon:
		return geo.Polygon, true
	default:
		return geo.Invalid, false
	}
}

// readPointVertex decodes a single vertex's ordinates, using the alias
// path when eligible (still subject to the NaNAsEmpty check below, which
// only inspects the already-decoded values rather than re-reading them).
func (r *reader) readPointVertex(order binary.ByteOrder, hasZ, hasM bool) (v geopb.Vertex, empty bool, err error) {
	if r.canAliasVertices(order, hasZ, hasM) {
		if err := r.need(32); err != nil {
			return geopb.Vertex{}, false, err
		}
		v = r.aliasVertices(1)[0]
	} else {
		x, err := r.readF64(order)
		if err != nil {
			return geopb.Vertex{}, false, err
		}
		y, err := r.readF64(order)
		if err != nil {
			return geopb.Vertex{}, false, err
		}
		v.X, v.Y = x, y
		if hasZ {
			if v.Z, err = r.readF64(order); err != nil {
				return geopb.Vertex{}, false, err
			}
		}
		if hasM {
			if v.M, err = r.readF64(order); err != nil {
				return geopb.Vertex{}, false, err
			}
		}
	}
	if r.opts.NaNAsEmpty && math.IsNaN(v.X) && math.IsNaN(v.Y) &&
		(!hasZ || math.IsNaN(v.Z)) && (!hasM || math.IsNaN(v.M)) {
		return v, true, nil
	}
	return v, false, nil
}

// readPointVertexArray decodes a POINT payload as a 0-or-1-length
// vertex slice, 0 when NaNAsEmpty collapses an all-NaN payload to
// empty. When the alias conditions hold, the returned 1-length slice
// shares memory with the input buffer instead of being freshly
// allocated, the same way readVertexArray's bulk path does.
func (r *reader) readPointVertexArray(order binary.ByteOrder, hasZ, hasM bool) ([]geopb.Vertex, error) {
	if r.canAliasVertices(order, hasZ, hasM) {
		if err := r.need(32); err != nil {
			return nil, err
		}
		vs := r.aliasVertices(1)
		v := vs[0]
		if r.opts.NaNAsEmpty && math.IsNaN(v.X) && math.IsNaN(v.Y) && math.IsNaN(v.Z) && math.IsNaN(v.M) {
			return nil, nil
		}
		return vs, nil
	}
	v, empty, err := r.readPointVertex(order, hasZ, hasM)
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}
	vertices := geo.AllocVertices(r.opts.Allocator, 1)
	vertices[0] = v
	return vertices, nil
}

// readVertexArray decodes a LineString's (or a Polygon ring's) vertex
// array. When the alias conditions hold, the whole array is reinterpreted
// directly out of the input buffer with a single bounds check and no
// per-vertex decode loop or allocation; otherwise each vertex is decoded
// individually into a freshly allocated slice.
func (r *reader) readVertexArray(order binary.ByteOrder, hasZ, hasM bool) ([]geopb.Vertex, error) {
	count, err := r.readU32(order)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	if r.canAliasVertices(order, hasZ, hasM) {
		if err := r.need(int(count) * 32); err != nil {
			return nil, err
		}
		return r.aliasVertices(count), nil
	}
	vertices := geo.AllocVertices(r.opts.Allocator, int(count))
	for i := uint32(0); i < count; i++ {
		v, _, err := r.readPointVertex(order, hasZ, hasM)
		if err != nil {
			return nil, err
		}
		vertices[i] = v
	}
	return vertices, nil
}

func (r *reader) statGeometry(depth int, stats *Stats) error {
	if depth > MaxDepth {
		return r.errorf(RecursionLimit, "exceeded max nesting depth %d", MaxDepth)
	}
	order, err := r.readByteOrder()
	if err != nil {
		return err
	}
	tag, err := r.readU32(order)
	if err != nil {
		return err
	}
	hdr := decodeTypeTag(tag)
	var srid uint32
	if hdr.hasSRID {
		srid, err = r.readU32(order)
		if err != nil {
			return err
		}
	}
	typ, ok := baseTypeToGeomType(hdr.baseType)
	if !ok {
		return r.errorf(UnsupportedType, "guessed type %s (code %d, srid %d)", guessTypeName(hdr.baseType), hdr.baseType, srid)
	}
	if err := r.checkZM(hdr.hasZ, hdr.hasM); err != nil {
		return err
	}

	switch typ {
	case geo.Point:
		v, empty, err := r.readPointVertex(order, hdr.hasZ, hdr.hasM)
		if err != nil {
			return err
		}
		if !empty {
			stats.Extent.Update(v.X, v.Y)
			stats.VertexCount++
		}
	case geo.LineString:
		n, err := r.statVertexArray(order, hdr.hasZ, hdr.hasM, stats)
		if err != nil {
			return err
		}
		stats.VertexCount += n
	case geo.Polygon:
		count, err := r.readU32(order)
		if err != nil {
			return err
		}
		for i := uint32(0); i < count; i++ {
			n, err := r.statVertexArray(order, hdr.hasZ, hdr.hasM, stats)
			if err != nil {
				return err
			}
			stats.VertexCount += n
		}
	case geo.MultiPoint, geo.MultiLineString, geo.MultiPolygon, geo.GeometryCollection:
		count, err := r.readU32(order)
		if err != nil {
			return err
		}
		for i := uint32(0); i < count; i++ {
			if err := r.statGeometry(depth+1, stats); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *reader) statVertexArray(order binary.ByteOrder, hasZ, hasM bool, stats *Stats) (int, error) {
	count, err := r.readU32(order)
	if err != nil {
		return 0, err
	}
	for i := uint32(0); i < count; i++ {
		v, _, err := r.readPointVertex(order, hasZ, hasM)
		if err != nil {
			return 0, err
		}
		stats.Extent.Update(v.X, v.Y)
	}
	return int(count), nil
}

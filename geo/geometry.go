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
	"github.com/ngochoawindy/sgl/geo/geopb"
)

// Type is the tag of a Geometry node.
type Type uint8

const (
	// Invalid is the sentinel tag for a not-yet-typed node; it is the zero
	// value of Type.
	Invalid Type = iota
	// Point is a leaf with a vertex array of size 0 or 1.
	Point
	// LineString is a leaf with a vertex array of size >= 0.
	LineString
	// Polygon is a multi-part node whose children are LineString rings; the
	// first child is the shell, the rest are holes.
	Polygon
	// MultiPoint is a multi-part node whose children are all Point.
	MultiPoint
	// MultiLineString is a multi-part node whose children are all
	// LineString.
	MultiLineString
	// MultiPolygon is a multi-part node whose children are all Polygon.
	MultiPolygon
	// GeometryCollection is a multi-part node with heterogeneous children.
	GeometryCollection
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case Point:
		return "POINT"
	case LineString:
		return "LINESTRING"
	case Polygon:
		return "POLYGON"
	case MultiPoint:
		return "MULTIPOINT"
	case MultiLineString:
		return "MULTILINESTRING"
	case MultiPolygon:
		return "MULTIPOLYGON"
	case GeometryCollection:
		return "GEOMETRYCOLLECTION"
	default:
		return "INVALID"
	}
}

// Geometry is a node in the recursive tagged geometry tree. Leaves (Point,
// LineString) carry a vertex array; multi-part nodes (Polygon, MultiPoint,
// MultiLineString, MultiPolygon, GeometryCollection) carry a list of child
// Geometry nodes.
//
// The source represents a node's children as a circular singly-linked list
// so that append is O(1) without a growable backing array. Go has no
// pointer-cycle ownership problem to avoid (the garbage collector handles
// it), so this port uses a plain slice of owning children plus a parent
// pointer and sibling index; append is still amortized O(1) and traversal
// still terminates on nil rather than on "tail.next == head". Both
// representations satisfy the same contract.
type Geometry struct {
	typ      Type
	hasZ     bool
	hasM     bool
	prepared bool

	parent  *Geometry
	sibling int // this node's index within parent.children; meaningless if parent == nil

	children  []*Geometry    // multi-part nodes only
	vertices  []geopb.Vertex // leaf nodes only
	allocator Allocator      // optional; see NewWithAllocator
}

// New constructs a Geometry of the given type and dimensionality. The
// zero value (New(Invalid, false, false)) is the INVALID sentinel used
// during parsing. Vertex storage built for this node via AllocVertices
// comes from the Go heap; use NewWithAllocator to source it from an
// arena instead.
func New(typ Type, hasZ, hasM bool) *Geometry {
	return NewWithAllocator(typ, hasZ, hasM, nil)
}

// NewWithAllocator is New, but every vertex array this node (or a reader
// building it) allocates via AllocVertices is carved out of alloc instead
// of the Go heap. A nil alloc behaves exactly like New.
func NewWithAllocator(typ Type, hasZ, hasM bool, alloc Allocator) *Geometry {
	return &Geometry{typ: typ, hasZ: hasZ, hasM: hasM, allocator: alloc}
}

// Allocator returns the Allocator this node was constructed with, or nil.
func (g *Geometry) Allocator() Allocator { return g.allocator }

// Reset returns g to its default, empty state, preserving its type and
// dimensionality.
func (g *Geometry) Reset() {
	g.prepared = false
	g.parent = nil
	g.sibling = 0
	g.children = nil
	g.vertices = nil
}

// GeomType returns the node's tag.
func (g *Geometry) GeomType() Type { return g.typ }

// SetType overwrites the node's tag, e.g. to give an INVALID node its
// concrete type.
func (g *Geometry) SetType(t Type) { g.typ = t }

// HasZ reports whether this node's vertices (if a leaf) or this node's
// children (if multi-part) carry a z ordinate.
func (g *Geometry) HasZ() bool { return g.hasZ }

// HasM reports whether this node's vertices (if a leaf) or this node's
// children (if multi-part) carry an m ordinate.
func (g *Geometry) HasM() bool { return g.hasM }

// SetZ sets the has-z flag.
func (g *Geometry) SetZ(v bool) { g.hasZ = v }

// SetM sets the has-m flag.
func (g *Geometry) SetM(v bool) { g.hasM = v }

// IsPrepared reports whether a prepared index has been built over g (only
// meaningful for LineString; see geo/geoindex).
func (g *Geometry) IsPrepared() bool { return g.prepared }

// SetPrepared is used by geo/geoindex once it has built an index for g.
func (g *Geometry) SetPrepared(v bool) { g.prepared = v }

// IsMultiPart reports whether g's children are a list of Geometry rather
// than a vertex array, i.e. whether g is a Polygon, a MULTI_* node, or a
// GEOMETRYCOLLECTION.
func (g *Geometry) IsMultiPart() bool {
	switch g.typ {
	case Polygon, MultiPoint, MultiLineString, MultiPolygon, GeometryCollection:
		return true
	default:
		return false
	}
}

// IsMultiGeom reports whether g aggregates independent sibling geometries
// (MULTI_* or GEOMETRYCOLLECTION), as opposed to a Polygon whose children
// are interpreted as rings of the same shape.
func (g *Geometry) IsMultiGeom() bool {
	switch g.typ {
	case MultiPoint, MultiLineString, MultiPolygon, GeometryCollection:
		return true
	default:
		return false
	}
}

// IsEmpty reports whether g has no vertices (leaf) or no parts (multi-part).
func (g *Geometry) IsEmpty() bool {
	if g.IsMultiPart() {
		return len(g.children) == 0
	}
	return len(g.vertices) == 0
}

// PartCount returns the number of child parts of a multi-part node, or 0
// for a leaf.
func (g *Geometry) PartCount() int {
	return len(g.children)
}

// VertexCount returns the number of vertices in a leaf's vertex array, or 0
// for a multi-part node.
func (g *Geometry) VertexCount() int {
	return len(g.vertices)
}

// VertexTypeOf returns the VertexType implied by g's has-z/has-m flags.
func (g *Geometry) VertexTypeOf() geopb.VertexType {
	return geopb.VertexTypeFor(g.hasZ, g.hasM)
}

// VertexWidth returns the number of ordinates (not bytes) per vertex —
// 2 + hasZ + hasM.
func (g *Geometry) VertexWidth() int {
	return g.VertexTypeOf().Stride()
}

// VertexArray returns a leaf's vertices. The returned slice aliases g's
// backing storage; callers must not retain it across a SetVertexArray call.
func (g *Geometry) VertexArray() []geopb.Vertex {
	mustLeaf(g)
	return g.vertices
}

// SetVertexArray replaces a leaf's vertex array wholesale.
func (g *Geometry) SetVertexArray(vertices []geopb.Vertex) {
	mustLeaf(g)
	g.vertices = vertices
}

// VertexXY returns the i-th vertex's x, y.
func (g *Geometry) VertexXY(i int) (float64, float64) {
	v := g.vertices[i]
	return v.X, v.Y
}

// VertexXYZM returns the i-th vertex in its fully expanded form.
func (g *Geometry) VertexXYZM(i int) geopb.Vertex {
	return g.vertices[i]
}

// Parent returns g's parent, or nil at the root.
func (g *Geometry) Parent() *Geometry { return g.parent }

// FirstPart returns the first child of a multi-part node, or nil if empty.
func (g *Geometry) FirstPart() *Geometry {
	if len(g.children) == 0 {
		return nil
	}
	return g.children[0]
}

// LastPart returns the last child of a multi-part node, or nil if empty.
func (g *Geometry) LastPart() *Geometry {
	if len(g.children) == 0 {
		return nil
	}
	return g.children[len(g.children)-1]
}

// Next returns g's next sibling within its parent's child list, or nil if
// g is the last child (or has no parent). This is the traversal primitive
// component D relies on in place of the source's "tail.next == head"
// sentinel check.
func (g *Geometry) Next() *Geometry {
	if g.parent == nil {
		return nil
	}
	if g.sibling+1 >= len(g.parent.children) {
		return nil
	}
	return g.parent.children[g.sibling+1]
}

// AppendPart appends child to g's child list. g must be a multi-part node.
// Amortized O(1), matching the source's tail-pointer append.
func (g *Geometry) AppendPart(child *Geometry) {
	child.parent = g
	child.sibling = len(g.children)
	g.children = append(g.children, child)
}

// InitFromBBox builds a five-vertex closed clockwise ring —
// (min,min) -> (min,max) -> (max,max) -> (max,min) -> (min,min) — as a new
// LineString, suitable for use as a Polygon shell.
func InitFromBBox(xmin, ymin, xmax, ymax float64) *Geometry {
	ring := New(LineString, false, false)
	ring.SetVertexArray([]geopb.Vertex{
		{X: xmin, Y: ymin},
		{X: xmin, Y: ymax},
		{X: xmax, Y: ymax},
		{X: xmax, Y: ymin},
		{X: xmin, Y: ymin},
	})
	return ring
}

// FilterParts walks g's direct children, unlinking every child for which
// selectFn returns true and invoking handleFn on each unlinked child (with
// its parent/sibling links already cleared). Children for which selectFn
// returns false are left untouched, retaining their original relative
// order. g must be a multi-part node.
//
// This mirrors the source's single-pass unlink-and-forward sweep used by
// extract_points/extract_linestrings/extract_polygons: children are spliced
// out of one tree and handed to a callback that typically reparents them
// into a different collector node.
func FilterParts[S any](g *Geometry, state S, selectFn func(S, *Geometry) bool, handleFn func(S, *Geometry)) {
	kept := g.children[:0]
	for _, child := range g.children {
		if selectFn(state, child) {
			child.parent = nil
			child.sibling = 0
			handleFn(state, child)
			continue
		}
		child.sibling = len(kept)
		kept = append(kept, child)
	}
	g.children = kept
}

// mustLeaf panics (via an assertion failure) if g is not a leaf. Internal
// helper used by algorithms that should never be called on a multi-part
// node; a conforming caller never trips it.
func mustLeaf(g *Geometry) {
	assertf(!g.IsMultiPart(), "expected leaf geometry, got %s", g.typ)
}

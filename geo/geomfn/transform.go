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
	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geopb"
)

// VisitVerticesXY invokes cb with every leaf vertex's x, y reachable
// from g, read-only.
func VisitVerticesXY(g *geo.Geometry, cb func(x, y float64)) {
	geo.VisitVertexArrays(g, func(leaf *geo.Geometry) {
		for i := 0; i < leaf.VertexCount(); i++ {
			x, y := leaf.VertexXY(i)
			cb(x, y)
		}
	})
}

// VisitVerticesXYZM invokes cb with every leaf vertex's full ordinates
// reachable from g, read-only.
func VisitVerticesXYZM(g *geo.Geometry, cb func(v geopb.Vertex)) {
	geo.VisitVertexArrays(g, func(leaf *geo.Geometry) {
		for i := 0; i < leaf.VertexCount(); i++ {
			cb(leaf.VertexXYZM(i))
		}
	})
}

// TransformVertices returns a copy of g with cb applied to every leaf
// vertex. cb receives the vertex fully expanded to xyzm and returns the
// replacement; the replacement is truncated back to the leaf's own
// width when written into the new vertex array.
func TransformVertices(g *geo.Geometry, cb func(geopb.Vertex) geopb.Vertex) *geo.Geometry {
	return mapLeaves(g, func(leaf *geo.Geometry) *geo.Geometry {
		out := geo.New(leaf.GeomType(), leaf.HasZ(), leaf.HasM())
		n := leaf.VertexCount()
		vertices := make([]geopb.Vertex, n)
		for i := 0; i < n; i++ {
			v := cb(leaf.VertexXYZM(i))
			if !leaf.HasZ() {
				v.Z = 0
			}
			if !leaf.HasM() {
				v.M = 0
			}
			vertices[i] = v
		}
		out.SetVertexArray(vertices)
		return out
	})
}

// mapLeaves rebuilds g, replacing every leaf (Point, LineString, and
// polygon rings) with the result of leafFn while preserving the tree's
// multi-part structure.
func mapLeaves(g *geo.Geometry, leafFn func(*geo.Geometry) *geo.Geometry) *geo.Geometry {
	switch g.GeomType() {
	case geo.Point, geo.LineString:
		return leafFn(g)
	default:
		out := geo.New(g.GeomType(), g.HasZ(), g.HasM())
		for child := g.FirstPart(); child != nil; child = child.Next() {
			out.AppendPart(mapLeaves(child, leafFn))
		}
		return out
	}
}

// FlipVertices returns a copy of g with x and y swapped in every vertex.
func FlipVertices(g *geo.Geometry) *geo.Geometry {
	return TransformVertices(g, func(v geopb.Vertex) geopb.Vertex {
		v.X, v.Y = v.Y, v.X
		return v
	})
}

// AffineTransform returns a copy of g with m applied to every vertex's
// x, y, z, leaving m itself untouched.
func AffineTransform(g *geo.Geometry, m geopb.Affine) *geo.Geometry {
	return TransformVertices(g, func(v geopb.Vertex) geopb.Vertex {
		v.X, v.Y, v.Z = m.ApplyXYZ(v.X, v.Y, v.Z)
		return v
	})
}

// CollectVertices returns a MultiPoint containing every leaf vertex
// reachable from g as an independent Point.
func CollectVertices(g *geo.Geometry) *geo.Geometry {
	out := geo.New(geo.MultiPoint, g.HasZ(), g.HasM())
	geo.VisitVertexArrays(g, func(leaf *geo.Geometry) {
		for i := 0; i < leaf.VertexCount(); i++ {
			pt := geo.New(geo.Point, g.HasZ(), g.HasM())
			pt.SetVertexArray([]geopb.Vertex{leaf.VertexXYZM(i)})
			out.AppendPart(pt)
		}
	})
	return out
}

// ForceZM returns a copy of g with every leaf's vertex array widened or
// narrowed to carry z and/or m according to setZ/setM, filling newly
// added ordinates with defaultZ/defaultM and dropping ordinates that
// are no longer carried. Every multi-part node's own has_z/has_m flags
// are updated to match. Applying ForceZM twice with the same parameters
// is equivalent to applying it once.
func ForceZM(g *geo.Geometry, setZ, setM bool, defaultZ, defaultM float64) *geo.Geometry {
	switch g.GeomType() {
	case geo.Point, geo.LineString:
		out := geo.New(g.GeomType(), setZ, setM)
		n := g.VertexCount()
		vertices := make([]geopb.Vertex, n)
		for i := 0; i < n; i++ {
			v := g.VertexXYZM(i)
			nv := geopb.Vertex{X: v.X, Y: v.Y}
			if setZ {
				if g.HasZ() {
					nv.Z = v.Z
				} else {
					nv.Z = defaultZ
				}
			}
			if setM {
				if g.HasM() {
					nv.M = v.M
				} else {
					nv.M = defaultM
				}
			}
			vertices[i] = nv
		}
		out.SetVertexArray(vertices)
		return out
	default:
		out := geo.New(g.GeomType(), setZ, setM)
		for child := g.FirstPart(); child != nil; child = child.Next() {
			out.AppendPart(ForceZM(child, setZ, setM, defaultZ, defaultM))
		}
		return out
	}
}

// ExtractPoints unlinks every Point reachable from g through nested
// MultiPoints and GeometryCollections and reparents it into the
// returned MultiPoint, leaving g (and any intermediate collection)
// with those parts removed. A Point passed directly as g, rather than
// held inside some collection, has no parent to splice from and so is
// not extracted; the returned MultiPoint is empty in that case.
func ExtractPoints(g *geo.Geometry) *geo.Geometry {
	out := geo.New(geo.MultiPoint, g.HasZ(), g.HasM())
	extractPoints(g, out)
	return out
}

func extractPoints(g, out *geo.Geometry) {
	geo.FilterParts(g, out, selectPointsPart, handlePointsPart)
}

func selectPointsPart(_ *geo.Geometry, part *geo.Geometry) bool {
	switch part.GeomType() {
	case geo.Point, geo.MultiPoint, geo.GeometryCollection:
		return true
	default:
		return false
	}
}

func handlePointsPart(out, part *geo.Geometry) {
	switch part.GeomType() {
	case geo.Point:
		out.AppendPart(part)
	case geo.MultiPoint, geo.GeometryCollection:
		extractPoints(part, out)
	}
}

// ExtractLineStrings unlinks every LineString reachable from g through
// nested MultiLineStrings and GeometryCollections and reparents it
// into the returned MultiLineString. Polygon rings are never visited:
// a Polygon or MultiPolygon child is not one of the types this walk
// descends into.
func ExtractLineStrings(g *geo.Geometry) *geo.Geometry {
	out := geo.New(geo.MultiLineString, g.HasZ(), g.HasM())
	extractLineStrings(g, out)
	return out
}

func extractLineStrings(g, out *geo.Geometry) {
	geo.FilterParts(g, out, selectLinesPart, handleLinesPart)
}

func selectLinesPart(_ *geo.Geometry, part *geo.Geometry) bool {
	switch part.GeomType() {
	case geo.LineString, geo.MultiLineString, geo.GeometryCollection:
		return true
	default:
		return false
	}
}

func handleLinesPart(out, part *geo.Geometry) {
	switch part.GeomType() {
	case geo.LineString:
		out.AppendPart(part)
	case geo.MultiLineString, geo.GeometryCollection:
		extractLineStrings(part, out)
	}
}

// ExtractPolygons unlinks every Polygon reachable from g through
// nested MultiPolygons and GeometryCollections and reparents it,
// rings intact, into the returned MultiPolygon.
func ExtractPolygons(g *geo.Geometry) *geo.Geometry {
	out := geo.New(geo.MultiPolygon, g.HasZ(), g.HasM())
	extractPolygons(g, out)
	return out
}

func extractPolygons(g, out *geo.Geometry) {
	geo.FilterParts(g, out, selectPolygonsPart, handlePolygonsPart)
}

func selectPolygonsPart(_ *geo.Geometry, part *geo.Geometry) bool {
	switch part.GeomType() {
	case geo.Polygon, geo.MultiPolygon, geo.GeometryCollection:
		return true
	default:
		return false
	}
}

func handlePolygonsPart(out, part *geo.Geometry) {
	switch part.GeomType() {
	case geo.Polygon:
		out.AppendPart(part)
	case geo.MultiPolygon, geo.GeometryCollection:
		extractPolygons(part, out)
	}
}

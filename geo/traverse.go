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

// The visitors below are all iterative: they never recurse and never
// allocate. Each walks down to the first part of a multi-part node, invokes
// the callback at leaves of the requested kind, then climbs back up via
// Next()/Parent() until it finds a non-last sibling or reaches the
// geometry that was passed in (the traversal's root, which plays the role
// of the source's "sentinel parent").

// VisitLeafGeometries invokes cb on every non-multi leaf (Point, LineString,
// Polygon) reachable from root, including root itself if it is a leaf.
// Polygon counts as a leaf here even though it carries ring children: the
// walk never descends into a Polygon's rings, only into true collections
// (MULTI_* and GEOMETRYCOLLECTION).
func VisitLeafGeometries(root *Geometry, cb func(*Geometry)) {
	visitAllParts(root, func(g *Geometry) bool {
		if !g.IsMultiGeom() {
			cb(g)
			return false
		}
		return true
	}, nil)
}

// VisitPoints invokes cb on every Point leaf reachable from root, descending
// through MultiPoint and GeometryCollection.
func VisitPoints(root *Geometry, cb func(*Geometry)) {
	visitAllParts(root, func(g *Geometry) bool {
		if g.typ == Point {
			cb(g)
			return true
		}
		return g.typ == MultiPoint || g.typ == GeometryCollection
	}, nil)
}

// VisitLines invokes cb on every LineString leaf reachable from root,
// descending through MultiLineString and GeometryCollection. Polygon rings
// are not visited (use VisitVertexArrays for those).
func VisitLines(root *Geometry, cb func(*Geometry)) {
	visitAllParts(root, func(g *Geometry) bool {
		if g.typ == LineString && (g.parent == nil || g.parent.typ != Polygon) {
			cb(g)
			return true
		}
		return g.typ == MultiLineString || g.typ == GeometryCollection
	}, nil)
}

// VisitPolygons invokes cb on every Polygon leaf reachable from root,
// descending through MultiPolygon and GeometryCollection.
func VisitPolygons(root *Geometry, cb func(*Geometry)) {
	visitAllParts(root, func(g *Geometry) bool {
		if g.typ == Polygon {
			cb(g)
			return true
		}
		return g.typ == MultiPolygon || g.typ == GeometryCollection
	}, nil)
}

// VisitVertexArrays invokes cb on every Point, LineString, and Polygon ring
// (LineString child of a Polygon) reachable from root.
func VisitVertexArrays(root *Geometry, cb func(*Geometry)) {
	visitAllParts(root, func(g *Geometry) bool {
		switch g.typ {
		case Point, LineString:
			cb(g)
			return true
		default:
			return g.IsMultiPart()
		}
	}, nil)
}

// VisitAllParts invokes enter on every node in pre-order and leave on every
// node in post-order, including root. Either callback may be nil.
func VisitAllParts(root *Geometry, enter, leave func(*Geometry)) {
	visitAllParts(root, func(g *Geometry) bool {
		if enter != nil {
			enter(g)
		}
		return true
	}, leave)
}

// visitAllParts is the shared traversal core. descend(g) is called on every
// node (leaf or multi-part) in pre-order; if it returns true and g is
// multi-part, the walk descends into g's first child. leave, if non-nil, is
// invoked on every node in post-order (including leaves) as the walk climbs
// back past it.
func visitAllParts(root *Geometry, descend func(*Geometry) bool, leave func(*Geometry)) {
	g := root
	for {
		shouldDescend := descend(g)
		if shouldDescend && g.IsMultiPart() && g.PartCount() > 0 {
			g = g.FirstPart()
			continue
		}

		// Ascend until we find a non-last sibling, or we climb back past
		// root (the sentinel).
		for {
			if leave != nil {
				leave(g)
			}
			if g == root {
				return
			}
			if next := g.Next(); next != nil {
				g = next
				break
			}
			g = g.Parent()
		}
	}
}

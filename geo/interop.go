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
	"github.com/cockroachdb/errors"
	geom "github.com/twpayne/go-geom"
	"github.com/ngochoawindy/sgl/geo/geopb"
)

// ToGoGeom converts g into the equivalent github.com/twpayne/go-geom
// value, handing the tree off to the wider go-geom ecosystem (GeoJSON,
// KML, and other format encodings this package does not implement
// itself).
func ToGoGeom(g *Geometry) (geom.T, error) {
	layout := layoutFor(g.hasZ, g.hasM)
	switch g.typ {
	case Point:
		if g.IsEmpty() {
			return geom.NewPointEmpty(layout), nil
		}
		return geom.NewPointFlat(layout, flatVertex(g.VertexXYZM(0), layout)), nil
	case LineString:
		return geom.NewLineStringFlat(layout, flatVertices(g, layout)), nil
	case Polygon:
		var flat []float64
		var ends []int
		for ring := g.FirstPart(); ring != nil; ring = ring.Next() {
			flat = append(flat, flatVertices(ring, layout)...)
			ends = append(ends, len(flat))
		}
		return geom.NewPolygonFlat(layout, flat, ends), nil
	case MultiPoint:
		mp := geom.NewMultiPoint(layout)
		for child := g.FirstPart(); child != nil; child = child.Next() {
			pt, err := ToGoGeom(child)
			if err != nil {
				return nil, err
			}
			if err := mp.Push(pt.(*geom.Point)); err != nil {
				return nil, errors.Wrap(err, "geo: building MultiPoint")
			}
		}
		return mp, nil
	case MultiLineString:
		mls := geom.NewMultiLineString(layout)
		for child := g.FirstPart(); child != nil; child = child.Next() {
			ls, err := ToGoGeom(child)
			if err != nil {
				return nil, err
			}
			if err := mls.Push(ls.(*geom.LineString)); err != nil {
				return nil, errors.Wrap(err, "geo: building MultiLineString")
			}
		}
		return mls, nil
	case MultiPolygon:
		mp := geom.NewMultiPolygon(layout)
		for child := g.FirstPart(); child != nil; child = child.Next() {
			poly, err := ToGoGeom(child)
			if err != nil {
				return nil, err
			}
			if err := mp.Push(poly.(*geom.Polygon)); err != nil {
				return nil, errors.Wrap(err, "geo: building MultiPolygon")
			}
		}
		return mp, nil
	case GeometryCollection:
		gc := geom.NewGeometryCollection()
		for child := g.FirstPart(); child != nil; child = child.Next() {
			sub, err := ToGoGeom(child)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(sub); err != nil {
				return nil, errors.Wrap(err, "geo: building GeometryCollection")
			}
		}
		return gc, nil
	default:
		return nil, errors.Newf("geo: cannot convert geometry of type %s to go-geom", g.typ)
	}
}

// FromGoGeom converts a github.com/twpayne/go-geom value into a
// *Geometry, the inverse of ToGoGeom.
func FromGoGeom(t geom.T) (*Geometry, error) {
	layout := t.Layout()
	hasZ := layout.ZIndex() >= 0
	hasM := layout.MIndex() >= 0
	switch gt := t.(type) {
	case *geom.Point:
		g := New(Point, hasZ, hasM)
		if !gt.Empty() {
			g.SetVertexArray([]geopb.Vertex{vertexFromFlat(gt.FlatCoords(), 0, layout)})
		}
		return g, nil
	case *geom.LineString:
		return lineFromFlat(gt.FlatCoords(), layout, hasZ, hasM), nil
	case *geom.Polygon:
		g := New(Polygon, hasZ, hasM)
		flat := gt.FlatCoords()
		start := 0
		for _, end := range gt.Ends() {
			g.AppendPart(lineFromFlat(flat[start:end], layout, hasZ, hasM))
			start = end
		}
		return g, nil
	case *geom.MultiPoint:
		g := New(MultiPoint, hasZ, hasM)
		for i := 0; i < gt.NumPoints(); i++ {
			child, err := FromGoGeom(gt.Point(i))
			if err != nil {
				return nil, err
			}
			g.AppendPart(child)
		}
		return g, nil
	case *geom.MultiLineString:
		g := New(MultiLineString, hasZ, hasM)
		for i := 0; i < gt.NumLineStrings(); i++ {
			child, err := FromGoGeom(gt.LineString(i))
			if err != nil {
				return nil, err
			}
			g.AppendPart(child)
		}
		return g, nil
	case *geom.MultiPolygon:
		g := New(MultiPolygon, hasZ, hasM)
		for i := 0; i < gt.NumPolygons(); i++ {
			child, err := FromGoGeom(gt.Polygon(i))
			if err != nil {
				return nil, err
			}
			g.AppendPart(child)
		}
		return g, nil
	case *geom.GeometryCollection:
		g := New(GeometryCollection, hasZ, hasM)
		for i := 0; i < gt.NumGeoms(); i++ {
			child, err := FromGoGeom(gt.Geom(i))
			if err != nil {
				return nil, err
			}
			g.AppendPart(child)
		}
		return g, nil
	default:
		return nil, errors.Newf("geo: unsupported go-geom type %T", t)
	}
}

func layoutFor(hasZ, hasM bool) geom.Layout {
	switch {
	case hasZ && hasM:
		return geom.XYZM
	case hasZ:
		return geom.XYZ
	case hasM:
		return geom.XYM
	default:
		return geom.XY
	}
}

func flatVertex(v geopb.Vertex, layout geom.Layout) []float64 {
	flat := make([]float64, layout.Stride())
	flat[0] = v.X
	flat[1] = v.Y
	if zi := layout.ZIndex(); zi >= 0 {
		flat[zi] = v.Z
	}
	if mi := layout.MIndex(); mi >= 0 {
		flat[mi] = v.M
	}
	return flat
}

func flatVertices(leaf *Geometry, layout geom.Layout) []float64 {
	n := leaf.VertexCount()
	flat := make([]float64, 0, n*layout.Stride())
	for i := 0; i < n; i++ {
		flat = append(flat, flatVertex(leaf.VertexXYZM(i), layout)...)
	}
	return flat
}

func vertexFromFlat(flat []float64, start int, layout geom.Layout) geopb.Vertex {
	v := geopb.Vertex{X: flat[start], Y: flat[start+1]}
	if zi := layout.ZIndex(); zi >= 0 {
		v.Z = flat[start+zi]
	}
	if mi := layout.MIndex(); mi >= 0 {
		v.M = flat[start+mi]
	}
	return v
}

func lineFromFlat(flat []float64, layout geom.Layout, hasZ, hasM bool) *Geometry {
	stride := layout.Stride()
	n := len(flat) / stride
	vertices := make([]geopb.Vertex, n)
	for i := 0; i < n; i++ {
		vertices[i] = vertexFromFlat(flat, i*stride, layout)
	}
	g := New(LineString, hasZ, hasM)
	g.SetVertexArray(vertices)
	return g
}

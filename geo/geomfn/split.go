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
	"github.com/cockroachdb/errors"
	"github.com/ngochoawindy/sgl/geo"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// SplitLineStringAtPoints splits line at every point in points that
// lies exactly on the line and is not one of its endpoints, in the
// order the points are given, returning a MultiLineString of the
// resulting pieces. Points that don't lie on the line, or that land on
// an endpoint, are skipped.
func SplitLineStringAtPoints(line *geo.Geometry, points []*geo.Geometry) (*geo.Geometry, error) {
	if line.GeomType() != geo.LineString {
		return nil, errors.Newf("geomfn: SplitLineStringAtPoints requires a LineString, got %s", line.GeomType())
	}
	t, err := geo.ToGoGeom(line)
	if err != nil {
		return nil, err
	}
	current, ok := t.(*geom.LineString)
	if !ok {
		return nil, errors.AssertionFailedf("geomfn: ToGoGeom of a LineString returned %T", t)
	}

	var pieces []*geom.LineString
	for _, pg := range points {
		if pg.GeomType() != geo.Point || pg.IsEmpty() {
			continue
		}
		pt, err := geo.ToGoGeom(pg)
		if err != nil {
			return nil, err
		}
		p, ok := pt.(*geom.Point)
		if !ok {
			return nil, errors.AssertionFailedf("geomfn: ToGoGeom of a Point returned %T", pt)
		}
		split, left, right, err := splitLineByPoint(current, p.Coords())
		if err != nil {
			return nil, err
		}
		if split {
			pieces = append(pieces, left)
			current = right
		}
	}
	pieces = append(pieces, current)

	out := geo.New(geo.MultiLineString, line.HasZ(), line.HasM())
	for _, piece := range pieces {
		child, err := geo.FromGoGeom(piece)
		if err != nil {
			return nil, err
		}
		out.AppendPart(child)
	}
	return out, nil
}

// splitLineByPoint splits l at p if p lies on l and is not an
// endpoint, reporting split=false and nil pieces otherwise.
func splitLineByPoint(l *geom.LineString, p geom.Coord) (split bool, left, right *geom.LineString, err error) {
	if !xy.IsOnLine(l.Layout(), p, l.FlatCoords()) {
		return false, nil, nil, nil
	}
	start, end := l.Coord(0), l.Coord(l.NumCoords()-1)
	if p.Equal(l.Layout(), start) || p.Equal(l.Layout(), end) {
		return false, nil, nil, nil
	}

	var coordsA, coordsB []geom.Coord
	for i := 1; i < l.NumCoords(); i++ {
		if xy.IsPointWithinLineBounds(p, l.Coord(i-1), l.Coord(i)) {
			coordsA = append(append([]geom.Coord{}, l.Coords()[0:i]...), p)
			if p.Equal(l.Layout(), l.Coord(i)) {
				coordsB = l.Coords()[i:]
			} else {
				coordsB = append([]geom.Coord{p}, l.Coords()[i:]...)
			}
			break
		}
	}
	if coordsA == nil {
		return false, nil, nil, nil
	}

	a := geom.NewLineString(l.Layout())
	if _, err := a.SetCoords(coordsA); err != nil {
		return false, nil, nil, errors.Wrap(err, "geomfn: setting split coords")
	}
	b := geom.NewLineString(l.Layout())
	if _, err := b.SetCoords(coordsB); err != nil {
		return false, nil, nil, errors.Wrap(err, "geomfn: setting split coords")
	}
	return true, a, b, nil
}

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
	"github.com/ngochoawindy/sgl/geo/geopb"
)

// pointPolygonControlFlow signals what a point-in-polygon event listener
// wants the outer search to do next.
type pointPolygonControlFlow int

const (
	// checkNextPolygon signals that the current point should be checked
	// against the next polygon.
	checkNextPolygon pointPolygonControlFlow = iota
	// skipToNextPoint signals that the rest of the checking for the current
	// point can be skipped.
	skipToNextPoint
	// returnTrue signals that the search should exit early and return true.
	returnTrue
)

// pointInPolygonEventListener is implemented once per binary predicate to
// drive pointRelatesToPolygons without duplicating its traversal.
type pointInPolygonEventListener interface {
	// onPointIntersectsPolygon is called when the current point intersects
	// the current polygon. strictlyInside distinguishes interior from
	// boundary intersection.
	onPointIntersectsPolygon(strictlyInside bool) pointPolygonControlFlow
	// exitIfPointDoesNotIntersect reports whether the search should return
	// false as soon as a point intersects no polygon at all.
	exitIfPointDoesNotIntersect() bool
	// afterLoops reports what to return once every point has been checked.
	afterLoops() bool
}

type intersectsListener struct{}

func (intersectsListener) onPointIntersectsPolygon(bool) pointPolygonControlFlow { return returnTrue }
func (intersectsListener) exitIfPointDoesNotIntersect() bool                     { return false }
func (intersectsListener) afterLoops() bool                                      { return false }

type coveredByListener struct {
	intersectedOnce bool
}

func (l *coveredByListener) onPointIntersectsPolygon(bool) pointPolygonControlFlow {
	l.intersectedOnce = true
	return skipToNextPoint
}
func (*coveredByListener) exitIfPointDoesNotIntersect() bool { return true }
func (l *coveredByListener) afterLoops() bool                { return l.intersectedOnce }

type withinListener struct {
	insideOnce bool
}

func (l *withinListener) onPointIntersectsPolygon(strictlyInside bool) pointPolygonControlFlow {
	if l.insideOnce {
		return skipToNextPoint
	}
	if strictlyInside {
		l.insideOnce = true
		return skipToNextPoint
	}
	return checkNextPolygon
}
func (*withinListener) exitIfPointDoesNotIntersect() bool { return true }
func (l *withinListener) afterLoops() bool                { return l.insideOnce }

// Intersects reports whether any leaf point of points intersects any leaf
// polygon of polygons.
func Intersects(points, polygons *geo.Geometry) (bool, error) {
	return pointRelatesToPolygons(points, polygons, intersectsListener{})
}

// CoveredBy reports whether every leaf point of points intersects at least
// one leaf polygon of polygons.
func CoveredBy(points, polygons *geo.Geometry) (bool, error) {
	return pointRelatesToPolygons(points, polygons, &coveredByListener{})
}

// Within reports whether every leaf point of points lies inside polygons,
// with at least one point strictly interior to some polygon.
func Within(points, polygons *geo.Geometry) (bool, error) {
	return pointRelatesToPolygons(points, polygons, &withinListener{})
}

func pointRelatesToPolygons(
	points, polygons *geo.Geometry, listener pointInPolygonEventListener,
) (bool, error) {
	var pointLeaves, polygonLeaves []*geo.Geometry
	geo.VisitLeafGeometries(points, func(g *geo.Geometry) {
		if g.GeomType() == geo.Point && !g.IsEmpty() {
			pointLeaves = append(pointLeaves, g)
		}
	})
	geo.VisitLeafGeometries(polygons, func(g *geo.Geometry) {
		if g.GeomType() == geo.Polygon && !g.IsEmpty() {
			polygonLeaves = append(polygonLeaves, g)
		}
	})

pointLoop:
	for _, p := range pointLeaves {
		v := p.VertexXYZM(0)
		curIntersects := false
		for _, poly := range polygonLeaves {
			rel, err := pointRelatesToPolygon(v, poly)
			if err != nil {
				return false, err
			}
			switch rel {
			case Interior, Boundary:
				curIntersects = true
				switch listener.onPointIntersectsPolygon(rel == Interior) {
				case checkNextPolygon:
				case skipToNextPoint:
					continue pointLoop
				case returnTrue:
					return true, nil
				}
			case Exterior, Invalid:
			default:
				return false, errors.Newf("geomfn: unknown point-ring relation %d", rel)
			}
		}
		if !curIntersects && listener.exitIfPointDoesNotIntersect() {
			return false, nil
		}
	}
	return listener.afterLoops(), nil
}

// pointRelatesToPolygon classifies v against a single polygon leaf,
// accounting for holes: a point inside a hole is Exterior to the polygon.
func pointRelatesToPolygon(v geopb.Vertex, poly *geo.Geometry) (PointRingRelation, error) {
	shell := poly.FirstPart()
	if shell == nil {
		return Exterior, nil
	}
	rel := pointInRing(v, shell)
	if rel == Exterior || rel == Invalid {
		return rel, nil
	}
	if rel == Boundary {
		return Boundary, nil
	}
	for hole := shell.Next(); hole != nil; hole = hole.Next() {
		switch pointInRing(v, hole) {
		case Interior:
			return Exterior, nil
		case Boundary:
			return Boundary, nil
		}
	}
	return Interior, nil
}

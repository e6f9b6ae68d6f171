// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package wkt implements a recursive-descent reader for OGC Simple
// Features well-known text, materializing a *geo.Geometry directly
// without an intermediate AST.
package wkt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geopb"
)

// ParseError reports a WKT syntax error at a byte offset, with a short
// window of the surrounding input for context — the same shape as the
// source's get_error_message, minus its fixed 32-character clamp (Go's
// error strings aren't displayed in a fixed-width terminal field).
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	start := e.Pos - 16
	if start < 0 {
		start = 0
	}
	end := e.Pos + 16
	if end > len(e.Input) {
		end = len(e.Input)
	}
	return fmt.Sprintf("wkt: %s at position %d: ...%s|<---", e.Msg, e.Pos, e.Input[start:end])
}

func init() {
	geo.RegisterWKTReader(func(s string) (*geo.Geometry, error) { return Parse(s) })
}

// Options configures a Parse call.
type Options struct {
	// Allocator, if set, sources every materialized vertex array from
	// this arena instead of the Go heap and is recorded on every node;
	// the nodes themselves are allocated on the Go heap.
	Allocator geo.Allocator
}

// Option mutates an Options value.
type Option func(*Options)

// WithAllocator sets Options.Allocator.
func WithAllocator(a geo.Allocator) Option { return func(o *Options) { o.Allocator = a } }

// Parse parses s as WKT and returns the resulting geometry tree. s must
// not carry a "SRID=...;" prefix; strip one first with geo.TrimSRIDPrefix.
func Parse(s string, opts ...Option) (*geo.Geometry, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	p := &parser{s: s, alloc: o.Allocator}
	p.skipWS()
	g, err := p.parseGeometry()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.pos != len(p.s) {
		return nil, p.errorf("unexpected trailing input")
	}
	return g, nil
}

type parser struct {
	s     string
	pos   int
	alloc geo.Allocator
}

// finalizeVertices copies vertices into p.alloc's arena when one was
// supplied, leaving the heap-grown slice parseVertexList built as-is
// otherwise.
func (p *parser) finalizeVertices(vertices []geopb.Vertex) []geopb.Vertex {
	if p.alloc == nil || len(vertices) == 0 {
		return vertices
	}
	out := geo.AllocVertices(p.alloc, len(vertices))
	copy(out, vertices)
	return out
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Input: p.s, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipWS() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// matchStr case-insensitively matches a keyword at the current position,
// requiring the next byte (if any) not continue an identifier, and
// advances past it on success.
func (p *parser) matchStr(kw string) bool {
	if p.pos+len(kw) > len(p.s) {
		return false
	}
	if !strings.EqualFold(p.s[p.pos:p.pos+len(kw)], kw) {
		return false
	}
	if p.pos+len(kw) < len(p.s) && isIdentByte(p.s[p.pos+len(kw)]) {
		return false
	}
	p.pos += len(kw)
	return true
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (p *parser) matchChar(c byte) bool {
	if p.pos < len(p.s) && p.s[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) matchNumber() (float64, bool) {
	start := p.pos
	i := p.pos
	if i < len(p.s) && (p.s[i] == '+' || p.s[i] == '-') {
		i++
	}
	digitsStart := i
	for i < len(p.s) && p.s[i] >= '0' && p.s[i] <= '9' {
		i++
	}
	if i < len(p.s) && p.s[i] == '.' {
		i++
		for i < len(p.s) && p.s[i] >= '0' && p.s[i] <= '9' {
			i++
		}
	}
	if i == digitsStart || (i == digitsStart+1 && p.s[digitsStart] == '.') {
		return 0, false
	}
	if i < len(p.s) && (p.s[i] == 'e' || p.s[i] == 'E') {
		j := i + 1
		if j < len(p.s) && (p.s[j] == '+' || p.s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(p.s) && p.s[j] >= '0' && p.s[j] <= '9' {
			j++
		}
		if j > expStart {
			i = j
		}
	}
	v, err := strconv.ParseFloat(p.s[start:i], 64)
	if err != nil {
		return 0, false
	}
	p.pos = i
	return v, true
}

var typeKeywords = []struct {
	kw  string
	typ geo.Type
}{
	{"GEOMETRYCOLLECTION", geo.GeometryCollection},
	{"MULTILINESTRING", geo.MultiLineString},
	{"MULTIPOLYGON", geo.MultiPolygon},
	{"MULTIPOINT", geo.MultiPoint},
	{"LINESTRING", geo.LineString},
	{"POLYGON", geo.Polygon},
	{"POINT", geo.Point},
}

// parseGeometry parses a full geometry: type keyword, optional Z/M
// suffix, then EMPTY or a parenthesized body.
func (p *parser) parseGeometry() (*geo.Geometry, error) {
	var typ geo.Type
	matched := false
	for _, tk := range typeKeywords {
		if p.matchStr(tk.kw) {
			typ = tk.typ
			matched = true
			break
		}
	}
	if !matched {
		return nil, p.errorf("expected a geometry type keyword")
	}

	hasZ, hasM := false, false
	p.skipWS()
	if p.matchChar('Z') || p.matchChar('z') {
		hasZ = true
		if p.matchChar('M') || p.matchChar('m') {
			hasM = true
		}
	} else if p.matchChar('M') || p.matchChar('m') {
		hasM = true
	}

	p.skipWS()
	g := geo.NewWithAllocator(typ, hasZ, hasM, p.alloc)
	if p.matchStr("EMPTY") {
		return g, nil
	}
	if !p.matchChar('(') {
		return nil, p.errorf("expected EMPTY or '(' after %s", typ)
	}
	if err := p.parseBody(g); err != nil {
		return nil, err
	}
	p.skipWS()
	if !p.matchChar(')') {
		return nil, p.errorf("expected ')' to close %s", typ)
	}
	return g, nil
}

func (p *parser) parseBody(g *geo.Geometry) error {
	switch g.GeomType() {
	case geo.Point:
		v, err := p.parseVertex(g.HasZ(), g.HasM())
		if err != nil {
			return err
		}
		g.SetVertexArray(p.finalizeVertices([]geopb.Vertex{v}))
		return nil
	case geo.LineString:
		vertices, err := p.parseVertexList(g.HasZ(), g.HasM())
		if err != nil {
			return err
		}
		g.SetVertexArray(vertices)
		return nil
	case geo.Polygon:
		return p.parseList(func() error {
			ring := geo.NewWithAllocator(geo.LineString, g.HasZ(), g.HasM(), p.alloc)
			p.skipWS()
			if !p.matchChar('(') {
				return p.errorf("expected '(' to start polygon ring")
			}
			vertices, err := p.parseVertexList(g.HasZ(), g.HasM())
			if err != nil {
				return err
			}
			ring.SetVertexArray(vertices)
			p.skipWS()
			if !p.matchChar(')') {
				return p.errorf("expected ')' to close polygon ring")
			}
			g.AppendPart(ring)
			return nil
		})
	case geo.MultiPoint:
		return p.parseList(func() error {
			part := geo.NewWithAllocator(geo.Point, g.HasZ(), g.HasM(), p.alloc)
			p.skipWS()
			if p.matchStr("EMPTY") {
				g.AppendPart(part)
				return nil
			}
			// A MULTIPOINT member may be written as a bare coordinate
			// tuple or parenthesized; both forms are accepted.
			wrapped := p.matchChar('(')
			v, err := p.parseVertex(g.HasZ(), g.HasM())
			if err != nil {
				return err
			}
			part.SetVertexArray(p.finalizeVertices([]geopb.Vertex{v}))
			if wrapped {
				p.skipWS()
				if !p.matchChar(')') {
					return p.errorf("expected ')' to close MULTIPOINT member")
				}
			}
			g.AppendPart(part)
			return nil
		})
	case geo.MultiLineString:
		return p.parseList(func() error {
			part := geo.NewWithAllocator(geo.LineString, g.HasZ(), g.HasM(), p.alloc)
			p.skipWS()
			if p.matchStr("EMPTY") {
				g.AppendPart(part)
				return nil
			}
			if !p.matchChar('(') {
				return p.errorf("expected '(' or EMPTY for MULTILINESTRING member")
			}
			vertices, err := p.parseVertexList(g.HasZ(), g.HasM())
			if err != nil {
				return err
			}
			part.SetVertexArray(vertices)
			p.skipWS()
			if !p.matchChar(')') {
				return p.errorf("expected ')' to close MULTILINESTRING member")
			}
			g.AppendPart(part)
			return nil
		})
	case geo.MultiPolygon:
		return p.parseList(func() error {
			part := geo.NewWithAllocator(geo.Polygon, g.HasZ(), g.HasM(), p.alloc)
			p.skipWS()
			if p.matchStr("EMPTY") {
				g.AppendPart(part)
				return nil
			}
			if !p.matchChar('(') {
				return p.errorf("expected '(' or EMPTY for MULTIPOLYGON member")
			}
			if err := p.parseBody(part); err != nil {
				return err
			}
			p.skipWS()
			if !p.matchChar(')') {
				return p.errorf("expected ')' to close MULTIPOLYGON member")
			}
			g.AppendPart(part)
			return nil
		})
	case geo.GeometryCollection:
		return p.parseList(func() error {
			p.skipWS()
			child, err := p.parseGeometry()
			if err != nil {
				return err
			}
			if child.HasZ() != g.HasZ() || child.HasM() != g.HasM() {
				return p.errorf("mismatched Z/M dimensionality in GEOMETRYCOLLECTION member")
			}
			g.AppendPart(child)
			return nil
		})
	default:
		return errors.AssertionFailedf("wkt: unhandled geometry type %s", g.GeomType())
	}
}

// parseList parses a comma-separated sequence of one or more elements,
// invoking elem for each. The caller has already consumed the opening
// '('; parseList does not consume the closing ')'.
func (p *parser) parseList(elem func() error) error {
	for {
		if err := elem(); err != nil {
			return err
		}
		p.skipWS()
		if !p.matchChar(',') {
			return nil
		}
		p.skipWS()
	}
}

func (p *parser) parseVertexList(hasZ, hasM bool) ([]geopb.Vertex, error) {
	var vertices []geopb.Vertex
	err := p.parseList(func() error {
		v, err := p.parseVertex(hasZ, hasM)
		if err != nil {
			return err
		}
		vertices = append(vertices, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.finalizeVertices(vertices), nil
}

func (p *parser) parseVertex(hasZ, hasM bool) (geopb.Vertex, error) {
	p.skipWS()
	x, ok := p.matchNumber()
	if !ok {
		return geopb.Vertex{}, p.errorf("expected a coordinate")
	}
	p.skipWS()
	y, ok := p.matchNumber()
	if !ok {
		return geopb.Vertex{}, p.errorf("expected a y coordinate")
	}
	v := geopb.Vertex{X: x, Y: y}
	if hasZ {
		p.skipWS()
		z, ok := p.matchNumber()
		if !ok {
			return geopb.Vertex{}, p.errorf("expected a z coordinate")
		}
		v.Z = z
	}
	if hasM {
		p.skipWS()
		m, ok := p.matchNumber()
		if !ok {
			return geopb.Vertex{}, p.errorf("expected an m coordinate")
		}
		v.M = m
	}
	return v, nil
}

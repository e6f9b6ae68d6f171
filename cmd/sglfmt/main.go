// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// sglfmt reads a single geometry, in WKT, WKB, or hex-encoded WKB, from
// an argument or from stdin, and prints its metrics as JSON.
//
// Usage: sglfmt ['POINT(1 2)']
// Usage: echo 'LINESTRING(0 0, 1 1)' | sglfmt
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geomfn"
	"github.com/ngochoawindy/sgl/geo/geopb"

	// Imported for their init() side effects only: each registers
	// itself with geo.Parse so it can dispatch to WKT or WKB without
	// geo importing either package directly.
	_ "github.com/ngochoawindy/sgl/geo/wkb"
	_ "github.com/ngochoawindy/sgl/geo/wkt"
)

type metrics struct {
	SRID         uint32        `json:"srid,omitempty"`
	Type         string        `json:"type"`
	Area         float64       `json:"area"`
	Length       float64       `json:"length"`
	Perimeter    float64       `json:"perimeter"`
	VertexCount  int           `json:"vertex_count"`
	Extent       *geopb.Extent `json:"extent,omitempty"`
	Centroid     *geopb.Vertex `json:"centroid,omitempty"`
}

func main() {
	flag.Parse()

	input, err := readInput()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sglfmt:", err)
		os.Exit(1)
	}

	g, srid, err := geo.Parse(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sglfmt:", err)
		os.Exit(1)
	}

	m := metrics{
		SRID:        srid,
		Type:        g.GeomType().String(),
		Area:        geomfn.GetArea(g),
		Length:      geomfn.GetLength(g),
		Perimeter:   geomfn.GetPerimeter(g),
		VertexCount: geomfn.GetTotalVertexCount(g),
	}
	if ext, n := geomfn.GetTotalExtentXY(g); n > 0 {
		m.Extent = &ext
	}
	if c, ok := geomfn.GetCentroid(g); ok {
		m.Centroid = &c
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		fmt.Fprintln(os.Stderr, "sglfmt:", err)
		os.Exit(1)
	}
}

func readInput() (string, error) {
	if flag.NArg() > 0 {
		return strings.TrimSpace(flag.Arg(0)), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

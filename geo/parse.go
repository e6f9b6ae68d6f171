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
	"encoding/hex"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// Format is the wire format guessed for an ambiguous input string, using
// the same leading-character heuristic PostGIS applies on a direct cast
// from text to GEOMETRY.
type Format uint8

const (
	// FormatWKT is OGC Simple Features well-known text (possibly prefixed
	// with an "SRID=...;" declaration, which TrimSRIDPrefix strips).
	FormatWKT Format = iota
	// FormatWKBHex is well-known binary, hex-encoded.
	FormatWKBHex
	// FormatWKB is raw (non-hex) well-known binary.
	FormatWKB
)

// DetectFormat guesses str's wire format from its first byte. It does not
// validate the rest of str; callers still need a real parser to confirm
// the guess.
func DetectFormat(str string) (Format, error) {
	if len(str) == 0 {
		return 0, errors.Newf("geo: parsing empty string to geometry")
	}
	switch str[0] {
	case '0':
		return FormatWKBHex, nil
	case 0x00, 0x01:
		return FormatWKB, nil
	default:
		return FormatWKT, nil
	}
}

const sridPrefix = "SRID="

// TrimSRIDPrefix strips a leading "SRID=<n>;" declaration from a WKT
// string, returning the declared SRID and the remainder. If str has no
// such prefix, it returns (0, str, nil) unchanged. This mirrors the
// source's acceptance of an EWKT-style SRID prefix ahead of the WKT body
// proper, which the core parser (component J) never sees.
func TrimSRIDPrefix(str string) (srid uint32, rest string, err error) {
	if !strings.HasPrefix(str, sridPrefix) {
		return 0, str, nil
	}
	body := str[len(sridPrefix):]
	end := strings.IndexByte(body, ';')
	if end == -1 {
		return 0, "", errors.Newf("geo: missing ';' terminating SRID declaration in %q", str)
	}
	n, err := strconv.ParseUint(body[:end], 10, 32)
	if err != nil {
		return 0, "", errors.Wrapf(err, "geo: invalid SRID declaration in %q", str)
	}
	return uint32(n), body[end+1:], nil
}

// WKTReaderFunc parses a WKT string into a Geometry.
type WKTReaderFunc func(s string) (*Geometry, error)

// WKBReaderFunc parses a WKB byte slice into a Geometry.
type WKBReaderFunc func(b []byte) (*Geometry, error)

// registryMu guards the two reader slots below. geo/wkt and geo/wkb each
// import geo to construct a *Geometry via its public API; geo cannot
// import them back without a cycle, so Parse dispatches through a slot
// each reader package fills in from its own init().
var (
	registryMu sync.RWMutex
	wktReader  WKTReaderFunc
	wkbReader  WKBReaderFunc
)

// RegisterWKTReader installs the WKT parser Parse dispatches to. Called
// from geo/wkt's init().
func RegisterWKTReader(fn WKTReaderFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	wktReader = fn
}

// RegisterWKBReader installs the WKB parser Parse dispatches to. Called
// from geo/wkb's init().
func RegisterWKBReader(fn WKBReaderFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	wkbReader = fn
}

// Parse parses an ambiguous-format geometry string, guessing WKT, hex
// WKB, or raw WKB from its leading byte the way a direct text-to-GEOMETRY
// cast does, stripping a leading "SRID=<n>;" declaration first if
// present. It returns the geometry and the declared SRID (0 if none);
// the core has no SRID concept of its own (see Non-goals), so callers
// that care about SRID consistency must check it themselves.
func Parse(input string) (*Geometry, uint32, error) {
	srid, rest, err := TrimSRIDPrefix(input)
	if err != nil {
		return nil, 0, err
	}
	format, err := DetectFormat(rest)
	if err != nil {
		return nil, 0, err
	}

	registryMu.RLock()
	wkt, wkb := wktReader, wkbReader
	registryMu.RUnlock()

	switch format {
	case FormatWKT:
		if wkt == nil {
			return nil, 0, errors.Newf("geo: no WKT reader registered (import geo/wkt)")
		}
		g, err := wkt(rest)
		return g, srid, err
	case FormatWKBHex:
		if wkb == nil {
			return nil, 0, errors.Newf("geo: no WKB reader registered (import geo/wkb)")
		}
		raw, err := hex.DecodeString(rest)
		if err != nil {
			return nil, 0, errors.Wrap(err, "geo: decoding hex-encoded WKB")
		}
		g, err := wkb(raw)
		return g, srid, err
	case FormatWKB:
		if wkb == nil {
			return nil, 0, errors.Newf("geo: no WKB reader registered (import geo/wkb)")
		}
		g, err := wkb([]byte(rest))
		return g, srid, err
	default:
		return nil, 0, errors.AssertionFailedf("geo: unhandled format %d", format)
	}
}

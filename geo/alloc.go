// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package geo implements an in-memory vector-geometry engine: a recursive
// tagged tree of POINT/LINESTRING/POLYGON nodes and their MULTI_*/
// GEOMETRYCOLLECTION aggregates, whose vertex storage can be supplied by a
// caller-owned arena (nodes and child lists live on the Go heap). The
// package never frees anything itself; teardown is the caller dropping the
// Allocator.
package geo

import (
	"unsafe"

	"github.com/ngochoawindy/sgl/geo/geopb"
)

// Allocator is the memory source that vertex arrays and prepared-index
// level boxes can be carved out of; Geometry nodes and their child lists
// always come from the Go heap. The core never calls Dealloc on its own
// initiative; a conforming Allocator may make Dealloc a no-op.
//
// Every slice (vertex arrays, extent arrays) handed back by an Allocator
// must remain valid until the Allocator itself is discarded.
type Allocator interface {
	// Alloc returns a new zeroed byte slice of the given length.
	Alloc(size int) []byte
	// Realloc grows or shrinks a slice previously returned by this
	// Allocator, preserving the overlapping prefix. newSize may be smaller
	// than len(old), in which case the slice is truncated.
	Realloc(old []byte, newSize int) []byte
	// Dealloc releases a slice early. Implementations are free to ignore
	// this; the arena as a whole is reclaimed on drop regardless.
	Dealloc(b []byte)
}

// ArenaAllocator is the default Allocator: a plain bump allocator backed by
// the Go heap. Unlike a bump allocator over a single backing buffer, it
// relies on the Go garbage collector for the actual teardown — "dropping the
// arena" means dropping every reference to the ArenaAllocator and the slices
// it produced.
type ArenaAllocator struct {
	allocated int
}

var _ Allocator = (*ArenaAllocator)(nil)

// NewArenaAllocator returns a ready-to-use Allocator.
func NewArenaAllocator() *ArenaAllocator {
	return &ArenaAllocator{}
}

// Alloc implements Allocator.
func (a *ArenaAllocator) Alloc(size int) []byte {
	a.allocated += size
	return make([]byte, size)
}

// Realloc implements Allocator.
func (a *ArenaAllocator) Realloc(old []byte, newSize int) []byte {
	next := make([]byte, newSize)
	copy(next, old)
	a.allocated += newSize - len(old)
	return next
}

// Dealloc implements Allocator. It is a no-op: the arena is reclaimed
// wholesale on drop, matching the source's "dealloc is optional in
// practice" contract.
func (a *ArenaAllocator) Dealloc(b []byte) {}

// Allocated reports the running total of bytes handed out by this
// allocator, net of shrinking Reallocs. It is a debugging aid, not part of
// the Allocator contract.
func (a *ArenaAllocator) Allocated() int {
	return a.allocated
}

// vertexSize and extentSize are the exact byte strides of geopb.Vertex and
// geopb.Extent: four and eight contiguous float64 fields respectively, with
// no padding, which is what makes reinterpreting an Allocator's raw bytes
// as either type below safe.
const (
	vertexSize = 32
	extentSize = 64
)

// AllocVertices returns a vertex slice of length n carved out of a, or out
// of the Go heap via a plain make if a is nil. The WKT and WKB readers get
// their fresh vertex storage through this rather than calling make
// directly, so that a caller-supplied arena actually receives their
// allocation traffic.
func AllocVertices(a Allocator, n int) []geopb.Vertex {
	if n == 0 {
		return nil
	}
	if a == nil {
		return make([]geopb.Vertex, n)
	}
	b := a.Alloc(n * vertexSize)
	return unsafe.Slice((*geopb.Vertex)(unsafe.Pointer(&b[0])), n)
}

// AllocExtents is AllocVertices' counterpart for geopb.Extent, used by
// geo/geoindex's Build to carve a prepared index's level boxes out of a
// caller-supplied arena instead of the heap.
func AllocExtents(a Allocator, n int) []geopb.Extent {
	if n == 0 {
		return nil
	}
	if a == nil {
		return make([]geopb.Extent, n)
	}
	b := a.Alloc(n * extentSize)
	return unsafe.Slice((*geopb.Extent)(unsafe.Pointer(&b[0])), n)
}

// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

// Package geoindex builds a hierarchical bounding-box index over a
// LineString's vertex array to accelerate repeated point-in-polygon,
// point-to-line, and line-to-line distance queries against the same
// shape.
package geoindex

import (
	"container/heap"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/ngochoawindy/sgl/geo"
	"github.com/ngochoawindy/sgl/geo/geomfn"
	"github.com/ngochoawindy/sgl/geo/geopb"
)

// NodeSize is the branching factor: each box at level L covers up to
// NodeSize boxes at level L+1 (or the first NodeSize+1 vertices at the
// leaf level).
const NodeSize = 32

// MaxDepth is the maximum number of levels the index will build.
const MaxDepth = 8

// Prepared is a hierarchical bounding-box tree over a LineString's
// vertex array. levels holds every level's boxes in one flat array;
// level 0 is the root and level len(levelLen)-1 is the leaf level, one
// box per block of up to NodeSize vertices, with
// adjacent leaf boxes overlapping by one vertex so every segment is
// fully covered by at least one leaf.
type Prepared struct {
	line       *geo.Geometry
	levels     []geopb.Extent
	levelStart []int // levelStart[l] is levels' flat-array start index for level l
	levelLen   []int // levelLen[l] is the number of boxes at level l
	itemsCount int
}

// BuildOption mutates a buildOptions value.
type BuildOption func(*buildOptions)

type buildOptions struct {
	allocator geo.Allocator
}

// WithAllocator sources a Prepared index's level boxes from alloc instead
// of the Go heap.
func WithAllocator(alloc geo.Allocator) BuildOption {
	return func(o *buildOptions) { o.allocator = alloc }
}

// Build constructs a Prepared index over line, which must be a
// LineString. It sets line's prepared flag.
func Build(line *geo.Geometry, opts ...BuildOption) (*Prepared, error) {
	if line.GeomType() != geo.LineString {
		return nil, errors.Newf("geoindex: Build requires a LineString, got %s", line.GeomType())
	}
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	n := line.VertexCount()
	p := &Prepared{line: line, itemsCount: n}

	if n == 0 {
		line.SetPrepared(true)
		return p, nil
	}

	// Compute leaf-first level counts, then cap at MaxDepth and reverse
	// so index 0 is the root.
	counts := []int{ceilDiv(n, NodeSize)}
	for counts[len(counts)-1] > 1 && len(counts) < MaxDepth {
		counts = append(counts, ceilDiv(counts[len(counts)-1], NodeSize))
	}
	reverseInts(counts)

	p.levelLen = counts
	p.levelStart = make([]int, len(counts))
	total := 0
	for i, c := range counts {
		p.levelStart[i] = total
		total += c
	}
	p.levels = geo.AllocExtents(o.allocator, total)

	leafLevel := len(counts) - 1
	for i := 0; i < counts[leafLevel]; i++ {
		lo := i * NodeSize
		hi := min(lo+NodeSize+1, n)
		ext := geopb.Smallest()
		for v := lo; v < hi; v++ {
			x, y := line.VertexXY(v)
			ext.Update(x, y)
		}
		p.levels[p.levelStart[leafLevel]+i] = ext
	}

	for lvl := leafLevel - 1; lvl >= 0; lvl-- {
		childCount := counts[lvl+1]
		for i := 0; i < counts[lvl]; i++ {
			lo := i * NodeSize
			hi := min(lo+NodeSize, childCount)
			ext := geopb.Smallest()
			for c := lo; c < hi; c++ {
				ext.Merge(p.levels[p.levelStart[lvl+1]+c])
			}
			p.levels[p.levelStart[lvl]+i] = ext
		}
	}

	line.SetPrepared(true)
	return p, nil
}

func (p *Prepared) box(level, idx int) geopb.Extent {
	return p.levels[p.levelStart[level]+idx]
}

func (p *Prepared) isLeafLevel(level int) bool {
	return level == len(p.levelLen)-1
}

func (p *Prepared) childRange(level, idx int) (lo, hi int) {
	lo = idx * NodeSize
	hi = min(lo+NodeSize, p.levelLen[level+1])
	return
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Contains classifies v against the prepared ring via horizontal
// ray-casting, descending only into nodes whose y-range could contain
// the crossing. It returns the same classification as the unprepared
// point-in-ring test.
func (p *Prepared) Contains(v geopb.Vertex) geomfn.PointRingRelation {
	if p.itemsCount < 3 {
		return geomfn.Invalid
	}
	crossings, boundary := p.contains(0, 0, v)
	if boundary {
		return geomfn.Boundary
	}
	if crossings%2 == 1 {
		return geomfn.Interior
	}
	return geomfn.Exterior
}

func (p *Prepared) contains(level, idx int, v geopb.Vertex) (crossings int, boundary bool) {
	box := p.box(level, idx)
	if v.Y < box.Min.Y || v.Y > box.Max.Y {
		return 0, false
	}
	if p.isLeafLevel(level) {
		lo := idx * NodeSize
		hi := min(lo+NodeSize+1, p.itemsCount)
		return geomfn.RingCrossings(v, p.line, lo, hi)
	}
	childLo, childHi := p.childRange(level, idx)
	for c := childLo; c < childHi; c++ {
		cc, cb := p.contains(level+1, c, v)
		crossings += cc
		if cb {
			return crossings, true
		}
	}
	return crossings, false
}

// prunedEpsilon absorbs floating-point error in the MINMAXDIST pruning
// comparison so a child box whose lower bound is equal (up to rounding)
// to the running threshold is not skipped.
const prunedEpsilon = 1e-9

// TryGetDistance returns the minimum distance from v to any segment of
// the prepared line, using branch-and-bound pruning via the MINMAXDIST
// upper bound at each internal node. It reports false if the line is
// empty.
func (p *Prepared) TryGetDistance(v geopb.Vertex) (float64, bool) {
	if p.itemsCount == 0 {
		return 0, false
	}
	if p.itemsCount == 1 {
		x, y := p.line.VertexXY(0)
		return geopb.XYVertex(x, y).Distance(v), true
	}
	best := math.Inf(1)
	p.searchPointDistance(0, 0, v, &best)
	return math.Sqrt(best), true
}

func (p *Prepared) searchPointDistance(level, idx int, v geopb.Vertex, best *float64) {
	if p.isLeafLevel(level) {
		lo := idx * NodeSize
		hi := min(lo+NodeSize+1, p.itemsCount)
		for i := lo; i+1 < hi; i++ {
			a := p.line.VertexXYZM(i)
			b := p.line.VertexXYZM(i + 1)
			if d := geomfn.PointToSegmentDistanceSq(v, a, b); d < *best {
				*best = d
			}
		}
		return
	}
	childLo, childHi := p.childRange(level, idx)
	threshold := math.Inf(1)
	for c := childLo; c < childHi; c++ {
		if mm := minMaxDistSq(v, p.box(level+1, c)); mm < threshold {
			threshold = mm
		}
	}
	for c := childLo; c < childHi; c++ {
		box := p.box(level+1, c)
		if box.DistanceToSq(v) <= threshold+prunedEpsilon {
			p.searchPointDistance(level+1, c, v, best)
		}
	}
}

// minMaxDistSq is the MINMAXDIST upper bound on the nearest possible
// item within box, per the classic R-tree nearest-neighbor
// branch-and-bound formula restricted to two axes.
func minMaxDistSq(v geopb.Vertex, box geopb.Extent) float64 {
	midX := (box.Min.X + box.Max.X) / 2
	midY := (box.Min.Y + box.Max.Y) / 2

	nearX := box.Max.X
	if v.X <= midX {
		nearX = box.Min.X
	}
	farY := box.Min.Y
	if v.Y >= midY {
		farY = box.Max.Y
	}
	candidateX := sq(v.X-nearX) + sq(v.Y-farY)

	nearY := box.Max.Y
	if v.Y <= midY {
		nearY = box.Min.Y
	}
	farX := box.Min.X
	if v.X >= midX {
		farX = box.Max.X
	}
	candidateY := sq(v.Y-nearY) + sq(v.X-farX)

	return math.Min(candidateX, candidateY)
}

func sq(x float64) float64 { return x * x }

// heapEntry is a best-first search frontier entry for line-to-line
// distance: (keySq, level/idx pair for each side).
type heapEntry struct {
	keySq          float64
	levelA, idxA   int
	levelB, idxB   int
}

type entryHeap []heapEntry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].keySq < h[j].keySq }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(heapEntry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TryGetDistance computes the minimum distance between two prepared
// lines via best-first search over both trees simultaneously, expanding
// the frontier entry with the smallest box-to-box distance first and
// terminating once the frontier's minimum key meets or exceeds the best
// distance found so far.
func TryGetDistance(a, b *Prepared) (float64, bool) {
	if a.itemsCount == 0 || b.itemsCount == 0 {
		return 0, false
	}
	if a.itemsCount == 1 {
		v := a.line.VertexXYZM(0)
		d, ok := b.TryGetDistance(geopb.XYVertex(v.X, v.Y))
		return d, ok
	}
	if b.itemsCount == 1 {
		v := b.line.VertexXYZM(0)
		d, ok := a.TryGetDistance(geopb.XYVertex(v.X, v.Y))
		return d, ok
	}

	h := &entryHeap{{keySq: 0, levelA: 0, idxA: 0, levelB: 0, idxB: 0}}
	best := math.Inf(1)
	for h.Len() > 0 {
		e := heap.Pop(h).(heapEntry)
		if e.keySq >= best {
			break
		}
		aLeaf := a.isLeafLevel(e.levelA)
		bLeaf := b.isLeafLevel(e.levelB)
		switch {
		case aLeaf && bLeaf:
			expandLeafPair(a, b, e, &best)
		case aLeaf:
			expandSide(b, e, false, a.box(e.levelA, e.idxA), h)
		case bLeaf:
			expandSide(a, e, true, b.box(e.levelB, e.idxB), h)
		default:
			if a.box(e.levelA, e.idxA).GetArea() >= b.box(e.levelB, e.idxB).GetArea() {
				expandSide(a, e, true, b.box(e.levelB, e.idxB), h)
			} else {
				expandSide(b, e, false, a.box(e.levelA, e.idxA), h)
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return math.Sqrt(best), true
}

func expandLeafPair(a, b *Prepared, e heapEntry, best *float64) {
	loA, hiA := e.idxA*NodeSize, min(e.idxA*NodeSize+NodeSize+1, a.itemsCount)
	loB, hiB := e.idxB*NodeSize, min(e.idxB*NodeSize+NodeSize+1, b.itemsCount)
	for i := loA; i+1 < hiA; i++ {
		a0 := a.line.VertexXYZM(i)
		a1 := a.line.VertexXYZM(i + 1)
		if a0.EqualXY(a1) {
			continue
		}
		for j := loB; j+1 < hiB; j++ {
			b0 := b.line.VertexXYZM(j)
			b1 := b.line.VertexXYZM(j + 1)
			if b0.EqualXY(b1) {
				continue
			}
			if d := geomfn.SegmentSegmentDistanceSq(a0, a1, b0, b1); d < *best {
				*best = d
			}
		}
	}
}

// expandSide expands the non-leaf side (p, rooted at the entry's
// (level,idx) on that side) toward otherBox, pushing one frontier entry
// per child. expandingIsA indicates whether the expanded side plays the
// "A" or "B" role in the resulting heap entries.
func expandSide(p *Prepared, e heapEntry, expandingIsA bool, otherBox geopb.Extent, h *entryHeap) {
	var level, idx int
	if expandingIsA {
		level, idx = e.levelA, e.idxA
	} else {
		level, idx = e.levelB, e.idxB
	}
	lo, hi := p.childRange(level, idx)
	for c := lo; c < hi; c++ {
		childBox := p.box(level+1, c)
		key := childBox.ExtentDistanceToSq(otherBox)
		entry := e
		if expandingIsA {
			entry.levelA, entry.idxA = level+1, c
		} else {
			entry.levelB, entry.idxB = level+1, c
		}
		entry.keySq = key
		heap.Push(h, entry)
	}
}

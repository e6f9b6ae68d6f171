// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package geoindex

import "math"

// hilbertInterleave spreads the low 16 bits of x across the even bit
// positions of the result, leaving zeros in between.
func hilbertInterleave(x uint32) uint32 {
	x = (x | (x << 8)) & 0x00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F
	x = (x | (x << 2)) & 0x33333333
	x = (x | (x << 1)) & 0x55555555
	return x
}

// HilbertEncode maps a point (x, y), each using the low bits bits of
// precision, onto its distance along a Hilbert curve of order bits. It is a
// standalone vertex-ordering utility, not wired into the prepared index's
// build algorithm. Originally public domain:
// https://github.com/rawrunprotected/hilbert_curves
func HilbertEncode(x, y uint32, bits uint) uint64 {
	n := uint32(bits)
	x <<= 16 - n
	y <<= 16 - n

	a := x ^ y
	b := 0xFFFF ^ a
	c := 0xFFFF ^ (x | y)
	d := x & (y ^ 0xFFFF)
	A := a | (b >> 1)
	B := (a >> 1) ^ a
	C := ((c >> 1) ^ (b & (d >> 1))) ^ c
	D := ((a & (c >> 1)) ^ (d >> 1)) ^ d

	a, b, c, d = A, B, C, D
	A = (a & (a >> 2)) ^ (b & (b >> 2))
	B = (a & (b >> 2)) ^ (b & ((a ^ b) >> 2))
	C ^= (a & (c >> 2)) ^ (b & (d >> 2))
	D ^= (b & (c >> 2)) ^ ((a ^ b) & (d >> 2))

	a, b, c, d = A, B, C, D
	A = (a & (a >> 4)) ^ (b & (b >> 4))
	B = (a & (b >> 4)) ^ (b & ((a ^ b) >> 4))
	C ^= (a & (c >> 4)) ^ (b & (d >> 4))
	D ^= (b & (c >> 4)) ^ ((a ^ b) & (d >> 4))

	a, b, c, d = A, B, C, D
	C ^= (a & (c >> 8)) ^ (b & (d >> 8))
	D ^= (b & (c >> 8)) ^ ((a ^ b) & (d >> 8))

	a = C ^ (C >> 1)
	b = D ^ (D >> 1)

	i0 := x ^ y
	i1 := b | (0xFFFF ^ (i0 | a))

	return uint64((hilbertInterleave(i1)<<1)|hilbertInterleave(i0)) >> (32 - 2*n)
}

// hilbertF32ToU32 maps a float32 to a uint32 that preserves the float's
// total order, so that Hilbert-curve buckets computed from the result sort
// consistently with the original float values. NaN sorts last.
func hilbertF32ToU32(f float32) uint32 {
	if math.IsNaN(float64(f)) {
		return 0xFFFFFFFF
	}
	bits := math.Float32bits(f)
	if bits&0x80000000 != 0 {
		bits ^= 0xFFFFFFFF
	} else {
		bits |= 0x80000000
	}
	return bits
}

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

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHilbertEncodeOriginIsZero(t *testing.T) {
	require.Equal(t, uint64(0), HilbertEncode(0, 0, 4))
}

func TestHilbertEncodeIsDeterministic(t *testing.T) {
	a := HilbertEncode(3, 5, 4)
	b := HilbertEncode(3, 5, 4)
	require.Equal(t, a, b)
}

func TestHilbertEncodeDistinctPointsGetDistinctCodes(t *testing.T) {
	seen := make(map[uint64]bool)
	dupes := 0
	for x := uint32(0); x < 16; x++ {
		for y := uint32(0); y < 16; y++ {
			code := HilbertEncode(x, y, 4)
			if seen[code] {
				dupes++
			}
			seen[code] = true
		}
	}
	require.Equal(t, 0, dupes)
	require.Len(t, seen, 256)
}

func TestHilbertEncodeWithinRange(t *testing.T) {
	const bits = 6
	max := uint64(1) << (2 * bits)
	for x := uint32(0); x < 1<<bits; x += 7 {
		for y := uint32(0); y < 1<<bits; y += 7 {
			code := HilbertEncode(x, y, bits)
			require.Less(t, code, max)
		}
	}
}

func TestHilbertF32ToU32PreservesOrder(t *testing.T) {
	values := []float32{-100.5, -1, 0, 0.5, 1, 100.25, 1e10}
	for i := 0; i+1 < len(values); i++ {
		require.Less(t, hilbertF32ToU32(values[i]), hilbertF32ToU32(values[i+1]))
	}
}

func TestHilbertF32ToU32NaNSortsLast(t *testing.T) {
	nan := hilbertF32ToU32(float32(math.NaN()))
	require.Equal(t, uint32(0xFFFFFFFF), nan)
	require.Greater(t, nan, hilbertF32ToU32(1e30))
}

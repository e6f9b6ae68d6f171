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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHaversineDistanceSamePointIsZero(t *testing.T) {
	require.Equal(t, 0.0, HaversineDistance(40.7128, -74.0060, 40.7128, -74.0060))
}

func TestHaversineDistanceNewYorkToLondon(t *testing.T) {
	d := HaversineDistance(40.7128, -74.0060, 51.5074, -0.1278)
	// Great-circle distance between NYC and London is approximately 5570 km.
	require.InDelta(t, 5570000.0, d, 20000.0)
}

func TestHaversineDistanceEquatorQuarterCircumference(t *testing.T) {
	d := HaversineDistance(0, 0, 0, 90)
	require.InDelta(t, earthRadiusMeters*math.Pi/2, d, 1.0)
}

func TestHaversineDistanceIsSymmetric(t *testing.T) {
	a := HaversineDistance(10, 20, -30, 40)
	b := HaversineDistance(-30, 40, 10, 20)
	require.InDelta(t, a, b, 1e-9)
}

func TestHaversineDistancePoles(t *testing.T) {
	d := HaversineDistance(90, 0, -90, 0)
	require.InDelta(t, earthRadiusMeters*math.Pi, d, 1.0)
}

// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package geopb

import "math"

// Affine is a 4x4 homogeneous transformation matrix applied to a vertex's
// x, y, z (m is never touched). Stored row-major; m[row][col].
type Affine [4][4]float64

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// TranslateAffine returns a pure translation.
func TranslateAffine(dx, dy, dz float64) Affine {
	a := IdentityAffine()
	a[0][3] = dx
	a[1][3] = dy
	a[2][3] = dz
	return a
}

// ScaleAffine returns a per-axis scale.
func ScaleAffine(sx, sy, sz float64) Affine {
	a := IdentityAffine()
	a[0][0] = sx
	a[1][1] = sy
	a[2][2] = sz
	return a
}

// TranslateScaleAffine scales first, then translates.
func TranslateScaleAffine(dx, dy, dz, sx, sy, sz float64) Affine {
	a := ScaleAffine(sx, sy, sz)
	a[0][3] = dx
	a[1][3] = dy
	a[2][3] = dz
	return a
}

// RotateXAffine returns a rotation of radians around the x axis.
func RotateXAffine(radians float64) Affine {
	a := IdentityAffine()
	c, s := math.Cos(radians), math.Sin(radians)
	a[1][1], a[1][2] = c, -s
	a[2][1], a[2][2] = s, c
	return a
}

// RotateYAffine returns a rotation of radians around the y axis.
func RotateYAffine(radians float64) Affine {
	a := IdentityAffine()
	c, s := math.Cos(radians), math.Sin(radians)
	a[0][0], a[0][2] = c, s
	a[2][0], a[2][2] = -s, c
	return a
}

// RotateZAffine returns a rotation of radians around the z axis.
func RotateZAffine(radians float64) Affine {
	a := IdentityAffine()
	c, s := math.Cos(radians), math.Sin(radians)
	a[0][0], a[0][1] = c, -s
	a[1][0], a[1][1] = s, c
	return a
}

// ApplyXY applies the matrix to v's x, y (z treated as 0, translation on z
// discarded), returning the transformed x, y.
func (a Affine) ApplyXY(x, y float64) (float64, float64) {
	nx := a[0][0]*x + a[0][1]*y + a[0][3]
	ny := a[1][0]*x + a[1][1]*y + a[1][3]
	return nx, ny
}

// ApplyXYZ applies the matrix to v's x, y, z, returning the transformed
// x, y, z.
func (a Affine) ApplyXYZ(x, y, z float64) (float64, float64, float64) {
	nx := a[0][0]*x + a[0][1]*y + a[0][2]*z + a[0][3]
	ny := a[1][0]*x + a[1][1]*y + a[1][2]*z + a[1][3]
	nz := a[2][0]*x + a[2][1]*y + a[2][2]*z + a[2][3]
	return nx, ny, nz
}

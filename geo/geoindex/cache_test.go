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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCacheGetOrBuildReusesEntry(t *testing.T) {
	c := NewCache()
	id := uuid.New()
	line := squareRing(0, 0, 1, 1)

	p1, err := c.GetOrBuild(id, line)
	require.NoError(t, err)
	p2, err := c.GetOrBuild(id, line)
	require.NoError(t, err)

	require.Same(t, p1, p2)
	require.Equal(t, 1, c.Len())
}

func TestCacheInvalidateForcesRebuild(t *testing.T) {
	c := NewCache()
	id := uuid.New()
	line := squareRing(0, 0, 1, 1)

	p1, err := c.GetOrBuild(id, line)
	require.NoError(t, err)

	c.Invalidate(id)
	require.Equal(t, 0, c.Len())

	p2, err := c.GetOrBuild(id, line)
	require.NoError(t, err)
	require.NotSame(t, p1, p2)
}

func TestCacheDistinctIDsGetDistinctEntries(t *testing.T) {
	c := NewCache()
	a, err := c.GetOrBuild(uuid.New(), squareRing(0, 0, 1, 1))
	require.NoError(t, err)
	b, err := c.GetOrBuild(uuid.New(), squareRing(5, 5, 6, 6))
	require.NoError(t, err)
	require.NotSame(t, a, b)
	require.Equal(t, 2, c.Len())
}

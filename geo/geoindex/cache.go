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
	"sync"

	"github.com/google/uuid"
	"github.com/ngochoawindy/sgl/geo"
)

// Cache keys prepared indexes by a caller-supplied uuid.UUID (e.g. a
// row or query id) rather than hashing the geometry's encoded bytes on
// every lookup, so a caller can amortize repeated lookups for the same
// logical geometry across a request without re-serializing it.
type Cache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Prepared
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uuid.UUID]*Prepared)}
}

// GetOrBuild returns the cached Prepared index for id, building and
// storing one over line if none exists yet.
func (c *Cache) GetOrBuild(id uuid.UUID, line *geo.Geometry) (*Prepared, error) {
	c.mu.RLock()
	if p, ok := c.entries[id]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	p, err := Build(line)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[id]; ok {
		return existing, nil
	}
	c.entries[id] = p
	return p, nil
}

// Invalidate removes id's cached entry, if any, so the next GetOrBuild
// call rebuilds it.
func (c *Cache) Invalidate(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

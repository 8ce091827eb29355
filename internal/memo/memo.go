// seehuhn.de/go/blockrender - render voxel blocks from game resource packs
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package memo implements a read-mostly memoisation cache.
package memo

import "sync"

// Cache maps keys to values computed on first use.
// Errors are returned to the caller but never stored, so a failed
// computation is retried on the next call.
//
// A Cache is safe for concurrent use.  Two goroutines which miss on the same
// key at the same time may both run the compute function; the first result
// stored wins and is returned to both.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New returns an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{items: make(map[K]V)}
}

// Get returns the cached value for key, calling compute on a miss.
func (c *Cache[K, V]) Get(key K, compute func() (V, error)) (V, error) {
	// fast path: read lock
	c.mu.RLock()
	v, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	// write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.items[key]; ok {
		return prev, nil
	}
	c.items[key] = v
	return v, nil
}

// Len returns the number of cached values.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Reset drops all cached values.
func (c *Cache[K, V]) Reset() {
	c.mu.Lock()
	clear(c.items)
	c.mu.Unlock()
}

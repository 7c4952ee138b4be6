// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache holds the in-memory mirrors of the remote catalog
// collections and keeps them consistent with the API by re-fetching whole
// collections. It also provides the Valkey connection used for sessions.
package cache

import (
	"sync"

	"catalogadmin/internal/models"
)

// EntityCache is an in-memory copy of one remote collection plus its load
// status. Contents are only ever replaced wholesale.
// All methods are safe for concurrent use.
type EntityCache[T models.Keyed] struct {
	mu     sync.RWMutex
	items  []T
	status Status
	err    error
}

// NewEntityCache returns an empty cache in StatusNone.
func NewEntityCache[T models.Keyed]() *EntityCache[T] {
	return &EntityCache[T]{}
}

// Load replaces the stored collection. The slice is copied.
func (c *EntityCache[T]) Load(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = cp
}

// SetStatus transitions the load status. Any status other than
// StatusError clears the recorded error.
func (c *EntityCache[T]) SetStatus(s Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = s
	if s != StatusError {
		c.err = nil
	}
}

// fail flips the status to StatusError. Stored items are kept.
func (c *EntityCache[T]) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusError
	c.err = err
}

// Items returns a copy of the stored collection.
func (c *EntityCache[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := make([]T, len(c.items))
	copy(cp, c.items)
	return cp
}

// Status returns the current load status.
func (c *EntityCache[T]) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Err returns the error of the last failed fetch while in StatusError.
func (c *EntityCache[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Get looks an item up by primary key.
func (c *EntityCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.Key() == key {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of stored items.
func (c *EntityCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear drops all items and resets the status to StatusNone.
func (c *EntityCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.status = StatusNone
	c.err = nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the catalog entities mirrored by the admin caches
// and the payloads sent to the remote catalog API when they are mutated.
package models

// Keyed is implemented by every cached entity. The key is the primary key
// used by the remote API: the name for taxonomy entities, the generated
// code for products.
type Keyed interface {
	Key() string
}

// Keys returns the primary keys of items in order.
func Keys[T Keyed](items []T) []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.Key())
	}
	return keys
}

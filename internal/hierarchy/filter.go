// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy derives the category -> subcategory -> item-category
// option lists used by dependent selects, and holds the selection state
// machine that keeps a form's triple consistent.
//
// Everything here is pure: results depend only on the Snapshot and the
// current selection.
package hierarchy

import (
	"catalogadmin/internal/models"
)

// Snapshot is a point-in-time view of the three hierarchy caches.
type Snapshot struct {
	Categories     []models.Category
	Subcategories  []models.Subcategory
	ItemCategories []models.ItemCategory
}

// ValidCategories returns every category. Any category is selectable.
func (s Snapshot) ValidCategories() []models.Category {
	out := make([]models.Category, len(s.Categories))
	copy(out, s.Categories)
	return out
}

// ValidSubcategories returns the subcategories whose parent is category,
// in cache order. It is empty when category is empty.
func (s Snapshot) ValidSubcategories(category string) []models.Subcategory {
	out := []models.Subcategory{}
	if category == "" {
		return out
	}
	for _, sub := range s.Subcategories {
		if sub.CategoryName == category {
			out = append(out, sub)
		}
	}
	return out
}

// ValidItemCategories returns the item-categories filed under both category
// and subcategory. It is empty when either is empty.
func (s Snapshot) ValidItemCategories(category, subcategory string) []models.ItemCategory {
	out := []models.ItemCategory{}
	if category == "" || subcategory == "" {
		return out
	}
	for _, it := range s.ItemCategories {
		if it.CategoryName == category && it.SubcategoryName == subcategory {
			out = append(out, it)
		}
	}
	return out
}

// HasCategory reports whether name is a cached category.
func (s Snapshot) HasCategory(name string) bool {
	for _, c := range s.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// subcategoryUnder reports whether sub is offered once category is chosen.
func (s Snapshot) subcategoryUnder(category, sub string) bool {
	for _, o := range s.ValidSubcategories(category) {
		if o.Name == sub {
			return true
		}
	}
	return false
}

// itemCategoryUnder reports whether item is offered for (category, sub).
func (s Snapshot) itemCategoryUnder(category, sub, item string) bool {
	for _, o := range s.ValidItemCategories(category, sub) {
		if o.Name == item {
			return true
		}
	}
	return false
}

// Orphans returns the subcategories and item-categories whose parent
// references no longer resolve against the snapshot. Stale caches can
// produce them; they are reported, not repaired.
func (s Snapshot) Orphans() ([]models.Subcategory, []models.ItemCategory) {
	var subs []models.Subcategory
	for _, sub := range s.Subcategories {
		if !s.HasCategory(sub.CategoryName) {
			subs = append(subs, sub)
		}
	}
	var items []models.ItemCategory
	for _, it := range s.ItemCategories {
		if !s.HasCategory(it.CategoryName) || !s.subcategoryUnder(it.CategoryName, it.SubcategoryName) {
			items = append(items, it)
		}
	}
	return subs, items
}

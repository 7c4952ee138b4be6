// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"errors"
	"fmt"

	"catalogadmin/internal/models"
)

// ErrInvalidSelection is returned when a value is not among the options
// currently offered for its level.
var ErrInvalidSelection = errors.New("selection is not among the offered options")

// Selection is the (category, subcategory, item-category) triple of a form.
// Empty strings mean "not selected".
type Selection struct {
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	ItemCategory string `json:"itemCategory"`
}

// Complete reports whether all three levels are selected.
func (s Selection) Complete() bool {
	return s.Category != "" && s.Subcategory != "" && s.ItemCategory != ""
}

// Options are the choices offered for each level under a selection.
type Options struct {
	Categories     []models.Category     `json:"categories"`
	Subcategories  []models.Subcategory  `json:"subcategories"`
	ItemCategories []models.ItemCategory `json:"itemCategories"`
}

// Cascade is the dependent-select state machine. Changing a level clears
// every level below it, so an inconsistent triple never persists.
type Cascade struct {
	snap Snapshot
	sel  Selection
}

// NewCascade starts a cascade over snap with sel as the initial state. The
// initial state is reconciled against snap.
func NewCascade(snap Snapshot, sel Selection) *Cascade {
	c := &Cascade{snap: snap, sel: sel}
	c.Reconcile(snap)
	return c
}

// Selection returns the current triple.
func (c *Cascade) Selection() Selection { return c.sel }

// Options returns the option lists for the current selection.
func (c *Cascade) Options() Options {
	return Options{
		Categories:     c.snap.ValidCategories(),
		Subcategories:  c.snap.ValidSubcategories(c.sel.Category),
		ItemCategories: c.snap.ValidItemCategories(c.sel.Category, c.sel.Subcategory),
	}
}

// SelectCategory sets the category. Subcategory and item-category are
// cleared whenever the value changes. An empty name unselects.
func (c *Cascade) SelectCategory(name string) error {
	if name != "" && !c.snap.HasCategory(name) {
		return fmt.Errorf("category %q: %w", name, ErrInvalidSelection)
	}
	if name != c.sel.Category {
		c.sel = Selection{Category: name}
	}
	return nil
}

// SelectSubcategory sets the subcategory, which must be offered under the
// selected category. The item-category is cleared whenever it changes.
func (c *Cascade) SelectSubcategory(name string) error {
	if name != "" && !c.snap.subcategoryUnder(c.sel.Category, name) {
		return fmt.Errorf("subcategory %q under %q: %w", name, c.sel.Category, ErrInvalidSelection)
	}
	if name != c.sel.Subcategory {
		c.sel.Subcategory = name
		c.sel.ItemCategory = ""
	}
	return nil
}

// SelectItemCategory sets the item-category, which must be offered under
// the selected category and subcategory.
func (c *Cascade) SelectItemCategory(name string) error {
	if name != "" && !c.snap.itemCategoryUnder(c.sel.Category, c.sel.Subcategory, name) {
		return fmt.Errorf("item category %q under %q/%q: %w", name, c.sel.Category, c.sel.Subcategory, ErrInvalidSelection)
	}
	c.sel.ItemCategory = name
	return nil
}

// Reconcile swaps in a fresh snapshot and clears the first level that no
// longer resolves, together with everything below it. It reports whether
// the selection changed.
func (c *Cascade) Reconcile(snap Snapshot) bool {
	c.snap = snap
	before := c.sel

	switch {
	case c.sel.Category != "" && !snap.HasCategory(c.sel.Category):
		c.sel = Selection{}
	case c.sel.Subcategory != "" && !snap.subcategoryUnder(c.sel.Category, c.sel.Subcategory):
		c.sel.Subcategory = ""
		c.sel.ItemCategory = ""
	case c.sel.ItemCategory != "" && !snap.itemCategoryUnder(c.sel.Category, c.sel.Subcategory, c.sel.ItemCategory):
		c.sel.ItemCategory = ""
	}

	// Children without a parent are meaningless.
	if c.sel.Category == "" {
		c.sel = Selection{}
	} else if c.sel.Subcategory == "" {
		c.sel.ItemCategory = ""
	}
	return c.sel != before
}

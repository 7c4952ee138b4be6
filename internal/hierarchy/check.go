// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"fmt"

	"catalogadmin/internal/models"
)

// CheckSubcategory verifies that a subcategory form names a category the
// cache offers.
func CheckSubcategory(snap Snapshot, in models.SubcategoryInput) error {
	if !snap.HasCategory(in.CategoryName) {
		return &models.ValidationError{
			Field:  "categoryName",
			Reason: fmt.Sprintf("%q is not an available category", in.CategoryName),
		}
	}
	return nil
}

// CheckItemCategory verifies that the form's subcategory is offered under
// its category, i.e. the pair could have been picked from the cascade.
func CheckItemCategory(snap Snapshot, in models.ItemCategoryInput) error {
	if !snap.HasCategory(in.CategoryName) {
		return &models.ValidationError{
			Field:  "categoryName",
			Reason: fmt.Sprintf("%q is not an available category", in.CategoryName),
		}
	}
	if !snap.subcategoryUnder(in.CategoryName, in.SubcategoryName) {
		return &models.ValidationError{
			Field:  "subcategoryName",
			Reason: fmt.Sprintf("%q is not a subcategory of %q", in.SubcategoryName, in.CategoryName),
		}
	}
	return nil
}

// CheckTriple verifies a full (category, subcategory, item-category)
// placement such as the one on a product form.
func CheckTriple(snap Snapshot, sel Selection) error {
	c := NewCascade(snap, Selection{})
	if err := c.SelectCategory(sel.Category); err != nil {
		return &models.ValidationError{Field: "category", Reason: err.Error()}
	}
	if err := c.SelectSubcategory(sel.Subcategory); err != nil {
		return &models.ValidationError{Field: "subcategory", Reason: err.Error()}
	}
	if err := c.SelectItemCategory(sel.ItemCategory); err != nil {
		return &models.ValidationError{Field: "itemCategory", Reason: err.Error()}
	}
	if !c.Selection().Complete() {
		return &models.ValidationError{Reason: "category, subcategory and item category are required"}
	}
	return nil
}

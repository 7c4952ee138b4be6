// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RequiredName(t *testing.T) {
	err := Validate(CategoryInput{Name: ""})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, "is required", ve.Reason)
	assert.True(t, IsValidation(err))
}

func TestValidate_WhitespaceNameRejected(t *testing.T) {
	err := Validate(TagInput{Name: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestValidate_TooLong(t *testing.T) {
	err := Validate(TagInput{Name: strings.Repeat("x", 61)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max 60")
}

func TestValidate_MainSectionEnum(t *testing.T) {
	assert.NoError(t, Validate(CategoryInput{Name: "Tools", MainSection: SectionProducts}))
	assert.NoError(t, Validate(CategoryInput{Name: "Tools"}))

	err := Validate(CategoryInput{Name: "Tools", MainSection: "blog"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mainSection must be one of")
}

func TestValidate_ItemCategoryParentsRequired(t *testing.T) {
	err := Validate(ItemCategoryInput{Name: "Hammer", CategoryName: "Tools"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subcategoryName")

	assert.NoError(t, Validate(ItemCategoryInput{Name: "Hammer", CategoryName: "Tools", SubcategoryName: "Drills"}))
}

func TestValidate_ProductPrice(t *testing.T) {
	in := ProductInput{
		Name: "Cordless drill", Price: decimal.RequireFromString("-1.50"),
		Category: "Tools", Subcategory: "Drills", ItemCategory: "Hammer",
	}
	err := Validate(in)
	require.Error(t, err)
	assert.Equal(t, "price must not be negative", err.Error())

	in.Price = decimal.RequireFromString("149.99")
	assert.NoError(t, Validate(in))
}

func TestValidate_ProductURLs(t *testing.T) {
	in := ProductInput{
		Name: "Cordless drill", Category: "Tools", Subcategory: "Drills", ItemCategory: "Hammer",
		ImageURL: "not a url",
	}
	err := Validate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "imageUrl")
}

func TestBuild_TrimsName(t *testing.T) {
	assert.Equal(t, "Drills", SubcategoryInput{Name: "  Drills ", CategoryName: "Tools"}.Build().Name)
	assert.Equal(t, "Tools", ItemCategoryInput{Name: "x", CategoryName: "Tools"}.Build().CategoryName)
}

func TestKeys(t *testing.T) {
	items := []Product{{Code: "P-1"}, {Code: "P-2"}}
	assert.Equal(t, []string{"P-1", "P-2"}, Keys(items))
	assert.Empty(t, Keys([]Tag{}))
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryInput is the create and rename form for a Category. On rename the
// current name is passed separately as the key and Name holds the new one.
type CategoryInput struct {
	Name        string      `json:"name" validate:"required,max=120"`
	MainSection MainSection `json:"mainSection,omitempty" validate:"omitempty,oneof=products solutions services"`
}

func (in CategoryInput) Build() Category {
	return Category{Name: strings.TrimSpace(in.Name), MainSection: in.MainSection}
}

// SubcategoryInput is the create and rename form for a Subcategory. Rename
// may also reassign the parent category.
type SubcategoryInput struct {
	Name         string `json:"name" validate:"required,max=120"`
	CategoryName string `json:"categoryName" validate:"required"`
}

func (in SubcategoryInput) Build() Subcategory {
	return Subcategory{Name: strings.TrimSpace(in.Name), CategoryName: in.CategoryName}
}

// ItemCategoryInput is the create and rename form for an ItemCategory. Both
// parents can be reassigned on rename.
type ItemCategoryInput struct {
	Name            string `json:"name" validate:"required,max=120"`
	CategoryName    string `json:"categoryName" validate:"required"`
	SubcategoryName string `json:"subcategoryName" validate:"required"`
}

func (in ItemCategoryInput) Build() ItemCategory {
	return ItemCategory{
		Name:            strings.TrimSpace(in.Name),
		CategoryName:    in.CategoryName,
		SubcategoryName: in.SubcategoryName,
	}
}

// ProductInput is the product form. ImageURL and DocumentURL are filled in
// by the upload steps before the create call.
type ProductInput struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Description  string          `json:"description,omitempty" validate:"max=5000"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category" validate:"required"`
	Subcategory  string          `json:"subcategory" validate:"required"`
	ItemCategory string          `json:"itemCategory" validate:"required"`
	ImageURL     string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
	DocumentURL  string          `json:"documentUrl,omitempty" validate:"omitempty,url"`
}

func (in ProductInput) Build() Product {
	return Product{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		Category:     in.Category,
		Subcategory:  in.Subcategory,
		ItemCategory: in.ItemCategory,
		ImageURL:     in.ImageURL,
		DocumentURL:  in.DocumentURL,
	}
}

func (in ProductInput) check() error {
	if in.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// TagInput is the create and rename form for a Tag.
type TagInput struct {
	Name string `json:"name" validate:"required,max=60"`
}

func (in TagInput) Build() Tag {
	return Tag{Name: strings.TrimSpace(in.Name)}
}

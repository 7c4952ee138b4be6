// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// MainSection tags the storefront section a category is listed under.
type MainSection string

const (
	SectionProducts  MainSection = "products"
	SectionSolutions MainSection = "solutions"
	SectionServices  MainSection = "services"
)

// SubCategorySummary is the display-only child summary embedded in a Category.
type SubCategorySummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Category is the top of the catalog hierarchy. Its name is globally unique
// and is the join key referenced by Subcategory and ItemCategory.
type Category struct {
	Name          string               `json:"name"`
	MainSection   MainSection          `json:"mainSection,omitempty"`
	SubCategories []SubCategorySummary `json:"subCategories,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func (c Category) Key() string { return c.Name }

// Subcategory belongs to exactly one Category by name.
type Subcategory struct {
	Name         string    `json:"name"`
	CategoryName string    `json:"categoryName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (s Subcategory) Key() string { return s.Name }

// ItemCategory belongs to a (category, subcategory) pair. The referenced
// subcategory must itself belong to CategoryName.
type ItemCategory struct {
	Name            string    `json:"name"`
	CategoryName    string    `json:"categoryName"`
	SubcategoryName string    `json:"subcategoryName"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (i ItemCategory) Key() string { return i.Name }

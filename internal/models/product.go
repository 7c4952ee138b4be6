// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item placed in the category hierarchy. Code is
// generated by the remote API on creation.
type Product struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Subcategory  string          `json:"subcategory"`
	ItemCategory string          `json:"itemCategory"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	DocumentURL  string          `json:"documentUrl,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (p Product) Key() string { return p.Code }

// Tag is a free-form label. Its whole state is decided by the client.
type Tag struct {
	Name string `json:"name"`
}

func (t Tag) Key() string { return t.Name }

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listview is the searchable, paginated view model shared by every
// entity list screen. It never mutates the items it is given.
package listview

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultItemsPerPage is used when a page size below 1 is requested.
const DefaultItemsPerPage = 10

// State is the user-controlled part of a view, persisted per screen in the
// admin session.
type State struct {
	Search       string `json:"search"`
	Page         int    `json:"page"`
	ItemsPerPage int    `json:"itemsPerPage"`
}

// Page is what a list screen renders.
type Page[T any] struct {
	Items        []T    `json:"items"`
	Search       string `json:"search"`
	Page         int    `json:"page"`
	ItemsPerPage int    `json:"itemsPerPage"`
	TotalPages   int    `json:"totalPages"`
	TotalItems   int    `json:"totalItems"`
}

// View filters items by a case-insensitive substring match on one text
// field and slices the result into pages.
//
// CurrentPage always stays within [1, max(1, TotalPages)]: every operation
// that can shrink the filtered set clamps it, and changing the search term
// or page size goes back to page 1.
type View[T any] struct {
	field   func(T) string
	fold    cases.Caser
	items   []T
	search  string
	page    int
	perPage int

	filtered []T
}

// New returns an empty view searching on field.
func New[T any](field func(T) string, itemsPerPage int) *View[T] {
	if itemsPerPage < 1 {
		itemsPerPage = DefaultItemsPerPage
	}
	v := &View[T]{
		field:   field,
		fold:    cases.Fold(),
		page:    1,
		perPage: itemsPerPage,
	}
	v.refilter()
	return v
}

// SetItems replaces the unfiltered collection, e.g. after a cache refresh.
func (v *View[T]) SetItems(items []T) {
	v.items = items
	v.refilter()
	v.clamp()
}

// SetSearchTerm changes the filter and returns to page 1.
func (v *View[T]) SetSearchTerm(term string) {
	v.search = term
	v.page = 1
	v.refilter()
}

// SetPage moves to page n, clamped to the valid range.
func (v *View[T]) SetPage(n int) {
	v.page = n
	v.clamp()
}

// SetItemsPerPage changes the page size and returns to page 1.
func (v *View[T]) SetItemsPerPage(n int) {
	if n < 1 {
		n = DefaultItemsPerPage
	}
	v.perPage = n
	v.page = 1
}

// Restore applies a saved state: page size, then search, then page, so the
// page is clamped against the restored filter.
func (v *View[T]) Restore(s State) {
	if s.ItemsPerPage > 0 {
		v.SetItemsPerPage(s.ItemsPerPage)
	}
	v.SetSearchTerm(s.Search)
	v.SetPage(s.Page)
}

// State returns the current user-controlled state.
func (v *View[T]) State() State {
	return State{Search: v.search, Page: v.page, ItemsPerPage: v.perPage}
}

// SearchTerm returns the current search string.
func (v *View[T]) SearchTerm() string { return v.search }

// CurrentPage returns the 1-based current page.
func (v *View[T]) CurrentPage() int { return v.page }

// ItemsPerPage returns the page size.
func (v *View[T]) ItemsPerPage() int { return v.perPage }

// FilteredItems returns the items matching the search term, in order.
func (v *View[T]) FilteredItems() []T {
	out := make([]T, len(v.filtered))
	copy(out, v.filtered)
	return out
}

// TotalPages is ceil(len(filtered) / itemsPerPage), 0 for an empty result.
func (v *View[T]) TotalPages() int {
	return (len(v.filtered) + v.perPage - 1) / v.perPage
}

// CurrentPageItems returns the slice of filtered items on the current page.
func (v *View[T]) CurrentPageItems() []T {
	start := (v.page - 1) * v.perPage
	if start >= len(v.filtered) {
		return []T{}
	}
	end := start + v.perPage
	if end > len(v.filtered) {
		end = len(v.filtered)
	}
	out := make([]T, end-start)
	copy(out, v.filtered[start:end])
	return out
}

// Page renders the current page.
func (v *View[T]) Page() Page[T] {
	return Page[T]{
		Items:        v.CurrentPageItems(),
		Search:       v.search,
		Page:         v.page,
		ItemsPerPage: v.perPage,
		TotalPages:   v.TotalPages(),
		TotalItems:   len(v.filtered),
	}
}

func (v *View[T]) refilter() {
	needle := v.fold.String(strings.TrimSpace(v.search))
	v.filtered = make([]T, 0, len(v.items))
	for _, it := range v.items {
		if needle == "" || strings.Contains(v.fold.String(v.field(it)), needle) {
			v.filtered = append(v.filtered, it)
		}
	}
	v.clamp()
}

func (v *View[T]) clamp() {
	last := v.TotalPages()
	if last < 1 {
		last = 1
	}
	if v.page > last {
		v.page = last
	}
	if v.page < 1 {
		v.page = 1
	}
}

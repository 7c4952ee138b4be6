// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"catalogadmin/internal/models"
)

// Resource is one entity collection on the remote API, e.g. /categories.
type Resource[T any] struct {
	client *Client
	path   string
	name   string
}

// NewResource binds a collection path such as "/categories".
func NewResource[T any](c *Client, name, path string) *Resource[T] {
	return &Resource[T]{client: c, path: path, name: name}
}

// Name returns the entity kind this resource serves.
func (r *Resource[T]) Name() string { return r.name }

// List fetches the whole collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	res, err := r.client.do(ctx, r.name+" list", http.MethodGet, r.path, nil)
	if err != nil {
		return nil, err
	}
	if !res.JSON {
		return nil, &Error{Op: r.name + " list", Status: http.StatusOK, Message: "expected a JSON list"}
	}
	var items []T
	if err := json.Unmarshal(res.Body, &items); err != nil {
		return nil, fmt.Errorf("api %s list decode: %w", r.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create posts a new item.
func (r *Resource[T]) Create(ctx context.Context, payload any) (Result, error) {
	return r.client.do(ctx, r.name+" create", http.MethodPost, r.path, payload)
}

// Update replaces the item identified by key.
func (r *Resource[T]) Update(ctx context.Context, key string, payload any) (Result, error) {
	return r.client.do(ctx, r.name+" update", http.MethodPut, r.itemPath(key), payload)
}

// Delete removes the item identified by key.
func (r *Resource[T]) Delete(ctx context.Context, key string) (Result, error) {
	return r.client.do(ctx, r.name+" delete", http.MethodDelete, r.itemPath(key), nil)
}

func (r *Resource[T]) itemPath(key string) string {
	return r.path + "/" + url.PathEscape(key)
}

// Catalog groups the resources of the catalog API.
type Catalog struct {
	Categories     *Resource[models.Category]
	Subcategories  *Resource[models.Subcategory]
	ItemCategories *Resource[models.ItemCategory]
	Products       *Resource[models.Product]
	Tags           *Resource[models.Tag]
}

// NewCatalog returns the resources served by c.
func NewCatalog(c *Client) *Catalog {
	return &Catalog{
		Categories:     NewResource[models.Category](c, "category", "/categories"),
		Subcategories:  NewResource[models.Subcategory](c, "subcategory", "/subcategories"),
		ItemCategories: NewResource[models.ItemCategory](c, "item-category", "/item-categories"),
		Products:       NewResource[models.Product](c, "product", "/products"),
		Tags:           NewResource[models.Tag](c, "tag", "/tags"),
	}
}

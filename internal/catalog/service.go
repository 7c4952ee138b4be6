// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog wires the entity caches, their synchronizers and the
// mutation coordinators into one Service that is passed explicitly to the
// HTTP layer.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"catalogadmin/internal/api"
	"catalogadmin/internal/cache"
	"catalogadmin/internal/hierarchy"
	"catalogadmin/internal/models"
	"catalogadmin/internal/mutation"
)

// Entity bundles everything the admin screens need for one entity kind.
type Entity[T models.Keyed, P mutation.Payload[T]] struct {
	Name string
	Sync *cache.Synchronizer[T]
	Ops  *mutation.Coordinator[T, P]
	// Search is the field the list view filters on.
	Search func(T) string
}

// Items returns the cached collection.
func (e *Entity[T, P]) Items() []T { return e.Sync.Cache().Items() }

// Config holds the collaborators of a Service.
type Config struct {
	API *api.Catalog
	// Uploader stores product attachments. Defaults to the catalog API's
	// own upload endpoint.
	Uploader Uploader
	// Journal records product-creation saga steps. Defaults to an
	// in-memory journal.
	Journal mutation.Journal
	Log     zerolog.Logger
}

// Service is the catalog admin state: one cache per entity kind plus the
// operations that keep them in line with the remote API.
type Service struct {
	Categories     *Entity[models.Category, models.CategoryInput]
	Subcategories  *Entity[models.Subcategory, models.SubcategoryInput]
	ItemCategories *Entity[models.ItemCategory, models.ItemCategoryInput]
	Products       *Entity[models.Product, models.ProductInput]
	Tags           *Entity[models.Tag, models.TagInput]

	uploader Uploader
	journal  mutation.Journal
	log      zerolog.Logger
}

// New builds the service. Nothing is fetched until Init.
func New(cfg Config) *Service {
	log := cfg.Log.With().Str("component", "catalog").Logger()
	s := &Service{
		uploader: cfg.Uploader,
		journal:  cfg.Journal,
		log:      log,
	}
	if s.journal == nil {
		s.journal = mutation.NewMemoryJournal()
	}

	categories := cache.NewSynchronizer("category", cache.NewEntityCache[models.Category](), cfg.API.Categories.List, log)
	subcategories := cache.NewSynchronizer("subcategory", cache.NewEntityCache[models.Subcategory](), cfg.API.Subcategories.List, log)
	itemCategories := cache.NewSynchronizer("item-category", cache.NewEntityCache[models.ItemCategory](), cfg.API.ItemCategories.List, log)
	products := cache.NewSynchronizer("product", cache.NewEntityCache[models.Product](), cfg.API.Products.List, log)
	tags := cache.NewSynchronizer("tag", cache.NewEntityCache[models.Tag](), cfg.API.Tags.List, log)

	// Renames cascade server-side, so children are re-read after a parent
	// changes.
	s.Categories = &Entity[models.Category, models.CategoryInput]{
		Name: "category",
		Sync: categories,
		Ops: mutation.New(mutation.Config[models.Category, models.CategoryInput]{
			Label:      "Category",
			Remote:     cfg.API.Categories,
			Sync:       categories,
			Strategy:   mutation.Refetch,
			Dependents: refreshers(subcategories.Refresh, itemCategories.Refresh, products.Refresh),
			Log:        log,
		}),
		Search: func(c models.Category) string { return c.Name },
	}

	s.Subcategories = &Entity[models.Subcategory, models.SubcategoryInput]{
		Name: "subcategory",
		Sync: subcategories,
		Ops: mutation.New(mutation.Config[models.Subcategory, models.SubcategoryInput]{
			Label:    "Subcategory",
			Remote:   cfg.API.Subcategories,
			Sync:     subcategories,
			Strategy: mutation.Refetch,
			Check: func(in models.SubcategoryInput) error {
				return hierarchy.CheckSubcategory(s.Snapshot(), in)
			},
			Dependents: refreshers(categories.Refresh, itemCategories.Refresh, products.Refresh),
			Log:        log,
		}),
		Search: func(sc models.Subcategory) string { return sc.Name },
	}

	s.ItemCategories = &Entity[models.ItemCategory, models.ItemCategoryInput]{
		Name: "item-category",
		Sync: itemCategories,
		Ops: mutation.New(mutation.Config[models.ItemCategory, models.ItemCategoryInput]{
			Label:    "Item category",
			Remote:   cfg.API.ItemCategories,
			Sync:     itemCategories,
			Strategy: mutation.Refetch,
			Check: func(in models.ItemCategoryInput) error {
				return hierarchy.CheckItemCategory(s.Snapshot(), in)
			},
			Dependents: refreshers(products.Refresh),
			Log:        log,
		}),
		Search: func(ic models.ItemCategory) string { return ic.Name },
	}

	s.Products = &Entity[models.Product, models.ProductInput]{
		Name: "product",
		Sync: products,
		Ops: mutation.New(mutation.Config[models.Product, models.ProductInput]{
			Label:    "Product",
			Remote:   cfg.API.Products,
			Sync:     products,
			Strategy: mutation.Refetch,
			Check: func(in models.ProductInput) error {
				return hierarchy.CheckTriple(s.Snapshot(), hierarchy.Selection{
					Category:     in.Category,
					Subcategory:  in.Subcategory,
					ItemCategory: in.ItemCategory,
				})
			},
			Log: log,
		}),
		Search: func(p models.Product) string { return p.Name },
	}

	s.Tags = &Entity[models.Tag, models.TagInput]{
		Name: "tag",
		Sync: tags,
		Ops: mutation.New(mutation.Config[models.Tag, models.TagInput]{
			Label:    "Tag",
			Remote:   cfg.API.Tags,
			Sync:     tags,
			Strategy: mutation.Patch,
			Log:      log,
		}),
		Search: func(t models.Tag) string { return t.Name },
	}

	return s
}

func refreshers(fns ...func(context.Context) error) []func(context.Context) error {
	return fns
}

// Snapshot captures the current hierarchy caches for filtering.
func (s *Service) Snapshot() hierarchy.Snapshot {
	return hierarchy.Snapshot{
		Categories:     s.Categories.Items(),
		Subcategories:  s.Subcategories.Items(),
		ItemCategories: s.ItemCategories.Items(),
	}
}

// Init loads every cache that was never fetched or whose last fetch
// failed, concurrently. A failing
// collection does not stop the others; the first error is returned.
func (s *Service) Init(ctx context.Context) error {
	var g errgroup.Group
	for _, fn := range s.inits() {
		fn := fn
		g.Go(func() error { return fn(ctx) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("catalog init: %w", err)
	}
	s.log.Info().Msg("catalog caches loaded")
	return nil
}

// RefreshHierarchy re-reads categories, subcategories and item categories
// concurrently. A refresh overtaken by a newer one is not an error.
func (s *Service) RefreshHierarchy(ctx context.Context) error {
	var g errgroup.Group
	for _, fn := range []func(context.Context) error{
		s.Categories.Sync.Refresh,
		s.Subcategories.Sync.Refresh,
		s.ItemCategories.Sync.Refresh,
	} {
		fn := fn
		g.Go(func() error {
			if err := fn(ctx); err != nil && !errors.Is(err, cache.ErrStaleResult) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Clear empties every cache and discards refreshes still in flight.
func (s *Service) Clear() {
	s.Categories.Sync.Clear()
	s.Subcategories.Sync.Clear()
	s.ItemCategories.Sync.Clear()
	s.Products.Sync.Clear()
	s.Tags.Sync.Clear()
	s.log.Info().Msg("catalog caches cleared")
}

func (s *Service) inits() []func(context.Context) error {
	return []func(context.Context) error{
		s.Categories.Sync.Init,
		s.Subcategories.Sync.Init,
		s.ItemCategories.Sync.Init,
		s.Products.Sync.Init,
		s.Tags.Sync.Init,
	}
}

// CacheStatus reports the load state of one collection.
type CacheStatus struct {
	Entity string       `json:"entity"`
	Status cache.Status `json:"status"`
	Count  int          `json:"count"`
	Error  string       `json:"error,omitempty"`
}

// Status reports every collection, in a fixed order.
func (s *Service) Status() []CacheStatus {
	return []CacheStatus{
		statusOf(s.Categories.Sync),
		statusOf(s.Subcategories.Sync),
		statusOf(s.ItemCategories.Sync),
		statusOf(s.Products.Sync),
		statusOf(s.Tags.Sync),
	}
}

func statusOf[T models.Keyed](sync *cache.Synchronizer[T]) CacheStatus {
	c := sync.Cache()
	st := CacheStatus{Entity: sync.Name(), Status: c.Status(), Count: c.Len()}
	if err := c.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// Orphans lists uploaded artifacts whose cleanup failed.
func (s *Service) Orphans(ctx context.Context, limit int) ([]mutation.Entry, error) {
	entries, err := s.journal.Orphans(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list orphans: %w", err)
	}
	return entries, nil
}

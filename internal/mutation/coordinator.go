// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mutation orchestrates create, update, and delete calls against
// the remote catalog API: validate, call, bring the cache back in line,
// then close the dialog and notify. Multi-step flows run as sagas.
package mutation

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"catalogadmin/internal/api"
	"catalogadmin/internal/cache"
	"catalogadmin/internal/models"
)

// Strategy decides how the cache catches up after a successful write.
type Strategy int

const (
	// Refetch re-reads the whole collection. Required whenever the server
	// fills in fields (codes, timestamps) the client cannot know.
	Refetch Strategy = iota
	// Patch edits the cached list locally. Only valid when the payload is
	// the entity's complete state.
	Patch
)

// Remote is the write side of one API resource.
type Remote interface {
	Create(ctx context.Context, payload any) (api.Result, error)
	Update(ctx context.Context, key string, payload any) (api.Result, error)
	Delete(ctx context.Context, key string) (api.Result, error)
}

// Payload is a create/rename form that can describe the resulting entity.
type Payload[T any] interface {
	Build() T
}

// Config wires a Coordinator.
type Config[T models.Keyed, P Payload[T]] struct {
	// Label is the user-facing entity name, e.g. "Category".
	Label    string
	Remote   Remote
	Sync     *cache.Synchronizer[T]
	Strategy Strategy
	// Check runs after tag validation and before the remote call.
	Check func(P) error
	// Dependents are refreshed after every successful write, e.g. the
	// subcategory cache after a category rename.
	Dependents []func(context.Context) error
	Notifier   Notifier
	Log        zerolog.Logger
}

// Coordinator runs the mutations of one entity kind.
type Coordinator[T models.Keyed, P Payload[T]] struct {
	cfg Config[T, P]
	log zerolog.Logger
}

// New builds a coordinator. A nil Notifier logs notices instead.
func New[T models.Keyed, P Payload[T]](cfg Config[T, P]) *Coordinator[T, P] {
	log := cfg.Log.With().Str("entity", cfg.Sync.Name()).Logger()
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier(log)
	}
	return &Coordinator[T, P]{cfg: cfg, log: log}
}

// WithNotifier returns a copy of c that delivers notices to n, e.g. a
// per-request Recorder.
func (c *Coordinator[T, P]) WithNotifier(n Notifier) *Coordinator[T, P] {
	if n == nil {
		return c
	}
	cp := *c
	cp.cfg.Notifier = n
	return &cp
}

// Create validates and creates an item. The dialog closes only on success;
// on failure the cache is untouched and the dialog shows the error.
func (c *Coordinator[T, P]) Create(ctx context.Context, dlg *Dialog, payload P) error {
	payload = models.Trim(payload)
	return c.run(ctx, dlg, "create", func() error {
		if err := c.validate(payload); err != nil {
			return err
		}
		res, err := c.cfg.Remote.Create(ctx, payload)
		if err != nil {
			return err
		}
		item := c.echoed(res, payload.Build())
		c.settle(ctx, func(items []T) []T { return upsert(items, item.Key(), item) })
		return nil
	}, c.cfg.Label+" created")
}

// CreateSaga is Create for items that need preparatory remote calls, such
// as file uploads. The payload and checks are validated first; then the
// saga's steps run, which may fill in payload fields, and the create call
// runs as the final step. If it fails the earlier steps are compensated.
func (c *Coordinator[T, P]) CreateSaga(ctx context.Context, dlg *Dialog, saga *Saga, payload *P, checks ...func() error) error {
	*payload = models.Trim(*payload)
	return c.run(ctx, dlg, "create", func() error {
		if err := c.validate(*payload); err != nil {
			return err
		}
		for _, check := range checks {
			if err := check(); err != nil {
				return err
			}
		}

		var item T
		saga.Add(Step{Name: "create", Do: func(ctx context.Context) (string, error) {
			res, err := c.cfg.Remote.Create(ctx, *payload)
			if err != nil {
				return "", err
			}
			item = c.echoed(res, (*payload).Build())
			return item.Key(), nil
		}})
		if err := saga.Run(ctx); err != nil {
			return err
		}

		c.settle(ctx, func(items []T) []T { return upsert(items, item.Key(), item) })
		return nil
	}, c.cfg.Label+" created")
}

// Update validates and applies a rename/reassignment of the item at key.
func (c *Coordinator[T, P]) Update(ctx context.Context, dlg *Dialog, key string, payload P) error {
	payload = models.Trim(payload)
	return c.run(ctx, dlg, "update", func() error {
		if err := c.validate(payload); err != nil {
			return err
		}
		res, err := c.cfg.Remote.Update(ctx, key, payload)
		if err != nil {
			c.dropStale(ctx, err)
			return err
		}
		item := c.echoed(res, payload.Build())
		c.settle(ctx, func(items []T) []T { return upsert(items, key, item) })
		return nil
	}, c.cfg.Label+" updated")
}

// Delete removes the item at key. On failure the list is unchanged and the
// confirmation dialog stays open in the failed state.
func (c *Coordinator[T, P]) Delete(ctx context.Context, dlg *Dialog, key string) error {
	return c.run(ctx, dlg, "delete", func() error {
		if _, err := c.cfg.Remote.Delete(ctx, key); err != nil {
			c.dropStale(ctx, err)
			return err
		}
		patched := c.cfg.Sync.Patch(func(items []T) []T { return remove(items, key) })
		if !patched || c.cfg.Strategy == Refetch {
			c.refresh(ctx)
		}
		c.refreshDependents(ctx)
		return nil
	}, c.cfg.Label+" deleted")
}

// run wraps one mutation with the dialog lifecycle and a single notice.
func (c *Coordinator[T, P]) run(ctx context.Context, dlg *Dialog, op string, fn func() error, success string) error {
	if dlg == nil {
		dlg = NewDialog()
	}
	if err := dlg.submit(); err != nil {
		c.cfg.Notifier.Notify(Notice{Level: LevelWarning, Message: UserMessage(err)})
		return err
	}

	if err := fn(); err != nil {
		msg := UserMessage(err)
		dlg.fail(msg)
		c.cfg.Notifier.Notify(Notice{Level: LevelError, Message: msg})
		if models.IsValidation(err) {
			c.log.Debug().Str("op", op).Err(err).Msg("mutation rejected")
		} else {
			c.log.Error().Str("op", op).Err(err).Msg("mutation failed")
		}
		return err
	}

	dlg.succeed()
	c.cfg.Notifier.Notify(Notice{Level: LevelSuccess, Message: success})
	c.log.Info().Str("op", op).Msg("mutation applied")
	return nil
}

func (c *Coordinator[T, P]) validate(payload P) error {
	if err := models.Validate(payload); err != nil {
		return err
	}
	if c.cfg.Check != nil {
		return c.cfg.Check(payload)
	}
	return nil
}

// echoed prefers the entity the server sent back over the local build.
func (c *Coordinator[T, P]) echoed(res api.Result, built T) T {
	var item T
	if ok, err := res.Decode(&item); ok && err == nil && item.Key() != "" {
		return item
	}
	return built
}

// settle brings the cache in line after a successful create or update.
func (c *Coordinator[T, P]) settle(ctx context.Context, patch func([]T) []T) {
	if c.cfg.Strategy != Patch || !c.cfg.Sync.Patch(patch) {
		c.refresh(ctx)
	}
	c.refreshDependents(ctx)
}

// dropStale re-reads the collection when the server no longer knows an
// item the cache still lists. The error itself is still reported.
func (c *Coordinator[T, P]) dropStale(ctx context.Context, err error) {
	if !api.IsNotFound(err) {
		return
	}
	if rerr := c.cfg.Sync.Refresh(ctx); rerr != nil && !errors.Is(rerr, cache.ErrStaleResult) {
		c.log.Warn().Err(rerr).Msg("refresh after not found failed")
	}
}

// refresh re-reads the collection. The write already succeeded, so a
// failing refresh only downgrades to a warning; the cache keeps its last
// good data with StatusError.
func (c *Coordinator[T, P]) refresh(ctx context.Context) {
	err := c.cfg.Sync.Refresh(ctx)
	if err == nil || errors.Is(err, cache.ErrStaleResult) {
		return
	}
	c.cfg.Notifier.Notify(Notice{Level: LevelWarning, Message: "Saved, but the list could not be reloaded."})
}

func (c *Coordinator[T, P]) refreshDependents(ctx context.Context) {
	for _, dep := range c.cfg.Dependents {
		if err := dep(ctx); err != nil && !errors.Is(err, cache.ErrStaleResult) {
			c.log.Warn().Err(err).Msg("dependent refresh failed")
		}
	}
}

// upsert replaces the item at key in place, or appends it.
func upsert[T models.Keyed](items []T, key string, item T) []T {
	for i := range items {
		if items[i].Key() == key {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func remove[T models.Keyed](items []T, key string) []T {
	out := items[:0]
	for _, it := range items {
		if it.Key() != key {
			out = append(out, it)
		}
	}
	return out
}

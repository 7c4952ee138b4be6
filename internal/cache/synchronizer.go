// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"catalogadmin/internal/models"
)

// ErrStaleResult is returned by Refresh when its result was discarded
// because a newer refresh, a local patch, or a Clear was applied first.
var ErrStaleResult = errors.New("stale refresh result discarded")

// FetchFunc reads the full remote collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Synchronizer refreshes an EntityCache from the remote API with
// fetch-then-replace semantics.
//
// Every refresh takes a sequence number when issued. A result is applied
// only if no later-issued refresh (or patch) has been applied yet, so the
// cache always ends on the newest data regardless of resolution order.
type Synchronizer[T models.Keyed] struct {
	name  string
	cache *EntityCache[T]
	fetch FetchFunc[T]
	log   zerolog.Logger

	mu      sync.Mutex
	issued  uint64
	applied uint64

	// status and error to restore when the newest refresh is cancelled.
	prevStatus Status
	prevErr    error
}

// NewSynchronizer binds a cache to its remote read operation.
func NewSynchronizer[T models.Keyed](name string, c *EntityCache[T], fetch FetchFunc[T], log zerolog.Logger) *Synchronizer[T] {
	return &Synchronizer[T]{
		name:  name,
		cache: c,
		fetch: fetch,
		log:   log.With().Str("entity", name).Logger(),
	}
}

// Name returns the entity kind.
func (s *Synchronizer[T]) Name() string { return s.name }

// Cache returns the synchronized cache.
func (s *Synchronizer[T]) Cache() *EntityCache[T] { return s.cache }

// Init loads the cache when it was never fetched or its last fetch failed.
// A cache that is loading or loaded is left alone.
func (s *Synchronizer[T]) Init(ctx context.Context) error {
	switch s.cache.Status() {
	case StatusNone, StatusError:
		return s.Refresh(ctx)
	}
	return nil
}

// Refresh fetches the whole collection and replaces the cache contents.
// On failure the previous items stay in place and the status becomes
// StatusError. If ctx is done by the time the fetch returns, the result is
// dropped and the previous status restored.
func (s *Synchronizer[T]) Refresh(ctx context.Context) error {
	seq := s.begin()

	items, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		s.log.Debug().Uint64("seq", seq).Uint64("applied", s.applied).Msg("discarding stale refresh")
		return ErrStaleResult
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if seq == s.issued {
			s.restore()
		}
		s.log.Debug().Uint64("seq", seq).Err(ctxErr).Msg("refresh abandoned")
		return fmt.Errorf("refresh %s: %w", s.name, ctxErr)
	}

	if err != nil {
		// An older failure must not mask a newer request still in flight.
		if seq == s.issued {
			s.cache.fail(err)
		}
		s.log.Warn().Uint64("seq", seq).Err(err).Msg("refresh failed")
		return fmt.Errorf("refresh %s: %w", s.name, err)
	}

	s.cache.Load(items)
	s.cache.SetStatus(StatusSuccess)
	s.applied = seq
	s.log.Debug().Uint64("seq", seq).Int("count", len(items)).Msg("cache refreshed")
	return nil
}

// begin issues a new sequence number and enters StatusLoading.
func (s *Synchronizer[T]) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	if st := s.cache.Status(); st != StatusLoading {
		s.prevStatus = st
		s.prevErr = s.cache.Err()
	}
	s.cache.SetStatus(StatusLoading)
	return s.issued
}

// restore puts back the status seen before the loading phase began.
// Callers hold s.mu.
func (s *Synchronizer[T]) restore() {
	if s.prevStatus == StatusError {
		s.cache.fail(s.prevErr)
		return
	}
	s.cache.SetStatus(s.prevStatus)
}

// Patch applies a local edit to the cached list and reports whether it did.
// Only a loaded cache with no fetch in flight is patched; the patch then
// counts as the newest applied state, so refreshes issued before it are
// discarded when they resolve. Otherwise nothing changes and the caller
// must Refresh to pick up the write.
func (s *Synchronizer[T]) Patch(fn func([]T) []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.Status() != StatusSuccess {
		s.log.Debug().Stringer("status", s.cache.Status()).Msg("patch skipped, cache not loaded")
		return false
	}
	s.issued++
	s.applied = s.issued
	s.cache.Load(fn(s.cache.Items()))
	s.log.Debug().Uint64("seq", s.applied).Msg("cache patched")
	return true
}

// Clear empties the cache and discards every refresh still in flight.
func (s *Synchronizer[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = s.issued
	s.cache.Clear()
	s.log.Debug().Msg("cache cleared")
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mutation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// compensateTimeout bounds the cleanup of one step after a failure.
const compensateTimeout = 15 * time.Second

// Step is one remote call of a multi-step mutation. Do returns a reference
// to what it produced (an uploaded file URL, a created key) which is handed
// to Compensate if a later step fails. A nil Compensate means the step
// cannot be undone.
type Step struct {
	Name       string
	Do         func(ctx context.Context) (ref string, err error)
	Compensate func(ctx context.Context, ref string) error
}

// SagaError reports which step failed and which artifacts were left behind
// because their compensation failed too.
type SagaError struct {
	SagaID  uuid.UUID
	Step    string
	Err     error
	Orphans []string
}

func (e *SagaError) Error() string {
	if len(e.Orphans) > 0 {
		return fmt.Sprintf("saga %s: step %s: %v (orphaned: %v)", e.SagaID, e.Step, e.Err, e.Orphans)
	}
	return fmt.Sprintf("saga %s: step %s: %v", e.SagaID, e.Step, e.Err)
}

func (e *SagaError) Unwrap() error { return e.Err }

// Saga runs steps in order, records each outcome in the journal, and on
// failure compensates the completed steps in reverse order, best effort.
// Artifacts whose compensation fails are journaled as orphaned.
type Saga struct {
	id      uuid.UUID
	name    string
	steps   []Step
	journal Journal
	log     zerolog.Logger
}

// NewSaga starts an empty saga.
func NewSaga(name string, journal Journal, log zerolog.Logger) *Saga {
	if journal == nil {
		journal = NewMemoryJournal()
	}
	id := uuid.New()
	return &Saga{
		id:      id,
		name:    name,
		journal: journal,
		log:     log.With().Str("saga", name).Str("saga_id", id.String()).Logger(),
	}
}

// ID identifies this run in the journal.
func (s *Saga) ID() uuid.UUID { return s.id }

// Add appends a step.
func (s *Saga) Add(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Run executes the saga.
func (s *Saga) Run(ctx context.Context) error {
	type done struct {
		step Step
		ref  string
	}
	var completed []done

	for _, step := range s.steps {
		ref, err := step.Do(ctx)
		if err != nil {
			s.record(ctx, step.Name, ref, StepFailed, err)
			s.log.Warn().Str("step", step.Name).Err(err).Msg("saga step failed, compensating")

			orphans := make([]string, 0, len(completed))
			for i := len(completed) - 1; i >= 0; i-- {
				if ok := s.compensate(ctx, completed[i].step, completed[i].ref); !ok {
					orphans = append(orphans, completed[i].ref)
				}
			}
			if len(orphans) == 0 {
				orphans = nil
			}
			return &SagaError{SagaID: s.id, Step: step.Name, Err: err, Orphans: orphans}
		}
		s.record(ctx, step.Name, ref, StepDone, nil)
		completed = append(completed, done{step: step, ref: ref})
	}

	s.log.Debug().Int("steps", len(s.steps)).Msg("saga completed")
	return nil
}

// compensate undoes one completed step. It keeps running after the caller
// cancels, bounded by compensateTimeout.
func (s *Saga) compensate(ctx context.Context, step Step, ref string) bool {
	if step.Compensate == nil || ref == "" {
		return true
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	if err := step.Compensate(cctx, ref); err != nil {
		s.record(cctx, step.Name, ref, StepOrphaned, err)
		s.log.Error().Str("step", step.Name).Str("ref", ref).Err(err).Msg("compensation failed, artifact orphaned")
		return false
	}
	s.record(cctx, step.Name, ref, StepCompensated, nil)
	return true
}

// record journals a step outcome. Journaling is best effort.
func (s *Saga) record(ctx context.Context, step, ref string, status StepStatus, err error) {
	e := Entry{
		SagaID:     s.id,
		Saga:       s.name,
		Step:       step,
		Ref:        ref,
		Status:     status,
		RecordedAt: time.Now(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	if jerr := s.journal.Record(context.WithoutCancel(ctx), e); jerr != nil {
		s.log.Warn().Str("step", step).Err(jerr).Msg("failed to journal saga step")
	}
}

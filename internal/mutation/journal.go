// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mutation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StepStatus is the outcome of a saga step as recorded in the journal.
type StepStatus string

const (
	StepDone        StepStatus = "done"
	StepFailed      StepStatus = "failed"
	StepCompensated StepStatus = "compensated"
	StepOrphaned    StepStatus = "orphaned"
)

// Entry is one journal line.
type Entry struct {
	ID         int64      `json:"id,omitempty"`
	SagaID     uuid.UUID  `json:"sagaId"`
	Saga       string     `json:"saga"`
	Step       string     `json:"step"`
	Ref        string     `json:"ref,omitempty"`
	Status     StepStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	RecordedAt time.Time  `json:"recordedAt"`
}

// Journal stores saga step outcomes so orphaned artifacts can be found
// and cleaned up later.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	// Orphans returns the most recent orphaned entries, newest first.
	Orphans(ctx context.Context, limit int) ([]Entry, error)
}

// MemoryJournal keeps entries in process. Used when no database is
// configured and in tests.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryJournal returns an empty journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Record(_ context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	e.ID = int64(len(j.entries) + 1)
	j.entries = append(j.entries, e)
	return nil
}

func (j *MemoryJournal) Orphans(_ context.Context, limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []Entry
	for i := len(j.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if j.entries[i].Status == StepOrphaned {
			out = append(out, j.entries[i])
		}
	}
	return out, nil
}

// Entries returns every recorded entry in order.
func (j *MemoryJournal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

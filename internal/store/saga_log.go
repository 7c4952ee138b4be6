// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// saga_log.go persists the outcome of every saga step so artifacts left
// behind by a failed compensation can be found and removed later.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"catalogadmin/internal/mutation"
)

// SagaLogStore is the PostgreSQL mutation.Journal.
type SagaLogStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSagaLogStore creates a new SagaLogStore.
func NewSagaLogStore(db *sql.DB, log zerolog.Logger) *SagaLogStore {
	return &SagaLogStore{db: db, log: log.With().Str("component", "saga_log").Logger()}
}

var _ mutation.Journal = (*SagaLogStore)(nil)

const sagaLogColumns = `id, saga_id, saga, step, ref, status, error, recorded_at`

// Record appends one step outcome.
func (s *SagaLogStore) Record(ctx context.Context, e mutation.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saga_log (saga_id, saga, step, ref, status, error, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.SagaID, e.Saga, e.Step, e.Ref, string(e.Status), e.Error, e.RecordedAt)
	if err != nil {
		return fmt.Errorf("record saga step: %w", err)
	}
	s.log.Debug().
		Str("saga_id", e.SagaID.String()).
		Str("step", e.Step).
		Str("status", string(e.Status)).
		Msg("saga step recorded")
	return nil
}

// Orphans returns the most recent orphaned artifacts, newest first.
func (s *SagaLogStore) Orphans(ctx context.Context, limit int) ([]mutation.Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sagaLogColumns+`
		FROM saga_log
		WHERE status = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2
	`, string(mutation.StepOrphaned), limit)
	if err != nil {
		return nil, fmt.Errorf("query orphans: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// BySaga returns every step of one saga run in recording order.
func (s *SagaLogStore) BySaga(ctx context.Context, sagaID uuid.UUID) ([]mutation.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sagaLogColumns+`
		FROM saga_log
		WHERE saga_id = $1
		ORDER BY id
	`, sagaID)
	if err != nil {
		return nil, fmt.Errorf("query saga %s: %w", sagaID, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]mutation.Entry, error) {
	var entries []mutation.Entry
	for rows.Next() {
		var (
			e      mutation.Entry
			status string
		)
		if err := rows.Scan(&e.ID, &e.SagaID, &e.Saga, &e.Step, &e.Ref, &status, &e.Error, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan saga log: %w", err)
		}
		e.Status = mutation.StepStatus(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AutomationRunRepository implements domain.AutomationRunRepository using PostgreSQL
type AutomationRunRepository struct {
	pool *pgxpool.Pool
}

// NewAutomationRunRepository creates a new AutomationRunRepository
func NewAutomationRunRepository(pool *pgxpool.Pool) *AutomationRunRepository {
	return &AutomationRunRepository{pool: pool}
}

// ListFailedSince retrieves failed runs started at or after since for an
// organisation, most recent first.
func (r *AutomationRunRepository) ListFailedSince(ctx context.Context, organisationID uuid.UUID, since time.Time, limit int) ([]*domain.AutomationRun, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ar.id, ar.automation_id, a.name, ar.status, ar.started_at, ar.finished_at, ar.error_message
		FROM automation_runs ar
		JOIN automations a ON a.id = ar.automation_id
		WHERE a.organisation_id = $1
		  AND ar.status = 'failed'
		  AND ar.started_at >= $2
		ORDER BY ar.started_at DESC
		LIMIT $3`, organisationID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.AutomationRun
	for rows.Next() {
		var (
			run              domain.AutomationRun
			id, automationID pgtype.UUID
			finishedAt       pgtype.Timestamptz
			errorMessage     pgtype.Text
		)
		if err := rows.Scan(&id, &automationID, &run.AutomationName, &run.Status,
			&run.StartedAt, &finishedAt, &errorMessage); err != nil {
			return nil, err
		}
		run.ID = pgUUID(id)
		run.AutomationID = pgUUID(automationID)
		if finishedAt.Valid {
			t := finishedAt.Time
			run.FinishedAt = &t
		}
		run.ErrorMessage = textPtr(errorMessage)
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

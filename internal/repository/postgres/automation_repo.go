package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AutomationRepository implements domain.AutomationRepository using PostgreSQL
type AutomationRepository struct {
	pool *pgxpool.Pool
}

// NewAutomationRepository creates a new AutomationRepository
func NewAutomationRepository(pool *pgxpool.Pool) *AutomationRepository {
	return &AutomationRepository{pool: pool}
}

// ListScheduled retrieves enabled automations of outlook-projectable
// types whose next run falls inside [from, to], soonest first.
func (r *AutomationRepository) ListScheduled(ctx context.Context, organisationID uuid.UUID, from, to time.Time, limit int) ([]*domain.Automation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organisation_id, name, enabled, type, schedule, next_run_at,
		       template_expense_id, template_transaction_id
		FROM automations
		WHERE organisation_id = $1
		  AND enabled
		  AND type IN ('recurring_transaction', 'contract_billing_run')
		  AND next_run_at >= $2
		  AND next_run_at <= $3
		ORDER BY next_run_at
		LIMIT $4`, organisationID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var automations []*domain.Automation
	for rows.Next() {
		var (
			a           domain.Automation
			id, orgID   pgtype.UUID
			nextRunAt   pgtype.Timestamptz
			templateExp pgtype.UUID
			templateTx  pgtype.UUID
		)
		if err := rows.Scan(&id, &orgID, &a.Name, &a.Enabled, &a.Type, &a.Schedule,
			&nextRunAt, &templateExp, &templateTx); err != nil {
			return nil, err
		}
		a.ID = pgUUID(id)
		a.OrganisationID = pgUUID(orgID)
		if nextRunAt.Valid {
			t := nextRunAt.Time
			a.NextRunAt = &t
		}
		a.TemplateExpenseID = pgUUIDPtr(templateExp)
		a.TemplateTransactionID = pgUUIDPtr(templateTx)
		automations = append(automations, &a)
	}
	return automations, rows.Err()
}

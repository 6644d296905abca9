package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// ListByOrganisation retrieves expenses with from <= occurred_at < to.
// Cancelled expenses are excluded at the source.
func (r *ExpenseRepository) ListByOrganisation(ctx context.Context, organisationID uuid.UUID, from, to time.Time) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organisation_id, house_id, name, amount::text, scope, category, status, origin, occurred_at
		FROM expenses
		WHERE organisation_id = $1
		  AND occurred_at >= $2
		  AND occurred_at < $3
		  AND status <> 'cancelled'`, organisationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// GetByID retrieves an expense by its ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, organisation_id, house_id, name, amount::text, scope, category, status, origin, occurred_at
		FROM expenses
		WHERE id = $1`, id)

	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return e, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e         domain.Expense
		id, orgID pgtype.UUID
		houseID   pgtype.UUID
	)
	if err := row.Scan(&id, &orgID, &houseID, &e.Name, &e.Amount, &e.Scope, &e.Category, &e.Status, &e.Origin, &e.OccurredAt); err != nil {
		return nil, err
	}
	e.ID = pgUUID(id)
	e.OrganisationID = pgUUID(orgID)
	e.HouseID = pgUUIDPtr(houseID)
	return &e, nil
}

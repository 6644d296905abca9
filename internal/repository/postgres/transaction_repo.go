package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// ListByResidents retrieves billing transactions for the given residents
// with from <= occurred_at < to. Amounts come back as text so parsing
// happens once, at the aggregation boundary.
func (r *TransactionRepository) ListByResidents(ctx context.Context, residentIDs []uuid.UUID, from, to time.Time) ([]*domain.BillingTransaction, error) {
	if len(residentIDs) == 0 {
		return nil, nil
	}
	if len(residentIDs) > domain.ResidentBatchSize {
		return nil, fmt.Errorf("%w: resident batch of %d exceeds %d", domain.ErrInvalidInput, len(residentIDs), domain.ResidentBatchSize)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, resident_id, amount::text, status, occurred_at
		FROM billing_transactions
		WHERE resident_id = ANY($1)
		  AND occurred_at >= $2
		  AND occurred_at < $3`, residentIDs, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.BillingTransaction
	for rows.Next() {
		tx, err := scanBillingTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// GetByID retrieves a billing transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillingTransaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, resident_id, amount::text, status, occurred_at
		FROM billing_transactions
		WHERE id = $1`, id)

	tx, err := scanBillingTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

func scanBillingTransaction(row pgx.Row) (*domain.BillingTransaction, error) {
	var (
		tx             domain.BillingTransaction
		id, residentID pgtype.UUID
	)
	if err := row.Scan(&id, &residentID, &tx.Amount, &tx.Status, &tx.OccurredAt); err != nil {
		return nil, err
	}
	tx.ID = pgUUID(id)
	tx.ResidentID = pgUUID(residentID)
	return &tx, nil
}

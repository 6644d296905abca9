package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContractRepository implements domain.ContractRepository using PostgreSQL.
// Contracts belong to residents, so organisation scoping joins through
// the residents table.
type ContractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository creates a new ContractRepository
func NewContractRepository(pool *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{pool: pool}
}

const contractColumns = `
	c.id, c.resident_id, res.name, c.original_amount, c.current_balance,
	c.status, c.start_date, c.end_date, c.auto_billing, c.daily_support_cost`

// ListExpiring retrieves Active contracts with an end date inside
// [from, to], ordered by end date ascending.
func (r *ContractRepository) ListExpiring(ctx context.Context, organisationID uuid.UUID, from, to time.Time, limit int) ([]*domain.FundingContract, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contractColumns+`
		FROM funding_contracts c
		JOIN residents res ON res.id = c.resident_id
		WHERE res.organisation_id = $1
		  AND c.status = 'Active'
		  AND c.end_date IS NOT NULL
		  AND c.end_date >= $2
		  AND c.end_date <= $3
		ORDER BY c.end_date
		LIMIT $4`, organisationID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContracts(rows)
}

// ListActiveOrderedByBalance retrieves Active contracts ordered by
// current balance ascending, most depleted first.
func (r *ContractRepository) ListActiveOrderedByBalance(ctx context.Context, organisationID uuid.UUID, limit int) ([]*domain.FundingContract, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contractColumns+`
		FROM funding_contracts c
		JOIN residents res ON res.id = c.resident_id
		WHERE res.organisation_id = $1
		  AND c.status = 'Active'
		ORDER BY c.current_balance
		LIMIT $2`, organisationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContracts(rows)
}

// ListActiveAutoBilling retrieves Active contracts flagged for automatic
// billing runs.
func (r *ContractRepository) ListActiveAutoBilling(ctx context.Context, organisationID uuid.UUID) ([]*domain.FundingContract, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contractColumns+`
		FROM funding_contracts c
		JOIN residents res ON res.id = c.resident_id
		WHERE res.organisation_id = $1
		  AND c.status = 'Active'
		  AND c.auto_billing`, organisationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContracts(rows)
}

func collectContracts(rows pgx.Rows) ([]*domain.FundingContract, error) {
	var contracts []*domain.FundingContract
	for rows.Next() {
		var (
			contract         domain.FundingContract
			id, residentID   pgtype.UUID
			original         pgtype.Numeric
			balance          pgtype.Numeric
			endDate          pgtype.Timestamptz
			dailySupportCost pgtype.Numeric
		)
		if err := rows.Scan(&id, &residentID, &contract.ResidentName, &original, &balance,
			&contract.Status, &contract.StartDate, &endDate, &contract.AutoBilling, &dailySupportCost); err != nil {
			return nil, err
		}
		contract.ID = pgUUID(id)
		contract.ResidentID = pgUUID(residentID)
		contract.OriginalAmount = pgNumericToDecimal(original)
		contract.CurrentBalance = pgNumericToDecimal(balance)
		contract.DailySupportCost = pgNumericToDecimal(dailySupportCost)
		if endDate.Valid {
			t := endDate.Time
			contract.EndDate = &t
		}
		contracts = append(contracts, &contract)
	}
	return contracts, rows.Err()
}

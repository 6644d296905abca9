package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClaimRepository implements domain.ClaimRepository using PostgreSQL
type ClaimRepository struct {
	pool *pgxpool.Pool
}

// NewClaimRepository creates a new ClaimRepository
func NewClaimRepository(pool *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

// ListByOrganisation retrieves all claims for an organisation
func (r *ClaimRepository) ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]*domain.Claim, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organisation_id, status, total_amount
		FROM claims
		WHERE organisation_id = $1`, organisationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*domain.Claim
	for rows.Next() {
		var (
			c         domain.Claim
			id, orgID pgtype.UUID
			total     pgtype.Numeric
		)
		if err := rows.Scan(&id, &orgID, &c.Status, &total); err != nil {
			return nil, err
		}
		c.ID = pgUUID(id)
		c.OrganisationID = pgUUID(orgID)
		c.TotalAmount = pgNumericToDecimal(total)
		claims = append(claims, &c)
	}
	return claims, rows.Err()
}

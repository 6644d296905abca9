package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResidentRepository implements domain.ResidentRepository using PostgreSQL
type ResidentRepository struct {
	pool *pgxpool.Pool
}

// NewResidentRepository creates a new ResidentRepository
func NewResidentRepository(pool *pgxpool.Pool) *ResidentRepository {
	return &ResidentRepository{pool: pool}
}

// ListByOrganisation retrieves all residents for an organisation
func (r *ResidentRepository) ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]*domain.Resident, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organisation_id, house_id, name, status
		FROM residents
		WHERE organisation_id = $1
		ORDER BY created_at`, organisationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []*domain.Resident
	for rows.Next() {
		var (
			res       domain.Resident
			id, orgID pgtype.UUID
			houseID   pgtype.UUID
		)
		if err := rows.Scan(&id, &orgID, &houseID, &res.Name, &res.Status); err != nil {
			return nil, err
		}
		res.ID = pgUUID(id)
		res.OrganisationID = pgUUID(orgID)
		res.HouseID = pgUUIDPtr(houseID)
		residents = append(residents, &res)
	}
	return residents, rows.Err()
}

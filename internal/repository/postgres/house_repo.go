package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HouseRepository implements domain.HouseRepository using PostgreSQL
type HouseRepository struct {
	pool *pgxpool.Pool
}

// NewHouseRepository creates a new HouseRepository
func NewHouseRepository(pool *pgxpool.Pool) *HouseRepository {
	return &HouseRepository{pool: pool}
}

// ListByOrganisation retrieves all houses for an organisation
func (r *HouseRepository) ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]*domain.House, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organisation_id, descriptor, address, suburb, bedrooms, status
		FROM houses
		WHERE organisation_id = $1
		ORDER BY created_at`, organisationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var houses []*domain.House
	for rows.Next() {
		var (
			h          domain.House
			id, orgID  pgtype.UUID
			descriptor pgtype.Text
			address    pgtype.Text
			suburb     pgtype.Text
		)
		if err := rows.Scan(&id, &orgID, &descriptor, &address, &suburb, &h.Bedrooms, &h.Status); err != nil {
			return nil, err
		}
		h.ID = pgUUID(id)
		h.OrganisationID = pgUUID(orgID)
		h.Descriptor = textPtr(descriptor)
		h.Address = textPtr(address)
		h.Suburb = textPtr(suburb)
		houses = append(houses, &h)
	}
	return houses, rows.Err()
}

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrganisationRepository implements domain.OrganisationRepository using PostgreSQL
type OrganisationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganisationRepository creates a new OrganisationRepository
func NewOrganisationRepository(pool *pgxpool.Pool) *OrganisationRepository {
	return &OrganisationRepository{pool: pool}
}

// GetByID retrieves an organisation by its ID
func (r *OrganisationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organisation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, timezone, created_at
		FROM organisations
		WHERE id = $1`, id)

	org, err := scanOrganisation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrganisationNotFound
		}
		return nil, err
	}
	return org, nil
}

// List retrieves all organisations
func (r *OrganisationRepository) List(ctx context.Context) ([]*domain.Organisation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, timezone, created_at
		FROM organisations
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*domain.Organisation
	for rows.Next() {
		org, err := scanOrganisation(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func scanOrganisation(row pgx.Row) (*domain.Organisation, error) {
	var (
		org domain.Organisation
		id  pgtype.UUID
	)
	if err := row.Scan(&id, &org.Name, &org.Timezone, &org.CreatedAt); err != nil {
		return nil, err
	}
	org.ID = pgUUID(id)
	return &org, nil
}

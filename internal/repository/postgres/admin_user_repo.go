package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminUserRepository implements domain.AdminUserRepository using PostgreSQL
type AdminUserRepository struct {
	pool *pgxpool.Pool
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(pool *pgxpool.Pool) *AdminUserRepository {
	return &AdminUserRepository{pool: pool}
}

// ListActiveAdmins retrieves active admin-role users for an organisation
func (r *AdminUserRepository) ListActiveAdmins(ctx context.Context, organisationID uuid.UUID) ([]*domain.AdminUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organisation_id, email, role, active
		FROM admin_users
		WHERE organisation_id = $1
		  AND role = 'admin'
		  AND active
		ORDER BY email`, organisationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.AdminUser
	for rows.Next() {
		var (
			u         domain.AdminUser
			id, orgID pgtype.UUID
		)
		if err := rows.Scan(&id, &orgID, &u.Email, &u.Role, &u.Active); err != nil {
			return nil, err
		}
		u.ID = pgUUID(id)
		u.OrganisationID = pgUUID(orgID)
		users = append(users, &u)
	}
	return users, rows.Err()
}

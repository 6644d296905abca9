package domain

import (
	"context"

	"github.com/google/uuid"
)

type AdminRole string

const (
	AdminRoleAdmin  AdminRole = "admin"
	AdminRoleStaff  AdminRole = "staff"
	AdminRoleViewer AdminRole = "viewer"
)

// AdminUser is a back-office user of the organisation. Active admins are
// the default recipient list for the daily brief.
type AdminUser struct {
	ID             uuid.UUID `json:"id"`
	OrganisationID uuid.UUID `json:"organisationId"`
	Email          string    `json:"email"`
	Role           AdminRole `json:"role"`
	Active         bool      `json:"active"`
}

type AdminUserRepository interface {
	// ListActiveAdmins returns active users with the admin role.
	ListActiveAdmins(ctx context.Context, organisationID uuid.UUID) ([]*AdminUser, error)
}

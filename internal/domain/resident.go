package domain

import (
	"context"

	"github.com/google/uuid"
)

type ResidentStatus string

const (
	ResidentStatusActive   ResidentStatus = "Active"
	ResidentStatusInactive ResidentStatus = "Inactive"
	ResidentStatusProspect ResidentStatus = "Prospect"
)

// Resident lives in at most one house. A resident without a house still
// generates billing income but never counts toward occupancy.
type Resident struct {
	ID             uuid.UUID      `json:"id"`
	OrganisationID uuid.UUID      `json:"organisationId"`
	HouseID        *uuid.UUID     `json:"houseId,omitempty"`
	Name           string         `json:"name"`
	Status         ResidentStatus `json:"status"`
}

type ResidentRepository interface {
	ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]*Resident, error)
}

package domain

import (
	"context"

	"github.com/google/uuid"
)

type HouseStatus string

const (
	HouseStatusActive      HouseStatus = "Active"
	HouseStatusDraft       HouseStatus = "Draft"
	HouseStatusDeactivated HouseStatus = "Deactivated"
)

// House is a residential property belonging to one organisation.
type House struct {
	ID             uuid.UUID   `json:"id"`
	OrganisationID uuid.UUID   `json:"organisationId"`
	Descriptor     *string     `json:"descriptor,omitempty"`
	Address        *string     `json:"address,omitempty"`
	Suburb         *string     `json:"suburb,omitempty"`
	Bedrooms       int         `json:"bedrooms"`
	Status         HouseStatus `json:"status"`
}

// Label returns the display label for a house, falling back through
// descriptor, address and suburb before giving up.
func (h *House) Label() string {
	if h.Descriptor != nil && *h.Descriptor != "" {
		return *h.Descriptor
	}
	if h.Address != nil && *h.Address != "" {
		return *h.Address
	}
	if h.Suburb != nil && *h.Suburb != "" {
		return *h.Suburb
	}
	return "Unknown"
}

type HouseRepository interface {
	ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]*House, error)
}

package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ClaimStatus string

const (
	ClaimStatusDraft         ClaimStatus = "draft"
	ClaimStatusSubmitted     ClaimStatus = "submitted"
	ClaimStatusInProgress    ClaimStatus = "in_progress"
	ClaimStatusProcessed     ClaimStatus = "processed"
	ClaimStatusAutoProcessed ClaimStatus = "auto_processed"
	ClaimStatusRejected      ClaimStatus = "rejected"
)

// InFlight reports whether a claim has been lodged and is somewhere in
// the payment pipeline.
func (s ClaimStatus) InFlight() bool {
	switch s {
	case ClaimStatusSubmitted, ClaimStatusInProgress, ClaimStatusProcessed, ClaimStatusAutoProcessed:
		return true
	}
	return false
}

// Claim is an NDIS payment claim batch.
type Claim struct {
	ID             uuid.UUID       `json:"id"`
	OrganisationID uuid.UUID       `json:"organisationId"`
	Status         ClaimStatus     `json:"status"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

type ClaimRepository interface {
	ListByOrganisation(ctx context.Context, organisationID uuid.UUID) ([]*Claim, error)
}

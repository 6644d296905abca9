package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractStatusDraft   ContractStatus = "Draft"
	ContractStatusActive  ContractStatus = "Active"
	ContractStatusExpired ContractStatus = "Expired"
)

// FundingContract is an NDIS funding agreement drawn down by billing.
type FundingContract struct {
	ID               uuid.UUID       `json:"id"`
	ResidentID       uuid.UUID       `json:"residentId"`
	ResidentName     string          `json:"residentName,omitempty"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	Status           ContractStatus  `json:"status"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          *time.Time      `json:"endDate,omitempty"`
	AutoBilling      bool            `json:"autoBilling"`
	DailySupportCost decimal.Decimal `json:"dailySupportCost"`
}

type ContractRepository interface {
	// ListExpiring returns Active contracts with a non-null end date inside
	// [from, to], ordered by end date ascending.
	ListExpiring(ctx context.Context, organisationID uuid.UUID, from, to time.Time, limit int) ([]*FundingContract, error)
	// ListActiveOrderedByBalance returns Active contracts ordered by
	// current balance ascending, most depleted first.
	ListActiveOrderedByBalance(ctx context.Context, organisationID uuid.UUID, limit int) ([]*FundingContract, error)
	// ListActiveAutoBilling returns Active contracts flagged for automatic
	// billing runs.
	ListActiveAutoBilling(ctx context.Context, organisationID uuid.UUID) ([]*FundingContract, error)
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ExpenseScope string

const (
	ExpenseScopeProperty     ExpenseScope = "property"
	ExpenseScopeOrganisation ExpenseScope = "organisation"
)

type ExpenseOrigin string

const (
	ExpenseOriginAutomation ExpenseOrigin = "automation"
	ExpenseOriginManual     ExpenseOrigin = "manual"
)

type ExpenseStatus string

const (
	ExpenseStatusPending   ExpenseStatus = "pending"
	ExpenseStatusPaid      ExpenseStatus = "paid"
	ExpenseStatusCancelled ExpenseStatus = "cancelled"
)

// Expense is a cost attributed either to a single property or to the
// organisation as a whole. An organisation-scoped expense never enters a
// house breakdown, even when a stray house reference is present.
type Expense struct {
	ID             uuid.UUID     `json:"id"`
	OrganisationID uuid.UUID     `json:"organisationId"`
	HouseID        *uuid.UUID    `json:"houseId,omitempty"`
	Name           string        `json:"name"`
	Amount         string        `json:"amount"`
	Scope          ExpenseScope  `json:"scope"`
	Category       string        `json:"category"`
	Status         ExpenseStatus `json:"status"`
	Origin         ExpenseOrigin `json:"origin"`
	OccurredAt     time.Time     `json:"occurredAt"`
}

type ExpenseRepository interface {
	// ListByOrganisation returns expenses with from <= occurred_at < to.
	ListByOrganisation(ctx context.Context, organisationID uuid.UUID, from, to time.Time) ([]*Expense, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Expense, error)
}

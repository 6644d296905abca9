package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusSubmitted TransactionStatus = "submitted"
	TransactionStatusPaid      TransactionStatus = "paid"
	TransactionStatusRejected  TransactionStatus = "rejected"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// CountsTowardTotals reports whether a transaction in this status
// contributes to income aggregates. Rejected and cancelled records
// contribute zero.
func (s TransactionStatus) CountsTowardTotals() bool {
	return s != TransactionStatusRejected && s != TransactionStatusCancelled
}

// ResidentBatchSize is the maximum number of resident ids per billing
// query. The data source caps query parameters, so larger id sets are
// chunked and the partial results summed.
const ResidentBatchSize = 100

// BillingTransaction is an income record keyed by resident. Amount stays
// a string until aggregation so a malformed value degrades to zero in one
// auditable place instead of failing the whole batch.
type BillingTransaction struct {
	ID         uuid.UUID         `json:"id"`
	ResidentID uuid.UUID         `json:"residentId"`
	Amount     string            `json:"amount"`
	Status     TransactionStatus `json:"status"`
	OccurredAt time.Time         `json:"occurredAt"`
}

type TransactionRepository interface {
	// ListByResidents returns billing transactions for the given residents
	// with from <= occurred_at < to. Callers must pass at most
	// ResidentBatchSize ids per call.
	ListByResidents(ctx context.Context, residentIDs []uuid.UUID, from, to time.Time) ([]*BillingTransaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BillingTransaction, error)
}

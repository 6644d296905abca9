package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AutomationType string

const (
	AutomationTypeRecurringTransaction AutomationType = "recurring_transaction"
	AutomationTypeContractBillingRun   AutomationType = "contract_billing_run"
	AutomationTypeMaintenanceSweep     AutomationType = "maintenance_sweep"
)

// ProjectsIntoOutlook reports whether automations of this type appear in
// the forward-looking outlook. Maintenance and other system automations
// are excluded.
func (t AutomationType) ProjectsIntoOutlook() bool {
	return t == AutomationTypeRecurringTransaction || t == AutomationTypeContractBillingRun
}

// Automation is a scheduled job definition. A recurring_transaction
// automation references either a template expense or a template
// transaction, never both.
type Automation struct {
	ID                    uuid.UUID      `json:"id"`
	OrganisationID        uuid.UUID      `json:"organisationId"`
	Name                  string         `json:"name"`
	Enabled               bool           `json:"enabled"`
	Type                  AutomationType `json:"type"`
	Schedule              string         `json:"schedule"`
	NextRunAt             *time.Time     `json:"nextRunAt,omitempty"`
	TemplateExpenseID     *uuid.UUID     `json:"templateExpenseId,omitempty"`
	TemplateTransactionID *uuid.UUID     `json:"templateTransactionId,omitempty"`
}

type AutomationRepository interface {
	// ListScheduled returns enabled automations of outlook-projectable
	// types whose next run falls inside [from, to], ordered by next run
	// ascending.
	ListScheduled(ctx context.Context, organisationID uuid.UUID, from, to time.Time, limit int) ([]*Automation, error)
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// AutomationRun records one execution of an automation.
type AutomationRun struct {
	ID             uuid.UUID  `json:"id"`
	AutomationID   uuid.UUID  `json:"automationId"`
	AutomationName string     `json:"automationName"`
	Status         RunStatus  `json:"status"`
	StartedAt      time.Time  `json:"startedAt"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
	ErrorMessage   *string    `json:"errorMessage,omitempty"`
}

type AutomationRunRepository interface {
	// ListFailedSince returns failed runs started at or after since, most
	// recent first.
	ListFailedSince(ctx context.Context, organisationID uuid.UUID, since time.Time, limit int) ([]*AutomationRun, error)
}

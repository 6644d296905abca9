package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Organisation is the tenant boundary. Every query the briefing engine
// issues is scoped to exactly one organisation.
type Organisation struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"` // IANA name, e.g. "Australia/Sydney"
	CreatedAt time.Time `json:"createdAt"`
}

type OrganisationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Organisation, error)
	List(ctx context.Context) ([]*Organisation, error)
}

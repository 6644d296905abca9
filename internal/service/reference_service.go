package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
)

// ReferenceData is the house/resident context every other briefing
// component reads. Empty result sets are valid and yield zero-valued
// metrics downstream.
type ReferenceData struct {
	OrganisationID   uuid.UUID
	Houses           []*domain.House
	HouseLabels      map[uuid.UUID]string
	ResidentHouse    map[uuid.UUID]uuid.UUID
	ResidentIDs      []uuid.UUID
	ActiveResidents  int
	TotalBedrooms    int
	OccupiedBedrooms int
}

// ReferenceService loads the organisation's houses and residents and
// builds the lookup structures the rest of the engine depends on.
type ReferenceService struct {
	houseRepo    domain.HouseRepository
	residentRepo domain.ResidentRepository
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(houseRepo domain.HouseRepository, residentRepo domain.ResidentRepository) *ReferenceService {
	return &ReferenceService{
		houseRepo:    houseRepo,
		residentRepo: residentRepo,
	}
}

// Load fetches reference data for one organisation. A failure here is
// critical: without houses and residents no other number in the brief can
// be trusted.
func (s *ReferenceService) Load(ctx context.Context, organisationID uuid.UUID) (*ReferenceData, error) {
	houses, err := s.houseRepo.ListByOrganisation(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("load houses: %w", err)
	}

	residents, err := s.residentRepo.ListByOrganisation(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("load residents: %w", err)
	}

	ref := &ReferenceData{
		OrganisationID: organisationID,
		Houses:         houses,
		HouseLabels:    make(map[uuid.UUID]string, len(houses)),
		ResidentHouse:  make(map[uuid.UUID]uuid.UUID, len(residents)),
		ResidentIDs:    make([]uuid.UUID, 0, len(residents)),
	}

	for _, h := range houses {
		ref.HouseLabels[h.ID] = h.Label()
		if h.Status == domain.HouseStatusActive {
			ref.TotalBedrooms += h.Bedrooms
		}
	}

	for _, r := range residents {
		ref.ResidentIDs = append(ref.ResidentIDs, r.ID)
		if r.HouseID != nil {
			ref.ResidentHouse[r.ID] = *r.HouseID
		}
		if r.Status == domain.ResidentStatusActive {
			ref.ActiveResidents++
			if r.HouseID != nil {
				ref.OccupiedBedrooms++
			}
		}
	}

	return ref, nil
}

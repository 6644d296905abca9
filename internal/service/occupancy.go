package service

import (
	"math"

	"github.com/havenhq/haven/haven-backend/internal/domain"
)

// CalculateOccupancy derives bedroom occupancy from reference data. The
// percentage is omitted when there are no bedrooms, and vacancy never
// goes negative even when stale data reports more occupants than beds.
func CalculateOccupancy(ref *ReferenceData) domain.OccupancySnapshot {
	snap := domain.OccupancySnapshot{
		TotalBedrooms:    ref.TotalBedrooms,
		OccupiedBedrooms: ref.OccupiedBedrooms,
	}

	vacant := ref.TotalBedrooms - ref.OccupiedBedrooms
	if vacant < 0 {
		vacant = 0
	}
	snap.VacantBedrooms = vacant

	if ref.TotalBedrooms > 0 {
		pct := int(math.Round(float64(ref.OccupiedBedrooms) / float64(ref.TotalBedrooms) * 100))
		snap.Percent = &pct
	}

	return snap
}

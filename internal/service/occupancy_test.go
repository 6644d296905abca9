package service

import (
	"testing"
)

func TestCalculateOccupancy_TypicalSplit(t *testing.T) {
	snap := CalculateOccupancy(&ReferenceData{
		TotalBedrooms:    8,
		OccupiedBedrooms: 6,
	})

	if snap.VacantBedrooms != 2 {
		t.Errorf("Expected 2 vacant bedrooms, got %d", snap.VacantBedrooms)
	}
	if snap.Percent == nil {
		t.Fatal("Expected a percentage when bedrooms exist")
	}
	if *snap.Percent != 75 {
		t.Errorf("Expected 75%%, got %d%%", *snap.Percent)
	}
}

func TestCalculateOccupancy_NoBedrooms(t *testing.T) {
	snap := CalculateOccupancy(&ReferenceData{})

	if snap.Percent != nil {
		t.Errorf("Expected no percentage with zero bedrooms, got %d", *snap.Percent)
	}
	if snap.VacantBedrooms != 0 {
		t.Errorf("Expected 0 vacant bedrooms, got %d", snap.VacantBedrooms)
	}
}

func TestCalculateOccupancy_MoreOccupantsThanBeds(t *testing.T) {
	// Stale data can report residents in deactivated houses
	snap := CalculateOccupancy(&ReferenceData{
		TotalBedrooms:    4,
		OccupiedBedrooms: 6,
	})

	if snap.VacantBedrooms != 0 {
		t.Errorf("Vacant bedrooms should clamp at 0, got %d", snap.VacantBedrooms)
	}
	if snap.Percent == nil {
		t.Fatal("Expected a percentage when bedrooms exist")
	}
	if *snap.Percent != 150 {
		t.Errorf("Expected 150%%, got %d%%", *snap.Percent)
	}
}

func TestCalculateOccupancy_Rounding(t *testing.T) {
	// 2 of 3 bedrooms = 66.67%, rounds to 67
	snap := CalculateOccupancy(&ReferenceData{
		TotalBedrooms:    3,
		OccupiedBedrooms: 2,
	})

	if snap.Percent == nil {
		t.Fatal("Expected a percentage when bedrooms exist")
	}
	if *snap.Percent != 67 {
		t.Errorf("Expected 67%%, got %d%%", *snap.Percent)
	}
}

package util

import (
	"fmt"
	"math"
	"time"

	"github.com/havenhq/haven/haven-backend/internal/domain"
)

const (
	// DefaultLookbackDays is how far back the primary window reaches.
	DefaultLookbackDays = 1
	// DefaultForwardDays is the length of the outlook window.
	DefaultForwardDays = 7
)

// BriefWindow holds every date boundary the briefing engine compares
// against, computed once in the organisation's local calendar. All
// boundaries are midnights in Location; window ends are exclusive, so
// the lookback window is [YesterdayStart, YesterdayEnd) with YesterdayEnd
// equal to the start of today.
type BriefWindow struct {
	Location        *time.Location
	Today           time.Time
	YesterdayStart  time.Time
	YesterdayEnd    time.Time
	FutureEnd       time.Time
	SevenDaysAgo    time.Time
	FourteenDaysAgo time.Time
}

// ResolveWindow computes all brief boundaries from the organisation's
// timezone and the invocation instant. Two organisations in different
// timezones get different boundary values for the same instant.
func ResolveWindow(timezone string, now time.Time, lookbackDays, forwardDays int) (*BriefWindow, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, timezone)
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if forwardDays <= 0 {
		forwardDays = DefaultForwardDays
	}

	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	return &BriefWindow{
		Location:        loc,
		Today:           today,
		YesterdayStart:  today.AddDate(0, 0, -lookbackDays),
		YesterdayEnd:    today,
		FutureEnd:       today.AddDate(0, 0, forwardDays),
		SevenDaysAgo:    today.AddDate(0, 0, -7),
		FourteenDaysAgo: today.AddDate(0, 0, -14),
	}, nil
}

// FormatDate renders a boundary as a calendar-day string.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaysUntil returns the number of whole or partial days from now until t,
// rounded up. A deadline later today counts as 1.
func DaysUntil(now, t time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

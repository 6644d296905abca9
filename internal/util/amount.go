package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a monetary string from the data source into a
// decimal. A malformed value degrades to zero so one bad record cannot
// fail a whole batch; this is the single place that coercion happens.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

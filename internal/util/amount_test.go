package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  decimal.Decimal
	}{
		{"plain integer", "500", decimal.NewFromInt(500)},
		{"two decimal places", "120.50", decimal.NewFromFloat(120.50)},
		{"negative", "-42.10", decimal.NewFromFloat(-42.10)},
		{"surrounding whitespace", "  75.00 ", decimal.NewFromFloat(75.00)},
		{"empty", "", decimal.Zero},
		{"whitespace only", "   ", decimal.Zero},
		{"malformed", "12abc", decimal.Zero},
		{"currency symbol rejected", "$100", decimal.Zero},
	}

	for _, tt := range tests {
		got := ParseAmount(tt.input)
		if !got.Equal(tt.want) {
			t.Errorf("%s: ParseAmount(%q) = %s, want %s", tt.name, tt.input, got.String(), tt.want.String())
		}
	}
}

package delivery

import (
	"context"

	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/rs/zerolog"
)

// LogDeliverer is a stand-in BriefDeliverer that records what would have
// been sent. The real rendering and email transport live in a separate
// service that consumes the snapshot over the wire.
type LogDeliverer struct {
	logger zerolog.Logger
}

// NewLogDeliverer creates a new LogDeliverer
func NewLogDeliverer(logger zerolog.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger.With().Str("component", "delivery").Logger()}
}

// Deliver logs the brief's headline numbers and recipient count
func (d *LogDeliverer) Deliver(_ context.Context, brief *domain.DailyBriefData) error {
	d.logger.Info().
		Str("org", brief.OrganisationName).
		Str("report_date", brief.ReportDate).
		Str("net", brief.Financials.Net.StringFixed(2)).
		Str("trend", string(brief.Trend.Direction)).
		Int("recipients", len(brief.Recipients)).
		Msg("brief ready for delivery")
	return nil
}

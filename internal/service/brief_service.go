package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/havenhq/haven/haven-backend/internal/util"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BriefConfig is the explicit configuration for one engine invocation.
// Nothing inside the engine reads ambient environment.
type BriefConfig struct {
	Timezone          string
	LookbackDays      int
	ForwardDays       int
	RecipientOverride []string
}

// BriefService composes the daily financial/operational brief for one
// organisation. It reads everything and writes nothing: the snapshot is a
// pure function of the data source at query time, so a failed invocation
// is safe to retry.
type BriefService struct {
	orgRepo   domain.OrganisationRepository
	adminRepo domain.AdminUserRepository
	claimRepo domain.ClaimRepository
	reference *ReferenceService
	financial *FinancialService
	outlook   *OutlookService
	risk      *RiskService
	logger    zerolog.Logger
}

// NewBriefService creates a new BriefService
func NewBriefService(
	orgRepo domain.OrganisationRepository,
	adminRepo domain.AdminUserRepository,
	claimRepo domain.ClaimRepository,
	reference *ReferenceService,
	financial *FinancialService,
	outlook *OutlookService,
	risk *RiskService,
	logger zerolog.Logger,
) *BriefService {
	return &BriefService{
		orgRepo:   orgRepo,
		adminRepo: adminRepo,
		claimRepo: claimRepo,
		reference: reference,
		financial: financial,
		outlook:   outlook,
		risk:      risk,
		logger:    logger.With().Str("component", "brief").Logger(),
	}
}

// Generate builds the snapshot for one organisation as of now. Reference
// data and the primary financial window are critical: their failure fails
// the invocation so a partial summary is never emitted. Every other
// section degrades to a zero value with a warning.
func (s *BriefService) Generate(ctx context.Context, organisationID uuid.UUID, cfg BriefConfig) (*domain.DailyBriefData, error) {
	return s.generateAt(ctx, organisationID, cfg, time.Now())
}

func (s *BriefService) generateAt(ctx context.Context, organisationID uuid.UUID, cfg BriefConfig, now time.Time) (*domain.DailyBriefData, error) {
	logger := s.logger.With().Str("org_id", organisationID.String()).Logger()

	org, err := s.orgRepo.GetByID(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("load organisation: %w", err)
	}

	timezone := org.Timezone
	if timezone == "" {
		timezone = cfg.Timezone
	}
	if timezone == "" {
		timezone = "UTC"
	}

	win, err := util.ResolveWindow(timezone, now, cfg.LookbackDays, cfg.ForwardDays)
	if err != nil {
		return nil, err
	}

	ref, err := s.reference.Load(ctx, organisationID)
	if err != nil {
		return nil, err
	}

	var (
		yesterday  *domain.WindowFinancials
		trend      *domain.TrendSnapshot
		outlook    *domain.OutlookSnapshot
		risks      *domain.RiskSnapshot
		claims     domain.ClaimsSnapshot
		recipients []string
	)

	// Fan out the independent sub-queries; only their results are shared,
	// joined before assembly.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var aggErr error
		yesterday, aggErr = s.financial.AggregateWindow(gctx, ref, win.YesterdayStart, win.YesterdayEnd)
		if aggErr != nil {
			return fmt.Errorf("aggregate lookback window: %w", aggErr)
		}
		return nil
	})

	g.Go(func() error {
		t, trendErr := s.financial.AnalyzeTrend(gctx, ref, win)
		if trendErr != nil {
			logger.Warn().Err(trendErr).Msg("trend analysis failed, reporting flat")
			t = &domain.TrendSnapshot{
				Last7Net:     decimal.Zero,
				Prior7Net:    decimal.Zero,
				ChangeAmount: decimal.Zero,
				Direction:    domain.TrendFlat,
			}
		}
		trend = t
		return nil
	})

	g.Go(func() error {
		o, outlookErr := s.outlook.Project(gctx, ref, win)
		if outlookErr != nil {
			logger.Warn().Err(outlookErr).Msg("outlook projection failed, reporting empty")
			o = &domain.OutlookSnapshot{
				ExpectedIncome:        decimal.Zero,
				ExpectedPropertyCosts: decimal.Zero,
				ExpectedOrgCosts:      decimal.Zero,
				ProjectedNet:          decimal.Zero,
				UpcomingItems:         []domain.UpcomingItem{},
			}
		}
		outlook = o
		return nil
	})

	g.Go(func() error {
		risks = s.risk.Detect(gctx, organisationID, now, win)
		return nil
	})

	g.Go(func() error {
		claims = s.summariseClaims(gctx, organisationID, logger)
		return nil
	})

	g.Go(func() error {
		recipients = s.resolveRecipients(gctx, organisationID, cfg.RecipientOverride, logger)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	brief := &domain.DailyBriefData{
		OrganisationID:   org.ID,
		OrganisationName: org.Name,
		ReportDate:       util.FormatDate(win.YesterdayStart),
		TodayDate:        util.FormatDate(win.Today),
		GeneratedAt:      now.UTC(),
		Recipients:       recipients,
		Financials: domain.DayFinancials{
			Income:            yesterday.Income,
			PropertyCosts:     yesterday.PropertyCosts,
			OrgCosts:          yesterday.OrgCosts,
			Net:               yesterday.Net,
			AutomationExpense: yesterday.AutomationExpense,
			ManualExpense:     yesterday.ManualExpense,
		},
		HouseBreakdown: houseBreakdown(yesterday),
		Occupancy:      CalculateOccupancy(ref),
		Trend:          *trend,
		Outlook:        *outlook,
		Risks:          *risks,
		Claims:         claims,
	}

	logger.Info().
		Str("report_date", brief.ReportDate).
		Str("net", brief.Financials.Net.StringFixed(2)).
		Int("recipients", len(brief.Recipients)).
		Msg("brief generated")

	return brief, nil
}

// summariseClaims buckets the claims pipeline. A query failure degrades
// to zero counts.
func (s *BriefService) summariseClaims(ctx context.Context, organisationID uuid.UUID, logger zerolog.Logger) domain.ClaimsSnapshot {
	snap := domain.ClaimsSnapshot{
		DraftTotal:    decimal.Zero,
		InFlightTotal: decimal.Zero,
	}

	claims, err := s.claimRepo.ListByOrganisation(ctx, organisationID)
	if err != nil {
		logger.Warn().Err(err).Msg("claims summary failed, reporting zero")
		return snap
	}

	for _, c := range claims {
		switch {
		case c.Status == domain.ClaimStatusDraft:
			snap.DraftCount++
			snap.DraftTotal = snap.DraftTotal.Add(c.TotalAmount)
		case c.Status.InFlight():
			snap.InFlightCount++
			snap.InFlightTotal = snap.InFlightTotal.Add(c.TotalAmount)
		}
	}
	return snap
}

// resolveRecipients uses the explicit override verbatim (minus blank
// entries) when supplied, otherwise falls back to the organisation's
// active admins. An empty result is a valid "nothing to send" outcome.
func (s *BriefService) resolveRecipients(ctx context.Context, organisationID uuid.UUID, override []string, logger zerolog.Logger) []string {
	if len(override) > 0 {
		recipients := make([]string, 0, len(override))
		for _, addr := range override {
			if strings.TrimSpace(addr) == "" {
				continue
			}
			recipients = append(recipients, addr)
		}
		return recipients
	}

	admins, err := s.adminRepo.ListActiveAdmins(ctx, organisationID)
	if err != nil {
		logger.Warn().Err(err).Msg("admin lookup failed, brief will have no recipients")
		return []string{}
	}

	recipients := make([]string, 0, len(admins))
	for _, a := range admins {
		if a.Email != "" {
			recipients = append(recipients, a.Email)
		}
	}
	return recipients
}

// houseBreakdown flattens the per-house buckets into a deterministic
// slice ordered by label. Houses with no activity are simply absent.
func houseBreakdown(w *domain.WindowFinancials) []domain.HouseFinancials {
	rows := make([]domain.HouseFinancials, 0, len(w.ByHouse))
	for id, bucket := range w.ByHouse {
		rows = append(rows, domain.HouseFinancials{
			HouseID:  id,
			Label:    bucket.Label,
			Income:   bucket.Income,
			Expenses: bucket.Expenses,
			Net:      bucket.Income.Sub(bucket.Expenses),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Label != rows[j].Label {
			return rows[i].Label < rows[j].Label
		}
		return rows[i].HouseID.String() < rows[j].HouseID.String()
	})
	return rows
}

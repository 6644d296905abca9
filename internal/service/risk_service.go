package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/havenhq/haven/haven-backend/internal/util"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// riskScanCap bounds each alert list.
	riskScanCap = 10
	// expiryWindowDays is how far ahead expiring contracts are flagged.
	expiryWindowDays = 30
	// failedRunLookback is how far back failed automation runs are scanned.
	failedRunLookback = 24 * time.Hour
	// lowBalanceCandidateLimit caps the pre-sorted candidate fetch before
	// the percentage filter runs.
	lowBalanceCandidateLimit = 50
	// riskScanTimeout bounds each scan independently so a slow query in
	// one cannot hold up the whole brief.
	riskScanTimeout = 10 * time.Second
)

// lowBalanceThresholdPct is the percent-remaining line under which a
// contract is flagged.
var lowBalanceThresholdPct = decimal.NewFromInt(20)

// RiskService runs the three independent risk scans. A failed scan
// degrades to an empty list with a warning; it never aborts the brief.
type RiskService struct {
	contractRepo domain.ContractRepository
	runRepo      domain.AutomationRunRepository
	logger       zerolog.Logger
}

// NewRiskService creates a new RiskService
func NewRiskService(contractRepo domain.ContractRepository, runRepo domain.AutomationRunRepository, logger zerolog.Logger) *RiskService {
	return &RiskService{
		contractRepo: contractRepo,
		runRepo:      runRepo,
		logger:       logger.With().Str("component", "risk").Logger(),
	}
}

// Detect runs the three scans concurrently and always returns a snapshot.
func (s *RiskService) Detect(ctx context.Context, organisationID uuid.UUID, now time.Time, win *util.BriefWindow) *domain.RiskSnapshot {
	snap := &domain.RiskSnapshot{
		ExpiringContracts:   []domain.ExpiringContractAlert{},
		FailedRuns:          []domain.FailedRunAlert{},
		LowBalanceContracts: []domain.LowBalanceAlert{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.ExpiringContracts = s.scanExpiringContracts(gctx, organisationID, now, win)
		return nil
	})
	g.Go(func() error {
		snap.FailedRuns = s.scanFailedRuns(gctx, organisationID, now)
		return nil
	})
	g.Go(func() error {
		snap.LowBalanceContracts = s.scanLowBalances(gctx, organisationID)
		return nil
	})
	_ = g.Wait()

	return snap
}

func (s *RiskService) scanExpiringContracts(ctx context.Context, organisationID uuid.UUID, now time.Time, win *util.BriefWindow) []domain.ExpiringContractAlert {
	ctx, cancel := context.WithTimeout(ctx, riskScanTimeout)
	defer cancel()

	contracts, err := s.contractRepo.ListExpiring(ctx, organisationID, win.Today, win.Today.AddDate(0, 0, expiryWindowDays), riskScanCap)
	if err != nil {
		s.logger.Warn().Err(err).Msg("expiring contract scan failed, reporting none")
		return []domain.ExpiringContractAlert{}
	}

	alerts := make([]domain.ExpiringContractAlert, 0, len(contracts))
	for _, c := range contracts {
		if c.EndDate == nil {
			continue
		}
		alerts = append(alerts, domain.ExpiringContractAlert{
			ContractID:    c.ID,
			ResidentName:  c.ResidentName,
			EndDate:       util.FormatDate(c.EndDate.In(win.Location)),
			DaysRemaining: util.DaysUntil(now, *c.EndDate),
		})
	}
	return alerts
}

func (s *RiskService) scanFailedRuns(ctx context.Context, organisationID uuid.UUID, now time.Time) []domain.FailedRunAlert {
	ctx, cancel := context.WithTimeout(ctx, riskScanTimeout)
	defer cancel()

	runs, err := s.runRepo.ListFailedSince(ctx, organisationID, now.Add(-failedRunLookback), riskScanCap)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed run scan failed, reporting none")
		return []domain.FailedRunAlert{}
	}

	alerts := make([]domain.FailedRunAlert, 0, len(runs))
	for _, r := range runs {
		alert := domain.FailedRunAlert{
			AutomationID:   r.AutomationID,
			AutomationName: r.AutomationName,
			StartedAt:      r.StartedAt,
		}
		if r.ErrorMessage != nil {
			alert.Error = *r.ErrorMessage
		}
		alerts = append(alerts, alert)
	}
	return alerts
}

// scanLowBalances fetches candidates pre-sorted by ascending balance and
// applies the percentage filter afterward, biasing the capped result
// toward the most depleted contracts when the candidate set is large.
func (s *RiskService) scanLowBalances(ctx context.Context, organisationID uuid.UUID) []domain.LowBalanceAlert {
	ctx, cancel := context.WithTimeout(ctx, riskScanTimeout)
	defer cancel()

	contracts, err := s.contractRepo.ListActiveOrderedByBalance(ctx, organisationID, lowBalanceCandidateLimit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("low balance scan failed, reporting none")
		return []domain.LowBalanceAlert{}
	}

	alerts := make([]domain.LowBalanceAlert, 0, riskScanCap)
	for _, c := range contracts {
		if len(alerts) >= riskScanCap {
			break
		}
		if !c.OriginalAmount.IsPositive() {
			continue
		}
		pct := c.CurrentBalance.Div(c.OriginalAmount).Mul(decimal.NewFromInt(100))
		if pct.IsNegative() || pct.GreaterThanOrEqual(lowBalanceThresholdPct) {
			continue
		}
		alerts = append(alerts, domain.LowBalanceAlert{
			ContractID:       c.ID,
			ResidentName:     c.ResidentName,
			CurrentBalance:   c.CurrentBalance,
			OriginalAmount:   c.OriginalAmount,
			PercentRemaining: pct.Round(1),
		})
	}
	return alerts
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/havenhq/haven/haven-backend/internal/util"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// maxScheduledAutomations bounds the outlook scan against pathological
	// schedule configurations.
	maxScheduledAutomations = 20
	// maxUpcomingItems is how many projected items the brief lists.
	maxUpcomingItems = 5
	// outlookResolveTimeout bounds each template or contract resolution so
	// one slow lookup cannot hold up the whole brief.
	outlookResolveTimeout = 10 * time.Second
)

// OutlookService expands scheduled automations into expected income and
// costs over the forward window.
type OutlookService struct {
	automationRepo  domain.AutomationRepository
	expenseRepo     domain.ExpenseRepository
	transactionRepo domain.TransactionRepository
	contractRepo    domain.ContractRepository
	logger          zerolog.Logger
}

// NewOutlookService creates a new OutlookService
func NewOutlookService(
	automationRepo domain.AutomationRepository,
	expenseRepo domain.ExpenseRepository,
	transactionRepo domain.TransactionRepository,
	contractRepo domain.ContractRepository,
	logger zerolog.Logger,
) *OutlookService {
	return &OutlookService{
		automationRepo:  automationRepo,
		expenseRepo:     expenseRepo,
		transactionRepo: transactionRepo,
		contractRepo:    contractRepo,
		logger:          logger.With().Str("component", "outlook").Logger(),
	}
}

// Project builds the outlook for [today, futureEnd]. An unresolvable
// template contributes a zero-amount, label-only entry; only the
// automation listing itself can fail the projection.
func (s *OutlookService) Project(ctx context.Context, ref *ReferenceData, win *util.BriefWindow) (*domain.OutlookSnapshot, error) {
	automations, err := s.automationRepo.ListScheduled(ctx, ref.OrganisationID, win.Today, win.FutureEnd, maxScheduledAutomations)
	if err != nil {
		return nil, fmt.Errorf("list scheduled automations: %w", err)
	}

	snap := &domain.OutlookSnapshot{
		ExpectedIncome:        decimal.Zero,
		ExpectedPropertyCosts: decimal.Zero,
		ExpectedOrgCosts:      decimal.Zero,
		UpcomingItems:         []domain.UpcomingItem{},
	}

	for _, a := range automations {
		if !a.Enabled || !a.Type.ProjectsIntoOutlook() || a.NextRunAt == nil {
			continue
		}

		item := domain.UpcomingItem{
			Date:   util.FormatDate(a.NextRunAt.In(win.Location)),
			Name:   a.Name,
			Amount: decimal.Zero,
		}

		switch a.Type {
		case domain.AutomationTypeRecurringTransaction:
			s.projectRecurring(ctx, ref, a, snap, &item)
		case domain.AutomationTypeContractBillingRun:
			s.projectBillingRun(ctx, ref, a, snap, &item)
		}

		if len(snap.UpcomingItems) < maxUpcomingItems {
			snap.UpcomingItems = append(snap.UpcomingItems, item)
		}
	}

	snap.ProjectedNet = snap.ExpectedIncome.Sub(snap.ExpectedPropertyCosts).Sub(snap.ExpectedOrgCosts)
	return snap, nil
}

// projectRecurring resolves the automation's template expense or template
// transaction and projects its amount into the matching bucket.
func (s *OutlookService) projectRecurring(ctx context.Context, ref *ReferenceData, a *domain.Automation, snap *domain.OutlookSnapshot, item *domain.UpcomingItem) {
	ctx, cancel := context.WithTimeout(ctx, outlookResolveTimeout)
	defer cancel()

	switch {
	case a.TemplateExpenseID != nil:
		tpl, err := s.expenseRepo.GetByID(ctx, *a.TemplateExpenseID)
		if err != nil {
			s.logger.Warn().Err(err).Str("automation", a.Name).Msg("template expense unresolvable, projecting zero")
			item.Category = "expense"
			return
		}
		amount := util.ParseAmount(tpl.Amount)
		item.Category = tpl.Category
		item.Amount = amount
		if tpl.Scope == domain.ExpenseScopeOrganisation {
			snap.ExpectedOrgCosts = snap.ExpectedOrgCosts.Add(amount)
			return
		}
		snap.ExpectedPropertyCosts = snap.ExpectedPropertyCosts.Add(amount)
		if tpl.HouseID != nil {
			if label, ok := ref.HouseLabels[*tpl.HouseID]; ok {
				item.HouseLabel = &label
			}
		}
	case a.TemplateTransactionID != nil:
		tpl, err := s.transactionRepo.GetByID(ctx, *a.TemplateTransactionID)
		if err != nil {
			s.logger.Warn().Err(err).Str("automation", a.Name).Msg("template transaction unresolvable, projecting zero")
			item.Category = "income"
			return
		}
		amount := util.ParseAmount(tpl.Amount)
		item.Category = "income"
		item.Amount = amount
		snap.ExpectedIncome = snap.ExpectedIncome.Add(amount)
	default:
		item.Category = "unconfigured"
	}
}

// projectBillingRun models one batch billing run covering every Active
// auto-billing contract: the expected income for the occurrence is the
// sum of daily support-item costs, not one transaction per contract.
func (s *OutlookService) projectBillingRun(ctx context.Context, ref *ReferenceData, a *domain.Automation, snap *domain.OutlookSnapshot, item *domain.UpcomingItem) {
	item.Category = "billing_run"

	ctx, cancel := context.WithTimeout(ctx, outlookResolveTimeout)
	defer cancel()

	contracts, err := s.contractRepo.ListActiveAutoBilling(ctx, ref.OrganisationID)
	if err != nil {
		s.logger.Warn().Err(err).Str("automation", a.Name).Msg("billing contracts unresolvable, projecting zero")
		return
	}

	total := decimal.Zero
	for _, c := range contracts {
		total = total.Add(c.DailySupportCost)
	}

	item.Amount = total
	snap.ExpectedIncome = snap.ExpectedIncome.Add(total)
}

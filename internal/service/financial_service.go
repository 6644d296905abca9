package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/havenhq/haven/haven-backend/internal/util"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// trendDeadband is the net-change magnitude under which week-over-week
// movement is reported as flat rather than a trend reversal.
var trendDeadband = decimal.NewFromInt(50)

// FinancialService aggregates income and costs over arbitrary date
// windows for one organisation.
type FinancialService struct {
	transactionRepo domain.TransactionRepository
	expenseRepo     domain.ExpenseRepository
}

// NewFinancialService creates a new FinancialService
func NewFinancialService(transactionRepo domain.TransactionRepository, expenseRepo domain.ExpenseRepository) *FinancialService {
	return &FinancialService{
		transactionRepo: transactionRepo,
		expenseRepo:     expenseRepo,
	}
}

// AggregateWindow computes income, property costs, organisation costs and
// per-house breakdowns for [from, to). Income is fetched per resident in
// batches of at most domain.ResidentBatchSize ids; every batch is
// attempted even when another fails, and partial results are summed, not
// overwritten. A failed batch surfaces as an error so a partial total is
// never mistaken for a complete one.
func (s *FinancialService) AggregateWindow(ctx context.Context, ref *ReferenceData, from, to time.Time) (*domain.WindowFinancials, error) {
	result := &domain.WindowFinancials{
		Income:        decimal.Zero,
		PropertyCosts: decimal.Zero,
		OrgCosts:      decimal.Zero,
		ByHouse:       make(map[uuid.UUID]*domain.HouseTotals),
	}

	var (
		mu           sync.Mutex
		transactions []*domain.BillingTransaction
		expenses     []*domain.Expense
		queryErrs    []error
	)

	g, gctx := errgroup.WithContext(ctx)

	for start := 0; start < len(ref.ResidentIDs); start += domain.ResidentBatchSize {
		end := start + domain.ResidentBatchSize
		if end > len(ref.ResidentIDs) {
			end = len(ref.ResidentIDs)
		}
		batch := ref.ResidentIDs[start:end]

		g.Go(func() error {
			rows, err := s.transactionRepo.ListByResidents(gctx, batch, from, to)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				queryErrs = append(queryErrs, fmt.Errorf("income batch of %d residents: %w", len(batch), err))
				return nil
			}
			transactions = append(transactions, rows...)
			return nil
		})
	}

	g.Go(func() error {
		rows, err := s.expenseRepo.ListByOrganisation(gctx, ref.OrganisationID, from, to)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			queryErrs = append(queryErrs, fmt.Errorf("expenses: %w", err))
			return nil
		}
		expenses = append(expenses, rows...)
		return nil
	})

	_ = g.Wait()
	if len(queryErrs) > 0 {
		return nil, errors.Join(queryErrs...)
	}

	for _, tx := range transactions {
		if !tx.Status.CountsTowardTotals() {
			continue
		}
		amount := util.ParseAmount(tx.Amount)
		result.Income = result.Income.Add(amount)

		if houseID, ok := ref.ResidentHouse[tx.ResidentID]; ok {
			bucket := s.houseBucket(result, ref, houseID)
			bucket.Income = bucket.Income.Add(amount)
		}
	}

	for _, e := range expenses {
		if e.Status == domain.ExpenseStatusCancelled {
			continue
		}
		amount := util.ParseAmount(e.Amount)

		if e.Origin == domain.ExpenseOriginAutomation {
			result.AutomationExpense++
		} else {
			result.ManualExpense++
		}

		if e.Scope == domain.ExpenseScopeOrganisation {
			// An org-scoped expense never enters a house breakdown, even
			// with a stray house reference attached.
			result.OrgCosts = result.OrgCosts.Add(amount)
			continue
		}

		result.PropertyCosts = result.PropertyCosts.Add(amount)
		if e.HouseID != nil {
			bucket := s.houseBucket(result, ref, *e.HouseID)
			bucket.Expenses = bucket.Expenses.Add(amount)
		}
	}

	result.Net = result.Income.Sub(result.PropertyCosts).Sub(result.OrgCosts)
	return result, nil
}

func (s *FinancialService) houseBucket(w *domain.WindowFinancials, ref *ReferenceData, houseID uuid.UUID) *domain.HouseTotals {
	bucket, ok := w.ByHouse[houseID]
	if !ok {
		label := ref.HouseLabels[houseID]
		if label == "" {
			label = "Unknown"
		}
		bucket = &domain.HouseTotals{
			Label:    label,
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
		w.ByHouse[houseID] = bucket
	}
	return bucket
}

// AnalyzeTrend aggregates two adjacent, non-overlapping 7-day windows and
// classifies the movement of net between them.
func (s *FinancialService) AnalyzeTrend(ctx context.Context, ref *ReferenceData, win *util.BriefWindow) (*domain.TrendSnapshot, error) {
	var last7, prior7 *domain.WindowFinancials

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		last7, err = s.AggregateWindow(gctx, ref, win.SevenDaysAgo, win.YesterdayEnd)
		return err
	})
	g.Go(func() error {
		var err error
		prior7, err = s.AggregateWindow(gctx, ref, win.FourteenDaysAgo, win.SevenDaysAgo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	change := last7.Net.Sub(prior7.Net)
	return &domain.TrendSnapshot{
		Last7Net:     last7.Net,
		Prior7Net:    prior7.Net,
		ChangeAmount: change,
		Direction:    ClassifyTrend(change),
	}, nil
}

// ClassifyTrend maps a net change onto a direction. Changes inside the
// deadband (inclusive) read as flat so noise is not flagged as a
// reversal.
func ClassifyTrend(change decimal.Decimal) domain.TrendDirection {
	switch {
	case change.GreaterThan(trendDeadband):
		return domain.TrendUp
	case change.LessThan(trendDeadband.Neg()):
		return domain.TrendDown
	default:
		return domain.TrendFlat
	}
}

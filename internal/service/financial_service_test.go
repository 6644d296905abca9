package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/havenhq/haven/haven-backend/internal/testutil"
	"github.com/havenhq/haven/haven-backend/internal/util"
	"github.com/shopspring/decimal"
)

var (
	windowFrom = time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	windowTo   = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
)

func referenceFixture(organisationID uuid.UUID, residentHouse map[uuid.UUID]uuid.UUID, labels map[uuid.UUID]string) *ReferenceData {
	ref := &ReferenceData{
		OrganisationID: organisationID,
		HouseLabels:    labels,
		ResidentHouse:  residentHouse,
	}
	for id := range residentHouse {
		ref.ResidentIDs = append(ref.ResidentIDs, id)
	}
	return ref
}

func TestAggregateWindow_BasicTotals(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	financialService := NewFinancialService(transactionRepo, expenseRepo)

	organisationID := uuid.New()
	houseID := uuid.New()
	residentID := uuid.New()

	ref := referenceFixture(organisationID,
		map[uuid.UUID]uuid.UUID{residentID: houseID},
		map[uuid.UUID]string{houseID: "12 Wattle St"})

	transactionRepo.AddTransaction(&domain.BillingTransaction{
		ID:         uuid.New(),
		ResidentID: residentID,
		Amount:     "500.00",
		Status:     domain.TransactionStatusPaid,
		OccurredAt: windowFrom.Add(10 * time.Hour),
	})
	expenseRepo.AddExpense(&domain.Expense{
		ID:             uuid.New(),
		OrganisationID: organisationID,
		HouseID:        &houseID,
		Name:           "Gardening",
		Amount:         "120.00",
		Scope:          domain.ExpenseScopeProperty,
		Status:         domain.ExpenseStatusPaid,
		Origin:         domain.ExpenseOriginAutomation,
		OccurredAt:     windowFrom.Add(11 * time.Hour),
	})
	expenseRepo.AddExpense(&domain.Expense{
		ID:             uuid.New(),
		OrganisationID: organisationID,
		Name:           "Insurance",
		Amount:         "80.00",
		Scope:          domain.ExpenseScopeOrganisation,
		Status:         domain.ExpenseStatusPending,
		Origin:         domain.ExpenseOriginManual,
		OccurredAt:     windowFrom.Add(12 * time.Hour),
	})

	result, err := financialService.AggregateWindow(context.Background(), ref, windowFrom, windowTo)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Income.StringFixed(2) != "500.00" {
		t.Errorf("Income = %s, want 500.00", result.Income.StringFixed(2))
	}
	if result.PropertyCosts.StringFixed(2) != "120.00" {
		t.Errorf("PropertyCosts = %s, want 120.00", result.PropertyCosts.StringFixed(2))
	}
	if result.OrgCosts.StringFixed(2) != "80.00" {
		t.Errorf("OrgCosts = %s, want 80.00", result.OrgCosts.StringFixed(2))
	}
	if result.Net.StringFixed(2) != "300.00" {
		t.Errorf("Net = %s, want 300.00", result.Net.StringFixed(2))
	}
	if result.AutomationExpense != 1 || result.ManualExpense != 1 {
		t.Errorf("Expense origin counts = %d/%d, want 1/1", result.AutomationExpense, result.ManualExpense)
	}

	bucket := result.ByHouse[houseID]
	if bucket == nil {
		t.Fatal("Expected a bucket for the house")
	}
	if bucket.Label != "12 Wattle St" {
		t.Errorf("Bucket label = %s, want 12 Wattle St", bucket.Label)
	}
	if bucket.Income.StringFixed(2) != "500.00" || bucket.Expenses.StringFixed(2) != "120.00" {
		t.Errorf("Bucket totals = %s/%s, want 500.00/120.00", bucket.Income.StringFixed(2), bucket.Expenses.StringFixed(2))
	}
}

func TestAggregateWindow_ExcludedTransactionStatuses(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	financialService := NewFinancialService(transactionRepo, expenseRepo)

	organisationID := uuid.New()
	residentID := uuid.New()
	ref := referenceFixture(organisationID,
		map[uuid.UUID]uuid.UUID{residentID: uuid.New()},
		map[uuid.UUID]string{})

	statuses := []struct {
		status domain.TransactionStatus
		counts bool
	}{
		{domain.TransactionStatusPending, true},
		{domain.TransactionStatusSubmitted, true},
		{domain.TransactionStatusPaid, true},
		{domain.TransactionStatusRejected, false},
		{domain.TransactionStatusCancelled, false},
	}
	for _, s := range statuses {
		transactionRepo.AddTransaction(&domain.BillingTransaction{
			ID:         uuid.New(),
			ResidentID: residentID,
			Amount:     "100.00",
			Status:     s.status,
			OccurredAt: windowFrom.Add(time.Hour),
		})
	}

	result, err := financialService.AggregateWindow(context.Background(), ref, windowFrom, windowTo)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// pending + submitted + paid = 300; rejected and cancelled excluded
	if result.Income.StringFixed(2) != "300.00" {
		t.Errorf("Income = %s, want 300.00", result.Income.StringFixed(2))
	}
}

func TestAggregateWindow_CancelledExpenseExcluded(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	financialService := NewFinancialService(transactionRepo, expenseRepo)

	organisationID := uuid.New()
	ref := referenceFixture(organisationID, map[uuid.UUID]uuid.UUID{}, map[uuid.UUID]string{})

	expenseRepo.AddExpense(&domain.Expense{
		ID:             uuid.New(),
		OrganisationID: organisationID,
		Name:           "Cancelled works",
		Amount:         "999.00",
		Scope:          domain.ExpenseScopeProperty,
		Status:         domain.ExpenseStatusCancelled,
		Origin:         domain.ExpenseOriginManual,
		OccurredAt:     windowFrom.Add(time.Hour),
	})

	result, err := financialService.AggregateWindow(context.Background(), ref, windowFrom, windowTo)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.PropertyCosts.IsZero() {
		t.Errorf("PropertyCosts = %s, want 0", result.PropertyCosts.String())
	}
	if result.ManualExpense != 0 {
		t.Errorf("ManualExpense = %d, want 0", result.ManualExpense)
	}
}

func TestAggregateWindow_OrgScopeNeverInHouseBreakdown(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	financialService := NewFinancialService(transactionRepo, expenseRepo)

	organisationID := uuid.New()
	houseID := uuid.New()
	ref := referenceFixture(organisationID, map[uuid.UUID]uuid.UUID{}, map[uuid.UUID]string{houseID: "Main"})

	// Org-scoped expense carrying a stray house reference
	expenseRepo.AddExpense(&domain.Expense{
		ID:             uuid.New(),
		OrganisationID: organisationID,
		HouseID:        &houseID,
		Name:           "Audit fees",
		Amount:         "400.00",
		Scope:          domain.ExpenseScopeOrganisation,
		Status:         domain.ExpenseStatusPaid,
		Origin:         domain.ExpenseOriginManual,
		OccurredAt:     windowFrom.Add(time.Hour),
	})

	result, err := financialService.AggregateWindow(context.Background(), ref, windowFrom, windowTo)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.OrgCosts.StringFixed(2) != "400.00" {
		t.Errorf("OrgCosts = %s, want 400.00", result.OrgCosts.StringFixed(2))
	}
	if len(result.ByHouse) != 0 {
		t.Errorf("Expected no house buckets, got %d", len(result.ByHouse))
	}
}

func TestAggregateWindow_HouselessResidentIncomeStillCounts(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	financialService := NewFinancialService(transactionRepo, expenseRepo)

	organisationID := uuid.New()
	residentID := uuid.New()
	ref := referenceFixture(organisationID, map[uuid.UUID]uuid.UUID{}, map[uuid.UUID]string{})
	ref.ResidentIDs = []uuid.UUID{residentID}

	transactionRepo.AddTransaction(&domain.BillingTransaction{
		ID:         uuid.New(),
		ResidentID: residentID,
		Amount:     "250.00",
		Status:     domain.TransactionStatusPaid,
		OccurredAt: windowFrom.Add(time.Hour),
	})

	result, err := financialService.AggregateWindow(context.Background(), ref, windowFrom, windowTo)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Income.StringFixed(2) != "250.00" {
		t.Errorf("Income = %s, want 250.00", result.Income.StringFixed(2))
	}
	if len(result.ByHouse) != 0 {
		t.Errorf("Expected no house buckets for a houseless resident, got %d", len(result.ByHouse))
	}
}

func TestAggregateWindow_MalformedAmountCountsAsZero(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	financialService := NewFinancialService(transactionRepo, expenseRepo)

	organisationID := uuid.New()
	residentID := uuid.New()
	ref := referenceFixture(organisationID, map[uuid.UUID]uuid.UUID{}, map[uuid.UUID]string{})
	ref.ResidentIDs = []uuid.UUID{residentID}

	transactionRepo.AddTransaction(&domain.BillingTransaction{
		ID:         uuid.New(),
		ResidentID: residentID,
		Amount:     "not-a-number",
		Status:     domain.TransactionStatusPaid,
		OccurredAt: windowFrom.Add(time.Hour),
	})
	transactionRepo.AddTransaction(&domain.BillingTransaction{
		ID:         uuid.New(),
		ResidentID: residentID,
		Amount:     "100.00",
		Status:     domain.TransactionStatusPaid,
		OccurredAt: windowFrom.Add(2 * time.Hour),
	})

	result, err := financialService.AggregateWindow(context.Background(), ref, windowFrom, windowTo)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Income.StringFixed(2) != "100.00" {
		t.Errorf("Income = %s, want 100.00", result.Income.StringFixed(2))
	}
}

func TestAggregateWindow_ChunksResidentsIntoBatches(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	financialService := NewFinancialService(transactionRepo, expenseRepo)

	organisationID := uuid.New()
	ref := referenceFixture(organisationID, map[uuid.UUID]uuid.UUID{}, map[uuid.UUID]string{})

	// 250 residents, one transaction each
	for i := 0; i < 250; i++ {
		residentID := uuid.New()
		ref.ResidentIDs = append(ref.ResidentIDs, residentID)
		transactionRepo.AddTransaction(&domain.BillingTransaction{
			ID:         uuid.New(),
			ResidentID: residentID,
			Amount:     "1.00",
			Status:     domain.TransactionStatusPaid,
			OccurredAt: windowFrom.Add(time.Hour),
		})
	}

	result, err := financialService.AggregateWindow(context.Background(), ref, windowFrom, windowTo)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(transactionRepo.Batches) != 3 {
		t.Fatalf("Expected 3 batches for 250 residents, got %d", len(transactionRepo.Batches))
	}
	sizes := map[int]int{}
	for _, batch := range transactionRepo.Batches {
		if len(batch) > domain.ResidentBatchSize {
			t.Errorf("Batch of %d exceeds the %d-resident limit", len(batch), domain.ResidentBatchSize)
		}
		sizes[len(batch)]++
	}
	if sizes[100] != 2 || sizes[50] != 1 {
		t.Errorf("Expected batch sizes 100/100/50, got %v", sizes)
	}
	if result.Income.StringFixed(2) != "250.00" {
		t.Errorf("Income = %s, want 250.00 (all batches summed)", result.Income.StringFixed(2))
	}
}

func TestAggregateWindow_BatchFailureFailsAggregate(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	financialService := NewFinancialService(transactionRepo, expenseRepo)

	organisationID := uuid.New()
	ref := referenceFixture(organisationID, map[uuid.UUID]uuid.UUID{}, map[uuid.UUID]string{})
	for i := 0; i < 250; i++ {
		ref.ResidentIDs = append(ref.ResidentIDs, uuid.New())
	}

	transactionRepo.Err = context.DeadlineExceeded

	_, err := financialService.AggregateWindow(context.Background(), ref, windowFrom, windowTo)
	if err == nil {
		t.Fatal("Expected an error when a batch fails")
	}

	// Every batch was still attempted, not short-circuited at the first failure
	if len(transactionRepo.Batches) != 3 {
		t.Errorf("Expected all 3 batches attempted, got %d", len(transactionRepo.Batches))
	}
}

func TestAnalyzeTrend_AdjacentWindows(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	financialService := NewFinancialService(transactionRepo, expenseRepo)

	organisationID := uuid.New()
	residentID := uuid.New()
	ref := referenceFixture(organisationID, map[uuid.UUID]uuid.UUID{}, map[uuid.UUID]string{})
	ref.ResidentIDs = []uuid.UUID{residentID}

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	win, err := util.ResolveWindow("UTC", now, 1, 7)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Last 7 days: 600; prior 7 days: 400
	transactionRepo.AddTransaction(&domain.BillingTransaction{
		ID:         uuid.New(),
		ResidentID: residentID,
		Amount:     "600.00",
		Status:     domain.TransactionStatusPaid,
		OccurredAt: win.SevenDaysAgo.Add(24 * time.Hour),
	})
	transactionRepo.AddTransaction(&domain.BillingTransaction{
		ID:         uuid.New(),
		ResidentID: residentID,
		Amount:     "400.00",
		Status:     domain.TransactionStatusPaid,
		OccurredAt: win.FourteenDaysAgo.Add(24 * time.Hour),
	})

	trend, err := financialService.AnalyzeTrend(context.Background(), ref, win)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if trend.Last7Net.StringFixed(2) != "600.00" {
		t.Errorf("Last7Net = %s, want 600.00", trend.Last7Net.StringFixed(2))
	}
	if trend.Prior7Net.StringFixed(2) != "400.00" {
		t.Errorf("Prior7Net = %s, want 400.00", trend.Prior7Net.StringFixed(2))
	}
	if trend.ChangeAmount.StringFixed(2) != "200.00" {
		t.Errorf("ChangeAmount = %s, want 200.00", trend.ChangeAmount.StringFixed(2))
	}
	if trend.Direction != domain.TrendUp {
		t.Errorf("Direction = %s, want up", trend.Direction)
	}
}

func TestClassifyTrend_Deadband(t *testing.T) {
	tests := []struct {
		change string
		want   domain.TrendDirection
	}{
		{"51", domain.TrendUp},
		{"50.01", domain.TrendUp},
		{"50", domain.TrendFlat},
		{"0", domain.TrendFlat},
		{"-50", domain.TrendFlat},
		{"-50.01", domain.TrendDown},
		{"-51", domain.TrendDown},
	}

	for _, tt := range tests {
		change, err := decimal.NewFromString(tt.change)
		if err != nil {
			t.Fatalf("bad fixture %q: %v", tt.change, err)
		}
		if got := ClassifyTrend(change); got != tt.want {
			t.Errorf("ClassifyTrend(%s) = %s, want %s", tt.change, got, tt.want)
		}
	}
}

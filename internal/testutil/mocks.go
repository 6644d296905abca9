package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
)

// MockOrganisationRepository is a mock implementation of domain.OrganisationRepository
type MockOrganisationRepository struct {
	Organisations map[uuid.UUID]*domain.Organisation
	Err           error
}

// NewMockOrganisationRepository creates a new MockOrganisationRepository
func NewMockOrganisationRepository() *MockOrganisationRepository {
	return &MockOrganisationRepository{
		Organisations: make(map[uuid.UUID]*domain.Organisation),
	}
}

// AddOrganisation adds an organisation to the mock repository
func (m *MockOrganisationRepository) AddOrganisation(org *domain.Organisation) {
	m.Organisations[org.ID] = org
}

// GetByID retrieves an organisation by ID
func (m *MockOrganisationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Organisation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if org, ok := m.Organisations[id]; ok {
		return org, nil
	}
	return nil, domain.ErrOrganisationNotFound
}

// List retrieves all organisations
func (m *MockOrganisationRepository) List(_ context.Context) ([]*domain.Organisation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	orgs := make([]*domain.Organisation, 0, len(m.Organisations))
	for _, org := range m.Organisations {
		orgs = append(orgs, org)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].ID.String() < orgs[j].ID.String() })
	return orgs, nil
}

// MockHouseRepository is a mock implementation of domain.HouseRepository
type MockHouseRepository struct {
	Houses []*domain.House
	Err    error
}

// NewMockHouseRepository creates a new MockHouseRepository
func NewMockHouseRepository() *MockHouseRepository {
	return &MockHouseRepository{}
}

// AddHouse adds a house to the mock repository
func (m *MockHouseRepository) AddHouse(h *domain.House) {
	m.Houses = append(m.Houses, h)
}

// ListByOrganisation retrieves houses for an organisation
func (m *MockHouseRepository) ListByOrganisation(_ context.Context, organisationID uuid.UUID) ([]*domain.House, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var houses []*domain.House
	for _, h := range m.Houses {
		if h.OrganisationID == organisationID {
			houses = append(houses, h)
		}
	}
	return houses, nil
}

// MockResidentRepository is a mock implementation of domain.ResidentRepository
type MockResidentRepository struct {
	Residents []*domain.Resident
	Err       error
}

// NewMockResidentRepository creates a new MockResidentRepository
func NewMockResidentRepository() *MockResidentRepository {
	return &MockResidentRepository{}
}

// AddResident adds a resident to the mock repository
func (m *MockResidentRepository) AddResident(r *domain.Resident) {
	m.Residents = append(m.Residents, r)
}

// ListByOrganisation retrieves residents for an organisation
func (m *MockResidentRepository) ListByOrganisation(_ context.Context, organisationID uuid.UUID) ([]*domain.Resident, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var residents []*domain.Resident
	for _, r := range m.Residents {
		if r.OrganisationID == organisationID {
			residents = append(residents, r)
		}
	}
	return residents, nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository.
// Batches records the resident id slice of every ListByResidents call so
// tests can assert on chunking behaviour.
type MockTransactionRepository struct {
	Transactions []*domain.BillingTransaction
	Batches      [][]uuid.UUID
	Err          error
	GetErr       error
	mu           sync.Mutex
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// AddTransaction adds a billing transaction to the mock repository
func (m *MockTransactionRepository) AddTransaction(tx *domain.BillingTransaction) {
	m.Transactions = append(m.Transactions, tx)
}

// ListByResidents retrieves transactions for the given residents within [from, to)
func (m *MockTransactionRepository) ListByResidents(_ context.Context, residentIDs []uuid.UUID, from, to time.Time) ([]*domain.BillingTransaction, error) {
	m.mu.Lock()
	m.Batches = append(m.Batches, residentIDs)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	wanted := make(map[uuid.UUID]bool, len(residentIDs))
	for _, id := range residentIDs {
		wanted[id] = true
	}
	var rows []*domain.BillingTransaction
	for _, tx := range m.Transactions {
		if !wanted[tx.ResidentID] {
			continue
		}
		if tx.OccurredAt.Before(from) || !tx.OccurredAt.Before(to) {
			continue
		}
		rows = append(rows, tx)
	}
	return rows, nil
}

// GetByID retrieves a billing transaction by ID
func (m *MockTransactionRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.BillingTransaction, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, tx := range m.Transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses []*domain.Expense
	Err      error
	GetErr   error
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{}
}

// AddExpense adds an expense to the mock repository
func (m *MockExpenseRepository) AddExpense(e *domain.Expense) {
	m.Expenses = append(m.Expenses, e)
}

// ListByOrganisation retrieves expenses for an organisation within [from, to)
func (m *MockExpenseRepository) ListByOrganisation(_ context.Context, organisationID uuid.UUID, from, to time.Time) ([]*domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var rows []*domain.Expense
	for _, e := range m.Expenses {
		if e.OrganisationID != organisationID {
			continue
		}
		if e.OccurredAt.Before(from) || !e.OccurredAt.Before(to) {
			continue
		}
		rows = append(rows, e)
	}
	return rows, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Expense, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, e := range m.Expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

// MockContractRepository is a mock implementation of domain.ContractRepository.
// Contracts are registered per organisation because the real table joins
// through residents to find the tenant.
type MockContractRepository struct {
	Contracts map[uuid.UUID][]*domain.FundingContract
	Err       error
}

// NewMockContractRepository creates a new MockContractRepository
func NewMockContractRepository() *MockContractRepository {
	return &MockContractRepository{
		Contracts: make(map[uuid.UUID][]*domain.FundingContract),
	}
}

// AddContract adds a contract under an organisation
func (m *MockContractRepository) AddContract(organisationID uuid.UUID, c *domain.FundingContract) {
	m.Contracts[organisationID] = append(m.Contracts[organisationID], c)
}

// ListExpiring retrieves Active contracts ending within [from, to], soonest first
func (m *MockContractRepository) ListExpiring(_ context.Context, organisationID uuid.UUID, from, to time.Time, limit int) ([]*domain.FundingContract, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var rows []*domain.FundingContract
	for _, c := range m.Contracts[organisationID] {
		if c.Status != domain.ContractStatusActive || c.EndDate == nil {
			continue
		}
		if c.EndDate.Before(from) || c.EndDate.After(to) {
			continue
		}
		rows = append(rows, c)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].EndDate.Before(*rows[j].EndDate) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// ListActiveOrderedByBalance retrieves Active contracts, most depleted first
func (m *MockContractRepository) ListActiveOrderedByBalance(_ context.Context, organisationID uuid.UUID, limit int) ([]*domain.FundingContract, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var rows []*domain.FundingContract
	for _, c := range m.Contracts[organisationID] {
		if c.Status == domain.ContractStatusActive {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CurrentBalance.LessThan(rows[j].CurrentBalance) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// ListActiveAutoBilling retrieves Active contracts flagged for automatic billing
func (m *MockContractRepository) ListActiveAutoBilling(_ context.Context, organisationID uuid.UUID) ([]*domain.FundingContract, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var rows []*domain.FundingContract
	for _, c := range m.Contracts[organisationID] {
		if c.Status == domain.ContractStatusActive && c.AutoBilling {
			rows = append(rows, c)
		}
	}
	return rows, nil
}

// MockAutomationRepository is a mock implementation of domain.AutomationRepository
type MockAutomationRepository struct {
	Automations []*domain.Automation
	Err         error
}

// NewMockAutomationRepository creates a new MockAutomationRepository
func NewMockAutomationRepository() *MockAutomationRepository {
	return &MockAutomationRepository{}
}

// AddAutomation adds an automation to the mock repository
func (m *MockAutomationRepository) AddAutomation(a *domain.Automation) {
	m.Automations = append(m.Automations, a)
}

// ListScheduled retrieves enabled, projectable automations due within [from, to]
func (m *MockAutomationRepository) ListScheduled(_ context.Context, organisationID uuid.UUID, from, to time.Time, limit int) ([]*domain.Automation, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var rows []*domain.Automation
	for _, a := range m.Automations {
		if a.OrganisationID != organisationID || !a.Enabled || !a.Type.ProjectsIntoOutlook() {
			continue
		}
		if a.NextRunAt == nil || a.NextRunAt.Before(from) || a.NextRunAt.After(to) {
			continue
		}
		rows = append(rows, a)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].NextRunAt.Before(*rows[j].NextRunAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// MockAutomationRunRepository is a mock implementation of domain.AutomationRunRepository
type MockAutomationRunRepository struct {
	Runs map[uuid.UUID][]*domain.AutomationRun
	Err  error
}

// NewMockAutomationRunRepository creates a new MockAutomationRunRepository
func NewMockAutomationRunRepository() *MockAutomationRunRepository {
	return &MockAutomationRunRepository{
		Runs: make(map[uuid.UUID][]*domain.AutomationRun),
	}
}

// AddRun adds an automation run under an organisation
func (m *MockAutomationRunRepository) AddRun(organisationID uuid.UUID, r *domain.AutomationRun) {
	m.Runs[organisationID] = append(m.Runs[organisationID], r)
}

// ListFailedSince retrieves failed runs started at or after since, most recent first
func (m *MockAutomationRunRepository) ListFailedSince(_ context.Context, organisationID uuid.UUID, since time.Time, limit int) ([]*domain.AutomationRun, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var rows []*domain.AutomationRun
	for _, r := range m.Runs[organisationID] {
		if r.Status == domain.RunStatusFailed && !r.StartedAt.Before(since) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StartedAt.After(rows[j].StartedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// MockClaimRepository is a mock implementation of domain.ClaimRepository
type MockClaimRepository struct {
	Claims []*domain.Claim
	Err    error
}

// NewMockClaimRepository creates a new MockClaimRepository
func NewMockClaimRepository() *MockClaimRepository {
	return &MockClaimRepository{}
}

// AddClaim adds a claim to the mock repository
func (m *MockClaimRepository) AddClaim(c *domain.Claim) {
	m.Claims = append(m.Claims, c)
}

// ListByOrganisation retrieves claims for an organisation
func (m *MockClaimRepository) ListByOrganisation(_ context.Context, organisationID uuid.UUID) ([]*domain.Claim, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var rows []*domain.Claim
	for _, c := range m.Claims {
		if c.OrganisationID == organisationID {
			rows = append(rows, c)
		}
	}
	return rows, nil
}

// MockAdminUserRepository is a mock implementation of domain.AdminUserRepository
type MockAdminUserRepository struct {
	Users []*domain.AdminUser
	Err   error
}

// NewMockAdminUserRepository creates a new MockAdminUserRepository
func NewMockAdminUserRepository() *MockAdminUserRepository {
	return &MockAdminUserRepository{}
}

// AddUser adds an admin user to the mock repository
func (m *MockAdminUserRepository) AddUser(u *domain.AdminUser) {
	m.Users = append(m.Users, u)
}

// ListActiveAdmins retrieves active admin-role users for an organisation
func (m *MockAdminUserRepository) ListActiveAdmins(_ context.Context, organisationID uuid.UUID) ([]*domain.AdminUser, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var rows []*domain.AdminUser
	for _, u := range m.Users {
		if u.OrganisationID == organisationID && u.Active && u.Role == domain.AdminRoleAdmin {
			rows = append(rows, u)
		}
	}
	return rows, nil
}

// MockBriefDeliverer is a mock implementation of domain.BriefDeliverer
type MockBriefDeliverer struct {
	Delivered []*domain.DailyBriefData
	Err       error
}

// NewMockBriefDeliverer creates a new MockBriefDeliverer
func NewMockBriefDeliverer() *MockBriefDeliverer {
	return &MockBriefDeliverer{}
}

// Deliver records the brief
func (m *MockBriefDeliverer) Deliver(_ context.Context, brief *domain.DailyBriefData) error {
	if m.Err != nil {
		return m.Err
	}
	m.Delivered = append(m.Delivered, brief)
	return nil
}

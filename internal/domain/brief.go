package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// HouseTotals accumulates per-house income and expense during window
// aggregation.
type HouseTotals struct {
	Label    string
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// WindowFinancials is the result of aggregating one date window.
type WindowFinancials struct {
	Income            decimal.Decimal
	PropertyCosts     decimal.Decimal
	OrgCosts          decimal.Decimal
	Net               decimal.Decimal
	ByHouse           map[uuid.UUID]*HouseTotals
	AutomationExpense int
	ManualExpense     int
}

// HouseFinancials is one row of the snapshot's per-house breakdown.
type HouseFinancials struct {
	HouseID  uuid.UUID       `json:"houseId"`
	Label    string          `json:"label"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// DayFinancials summarises the lookback window.
type DayFinancials struct {
	Income            decimal.Decimal `json:"income"`
	PropertyCosts     decimal.Decimal `json:"propertyCosts"`
	OrgCosts          decimal.Decimal `json:"orgCosts"`
	Net               decimal.Decimal `json:"net"`
	AutomationExpense int             `json:"automationExpenseCount"`
	ManualExpense     int             `json:"manualExpenseCount"`
}

// OccupancySnapshot captures bedroom capacity vs occupancy across Active
// houses. Percent is nil when the organisation has no bedrooms.
type OccupancySnapshot struct {
	TotalBedrooms    int  `json:"totalBedrooms"`
	OccupiedBedrooms int  `json:"occupiedBedrooms"`
	VacantBedrooms   int  `json:"vacantBedrooms"`
	Percent          *int `json:"percent,omitempty"`
}

// TrendSnapshot compares the last 7 days against the prior 7 days.
type TrendSnapshot struct {
	Last7Net     decimal.Decimal `json:"last7Net"`
	Prior7Net    decimal.Decimal `json:"prior7Net"`
	ChangeAmount decimal.Decimal `json:"changeAmount"`
	Direction    TrendDirection  `json:"direction"`
}

// UpcomingItem is one human-readable entry in the outlook.
type UpcomingItem struct {
	Date       string          `json:"date"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	HouseLabel *string         `json:"houseLabel,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// OutlookSnapshot projects scheduled automations over the forward window.
type OutlookSnapshot struct {
	ExpectedIncome        decimal.Decimal `json:"expectedIncome"`
	ExpectedPropertyCosts decimal.Decimal `json:"expectedPropertyCosts"`
	ExpectedOrgCosts      decimal.Decimal `json:"expectedOrgCosts"`
	ProjectedNet          decimal.Decimal `json:"projectedNet"`
	UpcomingItems         []UpcomingItem  `json:"upcomingItems"`
}

// ExpiringContractAlert flags a contract ending within the risk window.
type ExpiringContractAlert struct {
	ContractID    uuid.UUID `json:"contractId"`
	ResidentName  string    `json:"residentName"`
	EndDate       string    `json:"endDate"`
	DaysRemaining int       `json:"daysRemaining"`
}

// FailedRunAlert flags an automation run that failed in the last day.
type FailedRunAlert struct {
	AutomationID   uuid.UUID `json:"automationId"`
	AutomationName string    `json:"automationName"`
	StartedAt      time.Time `json:"startedAt"`
	Error          string    `json:"error,omitempty"`
}

// LowBalanceAlert flags a contract under the low-balance threshold.
type LowBalanceAlert struct {
	ContractID       uuid.UUID       `json:"contractId"`
	ResidentName     string          `json:"residentName"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	PercentRemaining decimal.Decimal `json:"percentRemaining"`
}

// RiskSnapshot holds the three independent risk scans.
type RiskSnapshot struct {
	ExpiringContracts   []ExpiringContractAlert `json:"expiringContracts"`
	FailedRuns          []FailedRunAlert        `json:"failedRuns"`
	LowBalanceContracts []LowBalanceAlert       `json:"lowBalanceContracts"`
}

// ClaimsSnapshot buckets the claims pipeline into draft and in-flight.
type ClaimsSnapshot struct {
	DraftCount    int             `json:"draftCount"`
	DraftTotal    decimal.Decimal `json:"draftTotal"`
	InFlightCount int             `json:"inFlightCount"`
	InFlightTotal decimal.Decimal `json:"inFlightTotal"`
}

// DailyBriefData is the immutable snapshot handed to the rendering and
// delivery collaborators. Every field is fully resolved; dates are
// calendar strings in the organisation's timezone and money serialises as
// decimal strings.
type DailyBriefData struct {
	OrganisationID   uuid.UUID         `json:"organisationId"`
	OrganisationName string            `json:"organisationName"`
	ReportDate       string            `json:"reportDate"`
	TodayDate        string            `json:"todayDate"`
	GeneratedAt      time.Time         `json:"generatedAt"`
	Recipients       []string          `json:"recipients"`
	Financials       DayFinancials     `json:"financials"`
	HouseBreakdown   []HouseFinancials `json:"houseBreakdown"`
	Occupancy        OccupancySnapshot `json:"occupancy"`
	Trend            TrendSnapshot     `json:"trend"`
	Outlook          OutlookSnapshot   `json:"outlook"`
	Risks            RiskSnapshot      `json:"risks"`
	Claims           ClaimsSnapshot    `json:"claims"`
}

// BriefDeliverer renders and sends a completed brief. Rendering and email
// transport live outside this service; the engine only hands over the
// finished snapshot.
type BriefDeliverer interface {
	Deliver(ctx context.Context, brief *DailyBriefData) error
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/havenhq/haven/haven-backend/internal/service"
	"github.com/havenhq/haven/haven-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type briefingHandlerFixture struct {
	handler         *BriefingHandler
	orgRepo         *testutil.MockOrganisationRepository
	houseRepo       *testutil.MockHouseRepository
	residentRepo    *testutil.MockResidentRepository
	transactionRepo *testutil.MockTransactionRepository
	adminRepo       *testutil.MockAdminUserRepository
	deliverer       *testutil.MockBriefDeliverer
}

func setupBriefingHandler() *briefingHandlerFixture {
	orgRepo := testutil.NewMockOrganisationRepository()
	houseRepo := testutil.NewMockHouseRepository()
	residentRepo := testutil.NewMockResidentRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	contractRepo := testutil.NewMockContractRepository()
	automationRepo := testutil.NewMockAutomationRepository()
	runRepo := testutil.NewMockAutomationRunRepository()
	claimRepo := testutil.NewMockClaimRepository()
	adminRepo := testutil.NewMockAdminUserRepository()
	deliverer := testutil.NewMockBriefDeliverer()

	logger := zerolog.Nop()
	reference := service.NewReferenceService(houseRepo, residentRepo)
	financial := service.NewFinancialService(transactionRepo, expenseRepo)
	outlook := service.NewOutlookService(automationRepo, expenseRepo, transactionRepo, contractRepo, logger)
	risk := service.NewRiskService(contractRepo, runRepo, logger)
	briefService := service.NewBriefService(orgRepo, adminRepo, claimRepo, reference, financial, outlook, risk, logger)

	cfg := service.BriefConfig{Timezone: "UTC", LookbackDays: 1, ForwardDays: 7}
	return &briefingHandlerFixture{
		handler:         NewBriefingHandler(briefService, deliverer, cfg),
		orgRepo:         orgRepo,
		houseRepo:       houseRepo,
		residentRepo:    residentRepo,
		transactionRepo: transactionRepo,
		adminRepo:       adminRepo,
		deliverer:       deliverer,
	}
}

func (f *briefingHandlerFixture) seedOrganisation() uuid.UUID {
	organisationID := uuid.New()
	f.orgRepo.AddOrganisation(&domain.Organisation{
		ID:       organisationID,
		Name:     "Sunrise Care",
		Timezone: "UTC",
	})

	residentID := uuid.New()
	f.residentRepo.AddResident(&domain.Resident{
		ID:             residentID,
		OrganisationID: organisationID,
		Status:         domain.ResidentStatusActive,
	})

	// One transaction inside yesterday's UTC window
	today := time.Now().UTC().Truncate(24 * time.Hour)
	f.transactionRepo.AddTransaction(&domain.BillingTransaction{
		ID:         uuid.New(),
		ResidentID: residentID,
		Amount:     "500.00",
		Status:     domain.TransactionStatusPaid,
		OccurredAt: today.Add(-12 * time.Hour),
	})

	return organisationID
}

func newBriefingContext(e *echo.Echo, method, target, orgID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("orgId")
	c.SetParamValues(orgID)
	return c, rec
}

func TestRun_Success(t *testing.T) {
	e := echo.New()
	f := setupBriefingHandler()
	organisationID := f.seedOrganisation()

	f.adminRepo.AddUser(&domain.AdminUser{
		ID:             uuid.New(),
		OrganisationID: organisationID,
		Email:          "manager@sunrisecare.example",
		Role:           domain.AdminRoleAdmin,
		Active:         true,
	})

	c, rec := newBriefingContext(e, http.MethodPost, "/api/v1/briefings/"+organisationID.String()+"/run", organisationID.String())

	if err := f.handler.Run(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var brief domain.DailyBriefData
	if err := json.Unmarshal(rec.Body.Bytes(), &brief); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if brief.OrganisationName != "Sunrise Care" {
		t.Errorf("Expected organisation name 'Sunrise Care', got %s", brief.OrganisationName)
	}
	if brief.Financials.Income.StringFixed(2) != "500.00" {
		t.Errorf("Expected income 500.00, got %s", brief.Financials.Income.StringFixed(2))
	}

	if len(f.deliverer.Delivered) != 1 {
		t.Errorf("Expected 1 delivery, got %d", len(f.deliverer.Delivered))
	}
}

func TestRun_NoRecipientsSkipsDelivery(t *testing.T) {
	e := echo.New()
	f := setupBriefingHandler()
	organisationID := f.seedOrganisation()

	c, rec := newBriefingContext(e, http.MethodPost, "/api/v1/briefings/"+organisationID.String()+"/run", organisationID.String())

	if err := f.handler.Run(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if len(f.deliverer.Delivered) != 0 {
		t.Errorf("Expected no deliveries without recipients, got %d", len(f.deliverer.Delivered))
	}
}

func TestRun_InvalidUUID(t *testing.T) {
	e := echo.New()
	f := setupBriefingHandler()

	c, rec := newBriefingContext(e, http.MethodPost, "/api/v1/briefings/not-a-uuid/run", "not-a-uuid")

	if err := f.handler.Run(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRun_UnknownOrganisation(t *testing.T) {
	e := echo.New()
	f := setupBriefingHandler()

	unknown := uuid.New().String()
	c, rec := newBriefingContext(e, http.MethodPost, "/api/v1/briefings/"+unknown+"/run", unknown)

	if err := f.handler.Run(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeNotFound {
		t.Errorf("Expected problem type %s, got %s", ErrorTypeNotFound, problem.Type)
	}
}

func TestRun_DeliveryFailure(t *testing.T) {
	e := echo.New()
	f := setupBriefingHandler()
	organisationID := f.seedOrganisation()

	f.adminRepo.AddUser(&domain.AdminUser{
		ID:             uuid.New(),
		OrganisationID: organisationID,
		Email:          "manager@sunrisecare.example",
		Role:           domain.AdminRoleAdmin,
		Active:         true,
	})
	f.deliverer.Err = echo.ErrInternalServerError

	c, rec := newBriefingContext(e, http.MethodPost, "/api/v1/briefings/"+organisationID.String()+"/run", organisationID.String())

	if err := f.handler.Run(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
}

func TestPreview_DoesNotDeliver(t *testing.T) {
	e := echo.New()
	f := setupBriefingHandler()
	organisationID := f.seedOrganisation()

	f.adminRepo.AddUser(&domain.AdminUser{
		ID:             uuid.New(),
		OrganisationID: organisationID,
		Email:          "manager@sunrisecare.example",
		Role:           domain.AdminRoleAdmin,
		Active:         true,
	})

	c, rec := newBriefingContext(e, http.MethodGet, "/api/v1/briefings/"+organisationID.String()+"/preview", organisationID.String())

	if err := f.handler.Preview(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if len(f.deliverer.Delivered) != 0 {
		t.Errorf("Preview must not deliver, got %d deliveries", len(f.deliverer.Delivered))
	}
}

func TestPreview_InvalidUUID(t *testing.T) {
	e := echo.New()
	f := setupBriefingHandler()

	c, rec := newBriefingContext(e, http.MethodGet, "/api/v1/briefings/xyz/preview", "xyz")

	if err := f.handler.Preview(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

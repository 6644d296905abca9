package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/havenhq/haven/haven-backend/internal/domain"
	"github.com/havenhq/haven/haven-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BriefingHandler exposes the brief engine's operational endpoints:
// a manual trigger that generates and delivers, and a preview that only
// generates.
type BriefingHandler struct {
	briefService *service.BriefService
	deliverer    domain.BriefDeliverer
	briefConfig  service.BriefConfig
}

// NewBriefingHandler creates a new BriefingHandler
func NewBriefingHandler(briefService *service.BriefService, deliverer domain.BriefDeliverer, briefConfig service.BriefConfig) *BriefingHandler {
	return &BriefingHandler{
		briefService: briefService,
		deliverer:    deliverer,
		briefConfig:  briefConfig,
	}
}

// Run handles POST /api/v1/briefings/:orgId/run
func (h *BriefingHandler) Run(c echo.Context) error {
	organisationID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		return NewValidationError(c, "orgId must be a valid UUID")
	}

	brief, err := h.briefService.Generate(c.Request().Context(), organisationID, h.briefConfig)
	if err != nil {
		if errors.Is(err, domain.ErrOrganisationNotFound) {
			return NewNotFoundError(c, "Organisation not found")
		}
		log.Error().Err(err).Str("org_id", organisationID.String()).Msg("Failed to generate brief")
		return NewInternalError(c, "Failed to generate brief")
	}

	if len(brief.Recipients) > 0 {
		if err := h.deliverer.Deliver(c.Request().Context(), brief); err != nil {
			log.Error().Err(err).Str("org_id", organisationID.String()).Msg("Failed to deliver brief")
			return NewInternalError(c, "Brief generated but delivery failed")
		}
	}

	return c.JSON(http.StatusOK, brief)
}

// Preview handles GET /api/v1/briefings/:orgId/preview
func (h *BriefingHandler) Preview(c echo.Context) error {
	organisationID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		return NewValidationError(c, "orgId must be a valid UUID")
	}

	brief, err := h.briefService.Generate(c.Request().Context(), organisationID, h.briefConfig)
	if err != nil {
		if errors.Is(err, domain.ErrOrganisationNotFound) {
			return NewNotFoundError(c, "Organisation not found")
		}
		log.Error().Err(err).Str("org_id", organisationID.String()).Msg("Failed to generate brief preview")
		return NewInternalError(c, "Failed to generate brief")
	}

	return c.JSON(http.StatusOK, brief)
}

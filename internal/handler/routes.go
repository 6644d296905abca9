package handler

import (
	"github.com/havenhq/haven/haven-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, rateLimiter *middleware.RateLimiter, briefingHandler *BriefingHandler) {
	// API version 1
	api := e.Group("/api/v1")

	briefings := api.Group("/briefings")
	briefings.Use(middleware.RateLimitMiddleware(rateLimiter))
	briefings.POST("/:orgId/run", briefingHandler.Run)
	briefings.GET("/:orgId/preview", briefingHandler.Preview)
}

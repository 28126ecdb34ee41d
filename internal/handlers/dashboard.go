package handlers

import (
	"net/http"

	"ticketdesk/internal/analytics"
	"ticketdesk/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// DashboardHandler returns the cached full-history dashboard aggregate
// @Summary Get dashboard aggregate
// @Tags analytics
// @Produce json
// @Success 200 {object} models.DashboardResponse
// @Failure 500 {object} models.DashboardResponse
// @Router /api/dashboard [get]
func DashboardHandler(svc *analytics.Service, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		summary, err := svc.GetDashboard(c.Request().Context())
		if err != nil {
			logger.Error().Err(err).Msg("Dashboard aggregation failed")
			return c.JSON(http.StatusInternalServerError, models.DashboardResponse{
				Error: "Failed to compute dashboard",
			})
		}
		return c.JSON(http.StatusOK, models.DashboardResponse{Success: true, Summary: summary})
	}
}

// AnalyticsHandler returns the aggregate for a given period
// @Summary Get analytics summary
// @Description Aggregate over a time period (today, yesterday, last_7_days, last_30_days, ...)
// @Tags analytics
// @Produce json
// @Param period query string false "Time period" default(last_7_days)
// @Success 200 {object} models.DashboardResponse
// @Failure 500 {object} models.DashboardResponse
// @Router /api/analytics [get]
func AnalyticsHandler(svc *analytics.Service, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		period := c.QueryParam("period")
		if period == "" {
			period = "last_7_days"
		}

		summary, err := svc.GetSummary(c.Request().Context(), period)
		if err != nil {
			logger.Error().Err(err).Str("period", period).Msg("Analytics aggregation failed")
			return c.JSON(http.StatusInternalServerError, models.DashboardResponse{
				Error: "Failed to compute analytics summary",
			})
		}
		return c.JSON(http.StatusOK, models.DashboardResponse{Success: true, Summary: summary})
	}
}

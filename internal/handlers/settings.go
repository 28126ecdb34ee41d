package handlers

import (
	"net/http"
	"strings"

	"ticketdesk/internal/models"
	"ticketdesk/internal/reports"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AlertSettingsHandler lists the alert configuration rows
// @Summary List alert settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.AlertSettingsResponse
// @Failure 500 {object} models.AlertSettingsResponse
// @Router /api/settings/alerts [get]
func AlertSettingsHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		settings := []models.AlertSetting{}
		query := `SELECT id, key, enabled, threshold, webhook_url, updated_at FROM alert_settings ORDER BY key`
		if err := db.SelectContext(c.Request().Context(), &settings, query); err != nil {
			logger.Error().Err(err).Msg("Alert settings list failed")
			return c.JSON(http.StatusInternalServerError, models.AlertSettingsResponse{Error: "Failed to load alert settings"})
		}
		return c.JSON(http.StatusOK, models.AlertSettingsResponse{Success: true, Settings: settings})
	}
}

// AlertSettingRequest upserts one alert configuration row
type AlertSettingRequest struct {
	Key        string  `json:"key"`
	Enabled    bool    `json:"enabled"`
	Threshold  float64 `json:"threshold"`
	WebhookURL string  `json:"webhook_url"`
}

// SaveAlertSettingHandler upserts an alert configuration row
// @Summary Save alert setting
// @Tags settings
// @Accept json
// @Produce json
// @Param request body AlertSettingRequest true "Alert setting"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/settings/alerts [put]
func SaveAlertSettingHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req AlertSettingRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid request body"})
		}
		if strings.TrimSpace(req.Key) == "" {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Setting key is required"})
		}

		query := db.Rebind(`INSERT INTO alert_settings (key, enabled, threshold, webhook_url, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET
				enabled = EXCLUDED.enabled,
				threshold = EXCLUDED.threshold,
				webhook_url = EXCLUDED.webhook_url,
				updated_at = CURRENT_TIMESTAMP`)
		if _, err := db.ExecContext(c.Request().Context(), query, req.Key, req.Enabled, req.Threshold, req.WebhookURL); err != nil {
			logger.Error().Err(err).Msg("Alert setting save failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to save alert setting"})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Alert setting saved"})
	}
}

// ReportSettingsHandler lists the report configuration rows
// @Summary List report settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.ReportSettingsResponse
// @Failure 500 {object} models.ReportSettingsResponse
// @Router /api/settings/reports [get]
func ReportSettingsHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		settings := []models.ReportSetting{}
		query := `SELECT id, frequency, enabled, hour, webhook_url, updated_at FROM report_settings ORDER BY frequency`
		if err := db.SelectContext(c.Request().Context(), &settings, query); err != nil {
			logger.Error().Err(err).Msg("Report settings list failed")
			return c.JSON(http.StatusInternalServerError, models.ReportSettingsResponse{Error: "Failed to load report settings"})
		}
		return c.JSON(http.StatusOK, models.ReportSettingsResponse{Success: true, Settings: settings})
	}
}

// ReportSettingRequest upserts one report configuration row
type ReportSettingRequest struct {
	Frequency  string `json:"frequency"`
	Enabled    bool   `json:"enabled"`
	Hour       int    `json:"hour"`
	WebhookURL string `json:"webhook_url"`
}

// SaveReportSettingHandler upserts a report row and reloads the schedule
// @Summary Save report setting
// @Tags settings
// @Accept json
// @Produce json
// @Param request body ReportSettingRequest true "Report setting"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/settings/reports [put]
func SaveReportSettingHandler(db *sqlx.DB, scheduler *reports.Scheduler, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ReportSettingRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid request body"})
		}
		if req.Frequency != models.ReportDaily && req.Frequency != models.ReportWeekly {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Frequency must be daily or weekly"})
		}
		if req.Hour < 0 || req.Hour > 23 {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Hour must be between 0 and 23"})
		}

		query := db.Rebind(`INSERT INTO report_settings (frequency, enabled, hour, webhook_url, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (frequency) DO UPDATE SET
				enabled = EXCLUDED.enabled,
				hour = EXCLUDED.hour,
				webhook_url = EXCLUDED.webhook_url,
				updated_at = CURRENT_TIMESTAMP`)
		if _, err := db.ExecContext(c.Request().Context(), query, req.Frequency, req.Enabled, req.Hour, req.WebhookURL); err != nil {
			logger.Error().Err(err).Msg("Report setting save failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to save report setting"})
		}

		if scheduler != nil {
			if err := scheduler.Reload(c.Request().Context()); err != nil {
				logger.Warn().Err(err).Msg("Report schedule reload failed")
			}
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Report setting saved"})
	}
}

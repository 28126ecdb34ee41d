package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"ticketdesk/internal/models"
	"ticketdesk/internal/storage"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ProfileHandler returns the agent profile for an email
// @Summary Get agent profile
// @Tags profile
// @Produce json
// @Param email query string true "Agent email"
// @Success 200 {object} models.ProfileResponse
// @Failure 404 {object} models.ProfileResponse
// @Router /api/profile [get]
func ProfileHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		agentEmail := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
		if agentEmail == "" {
			return c.JSON(http.StatusBadRequest, models.ProfileResponse{Error: "email query parameter is required"})
		}

		var profile models.AgentProfile
		query := db.Rebind(`SELECT id, email, name, avatar_url, updated_at FROM agent_profiles WHERE email = ?`)
		err := db.GetContext(c.Request().Context(), &profile, query, agentEmail)
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, models.ProfileResponse{Error: "Profile not found"})
		}
		if err != nil {
			logger.Error().Err(err).Msg("Profile fetch failed")
			return c.JSON(http.StatusInternalServerError, models.ProfileResponse{Error: "Failed to load profile"})
		}
		return c.JSON(http.StatusOK, models.ProfileResponse{Success: true, Profile: &profile})
	}
}

// SaveProfileHandler upserts an agent profile, optionally with an
// uploaded avatar image (multipart field "avatar").
// @Summary Save agent profile
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Param email formData string true "Agent email"
// @Param name formData string false "Display name"
// @Param avatar formData file false "Avatar image"
// @Success 200 {object} models.ProfileResponse
// @Failure 400 {object} models.ProfileResponse
// @Router /api/profile [post]
func SaveProfileHandler(db *sqlx.DB, avatars *storage.AvatarStore, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		agentEmail := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
		if !emailRegex.MatchString(agentEmail) {
			return c.JSON(http.StatusBadRequest, models.ProfileResponse{Error: "Invalid email address"})
		}
		name := strings.TrimSpace(c.FormValue("name"))

		avatarURL := ""
		if file, err := c.FormFile("avatar"); err == nil {
			src, err := file.Open()
			if err != nil {
				return c.JSON(http.StatusBadRequest, models.ProfileResponse{Error: "Failed to read avatar upload"})
			}
			defer src.Close()

			url, err := avatars.Save(file.Filename, src)
			if err != nil {
				logger.Error().Err(err).Msg("Avatar save failed")
				return c.JSON(http.StatusInternalServerError, models.ProfileResponse{Error: "Failed to store avatar"})
			}
			avatarURL = url
		}

		query := db.Rebind(`INSERT INTO agent_profiles (email, name, avatar_url, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (email) DO UPDATE SET
				name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE agent_profiles.name END,
				avatar_url = CASE WHEN EXCLUDED.avatar_url <> '' THEN EXCLUDED.avatar_url ELSE agent_profiles.avatar_url END,
				updated_at = CURRENT_TIMESTAMP`)
		if _, err := db.ExecContext(c.Request().Context(), query, agentEmail, name, avatarURL); err != nil {
			logger.Error().Err(err).Msg("Profile save failed")
			return c.JSON(http.StatusInternalServerError, models.ProfileResponse{Error: "Failed to save profile"})
		}

		var profile models.AgentProfile
		get := db.Rebind(`SELECT id, email, name, avatar_url, updated_at FROM agent_profiles WHERE email = ?`)
		if err := db.GetContext(c.Request().Context(), &profile, get, agentEmail); err != nil {
			logger.Error().Err(err).Msg("Profile refetch failed")
			return c.JSON(http.StatusInternalServerError, models.ProfileResponse{Error: "Failed to load saved profile"})
		}
		return c.JSON(http.StatusOK, models.ProfileResponse{Success: true, Profile: &profile})
	}
}

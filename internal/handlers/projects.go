package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"ticketdesk/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ProjectListHandler lists the project-id → game-name mappings
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {object} models.ProjectListResponse
// @Failure 500 {object} models.ProjectListResponse
// @Router /api/projects [get]
func ProjectListHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		projects := []models.Project{}
		query := `SELECT id, project_id, game_name, created_at FROM projects ORDER BY id`
		if err := db.SelectContext(c.Request().Context(), &projects, query); err != nil {
			logger.Error().Err(err).Msg("Project list failed")
			return c.JSON(http.StatusInternalServerError, models.ProjectListResponse{Error: "Failed to load projects"})
		}
		return c.JSON(http.StatusOK, models.ProjectListResponse{Success: true, Projects: projects})
	}
}

// ProjectRequest creates or updates a mapping
type ProjectRequest struct {
	ProjectID string `json:"project_id"`
	GameName  string `json:"game_name"`
}

// SaveProjectHandler upserts a project/game mapping
// @Summary Save project mapping
// @Tags projects
// @Accept json
// @Produce json
// @Param request body ProjectRequest true "Mapping"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/projects [post]
func SaveProjectHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ProjectRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid request body"})
		}
		if strings.TrimSpace(req.ProjectID) == "" || strings.TrimSpace(req.GameName) == "" {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "project_id and game_name are required"})
		}

		query := db.Rebind(`INSERT INTO projects (project_id, game_name) VALUES (?, ?)
			ON CONFLICT (project_id) DO UPDATE SET game_name = EXCLUDED.game_name`)
		if _, err := db.ExecContext(c.Request().Context(), query, req.ProjectID, req.GameName); err != nil {
			logger.Error().Err(err).Msg("Project save failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to save project"})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Project saved"})
	}
}

// DeleteProjectHandler removes a mapping; its tickets display as Unknown
// @Summary Delete project mapping
// @Tags projects
// @Produce json
// @Param id path int true "Project row id"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/projects/{id} [delete]
func DeleteProjectHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid project id"})
		}
		query := db.Rebind(`DELETE FROM projects WHERE id = ?`)
		if _, err := db.ExecContext(c.Request().Context(), query, id); err != nil {
			logger.Error().Err(err).Msg("Project delete failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to delete project"})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Project deleted"})
	}
}

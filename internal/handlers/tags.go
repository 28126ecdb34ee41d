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

// TagListHandler lists the tag definitions
// @Summary List tag definitions
// @Tags tags
// @Produce json
// @Success 200 {object} models.TagListResponse
// @Failure 500 {object} models.TagListResponse
// @Router /api/tags [get]
func TagListHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		tags := []models.TagDefinition{}
		query := `SELECT id, name, keywords, created_at FROM tag_definitions ORDER BY name`
		if err := db.SelectContext(c.Request().Context(), &tags, query); err != nil {
			logger.Error().Err(err).Msg("Tag list failed")
			return c.JSON(http.StatusInternalServerError, models.TagListResponse{Error: "Failed to load tags"})
		}
		return c.JSON(http.StatusOK, models.TagListResponse{Success: true, Tags: tags})
	}
}

// TagRequest creates or updates a tag definition
type TagRequest struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// SaveTagHandler upserts a tag definition with its auto-tag keywords
// @Summary Save tag definition
// @Tags tags
// @Accept json
// @Produce json
// @Param request body TagRequest true "Tag"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/tags [post]
func SaveTagHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req TagRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid request body"})
		}
		if strings.TrimSpace(req.Name) == "" {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Tag name is required"})
		}

		query := db.Rebind(`INSERT INTO tag_definitions (name, keywords) VALUES (?, ?)
			ON CONFLICT (name) DO UPDATE SET keywords = EXCLUDED.keywords`)
		if _, err := db.ExecContext(c.Request().Context(), query, req.Name, models.StringList(req.Keywords)); err != nil {
			logger.Error().Err(err).Msg("Tag save failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to save tag"})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Tag saved"})
	}
}

// DeleteTagHandler removes a tag definition
// @Summary Delete tag definition
// @Tags tags
// @Produce json
// @Param id path int true "Tag id"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/tags/{id} [delete]
func DeleteTagHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid tag id"})
		}
		query := db.Rebind(`DELETE FROM tag_definitions WHERE id = ?`)
		if _, err := db.ExecContext(c.Request().Context(), query, id); err != nil {
			logger.Error().Err(err).Msg("Tag delete failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to delete tag"})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Tag deleted"})
	}
}

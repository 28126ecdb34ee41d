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

// QuickReplyListHandler lists the canned replies
// @Summary List quick replies
// @Tags quick-replies
// @Produce json
// @Success 200 {object} models.QuickReplyListResponse
// @Failure 500 {object} models.QuickReplyListResponse
// @Router /api/quick-replies [get]
func QuickReplyListHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		replies := []models.QuickReply{}
		query := `SELECT id, title, content, created_at FROM quick_replies ORDER BY title`
		if err := db.SelectContext(c.Request().Context(), &replies, query); err != nil {
			logger.Error().Err(err).Msg("Quick reply list failed")
			return c.JSON(http.StatusInternalServerError, models.QuickReplyListResponse{Error: "Failed to load quick replies"})
		}
		return c.JSON(http.StatusOK, models.QuickReplyListResponse{Success: true, Replies: replies})
	}
}

// QuickReplyRequest creates or updates a canned reply
type QuickReplyRequest struct {
	ID      int64  `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SaveQuickReplyHandler creates or updates a canned reply
// @Summary Save quick reply
// @Tags quick-replies
// @Accept json
// @Produce json
// @Param request body QuickReplyRequest true "Quick reply"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/quick-replies [post]
func SaveQuickReplyHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req QuickReplyRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid request body"})
		}
		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Title and content are required"})
		}

		ctx := c.Request().Context()
		var err error
		if req.ID > 0 {
			query := db.Rebind(`UPDATE quick_replies SET title = ?, content = ? WHERE id = ?`)
			_, err = db.ExecContext(ctx, query, req.Title, req.Content, req.ID)
		} else {
			query := db.Rebind(`INSERT INTO quick_replies (title, content) VALUES (?, ?)`)
			_, err = db.ExecContext(ctx, query, req.Title, req.Content)
		}
		if err != nil {
			logger.Error().Err(err).Msg("Quick reply save failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to save quick reply"})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Quick reply saved"})
	}
}

// DeleteQuickReplyHandler removes a canned reply
// @Summary Delete quick reply
// @Tags quick-replies
// @Produce json
// @Param id path int true "Quick reply id"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/quick-replies/{id} [delete]
func DeleteQuickReplyHandler(db *sqlx.DB, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid quick reply id"})
		}
		query := db.Rebind(`DELETE FROM quick_replies WHERE id = ?`)
		if _, err := db.ExecContext(c.Request().Context(), query, id); err != nil {
			logger.Error().Err(err).Msg("Quick reply delete failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to delete quick reply"})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Quick reply deleted"})
	}
}

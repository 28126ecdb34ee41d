package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"ticketdesk/internal/kvstore"
	"ticketdesk/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// BoardGetHandler reads one board key. A key that was never written
// returns an empty state, not an error.
// @Summary Read board entry
// @Tags board
// @Produce json
// @Param key path string true "Board key"
// @Success 200 {object} models.BoardResponse
// @Failure 500 {object} models.BoardResponse
// @Router /api/board/{key} [get]
func BoardGetHandler(store *kvstore.Store, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Param("key")
		raw, err := store.Get(c.Request().Context(), key)
		if err != nil {
			logger.Error().Err(err).Str("key", key).Msg("Board read failed")
			return c.JSON(http.StatusInternalServerError, models.BoardResponse{Error: "Failed to read board entry"})
		}

		var value interface{}
		if raw != nil {
			if err := json.Unmarshal(raw, &value); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("Board entry is not valid JSON, returning empty state")
				value = nil
			}
		}
		return c.JSON(http.StatusOK, models.BoardResponse{Success: true, Key: key, Value: value})
	}
}

// BoardPutHandler stores one board key as raw JSON
// @Summary Write board entry
// @Tags board
// @Accept json
// @Produce json
// @Param key path string true "Board key"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/board/{key} [put]
func BoardPutHandler(store *kvstore.Store, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Param("key")
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Failed to read request body"})
		}
		if err := store.Set(c.Request().Context(), key, body); err != nil {
			logger.Error().Err(err).Str("key", key).Msg("Board write failed")
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Failed to write board entry"})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Board entry saved"})
	}
}

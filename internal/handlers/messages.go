package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"ticketdesk/internal/email"
	"ticketdesk/internal/models"
	"ticketdesk/internal/tickets"
	"ticketdesk/internal/translate"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ReplyRequest is an agent reply to a ticket
type ReplyRequest struct {
	Content   string `json:"content"`
	Translate bool   `json:"translate"`
}

// ReplyHandler appends an agent reply and emails the submitter.
// Translation is attempted when requested and configured; a failed
// translation falls back to the original text.
// @Summary Reply to ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket id"
// @Param request body ReplyRequest true "Reply"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/tickets/{id}/reply [post]
func ReplyHandler(store *tickets.Store, mailer *email.Service, translator *translate.Translator, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid ticket id"})
		}
		var req ReplyRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid request body"})
		}
		if strings.TrimSpace(req.Content) == "" {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Reply content cannot be empty"})
		}

		ctx := c.Request().Context()
		ticket, err := store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, tickets.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.StatusResponse{Error: "Ticket not found"})
			}
			logger.Error().Err(err).Int64("id", id).Msg("Ticket fetch failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to load ticket"})
		}

		var translated *string
		if req.Translate && translator != nil {
			text, terr := translator.Translate(ctx, req.Content, ticket.Lang)
			if terr != nil {
				logger.Warn().Err(terr).Int64("id", id).Msg("Reply translation failed, sending original")
			} else if text != req.Content {
				translated = &text
			}
		}

		if _, err := store.AddMessage(ctx, id, req.Content, translated, models.SenderAgent); err != nil {
			logger.Error().Err(err).Int64("id", id).Msg("Reply insert failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to save reply"})
		}

		gameNames, err := store.GameNames(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Game name lookup failed")
			gameNames = map[string]string{}
		}
		gameName := models.UnknownGame
		if ticket.ProjectID != nil {
			if name, ok := gameNames[*ticket.ProjectID]; ok {
				gameName = name
			}
		}

		notification := email.ReplyNotification{
			TicketNumber: ticket.TicketNumber,
			Subject:      ticket.Subject,
			Message:      req.Content,
			UserEmail:    ticket.UserEmail,
			GameName:     gameName,
		}
		if translated != nil {
			notification.Translated = *translated
		}
		if err := mailer.SendReply(notification); err != nil {
			logger.Error().Err(err).Int64("id", id).Msg("Reply email failed")
			return c.JSON(http.StatusOK, models.StatusResponse{
				Success: true,
				Message: "Reply saved but email delivery failed",
			})
		}

		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Reply sent"})
	}
}

// InboundMessageRequest is a follow-up message from the submitter
type InboundMessageRequest struct {
	Content string `json:"content"`
}

// InboundMessageHandler appends a customer follow-up. A follow-up on a
// closed ticket reopens it.
// @Summary Add customer message
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket id"
// @Param request body InboundMessageRequest true "Message"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/tickets/{id}/messages [post]
func InboundMessageHandler(store *tickets.Store, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid ticket id"})
		}
		var req InboundMessageRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid request body"})
		}
		if strings.TrimSpace(req.Content) == "" {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Message cannot be empty"})
		}

		if _, err := store.AddMessage(c.Request().Context(), id, req.Content, nil, models.SenderUser); err != nil {
			if errors.Is(err, tickets.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.StatusResponse{Error: "Ticket not found"})
			}
			logger.Error().Err(err).Int64("id", id).Msg("Message insert failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to save message"})
		}

		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Message added"})
	}
}

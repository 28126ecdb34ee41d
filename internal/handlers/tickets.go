package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ticketdesk/internal/models"
	"ticketdesk/internal/tickets"
	"ticketdesk/internal/utils"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// parseFilterState builds the filter from the list query params.
// games semantics: absent or "all" selects every game (no predicate),
// "none" is the explicit empty selection, anything else is a comma
// list of project ids (with "unknown" selecting null/empty ids).
func parseFilterState(c echo.Context) tickets.FilterState {
	f := tickets.FilterState{
		Status:        c.QueryParam("status"),
		ImportantOnly: c.QueryParam("important") == "true",
		DateRange:     c.QueryParam("range"),
		Search:        strings.TrimSpace(c.QueryParam("q")),
	}
	if f.Status == "" {
		f.Status = tickets.StatusAll
	}
	if f.DateRange == "" {
		f.DateRange = tickets.RangeAll
	}
	if f.DateRange == tickets.RangeCustom {
		if from, err := time.Parse(time.RFC3339, c.QueryParam("from")); err == nil {
			f.CustomFrom = from
		}
		if to, err := time.Parse(time.RFC3339, c.QueryParam("to")); err == nil {
			f.CustomTo = to
		}
	}

	switch games := c.QueryParam("games"); games {
	case "", "all":
		f.GameIDs = nil
	case "none":
		f.GameIDs = []string{}
	default:
		f.GameIDs = strings.Split(games, ",")
	}

	return f
}

// TicketListHandler returns one page of the filtered ticket list
// @Summary List tickets
// @Description Filtered, paginated ticket list. Pass a session id to accumulate pages across scroll requests.
// @Tags tickets
// @Produce json
// @Param status query string false "Status filter (all, open, pending, closed, duplicated)" default(all)
// @Param important query bool false "Important-only flag"
// @Param range query string false "Date range preset" default(all)
// @Param games query string false "Comma-separated project ids, all, or none"
// @Param q query string false "Search text"
// @Param page query int false "Page number" default(0)
// @Param session query string false "Scroll session id"
// @Success 200 {object} models.TicketListResponse
// @Failure 500 {object} models.TicketListResponse
// @Router /api/tickets [get]
func TicketListHandler(store *tickets.Store, sessions *tickets.Sessions, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		f := parseFilterState(c)
		page, _ := strconv.Atoi(c.QueryParam("page"))
		if page < 0 {
			page = 0
		}

		// A selection covering every known game is no filter at all
		if f.GameIDs != nil && len(f.GameIDs) > 0 {
			known, err := store.KnownProjectIDs(c.Request().Context())
			if err == nil && tickets.CoversAllGames(f.GameIDs, known) {
				f.GameIDs = nil
			}
		}

		if sessionID := c.QueryParam("session"); sessionID != "" {
			list, hasMore, err := sessions.Load(c.Request().Context(), sessionID, f, page)
			if err != nil && !errors.Is(err, tickets.ErrLoadInFlight) {
				logger.Error().Err(err).Msg("Ticket list load failed")
				return c.JSON(http.StatusInternalServerError, models.TicketListResponse{
					Error: "Failed to load tickets",
				})
			}
			return c.JSON(http.StatusOK, models.TicketListResponse{
				Success: true,
				Tickets: list,
				Page:    page,
				HasMore: hasMore,
			})
		}

		rows, err := store.ListPage(c.Request().Context(), f, time.Now(), page)
		if err != nil {
			logger.Error().Err(err).Msg("Ticket list query failed")
			return c.JSON(http.StatusInternalServerError, models.TicketListResponse{
				Error: "Failed to load tickets",
			})
		}
		return c.JSON(http.StatusOK, models.TicketListResponse{
			Success: true,
			Tickets: rows,
			Page:    page,
			HasMore: len(rows) == tickets.PageSize,
		})
	}
}

// TicketDetailHandler returns a ticket and its ordered messages
// @Summary Get ticket
// @Tags tickets
// @Produce json
// @Param id path int true "Ticket id"
// @Success 200 {object} models.TicketDetailResponse
// @Failure 404 {object} models.TicketDetailResponse
// @Router /api/tickets/{id} [get]
func TicketDetailHandler(store *tickets.Store, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.TicketDetailResponse{Error: "Invalid ticket id"})
		}

		ticket, err := store.Get(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, tickets.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.TicketDetailResponse{Error: "Ticket not found"})
			}
			logger.Error().Err(err).Int64("id", id).Msg("Ticket fetch failed")
			return c.JSON(http.StatusInternalServerError, models.TicketDetailResponse{Error: "Failed to load ticket"})
		}

		msgs, err := store.Messages(c.Request().Context(), id)
		if err != nil {
			logger.Error().Err(err).Int64("id", id).Msg("Message fetch failed")
			return c.JSON(http.StatusInternalServerError, models.TicketDetailResponse{Error: "Failed to load messages"})
		}

		return c.JSON(http.StatusOK, models.TicketDetailResponse{
			Success:  true,
			Ticket:   ticket,
			Messages: msgs,
		})
	}
}

// CreateTicketRequest is a new inbound customer submission
type CreateTicketRequest struct {
	Email      string          `json:"email"`
	Subject    string          `json:"subject"`
	Message    string          `json:"message"`
	ProjectID  *string         `json:"project_id"`
	GameState  models.Snapshot `json:"game_state"`
	DeviceInfo models.Snapshot `json:"device_info"`
}

// CreateTicketHandler accepts a first inbound message
// @Summary Create ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body CreateTicketRequest true "Inbound submission"
// @Success 200 {object} models.TicketDetailResponse
// @Failure 400 {object} models.TicketDetailResponse
// @Router /api/tickets [post]
func CreateTicketHandler(store *tickets.Store, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req CreateTicketRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.TicketDetailResponse{Error: "Invalid request body"})
		}
		if !emailRegex.MatchString(req.Email) {
			return c.JSON(http.StatusBadRequest, models.TicketDetailResponse{Error: "Invalid email address"})
		}
		if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
			return c.JSON(http.StatusBadRequest, models.TicketDetailResponse{Error: "Subject and message are required"})
		}

		ticket, err := store.Create(c.Request().Context(), tickets.InboundTicket{
			Email:      req.Email,
			Subject:    req.Subject,
			Message:    req.Message,
			Lang:       utils.DetectLanguage(req.Message),
			ProjectID:  req.ProjectID,
			GameState:  req.GameState,
			DeviceInfo: req.DeviceInfo,
		})
		if err != nil {
			logger.Error().Err(err).Msg("Ticket creation failed")
			return c.JSON(http.StatusInternalServerError, models.TicketDetailResponse{Error: "Failed to create ticket"})
		}

		return c.JSON(http.StatusOK, models.TicketDetailResponse{Success: true, Ticket: ticket})
	}
}

// StatusRequest sets an explicit status
type StatusRequest struct {
	Status string `json:"status"`
}

// SetStatusHandler sets a ticket's status to an explicit value
// @Summary Set ticket status
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket id"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/tickets/{id}/status [put]
func SetStatusHandler(store *tickets.Store, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid ticket id"})
		}
		var req StatusRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid request body"})
		}
		if err := store.SetStatus(c.Request().Context(), id, req.Status); err != nil {
			if errors.Is(err, tickets.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.StatusResponse{Error: "Ticket not found"})
			}
			logger.Error().Err(err).Int64("id", id).Msg("Status update failed")
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Status updated"})
	}
}

// ToggleStatusHandler advances a ticket through the manual status cycle
// @Summary Toggle ticket status
// @Tags tickets
// @Produce json
// @Param id path int true "Ticket id"
// @Success 200 {object} models.StatusResponse
// @Failure 404 {object} models.StatusResponse
// @Router /api/tickets/{id}/toggle [post]
func ToggleStatusHandler(store *tickets.Store, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid ticket id"})
		}
		next, err := store.ToggleStatus(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, tickets.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.StatusResponse{Error: "Ticket not found"})
			}
			logger.Error().Err(err).Int64("id", id).Msg("Status toggle failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to toggle status"})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: next})
	}
}

// BulkRequest is a bulk action over a selection set
type BulkRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status,omitempty"`
}

// BulkStatusHandler sets the status of every selected ticket
// @Summary Bulk status update
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body BulkRequest true "Selection and status"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/tickets/bulk/status [post]
func BulkStatusHandler(store *tickets.Store, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req BulkRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid request body"})
		}
		if err := store.BulkSetStatus(c.Request().Context(), req.IDs, req.Status); err != nil {
			logger.Error().Err(err).Msg("Bulk status update failed")
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Statuses updated"})
	}
}

// BulkDeleteHandler hard-deletes every selected ticket
// @Summary Bulk delete
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body BulkRequest true "Selection"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Router /api/tickets/bulk/delete [post]
func BulkDeleteHandler(store *tickets.Store, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req BulkRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.StatusResponse{Error: "Invalid request body"})
		}
		if err := store.BulkDelete(c.Request().Context(), req.IDs); err != nil {
			logger.Error().Err(err).Msg("Bulk delete failed")
			return c.JSON(http.StatusInternalServerError, models.StatusResponse{Error: "Failed to delete tickets"})
		}
		return c.JSON(http.StatusOK, models.StatusResponse{Success: true, Message: "Tickets deleted"})
	}
}

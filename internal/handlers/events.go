package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ticketdesk/internal/realtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// EventsHandler streams ticket change events over SSE. Each backend
// change arrives as one `change` event; clients re-fetch whatever view
// they have mounted. The subscription is released when the client
// disconnects.
// @Summary Subscribe to ticket change events
// @Tags realtime
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /api/events [get]
func EventsHandler(hub *realtime.Hub, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		res := c.Response()
		res.Header().Set(echo.HeaderContentType, "text/event-stream")
		res.Header().Set("Cache-Control", "no-cache")
		res.Header().Set("Connection", "keep-alive")
		res.WriteHeader(http.StatusOK)
		res.Flush()

		flusher, ok := res.Writer.(http.Flusher)
		if !ok {
			return fmt.Errorf("response writer does not support streaming")
		}

		sub := hub.Subscribe(realtime.TableTickets)
		defer sub.Close()
		logger.Debug().Msg("SSE client connected")

		ctx := c.Request().Context()
		for {
			select {
			case <-ctx.Done():
				logger.Debug().Msg("SSE client disconnected")
				return nil
			case ev, ok := <-sub.C:
				if !ok {
					return nil
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(res, "event: change\ndata: %s\n\n", payload); err != nil {
					return nil
				}
				flusher.Flush()
			}
		}
	}
}

package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"storefront/internal/notify"
)

const wsWriteWait = 10 * time.Second

// WSHandler streams catalog events to websocket clients.
type WSHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(hub *notify.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Serve upgrades the connection and forwards every hub event as a JSON frame
// until the client goes away.
func (h *WSHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return nil
	}
	defer conn.Close()

	events, cancel := h.hub.Subscribe(notify.DefaultBuffer)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				return nil
			}
		}
	}
}

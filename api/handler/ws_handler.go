package handler

import (
	"context"

	"github.com/coder/websocket"
	"github.com/daveharmswebdev/property-manager-sub008/internal/auth"
	"github.com/daveharmswebdev/property-manager-sub008/internal/realtime"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// WSHandler upgrades authenticated requests into real-time sessions and runs
// the connect/disconnect lifecycle against the registrar. Identity reaches
// the registrar as an explicit struct built from verified claims.
type WSHandler struct {
	hub        *realtime.Hub
	registrar  *realtime.Registrar
	sendBuffer int
	log        zerolog.Logger
}

func NewWSHandler(hub *realtime.Hub, registrar *realtime.Registrar, sendBuffer int, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:        hub,
		registrar:  registrar,
		sendBuffer: sendBuffer,
		log:        log,
	}
}

func (h *WSHandler) RegisterRoutes(e *echo.Group) {
	e.GET("/ws", h.Serve)
}

// Serve godoc
// @Summary     Open the real-time notification channel
// @Description Upgrades to a WebSocket and enrolls the connection into its account's broadcast group.
// @Tags        realtime
// @Security 	BearerAuth
// @Router      /ws [get]
func (h *WSHandler) Serve(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		// The auth middleware is the gate; reaching here without claims
		// means the route was wired wrong.
		return echo.ErrUnauthorized
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to accept websocket connection")
		return nil
	}

	sess := realtime.NewSession(c.Request().Context(), conn, h.sendBuffer, h.log)
	h.hub.Register(sess)

	identity := realtime.Identity{UserID: claims.UserID, AccountID: claims.AccountID}
	if err := h.registrar.Connect(c.Request().Context(), sess.ID(), identity); err != nil {
		h.log.Error().Err(err).Str("conn_id", sess.ID()).Msg("Failed to enroll connection")
		h.hub.Unregister(sess.ID())
		sess.Close(err)
		return nil
	}

	sess.Run()
	<-sess.Done()

	// Cleanup runs on every termination path, clean or not. The request
	// context is gone by now, so removal uses a fresh one.
	if err := h.registrar.Disconnect(context.Background(), sess.ID()); err != nil {
		h.log.Error().Err(err).Str("conn_id", sess.ID()).Msg("Failed to remove connection from its group")
	}
	h.hub.Unregister(sess.ID())

	return nil
}

package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/notamente/backend/internal/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The bearer token is the gate; origins are not.
		return true
	},
}

// WSHandler upgrades GET /ws into the caller's change-event feed. Browsers
// cannot set headers on websocket dials, so the token may also arrive as a
// query parameter.
type WSHandler struct {
	guard *Guard
	hub   *events.Hub
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(guard *Guard, hub *events.Hub) *WSHandler {
	return &WSHandler{guard: guard, hub: hub}
}

// Connect handles GET /ws.
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	claims, err := h.guard.Resolve(token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.hub.Register(claims.UserID, conn)
}

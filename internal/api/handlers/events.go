package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jot/notes-backend/internal/api/middleware"
	"github.com/jot/notes-backend/internal/events"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the app origin; the access token in the
	// upgrade request is the real gate.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler upgrades an authenticated request into a lifecycle event
// stream for that user.
type EventsHandler struct {
	hub *events.Hub
}

func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	client := events.NewClient(h.hub, conn, userID)
	go client.Run()
}

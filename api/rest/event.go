package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/event"
)

// EventHandler serves the global game event.
type EventHandler struct {
	events *event.Service
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(s *event.Service) *EventHandler {
	return &EventHandler{events: s}
}

// Active handles GET /api/event. No running event is a normal state, not
// an error.
func (h *EventHandler) Active(c *gin.Context) {
	e, err := h.events.Active(c.Request.Context())
	if errors.Is(err, event.ErrNoActiveEvent) {
		c.JSON(http.StatusOK, gin.H{"event": nil})
		return
	}
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": e})
}

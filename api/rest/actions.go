package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/action"
	mw "github.com/flatearthwars/server/middleware"
)

// ActionHandler exposes the single-player actions.
type ActionHandler struct {
	actions *action.Service
}

// NewActionHandler creates an ActionHandler.
func NewActionHandler(actions *action.Service) *ActionHandler {
	return &ActionHandler{actions: actions}
}

// Meme handles POST /api/actions/meme.
func (h *ActionHandler) Meme(c *gin.Context) {
	username := mw.GetUsername(c)
	out, err := h.actions.PostMeme(c.Request.Context(), username)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Debate handles POST /api/actions/debate.
func (h *ActionHandler) Debate(c *gin.Context) {
	username := mw.GetUsername(c)
	out, err := h.actions.Debate(c.Request.Context(), username)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

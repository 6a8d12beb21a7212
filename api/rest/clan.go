package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/clanwar"
	"github.com/flatearthwars/server/model"
)

// ClanHandler exposes the faction war standings.
type ClanHandler struct {
	wars *clanwar.Service
}

// NewClanHandler creates a ClanHandler.
func NewClanHandler(s *clanwar.Service) *ClanHandler {
	return &ClanHandler{wars: s}
}

// Stats handles GET /api/clan/stats.
func (h *ClanHandler) Stats(c *gin.Context) {
	st, err := h.wars.Stats(c.Request.Context())
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// History handles GET /api/clan/history.
func (h *ClanHandler) History(c *gin.Context) {
	hist, err := h.wars.History(c.Request.Context(), 10)
	if err != nil {
		gameError(c, err)
		return
	}
	if hist == nil {
		hist = []model.ClanHistory{}
	}
	c.JSON(http.StatusOK, gin.H{"history": hist})
}

// Streak handles GET /api/clan/streak.
func (h *ClanHandler) Streak(c *gin.Context) {
	clan, streak, err := h.wars.Streak(c.Request.Context())
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clan": clan, "streak": streak})
}

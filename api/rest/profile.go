package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/battlelog"
	"github.com/flatearthwars/server/game/player"
	mw "github.com/flatearthwars/server/middleware"
)

// ProfileHandler serves the authenticated player's own state.
type ProfileHandler struct {
	players *player.Service
	battles *battlelog.Service
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(players *player.Service, battles *battlelog.Service) *ProfileHandler {
	return &ProfileHandler{players: players, battles: battles}
}

// Get returns the player's current state with energy regeneration applied.
// GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	username := mw.GetUsername(c)
	p, err := h.players.Snapshot(c.Request.Context(), username)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": p, "energy_cap": p.EnergyCap()})
}

// Battles returns the player's recent battle history.
// GET /api/profile/battles
func (h *ProfileHandler) Battles(c *gin.Context) {
	username := mw.GetUsername(c)
	battles, err := h.battles.RecentByParticipant(c.Request.Context(), username, 20)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"battles": battles})
}

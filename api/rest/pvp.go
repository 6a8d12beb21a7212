package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/pvp"
	mw "github.com/flatearthwars/server/middleware"
	"github.com/flatearthwars/server/model"
)

// PvPHandler exposes cross-faction combat.
type PvPHandler struct {
	pvp *pvp.Service
}

// NewPvPHandler creates a PvPHandler.
func NewPvPHandler(s *pvp.Service) *PvPHandler {
	return &PvPHandler{pvp: s}
}

// opponentView hides everything an attacker shouldn't see about a target.
type opponentView struct {
	Username  string `json:"username"`
	Level     int    `json:"level"`
	Points    int    `json:"points"`
	Followers int    `json:"followers"`
	Clan      string `json:"clan"`
}

// Opponents handles GET /api/pvp/opponents.
func (h *PvPHandler) Opponents(c *gin.Context) {
	username := mw.GetUsername(c)
	players, err := h.pvp.Opponents(c.Request.Context(), username)
	if err != nil {
		gameError(c, err)
		return
	}
	views := make([]opponentView, 0, len(players))
	for _, p := range players {
		views = append(views, opponentView{
			Username: p.Username, Level: p.Level,
			Points: p.Points, Followers: p.Followers, Clan: p.Clan,
		})
	}
	c.JSON(http.StatusOK, gin.H{"opponents": views})
}

type attackRequest struct {
	Defender string `json:"defender" binding:"required"`
}

// Attack handles POST /api/pvp/attack.
func (h *PvPHandler) Attack(c *gin.Context) {
	username := mw.GetUsername(c)
	var req attackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.pvp.Attack(c.Request.Context(), username, req.Defender)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// History handles GET /api/pvp/history.
func (h *PvPHandler) History(c *gin.Context) {
	username := mw.GetUsername(c)
	battles, err := h.pvp.History(c.Request.Context(), username, 20)
	if err != nil {
		gameError(c, err)
		return
	}
	if battles == nil {
		battles = []model.Battle{}
	}
	c.JSON(http.StatusOK, gin.H{"battles": battles})
}

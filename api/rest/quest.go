package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/quest"
	mw "github.com/flatearthwars/server/middleware"
)

// QuestHandler exposes the daily quest engine.
type QuestHandler struct {
	quests *quest.Service
}

// NewQuestHandler creates a QuestHandler.
func NewQuestHandler(s *quest.Service) *QuestHandler {
	return &QuestHandler{quests: s}
}

// List handles GET /api/quests. Regenerates the set when the daily cycle
// has elapsed.
func (h *QuestHandler) List(c *gin.Context) {
	username := mw.GetUsername(c)
	quests, err := h.quests.Daily(c.Request.Context(), username)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

// Claim handles POST /api/quests/:id/claim.
func (h *QuestHandler) Claim(c *gin.Context) {
	username := mw.GetUsername(c)
	questID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, reward, err := h.quests.Claim(c.Request.Context(), username, questID)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reward": reward, "player": p})
}

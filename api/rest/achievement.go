package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/achievement"
	mw "github.com/flatearthwars/server/middleware"
	"github.com/flatearthwars/server/model"
)

// AchievementHandler serves the player's unlocked badges.
type AchievementHandler struct {
	achievements *achievement.Service
}

// NewAchievementHandler creates an AchievementHandler.
func NewAchievementHandler(s *achievement.Service) *AchievementHandler {
	return &AchievementHandler{achievements: s}
}

// List handles GET /api/achievements.
func (h *AchievementHandler) List(c *gin.Context) {
	username := mw.GetUsername(c)
	badges, err := h.achievements.List(c.Request.Context(), username)
	if err != nil {
		gameError(c, err)
		return
	}
	if badges == nil {
		badges = []model.Achievement{}
	}
	c.JSON(http.StatusOK, gin.H{"achievements": badges})
}

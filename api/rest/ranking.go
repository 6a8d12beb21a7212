package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/ranking"
)

// RankingHandler serves the leaderboards.
type RankingHandler struct {
	ranking *ranking.Service
}

// NewRankingHandler creates a RankingHandler.
func NewRankingHandler(s *ranking.Service) *RankingHandler {
	return &RankingHandler{ranking: s}
}

// Top handles GET /api/ranking?metric=points&limit=10.
func (h *RankingHandler) Top(c *gin.Context) {
	metric := c.DefaultQuery("metric", "points")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.ranking.Top(c.Request.Context(), metric, limit)
	if err != nil {
		gameError(c, err)
		return
	}
	if entries == nil {
		entries = []ranking.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"metric": metric, "entries": entries})
}

package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/boss"
	mw "github.com/flatearthwars/server/middleware"
)

// BossHandler exposes the shared raid boss.
type BossHandler struct {
	boss *boss.Service
}

// NewBossHandler creates a BossHandler.
func NewBossHandler(s *boss.Service) *BossHandler {
	return &BossHandler{boss: s}
}

// Status handles GET /api/boss. Viewing a defeated boss pays out its
// reward; see boss.Service.Status.
func (h *BossHandler) Status(c *gin.Context) {
	username := mw.GetUsername(c)
	view, err := h.boss.Status(c.Request.Context(), username)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Attack handles POST /api/boss/attack.
func (h *BossHandler) Attack(c *gin.Context) {
	username := mw.GetUsername(c)
	out, err := h.boss.Attack(c.Request.Context(), username)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

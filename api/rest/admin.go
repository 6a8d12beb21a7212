package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/flatearthwars/server/config"
	"github.com/flatearthwars/server/game/boss"
	"github.com/flatearthwars/server/game/clanwar"
	"github.com/flatearthwars/server/game/event"
	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/scheduler"
)

// AdminAuth gates the admin surface behind a shared key header. An empty
// configured key disables the surface entirely.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" || c.GetHeader("X-Admin-Key") != adminKey {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// AdminHandler exposes operational controls: boss spawning, events, the
// clan-war trigger and scheduler introspection.
type AdminHandler struct {
	players *player.Service
	boss    *boss.Service
	events  *event.Service
	wars    *clanwar.Service
	sched   *scheduler.Scheduler
	game    config.GameConfig
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(players *player.Service, b *boss.Service, e *event.Service, w *clanwar.Service, sched *scheduler.Scheduler, game config.GameConfig) *AdminHandler {
	return &AdminHandler{players: players, boss: b, events: e, wars: w, sched: sched, game: game}
}

type spawnBossRequest struct {
	Name            string `json:"name"`
	HP              int    `json:"hp"`
	RewardFollowers int    `json:"reward_followers"`
	RewardPoints    int    `json:"reward_points"`
}

// SpawnBoss handles POST /api/admin/boss/spawn. Omitted fields fall back
// to the configured defaults.
func (h *AdminHandler) SpawnBoss(c *gin.Context) {
	var req spawnBossRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Name == "" {
		req.Name = h.game.BossName
	}
	if req.HP <= 0 {
		req.HP = h.game.BossHP
	}
	if req.RewardFollowers <= 0 {
		req.RewardFollowers = h.game.BossRewardFollowers
	}
	if req.RewardPoints <= 0 {
		req.RewardPoints = h.game.BossRewardPoints
	}

	b, err := h.boss.Spawn(c.Request.Context(), req.Name, req.HP, req.RewardFollowers, req.RewardPoints)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boss": b})
}

type createEventRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Effect      json.RawMessage `json:"effect"`
}

// CreateEvent handles POST /api/admin/event.
func (h *AdminHandler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.events.Create(c.Request.Context(), req.Name, req.Description, datatypes.JSON(req.Effect))
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": e})
}

// DeactivateEvent handles DELETE /api/admin/event.
func (h *AdminHandler) DeactivateEvent(c *gin.Context) {
	if err := h.events.Deactivate(c.Request.Context()); err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// TriggerClanWar handles POST /api/admin/clanwar/reset. The cooldown
// still applies; this only forces an early evaluation.
func (h *AdminHandler) TriggerClanWar(c *gin.Context) {
	winner, err := h.wars.Reset(c.Request.Context())
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winner": winner})
}

// Scheduler handles GET /api/admin/scheduler.
func (h *AdminHandler) Scheduler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tickers": h.sched.ListTickers()})
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	count, err := h.players.Count(c.Request.Context())
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": count})
}

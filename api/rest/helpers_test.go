package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flatearthwars/server/api/rest"
	"github.com/flatearthwars/server/battlelog"
	"github.com/flatearthwars/server/config"
	"github.com/flatearthwars/server/game/achievement"
	"github.com/flatearthwars/server/game/action"
	"github.com/flatearthwars/server/game/boss"
	"github.com/flatearthwars/server/game/clanwar"
	"github.com/flatearthwars/server/game/event"
	"github.com/flatearthwars/server/game/market"
	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/game/pvp"
	"github.com/flatearthwars/server/game/quest"
	"github.com/flatearthwars/server/game/shop"
	mw "github.com/flatearthwars/server/middleware"
	"github.com/flatearthwars/server/plugin/hook"
	"github.com/flatearthwars/server/scheduler"
	"github.com/flatearthwars/server/testutil"
)

const adminKey = "test-admin-key"

// env wires the full API surface against in-memory storage, mirroring the
// route layout in main.go.
type env struct {
	router  *gin.Engine
	db      *gorm.DB
	players *player.Service
	boss    *boss.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	c, ps := testutil.SetupTestCache(t)
	logger := zap.NewNop()
	sec := config.SecurityConfig{JWTSecret: "test-secret", JWTTTLH: time.Hour}
	game := config.GameConfig{
		BossName:            "Globie Overlord",
		BossHP:              1000,
		BossRewardFollowers: 200,
		BossRewardPoints:    100,
	}

	players := player.New(db, logger, 120*time.Second)
	battles := battlelog.New(db, logger)
	t.Cleanup(func() { battles.Stop(context.Background()) })
	hooks := hook.NewHookCenter()
	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)

	actions := action.New(players, hooks, nil, logger)
	pvpSvc := pvp.New(players, battles, hooks, nil, logger)
	bossSvc := boss.New(db, players, hooks, ps, logger)
	questSvc := quest.New(db, players, logger, 24*time.Hour)
	questSvc.RegisterHooks(hooks)
	warSvc := clanwar.New(db, hooks, ps, logger, 7*24*time.Hour)
	shopSvc := shop.New(players, logger)
	marketSvc := market.New(db, players, logger)
	eventSvc := event.New(db, logger)
	achievementSvc := achievement.New(db, logger)
	achievementSvc.RegisterHooks(hooks)

	authH := rest.NewAuthHandler(players, c, sec)
	profileH := rest.NewProfileHandler(players, battles)
	actionH := rest.NewActionHandler(actions)
	pvpH := rest.NewPvPHandler(pvpSvc)
	bossH := rest.NewBossHandler(bossSvc)
	questH := rest.NewQuestHandler(questSvc)
	shopH := rest.NewShopHandler(shopSvc)
	marketH := rest.NewMarketHandler(marketSvc)
	adminH := rest.NewAdminHandler(players, bossSvc, eventSvc, warSvc, sched, game)
	achievementH := rest.NewAchievementHandler(achievementSvc)

	auth := mw.Auth(sec, c)

	r := gin.New()
	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/register", authH.Register)
		authG.POST("/login", authH.Login)
		authG.POST("/logout", auth, authH.Logout)

		profileG := api.Group("/profile", auth)
		profileG.GET("", profileH.Get)
		profileG.GET("/battles", profileH.Battles)

		actionsG := api.Group("/actions", auth)
		actionsG.POST("/meme", actionH.Meme)
		actionsG.POST("/debate", actionH.Debate)

		pvpG := api.Group("/pvp", auth)
		pvpG.GET("/opponents", pvpH.Opponents)
		pvpG.POST("/attack", pvpH.Attack)
		pvpG.GET("/history", pvpH.History)

		bossG := api.Group("/boss", auth)
		bossG.GET("", bossH.Status)
		bossG.POST("/attack", bossH.Attack)

		questsG := api.Group("/quests", auth)
		questsG.GET("", questH.List)
		questsG.POST("/:id/claim", questH.Claim)

		shopG := api.Group("/shop", auth)
		shopG.GET("", shopH.Catalog)
		shopG.POST("/buy", shopH.Buy)
		shopG.POST("/upgrade", shopH.Upgrade)

		marketG := api.Group("/market", auth)
		marketG.GET("", marketH.Active)
		marketG.GET("/mine", marketH.Mine)
		marketG.POST("/list", marketH.List)
		marketG.POST("/:id/buy", marketH.Buy)

		api.GET("/achievements", auth, achievementH.List)

		adminG := api.Group("/admin")
		adminG.Use(rest.AdminAuth(adminKey))
		adminG.POST("/boss/spawn", adminH.SpawnBoss)
		adminG.POST("/event", adminH.CreateEvent)
		adminG.DELETE("/event", adminH.DeactivateEvent)
		adminG.POST("/clanwar/reset", adminH.TriggerClanWar)
		adminG.GET("/scheduler", adminH.Scheduler)
		adminG.GET("/stats", adminH.Stats)
	}

	return &env{router: r, db: db, players: players, boss: bossSvc}
}

// do performs a request with an optional JSON body. headers come in
// key/value pairs.
func (e *env) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	require.Zero(t, len(headers)%2, "headers must come in pairs")
	for i := 0; i < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates a player through the API and returns the session token.
func (e *env) register(t *testing.T, username, clan string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"username": username,
		"password": "pass1234",
		"clan":     clan,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func bearer(token string) []string {
	return []string{"Authorization", "Bearer " + token}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

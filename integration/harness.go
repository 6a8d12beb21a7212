package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	apirest "github.com/flatearthwars/server/api/rest"
	"github.com/flatearthwars/server/api/sse"
	"github.com/flatearthwars/server/battlelog"
	"github.com/flatearthwars/server/cache"
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
	"github.com/flatearthwars/server/game/ranking"
	"github.com/flatearthwars/server/game/shop"
	mw "github.com/flatearthwars/server/middleware"
	"github.com/flatearthwars/server/plugin/hook"
	"github.com/flatearthwars/server/scheduler"
	"github.com/flatearthwars/server/testutil"
)

// AdminKey is the shared admin header value the harness configures.
const AdminKey = "integration-admin-key"

// TestServer wraps a real HTTP server with every subsystem wired together.
type TestServer struct {
	DB      *gorm.DB
	Cache   cache.Cache
	PubSub  cache.PubSub
	Players *player.Service
	Boss    *boss.Service
	Wars    *clanwar.Service
	Quests  *quest.Service
	Battles *battlelog.Service
	Server  *httptest.Server
	URL     string // http://127.0.0.1:<port>
	Sec     config.SecurityConfig
}

// NewTestServer creates a fully wired game server for integration testing.
// It mirrors the dependency wiring in main.go.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// ---- Infrastructure ----
	db := testutil.SetupTestDB(t)
	c, pubsub := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	sec := config.SecurityConfig{
		JWTSecret:      "integration-test-secret",
		JWTTTLH:        72 * time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 2000,
	}
	game := config.GameConfig{
		BossName:            "Globie Overlord",
		BossHP:              1000,
		BossRewardFollowers: 200,
		BossRewardPoints:    100,
	}

	// ---- Game services ----
	battles := battlelog.New(db, logger)
	hooks := hook.NewHookCenter()
	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)

	playerSvc := player.New(db, logger, 120*time.Second)
	actionSvc := action.New(playerSvc, hooks, nil, logger)
	pvpSvc := pvp.New(playerSvc, battles, hooks, nil, logger)
	bossSvc := boss.New(db, playerSvc, hooks, pubsub, logger)
	questSvc := quest.New(db, playerSvc, logger, 24*time.Hour)
	questSvc.RegisterHooks(hooks)
	warSvc := clanwar.New(db, hooks, pubsub, logger, 7*24*time.Hour)
	shopSvc := shop.New(playerSvc, logger)
	marketSvc := market.New(db, playerSvc, logger)
	eventSvc := event.New(db, logger)
	rankSvc := ranking.New(playerSvc, c, logger)
	achievementSvc := achievement.New(db, logger)
	achievementSvc.RegisterHooks(hooks)

	// ---- Gin HTTP Server (mirrors main.go) ----
	r := gin.New()
	r.Use(mw.TraceID(), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(sec.RateLimitRPS), sec.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	authH := apirest.NewAuthHandler(playerSvc, c, sec)
	profileH := apirest.NewProfileHandler(playerSvc, battles)
	actionH := apirest.NewActionHandler(actionSvc)
	pvpH := apirest.NewPvPHandler(pvpSvc)
	bossH := apirest.NewBossHandler(bossSvc)
	questH := apirest.NewQuestHandler(questSvc)
	clanH := apirest.NewClanHandler(warSvc)
	shopH := apirest.NewShopHandler(shopSvc)
	marketH := apirest.NewMarketHandler(marketSvc)
	rankH := apirest.NewRankingHandler(rankSvc)
	eventH := apirest.NewEventHandler(eventSvc)
	adminH := apirest.NewAdminHandler(playerSvc, bossSvc, eventSvc, warSvc, sched, game)
	achievementH := apirest.NewAchievementHandler(achievementSvc)

	auth := mw.Auth(sec, c)

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

		clanG := api.Group("/clan", auth)
		clanG.GET("/stats", clanH.Stats)
		clanG.GET("/history", clanH.History)
		clanG.GET("/streak", clanH.Streak)

		shopG := api.Group("/shop", auth)
		shopG.GET("", shopH.Catalog)
		shopG.POST("/buy", shopH.Buy)
		shopG.POST("/upgrade", shopH.Upgrade)

		marketG := api.Group("/market", auth)
		marketG.GET("", marketH.Active)
		marketG.GET("/mine", marketH.Mine)
		marketG.POST("/list", marketH.List)
		marketG.POST("/:id/buy", marketH.Buy)

		api.GET("/ranking", rankH.Top)
		api.GET("/event", eventH.Active)
		api.GET("/achievements", auth, achievementH.List)

		adminG := api.Group("/admin")
		adminG.Use(apirest.AdminAuth(AdminKey))
		adminG.POST("/boss/spawn", adminH.SpawnBoss)
		adminG.POST("/event", adminH.CreateEvent)
		adminG.DELETE("/event", adminH.DeactivateEvent)
		adminG.POST("/clanwar/reset", adminH.TriggerClanWar)
		adminG.GET("/scheduler", adminH.Scheduler)
		adminG.GET("/stats", adminH.Stats)
	}

	sseH := sse.NewHandler(pubsub, c, sec, logger)
	r.GET("/sse", sseH.ServeSSE)

	server := httptest.NewServer(r)

	ts := &TestServer{
		DB:      db,
		Cache:   c,
		PubSub:  pubsub,
		Players: playerSvc,
		Boss:    bossSvc,
		Wars:    warSvc,
		Quests:  questSvc,
		Battles: battles,
		Server:  server,
		URL:     server.URL,
		Sec:     sec,
	}
	return ts
}

// Close shuts down the test server and the async battle writer.
func (ts *TestServer) Close() {
	ts.Battles.Stop(context.Background())
	ts.Server.Close()
}

// --- HTTP helpers ---

// PostJSON sends a POST request with JSON body and optional Bearer token.
func (ts *TestServer) PostJSON(t *testing.T, path string, body interface{}, token string) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// Get sends a GET request with optional Bearer token.
func (ts *TestServer) Get(t *testing.T, path string, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// AdminPost sends a POST request carrying the admin key header.
func (ts *TestServer) AdminPost(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", AdminKey)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// ReadJSON reads and decodes a JSON response body into the given target.
func ReadJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target), "body: %s", string(data))
}

// --- Auth helpers ---

// Register creates a player in the given clan and returns the token.
func (ts *TestServer) Register(t *testing.T, username, clan string) string {
	t.Helper()
	resp := ts.PostJSON(t, "/api/auth/register", map[string]string{
		"username": username,
		"password": username + "pass",
		"clan":     clan,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result map[string]interface{}
	ReadJSON(t, resp, &result)
	token := result["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// Login logs an existing player in and returns a fresh token.
func (ts *TestServer) Login(t *testing.T, username string) string {
	t.Helper()
	resp := ts.PostJSON(t, "/api/auth/login", map[string]string{
		"username": username,
		"password": username + "pass",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result map[string]interface{}
	ReadJSON(t, resp, &result)
	return result["token"].(string)
}

// UniqueID returns a short unique string suitable for usernames.
var testCounter uint64

func UniqueID(prefix string) string {
	n := atomic.AddUint64(&testCounter, 1)
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano()%100000, n)
}

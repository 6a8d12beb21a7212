package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apirest "github.com/flatearthwars/server/api/rest"
	"github.com/flatearthwars/server/api/sse"
	"github.com/flatearthwars/server/battlelog"
	"github.com/flatearthwars/server/game/achievement"
	"github.com/flatearthwars/server/cache"
	"github.com/flatearthwars/server/config"
	dbadapter "github.com/flatearthwars/server/db"
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
	"github.com/flatearthwars/server/model"
	"github.com/flatearthwars/server/plugin/hook"
	"github.com/flatearthwars/server/scheduler"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Cache / PubSub ----
	cacheConfig := cache.CacheConfig{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
		LocalPubSubBuf:  cfg.Cache.LocalPubSubBuf,
	}
	c, err := cache.NewCache(cacheConfig)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	pubsub, err := cache.NewPubSub(cacheConfig)
	if err != nil {
		log.Fatalf("pubsub: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Battle log ----
	battles := battlelog.New(db, logger)
	defer battles.Stop(context.Background())

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	// ---- Hook center ----
	hooks := hook.NewHookCenter()

	// ---- Game services ----
	regen := time.Duration(cfg.Game.EnergyRegenS) * time.Second
	playerSvc := player.New(db, logger, regen)
	actionSvc := action.New(playerSvc, hooks, nil, logger)
	pvpSvc := pvp.New(playerSvc, battles, hooks, nil, logger)
	bossSvc := boss.New(db, playerSvc, hooks, pubsub, logger)
	questSvc := quest.New(db, playerSvc, logger, time.Duration(cfg.Game.QuestCycleH)*time.Hour)
	questSvc.RegisterHooks(hooks)
	warSvc := clanwar.New(db, hooks, pubsub, logger, time.Duration(cfg.Game.ClanWarCooldownH)*time.Hour)
	shopSvc := shop.New(playerSvc, logger)
	marketSvc := market.New(db, playerSvc, logger)
	eventSvc := event.New(db, logger)
	rankSvc := ranking.New(playerSvc, c, logger)
	achievementSvc := achievement.New(db, logger)
	achievementSvc.RegisterHooks(hooks)

	// ---- Periodic tasks ----
	sched.AddTicker("clan_war_reset", time.Duration(cfg.Game.ClanWarCheckM)*time.Minute, func() {
		if winner, err := warSvc.Reset(context.Background()); err != nil {
			logger.Error("clan war reset failed", zap.Error(err))
		} else if winner != "" {
			logger.Info("clan war reset complete", zap.String("winner", winner))
		}
	})
	sched.AddTicker("ranking_refresh", time.Duration(cfg.Game.RankingRefreshM)*time.Minute, func() {
		rankSvc.Refresh(context.Background())
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	authH := apirest.NewAuthHandler(playerSvc, c, cfg.Security)
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
	achievementH := apirest.NewAchievementHandler(achievementSvc)
	adminH := apirest.NewAdminHandler(playerSvc, bossSvc, eventSvc, warSvc, sched, cfg.Game)

	auth := mw.Auth(cfg.Security, c)

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
		adminG.Use(apirest.AdminAuth(cfg.Server.AdminKey))
		adminG.POST("/boss/spawn", adminH.SpawnBoss)
		adminG.POST("/event", adminH.CreateEvent)
		adminG.DELETE("/event", adminH.DeactivateEvent)
		adminG.POST("/clanwar/reset", adminH.TriggerClanWar)
		adminG.GET("/scheduler", adminH.Scheduler)
		adminG.GET("/stats", adminH.Stats)
	}

	// ---- SSE ----
	sseH := sse.NewHandler(pubsub, c, cfg.Security, logger)
	r.GET("/sse", sseH.ServeSSE)

	// Spawn the default boss if none is active yet.
	if _, err := bossSvc.Active(context.Background()); err != nil {
		if _, err := bossSvc.Spawn(context.Background(), cfg.Game.BossName, cfg.Game.BossHP,
			cfg.Game.BossRewardFollowers, cfg.Game.BossRewardPoints); err != nil {
			logger.Error("initial boss spawn failed", zap.Error(err))
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/cache"
	"github.com/flatearthwars/server/config"
	"github.com/flatearthwars/server/game/player"
	mw "github.com/flatearthwars/server/middleware"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	players *player.Service
	cache   cache.Cache
	sec     config.SecurityConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(players *player.Service, c cache.Cache, sec config.SecurityConfig) *AuthHandler {
	return &AuthHandler{players: players, cache: c, sec: sec}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=2,max=32"`
	Password string `json:"password" binding:"required,min=4,max=64"`
	Clan     string `json:"clan" binding:"required"`
}

// Register handles POST /api/auth/register. Registration requires a clan
// choice, so there is no auto-register on login.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.players.Create(c.Request.Context(), req.Username, req.Password, req.Clan)
	if err != nil {
		gameError(c, err)
		return
	}

	token, err := h.issueSession(c, p.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "player": p})
}

type loginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=32"`
	Password string `json:"password" binding:"required,min=4,max=64"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.players.GetByCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		gameError(c, err)
		return
	}

	token, err := h.issueSession(c, p.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "player": p})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Del(ctx, "session:"+tokenStr)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// issueSession mints a JWT and stores the session key in the cache so
// logout can revoke it before expiry.
func (h *AuthHandler) issueSession(c *gin.Context, username string) (string, error) {
	token, err := mw.GenerateToken(username, h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Set(ctx, "session:"+token, username, h.sec.JWTTTLH)
	return token, nil
}

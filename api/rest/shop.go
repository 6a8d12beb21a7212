package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/item"
	"github.com/flatearthwars/server/game/shop"
	mw "github.com/flatearthwars/server/middleware"
)

// ShopHandler exposes the follower-priced item shop.
type ShopHandler struct {
	shop *shop.Service
}

// NewShopHandler creates a ShopHandler.
func NewShopHandler(s *shop.Service) *ShopHandler {
	return &ShopHandler{shop: s}
}

// Catalog handles GET /api/shop.
func (h *ShopHandler) Catalog(c *gin.Context) {
	type upgradeEntry struct {
		Base string `json:"base"`
		item.UpgradePath
	}
	upgrades := make([]upgradeEntry, 0, len(item.Upgrades))
	for _, it := range h.shop.Catalog() {
		if up, ok := h.shop.UpgradeFor(it.ID); ok {
			upgrades = append(upgrades, upgradeEntry{Base: it.ID, UpgradePath: up})
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": h.shop.Catalog(), "upgrades": upgrades})
}

type shopRequest struct {
	Item string `json:"item" binding:"required"`
}

// Buy handles POST /api/shop/buy.
func (h *ShopHandler) Buy(c *gin.Context) {
	username := mw.GetUsername(c)
	var req shopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.shop.Buy(c.Request.Context(), username, req.Item)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": p})
}

// Upgrade handles POST /api/shop/upgrade. The request names the owned
// base item, not the target.
func (h *ShopHandler) Upgrade(c *gin.Context) {
	username := mw.GetUsername(c)
	var req shopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.shop.Upgrade(c.Request.Context(), username, req.Item)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": p})
}

package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/market"
	mw "github.com/flatearthwars/server/middleware"
	"github.com/flatearthwars/server/model"
)

// MarketHandler exposes the player-to-player market.
type MarketHandler struct {
	market *market.Service
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(s *market.Service) *MarketHandler {
	return &MarketHandler{market: s}
}

// Active handles GET /api/market.
func (h *MarketHandler) Active(c *gin.Context) {
	listings, err := h.market.Active(c.Request.Context())
	if err != nil {
		gameError(c, err)
		return
	}
	if listings == nil {
		listings = []model.MarketListing{}
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// Mine handles GET /api/market/mine.
func (h *MarketHandler) Mine(c *gin.Context) {
	username := mw.GetUsername(c)
	listings, err := h.market.BySeller(c.Request.Context(), username)
	if err != nil {
		gameError(c, err)
		return
	}
	if listings == nil {
		listings = []model.MarketListing{}
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

type listRequest struct {
	Item  string `json:"item" binding:"required"`
	Price int    `json:"price" binding:"required"`
}

// List handles POST /api/market/list.
func (h *MarketHandler) List(c *gin.Context) {
	username := mw.GetUsername(c)
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	listing, err := h.market.CreateListing(c.Request.Context(), username, req.Item, req.Price)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// Buy handles POST /api/market/:id/buy.
func (h *MarketHandler) Buy(c *gin.Context) {
	username := mw.GetUsername(c)
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	listing, err := h.market.Buy(c.Request.Context(), username, listingID)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flatearthwars/server/game/boss"
	"github.com/flatearthwars/server/game/event"
	"github.com/flatearthwars/server/game/market"
	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/game/pvp"
	"github.com/flatearthwars/server/game/quest"
	"github.com/flatearthwars/server/game/rules"
	"github.com/flatearthwars/server/game/shop"
)

// gameError writes the HTTP response for a service error. Every game
// outcome maps to a 4xx the client can show and retry; anything
// unrecognized is storage trouble and surfaces as 503.
func gameError(c *gin.Context, err error) {
	status := http.StatusServiceUnavailable
	msg := "service unavailable"

	switch {
	case errors.Is(err, rules.ErrInsufficientEnergy):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, shop.ErrInsufficientFollowers),
		errors.Is(err, market.ErrInsufficientFollowers):
		status, msg = http.StatusPaymentRequired, err.Error()
	case errors.Is(err, shop.ErrItemNotFound),
		errors.Is(err, market.ErrItemNotOwned),
		errors.Is(err, player.ErrPlayerNotFound),
		errors.Is(err, boss.ErrNoActiveBoss),
		errors.Is(err, event.ErrNoActiveEvent),
		errors.Is(err, quest.ErrQuestNotFound),
		errors.Is(err, market.ErrListingNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, shop.ErrItemAlreadyOwned),
		errors.Is(err, player.ErrUsernameTaken),
		errors.Is(err, quest.ErrQuestClaimed),
		errors.Is(err, market.ErrListingUnavailable):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, shop.ErrItemNotUpgradable),
		errors.Is(err, player.ErrInvalidClan),
		errors.Is(err, pvp.ErrSelfAttack),
		errors.Is(err, pvp.ErrSameClan),
		errors.Is(err, quest.ErrQuestNotCompleted),
		errors.Is(err, market.ErrOwnListing),
		errors.Is(err, market.ErrInvalidPrice):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, player.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, err.Error()
	}

	c.JSON(status, gin.H{"error": msg})
}

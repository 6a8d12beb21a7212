// Package shop sells catalog items and upgrades for followers.
package shop

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/flatearthwars/server/game/item"
	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/model"
)

var (
	ErrItemNotFound          = errors.New("item not found")
	ErrItemAlreadyOwned      = errors.New("item already owned")
	ErrItemNotUpgradable     = errors.New("item not upgradable")
	ErrInsufficientFollowers = errors.New("not enough followers")
)

// Service resolves shop purchases against player state.
type Service struct {
	players *player.Service
	logger  *zap.Logger
}

// New creates a shop Service.
func New(players *player.Service, logger *zap.Logger) *Service {
	return &Service{players: players, logger: logger}
}

// Catalog returns the purchasable items in display order.
func (s *Service) Catalog() []item.CatalogItem { return item.Catalog }

// UpgradeFor returns the upgrade path for a base item, if any.
func (s *Service) UpgradeFor(baseID string) (item.UpgradePath, bool) {
	up, ok := item.Upgrades[baseID]
	return up, ok
}

// Buy purchases a catalog item: unknown items, duplicates and thin
// wallets all come back as recoverable outcomes with the player state
// untouched.
func (s *Service) Buy(ctx context.Context, username, itemID string) (*model.Player, error) {
	it, ok := item.Lookup(itemID)
	if !ok {
		return nil, ErrItemNotFound
	}
	return s.players.Mutate(ctx, username, func(p *model.Player) error {
		if p.Items.Has(it.ID) {
			return ErrItemAlreadyOwned
		}
		if p.Followers < it.Cost {
			return ErrInsufficientFollowers
		}
		p.Followers -= it.Cost
		p.Items = append(p.Items, it.ID)
		return nil
	})
}

// Upgrade swaps an owned base item for its upgrade target at the upgrade
// cost. The base item is consumed.
func (s *Service) Upgrade(ctx context.Context, username, baseID string) (*model.Player, error) {
	up, ok := item.Upgrades[baseID]
	if !ok {
		return nil, ErrItemNotUpgradable
	}
	return s.players.Mutate(ctx, username, func(p *model.Player) error {
		if !p.Items.Has(baseID) {
			return ErrItemNotFound
		}
		if p.Items.Has(up.Target) {
			return ErrItemAlreadyOwned
		}
		if p.Followers < up.Cost {
			return ErrInsufficientFollowers
		}
		p.Followers -= up.Cost
		p.Items = p.Items.Remove(baseID)
		p.Items = append(p.Items, up.Target)
		return nil
	})
}

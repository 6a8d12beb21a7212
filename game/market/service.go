// Package market runs the player-to-player item market.
package market

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/model"
)

var (
	ErrListingNotFound       = errors.New("listing not found")
	ErrListingUnavailable    = errors.New("listing no longer available")
	ErrOwnListing            = errors.New("cannot buy your own listing")
	ErrItemNotOwned          = errors.New("item not owned")
	ErrInvalidPrice          = errors.New("price must be positive")
	ErrInsufficientFollowers = errors.New("not enough followers")
)

// Service resolves market listings and sales.
type Service struct {
	db      *gorm.DB
	players *player.Service
	logger  *zap.Logger
}

// New creates a market Service.
func New(db *gorm.DB, players *player.Service, logger *zap.Logger) *Service {
	return &Service{db: db, players: players, logger: logger}
}

// Active returns all open listings, newest first.
func (s *Service) Active(ctx context.Context) ([]model.MarketListing, error) {
	var listings []model.MarketListing
	err := s.db.WithContext(ctx).
		Where("status = ?", model.ListingActive).
		Order("timestamp DESC").
		Find(&listings).Error
	return listings, err
}

// CreateListing puts one of the seller's items up for sale. The item
// leaves the seller's inventory immediately so it cannot be listed twice
// or keep granting its modifiers while on the market.
func (s *Service) CreateListing(ctx context.Context, seller, itemID string, price int) (*model.MarketListing, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	_, err := s.players.Mutate(ctx, seller, func(p *model.Player) error {
		if !p.Items.Has(itemID) {
			return ErrItemNotOwned
		}
		p.Items = p.Items.Remove(itemID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	listing := &model.MarketListing{
		Seller:    seller,
		Item:      itemID,
		Price:     price,
		Status:    model.ListingActive,
		Timestamp: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// Buy purchases an active listing: the buyer pays the price in followers
// and receives the item, the seller is credited. The listing flips to
// sold with a conditional UPDATE so two buyers cannot both win it.
func (s *Service) Buy(ctx context.Context, buyer string, listingID int64) (*model.MarketListing, error) {
	var listing model.MarketListing
	err := s.db.WithContext(ctx).First(&listing, listingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	if listing.Status != model.ListingActive {
		return nil, ErrListingUnavailable
	}
	if listing.Seller == buyer {
		return nil, ErrOwnListing
	}

	_, err = s.players.Mutate(ctx, buyer, func(p *model.Player) error {
		if p.Followers < listing.Price {
			return ErrInsufficientFollowers
		}
		res := s.db.WithContext(ctx).Model(&model.MarketListing{}).
			Where("id = ? AND status = ?", listing.ID, model.ListingActive).
			Updates(map[string]interface{}{"status": model.ListingSold, "buyer": buyer})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrListingUnavailable
		}
		p.Followers -= listing.Price
		p.Items = append(p.Items, listing.Item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Credit the seller. If the seller account is gone the sale still
	// stands; the credit is just logged and dropped.
	if _, err := s.players.Mutate(ctx, listing.Seller, func(p *model.Player) error {
		p.Followers += listing.Price
		return nil
	}); err != nil {
		s.logger.Warn("seller credit failed",
			zap.String("seller", listing.Seller),
			zap.Int64("listing", listing.ID),
			zap.Error(err))
	}

	listing.Status = model.ListingSold
	listing.Buyer = buyer
	return &listing, nil
}

// BySeller returns a player's own listings, any status, newest first.
func (s *Service) BySeller(ctx context.Context, seller string) ([]model.MarketListing, error) {
	var listings []model.MarketListing
	err := s.db.WithContext(ctx).
		Where("seller = ?", seller).
		Order("timestamp DESC").
		Find(&listings).Error
	return listings, err
}

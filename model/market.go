package model

import "time"

// Market listing status values.
const (
	ListingActive = "active"
	ListingSold   = "sold"
)

// MarketListing is a player-to-player sale offer. Listings are never
// deleted; a purchase flips Status to sold and records the buyer.
type MarketListing struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Seller    string    `gorm:"size:32;index;not null" json:"seller"`
	Item      string    `gorm:"size:32;not null" json:"item"`
	Price     int       `gorm:"not null" json:"price"`
	Status    string    `gorm:"size:8;default:active;index" json:"status"`
	Buyer     string    `gorm:"size:32" json:"buyer"`
	Timestamp time.Time `json:"timestamp"`
}

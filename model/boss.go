package model

// Boss is the server-wide raid target. At most one row is active; spawning
// a new boss replaces any existing row. HP only ever decreases (floored at
// zero) until a fresh boss is spawned.
type Boss struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string `gorm:"size:64;not null" json:"name"`
	MaxHP           int    `gorm:"not null" json:"max_hp"`
	HP              int    `gorm:"not null" json:"hp"`
	RewardFollowers int    `gorm:"not null" json:"reward_followers"`
	RewardPoints    int    `gorm:"not null" json:"reward_points"`
	Active          bool   `gorm:"default:true" json:"active"`
}

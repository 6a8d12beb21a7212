package model

import "time"

// Achievement is an unlocked player badge.
type Achievement struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:32;uniqueIndex:idx_achievement_owner_badge;not null" json:"username"`
	Badge     string    `gorm:"size:64;uniqueIndex:idx_achievement_owner_badge;not null" json:"badge"`
	Achieved  bool      `gorm:"default:true" json:"achieved"`
	Timestamp time.Time `json:"timestamp"`
}

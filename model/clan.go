package model

import "time"

// ClanHistory is one immutable weekly clan-war result.
type ClanHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Clan      string    `gorm:"size:16;not null" json:"clan"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

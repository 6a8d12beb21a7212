package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Clan identifiers. Every player belongs to exactly one of the two factions.
const (
	ClanFlatEarthers = "flat_earthers"
	ClanGlobies      = "globies"
)

// ValidClan reports whether c is one of the two playable factions.
func ValidClan(c string) bool {
	return c == ClanFlatEarthers || c == ClanGlobies
}

// ItemList is a player's inventory: an ordered list of catalog item IDs
// persisted as a JSON array in a text column.
//
// Scan repairs malformed or legacy data (non-JSON strings, numbers written
// by old clients) to an empty list instead of failing, so the record store
// is self-healing and in-game code never re-checks the shape.
type ItemList []string

// Value implements driver.Valuer.
func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return "[]", nil
	}
	return string(b), nil
}

// Scan implements sql.Scanner. It never returns an error: unreadable
// inventory data becomes an empty list.
func (l *ItemList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = ItemList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		*l = ItemList{}
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		*l = ItemList{}
		return nil
	}
	*l = ItemList(items)
	return nil
}

// GormDataType tells gorm to store the list in a plain text column.
func (ItemList) GormDataType() string { return "text" }

// Has reports whether the inventory contains the given item ID.
func (l ItemList) Has(id string) bool {
	for _, it := range l {
		if it == id {
			return true
		}
	}
	return false
}

// Remove returns a copy of the list with the first occurrence of id removed.
func (l ItemList) Remove(id string) ItemList {
	out := make(ItemList, 0, len(l))
	removed := false
	for _, it := range l {
		if !removed && it == id {
			removed = true
			continue
		}
		out = append(out, it)
	}
	return out
}

// Player is the single mutable per-player record every subsystem reads and
// writes. LastLogin is the energy regeneration checkpoint, not the literal
// last login time: it advances whenever a regen tick fires.
type Player struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	PasswordHash string    `gorm:"size:64;not null" json:"-"`
	Energy       int       `gorm:"default:10" json:"energy"`
	Points       int       `gorm:"default:0" json:"points"` // may go negative
	Level        int       `gorm:"default:1" json:"level"`
	Followers    int       `gorm:"default:0" json:"followers"`
	Items        ItemList  `gorm:"type:text" json:"items"`
	LastLogin    time.Time `json:"last_login"`
	Wins         int       `gorm:"default:0" json:"wins"`
	Losses       int       `gorm:"default:0" json:"losses"`
	Clan         string    `gorm:"size:16;index;not null" json:"clan"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EnergyCap returns the maximum energy for the player's current level.
func (p *Player) EnergyCap() int { return 10 + p.Level*5 }

package model

import (
	"time"

	"gorm.io/datatypes"
)

// Event is a global game event shown to all players. Only one event is
// active at a time; creating a new one deactivates the rest. Effect holds
// event-specific parameters as JSON (multipliers, bonus amounts).
type Event struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"size:64;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Effect      datatypes.JSON `json:"effect"`
	Active      bool           `gorm:"default:false;index" json:"active"`
	Timestamp   time.Time      `json:"timestamp"`
}

package model

import "time"

// Battle outcome values.
const (
	BattleOutcomeWin  = "win"
	BattleOutcomeLose = "lose"
)

// Battle is one immutable PvP battle log entry, always written from the
// attacker's point of view.
type Battle struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Attacker        string    `gorm:"size:32;index:idx_battle_attacker;not null" json:"attacker"`
	Defender        string    `gorm:"size:32;index:idx_battle_defender;not null" json:"defender"`
	Outcome         string    `gorm:"size:8;not null" json:"outcome"`
	FollowersChange int       `json:"followers_change"`
	PointsChange    int       `json:"points_change"`
	Timestamp       time.Time `gorm:"index" json:"timestamp"`
}

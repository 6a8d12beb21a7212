package model

// Setting is a generic key/value row used for scheduling checkpoints such
// as the last clan-war reset and per-player quest generation timestamps.
type Setting struct {
	Key   string `gorm:"primaryKey;size:64" json:"key"`
	Value string `gorm:"size:255" json:"value"`
}

// Well-known setting keys.
const (
	SettingClanWarLastReset = "clan_war_last_reset"
)

// QuestGenKey returns the setting key holding a player's last quest
// generation timestamp.
func QuestGenKey(username string) string { return "last_quests_" + username }

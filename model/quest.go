package model

import "time"

// QuestType categorizes which player action advances a quest.
type QuestType = string

const (
	QuestTypeMeme   QuestType = "meme"
	QuestTypeDebate QuestType = "debate"
	QuestTypePvP    QuestType = "pvp"
)

// Quest is one per-player daily goal. Reward is stored as text for
// backward compatibility with old rows but is semantically a follower
// amount.
type Quest struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:32;index:idx_quest_username;not null" json:"username"`
	QuestType string    `gorm:"size:16;not null" json:"quest_type"`
	Progress  int       `gorm:"default:0" json:"progress"`
	Goal      int       `gorm:"not null" json:"goal"`
	Reward    string    `gorm:"size:16;not null" json:"reward"`
	Completed bool      `gorm:"default:false" json:"completed"`
	Claimed   bool      `gorm:"default:false" json:"claimed"`
	Timestamp time.Time `json:"timestamp"`
}

package rules

import (
	"github.com/flatearthwars/server/game/item"
	"github.com/flatearthwars/server/model"
)

// Snapshot is the subset of player state PvP scoring reads.
type Snapshot struct {
	Username  string
	Points    int
	Followers int
	Items     model.ItemList
}

// BattleResult is the scored outcome of one PvP contest, from the
// attacker's point of view.
type BattleResult struct {
	Outcome       string `json:"outcome"` // model.BattleOutcomeWin / Lose
	AttackerScore int    `json:"attacker_score"`
	DefenderScore int    `json:"defender_score"`
	// Steal is the follower amount the attacker gains on a win.
	Steal int `json:"steal"`
	// PointsDelta is +20 on a win, -15 on a loss.
	PointsDelta int `json:"points_delta"`
}

// PvPBattle scores a contest between attacker and defender. Each side
// gets points plus a uniform [0,20] bonus; the attacker's rocket poster
// adds +30 and shades +10, the defender's flat map adds +15. Ties favor
// the attacker.
//
// On a win the steal is max(1, floor(defender.followers/10)). The
// defender is not debited; the transfer is one-sided in the current
// economy.
//
// Draw order: attacker bonus first, then defender bonus.
func PvPBattle(attacker, defender Snapshot, roll Roll) BattleResult {
	atkScore := attacker.Points + roll(20)
	defScore := defender.Points + roll(20)

	if attacker.Items.Has(item.RocketPoster) {
		atkScore += 30
	}
	if attacker.Items.Has(item.Shades) {
		atkScore += 10
	}
	if defender.Items.Has(item.FlatMap) {
		defScore += 15
	}

	res := BattleResult{AttackerScore: atkScore, DefenderScore: defScore}
	if atkScore >= defScore {
		steal := defender.Followers / 10
		if steal < 1 {
			steal = 1
		}
		res.Outcome = model.BattleOutcomeWin
		res.Steal = steal
		res.PointsDelta = 20
	} else {
		res.Outcome = model.BattleOutcomeLose
		res.PointsDelta = -15
	}
	return res
}

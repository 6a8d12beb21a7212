package rules

import "github.com/flatearthwars/server/model"

// LevelUp promotes p one level and grants +5 energy when points have
// reached level*100. A single invocation promotes at most one level even
// if points span multiple thresholds; callers run it once per action.
// The +5 bonus lands on top of the old level's cap; the raised cap only
// matters for the next regeneration cycle.
func LevelUp(p *model.Player) bool {
	if p.Points < p.Level*100 {
		return false
	}
	p.Level++
	p.Energy += 5
	return true
}

package rules

import (
	"time"

	"github.com/flatearthwars/server/model"
)

// DefaultRegenInterval is the time per regenerated energy point.
const DefaultRegenInterval = 120 * time.Second

// Regenerate applies time-based energy regeneration to p and returns the
// number of points regenerated.
//
// When at least one full interval has elapsed since the checkpoint, energy
// rises (capped at 10+level*5) and the checkpoint advances to now; the
// fractional remainder of the last interval is discarded. When no full
// interval has elapsed the checkpoint is left untouched, preserving
// partial progress toward the next point.
func Regenerate(p *model.Player, now time.Time, interval time.Duration) int {
	if interval <= 0 {
		interval = DefaultRegenInterval
	}
	elapsed := now.Sub(p.LastLogin)
	regenerated := int(elapsed / interval)
	if regenerated <= 0 {
		return 0
	}
	cap := p.EnergyCap()
	p.Energy += regenerated
	if p.Energy > cap {
		p.Energy = cap
	}
	p.LastLogin = now
	return regenerated
}

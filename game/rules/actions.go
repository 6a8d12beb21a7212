package rules

import (
	"github.com/flatearthwars/server/game/item"
	"github.com/flatearthwars/server/model"
)

// MemeResult reports the stat deltas of a successful meme post.
type MemeResult struct {
	PointsGain   int `json:"points_gain"`
	FollowerGain int `json:"follower_gain"`
}

// PostMeme applies the meme action to p. Base point gain is uniform in
// [5,15] and follower gain uniform in [1,5]; shades multiply the point
// gain by 1.1 (floored), a rocket poster adds a flat +50. Costs 1 energy.
// Returns ErrInsufficientEnergy without touching p when energy is gone.
func PostMeme(p *model.Player, roll Roll) (MemeResult, error) {
	if p.Energy <= 0 {
		return MemeResult{}, ErrInsufficientEnergy
	}

	gain := 5 + roll(10)
	followerGain := 1 + roll(4)

	if p.Items.Has(item.Shades) {
		gain = gain * 11 / 10
	}
	if p.Items.Has(item.RocketPoster) {
		gain += 50
	}

	p.Points += gain
	p.Followers += followerGain
	p.Energy -= EnergyCostMeme
	return MemeResult{PointsGain: gain, FollowerGain: followerGain}, nil
}

// DebateResult reports the outcome of a debate.
type DebateResult struct {
	Won          bool `json:"won"`
	PointsDelta  int  `json:"points_delta"`
	FollowerGain int  `json:"follower_gain"`
}

// DebateGlobie applies the debate action to p. The outcome is a fair coin
// flip; a flat map grants an independent 20% draw that upgrades a loss to
// a win. Win: +25 points, +10 followers. Loss: -10 points (points may go
// negative). Costs 2 energy regardless of outcome.
//
// Draw order: coin flip first, then the flat-map save.
func DebateGlobie(p *model.Player, roll Roll) (DebateResult, error) {
	if p.Energy < EnergyCostDebate {
		return DebateResult{}, ErrInsufficientEnergy
	}

	won := roll(1) == 0
	if p.Items.Has(item.FlatMap) && roll(99) < 20 {
		won = true
	}

	res := DebateResult{Won: won}
	if won {
		res.PointsDelta = 25
		res.FollowerGain = 10
		p.Points += 25
		p.Followers += 10
	} else {
		res.PointsDelta = -10
		p.Points -= 10
	}
	p.Energy -= EnergyCostDebate
	return res, nil
}

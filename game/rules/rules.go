// Package rules holds the pure game mechanics: energy regeneration,
// single-player actions, leveling and PvP scoring. Nothing here touches
// the database; services apply the results and persist them.
//
// All randomness flows through a Roll function so tests can force draws.
package rules

import (
	"errors"
	"math/rand"
)

// Roll returns a uniformly distributed integer in [0, n] inclusive.
type Roll func(n int) int

// DefaultRoll is the production Roll.
func DefaultRoll(n int) int { return rand.Intn(n + 1) }

// ErrInsufficientEnergy is returned when a player cannot pay an action's
// energy cost. It is a user-facing outcome, never fatal.
var ErrInsufficientEnergy = errors.New("not enough energy")

// Energy costs per action.
const (
	EnergyCostMeme   = 1
	EnergyCostDebate = 2
	EnergyCostPvP    = 3
	EnergyCostBoss   = 2
)

// BossDamage is the flat damage per boss attack.
const BossDamage = 50

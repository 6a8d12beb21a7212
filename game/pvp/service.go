// Package pvp resolves player-versus-player battles across faction lines.
package pvp

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/flatearthwars/server/battlelog"
	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/game/rules"
	"github.com/flatearthwars/server/model"
	"github.com/flatearthwars/server/plugin/hook"
)

var (
	ErrSelfAttack = errors.New("cannot attack yourself")
	ErrSameClan   = errors.New("cannot attack your own clan")
)

// Service resolves battles and records them on the battle log.
type Service struct {
	players *player.Service
	battles *battlelog.Service
	hooks   *hook.HookCenter
	roll    rules.Roll
	logger  *zap.Logger
}

// New creates a pvp Service. roll may be nil for the production RNG.
func New(players *player.Service, battles *battlelog.Service, hooks *hook.HookCenter, roll rules.Roll, logger *zap.Logger) *Service {
	if roll == nil {
		roll = rules.DefaultRoll
	}
	return &Service{players: players, battles: battles, hooks: hooks, roll: roll, logger: logger}
}

// Outcome is the attacker-facing result of one battle.
type Outcome struct {
	Result    rules.BattleResult `json:"result"`
	Defender  string             `json:"defender"`
	LeveledUp bool               `json:"leveled_up"`
	Player    *model.Player      `json:"player"`
}

// Opponents lists attackable players: everyone outside the attacker's clan.
func (s *Service) Opponents(ctx context.Context, username string) ([]model.Player, error) {
	p, err := s.players.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.players.Opponents(ctx, p.Clan, 20)
}

// Attack resolves a battle of username against defenderName.
//
// The defender is read as a snapshot and never written: the follower
// steal is one-sided and only the attacker's counters move. That keeps
// the resolution a single-player mutation, so only the attacker's lock
// is taken.
func (s *Service) Attack(ctx context.Context, username, defenderName string) (*Outcome, error) {
	if username == defenderName {
		return nil, ErrSelfAttack
	}
	defender, err := s.players.GetByUsername(ctx, defenderName)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Defender: defenderName}
	p, err := s.players.Mutate(ctx, username, func(p *model.Player) error {
		if p.Clan == defender.Clan {
			return ErrSameClan
		}
		if p.Energy < rules.EnergyCostPvP {
			return rules.ErrInsufficientEnergy
		}

		res := rules.PvPBattle(
			rules.Snapshot{Username: p.Username, Points: p.Points, Followers: p.Followers, Items: p.Items},
			rules.Snapshot{Username: defender.Username, Points: defender.Points, Followers: defender.Followers, Items: defender.Items},
			s.roll,
		)
		out.Result = res

		p.Points += res.PointsDelta
		p.Energy -= rules.EnergyCostPvP
		if res.Outcome == model.BattleOutcomeWin {
			p.Followers += res.Steal
			p.Wins++
		} else {
			p.Losses++
		}
		out.LeveledUp = rules.LevelUp(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Player = p

	s.battles.Record(&model.Battle{
		Attacker:        username,
		Defender:        defenderName,
		Outcome:         out.Result.Outcome,
		FollowersChange: out.Result.Steal,
		PointsChange:    out.Result.PointsDelta,
	})

	won := out.Result.Outcome == model.BattleOutcomeWin
	if s.hooks != nil {
		if _, err := s.hooks.Trigger(ctx, hook.OnPvPBattle, hook.ActionEvent{Username: username, Level: p.Level, Won: won}); err != nil {
			s.logger.Warn("hook listener failed",
				zap.String("event", hook.OnPvPBattle),
				zap.String("username", username),
				zap.Error(err))
		}
		if out.LeveledUp {
			s.hooks.Trigger(ctx, hook.OnLevelUp, hook.ActionEvent{Username: username, Level: p.Level}) //nolint:errcheck
		}
	}
	return out, nil
}

// History returns the player's recent battles.
func (s *Service) History(ctx context.Context, username string, limit int) ([]model.Battle, error) {
	return s.battles.RecentByParticipant(ctx, username, limit)
}

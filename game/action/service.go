// Package action resolves the single-player actions: posting memes and
// debating globies.
package action

import (
	"context"

	"go.uber.org/zap"

	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/game/rules"
	"github.com/flatearthwars/server/model"
	"github.com/flatearthwars/server/plugin/hook"
)

// Service applies action rules to player state and fires the follow-up
// hooks (quest progress, announcements).
type Service struct {
	players *player.Service
	hooks   *hook.HookCenter
	roll    rules.Roll
	logger  *zap.Logger
}

// New creates an action Service. roll may be nil for the production RNG.
func New(players *player.Service, hooks *hook.HookCenter, roll rules.Roll, logger *zap.Logger) *Service {
	if roll == nil {
		roll = rules.DefaultRoll
	}
	return &Service{players: players, hooks: hooks, roll: roll, logger: logger}
}

// MemeOutcome is the resolved result of posting a meme.
type MemeOutcome struct {
	Result    rules.MemeResult `json:"result"`
	LeveledUp bool             `json:"leveled_up"`
	Player    *model.Player    `json:"player"`
}

// PostMeme resolves the meme action for username: regen, rule, level
// check, persist, then quest/announcement hooks.
func (s *Service) PostMeme(ctx context.Context, username string) (*MemeOutcome, error) {
	out := &MemeOutcome{}
	p, err := s.players.Mutate(ctx, username, func(p *model.Player) error {
		res, err := rules.PostMeme(p, s.roll)
		if err != nil {
			return err
		}
		out.Result = res
		out.LeveledUp = rules.LevelUp(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Player = p

	s.fire(ctx, hook.OnMemePosted, hook.ActionEvent{Username: username, Level: p.Level})
	if out.LeveledUp {
		s.fire(ctx, hook.OnLevelUp, hook.ActionEvent{Username: username, Level: p.Level})
	}
	return out, nil
}

// DebateOutcome is the resolved result of a debate.
type DebateOutcome struct {
	Result    rules.DebateResult `json:"result"`
	LeveledUp bool               `json:"leveled_up"`
	Player    *model.Player      `json:"player"`
}

// Debate resolves the debate action for username.
func (s *Service) Debate(ctx context.Context, username string) (*DebateOutcome, error) {
	out := &DebateOutcome{}
	p, err := s.players.Mutate(ctx, username, func(p *model.Player) error {
		res, err := rules.DebateGlobie(p, s.roll)
		if err != nil {
			return err
		}
		out.Result = res
		out.LeveledUp = rules.LevelUp(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Player = p

	s.fire(ctx, hook.OnDebateFinished, hook.ActionEvent{Username: username, Level: p.Level, Won: out.Result.Won})
	if out.LeveledUp {
		s.fire(ctx, hook.OnLevelUp, hook.ActionEvent{Username: username, Level: p.Level})
	}
	return out, nil
}

// fire triggers a hook event; listener failures are logged, never
// propagated into the action result.
func (s *Service) fire(ctx context.Context, event string, data hook.ActionEvent) {
	if s.hooks == nil {
		return
	}
	if _, err := s.hooks.Trigger(ctx, event, data); err != nil {
		s.logger.Warn("hook listener failed",
			zap.String("event", event),
			zap.String("username", data.Username),
			zap.Error(err))
	}
}

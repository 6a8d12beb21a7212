// Package boss manages the server-wide raid target.
package boss

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flatearthwars/server/cache"
	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/game/rules"
	"github.com/flatearthwars/server/model"
	"github.com/flatearthwars/server/plugin/hook"
)

// ErrNoActiveBoss is returned when no boss has been spawned.
var ErrNoActiveBoss = errors.New("no active boss")

// AnnounceChannel is the pub/sub channel server-wide notices go out on.
const AnnounceChannel = "announce"

// Service owns the boss singleton. Damage is applied as one conditional
// UPDATE so concurrent attackers can never drive hp negative or lose a
// hit to a read-modify-write race.
type Service struct {
	db      *gorm.DB
	players *player.Service
	hooks   *hook.HookCenter
	pub     cache.PubSub
	logger  *zap.Logger
}

// New creates a boss Service. pub may be nil to disable announcements.
func New(db *gorm.DB, players *player.Service, hooks *hook.HookCenter, pub cache.PubSub, logger *zap.Logger) *Service {
	return &Service{db: db, players: players, hooks: hooks, pub: pub, logger: logger}
}

// Active returns the current boss or ErrNoActiveBoss.
func (s *Service) Active(ctx context.Context) (*model.Boss, error) {
	var b model.Boss
	err := s.db.WithContext(ctx).Where("active = ?", true).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveBoss
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// View is the result of checking on the boss.
type View struct {
	Boss     *model.Boss `json:"boss"`
	Defeated bool        `json:"defeated"`
	// Rewarded is set when the viewer was paid the defeat reward.
	Rewarded bool          `json:"rewarded"`
	Player   *model.Player `json:"player,omitempty"`
}

// Status returns the boss and, when it lies defeated, pays the viewer the
// full reward. The payout repeats on every view while the corpse is
// active; that is the established economy behavior and stays until a
// product decision replaces it (tracked as a balance question, not fixed
// here silently).
func (s *Service) Status(ctx context.Context, username string) (*View, error) {
	b, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	v := &View{Boss: b, Defeated: b.HP <= 0}
	if !v.Defeated {
		return v, nil
	}

	p, err := s.players.Mutate(ctx, username, func(p *model.Player) error {
		p.Followers += b.RewardFollowers
		p.Points += b.RewardPoints
		rules.LevelUp(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	v.Rewarded = true
	v.Player = p
	return v, nil
}

// AttackOutcome is the result of one boss hit.
type AttackOutcome struct {
	Damage   int           `json:"damage"`
	Boss     *model.Boss   `json:"boss"`
	Defeated bool          `json:"defeated"`
	Player   *model.Player `json:"player"`
}

// Attack deals the fixed damage to the active boss for 2 energy. The hp
// decrement is a single conditional UPDATE flooring at zero; the energy
// charge lands whether or not the hit finds remaining hp, matching the
// flat cost-per-swing economy.
func (s *Service) Attack(ctx context.Context, username string) (*AttackOutcome, error) {
	b, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.players.Mutate(ctx, username, func(p *model.Player) error {
		if p.Energy < rules.EnergyCostBoss {
			return rules.ErrInsufficientEnergy
		}
		p.Energy -= rules.EnergyCostBoss
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&model.Boss{}).
		Where("id = ? AND active = ? AND hp > 0", b.ID, true).
		Update("hp", gorm.Expr("CASE WHEN hp - ? < 0 THEN 0 ELSE hp - ? END", rules.BossDamage, rules.BossDamage))
	if res.Error != nil {
		return nil, res.Error
	}
	landed := res.RowsAffected > 0

	var after model.Boss
	if err := s.db.WithContext(ctx).First(&after, b.ID).Error; err != nil {
		return nil, err
	}

	out := &AttackOutcome{
		Damage:   rules.BossDamage,
		Boss:     &after,
		Defeated: after.HP <= 0,
		Player:   p,
	}

	if s.hooks != nil {
		s.hooks.Trigger(ctx, hook.OnBossHit, hook.ActionEvent{Username: username, Level: p.Level}) //nolint:errcheck
	}
	// Announce only the killing blow, not later swings at the corpse.
	if landed && after.HP <= 0 {
		s.announceDefeat(ctx, username, &after)
	}
	return out, nil
}

// Spawn replaces the boss singleton: any existing rows are removed and a
// fresh boss at full hp takes their place.
func (s *Service) Spawn(ctx context.Context, name string, hp, rewardFollowers, rewardPoints int) (*model.Boss, error) {
	b := &model.Boss{
		Name:            name,
		MaxHP:           hp,
		HP:              hp,
		RewardFollowers: rewardFollowers,
		RewardPoints:    rewardPoints,
		Active:          true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Boss{}).Error; err != nil {
			return err
		}
		return tx.Create(b).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("boss spawned", zap.String("name", name), zap.Int("hp", hp))
	return b, nil
}

func (s *Service) announceDefeat(ctx context.Context, username string, b *model.Boss) {
	if s.hooks != nil {
		s.hooks.Trigger(ctx, hook.OnBossDefeated, hook.ActionEvent{Username: username}) //nolint:errcheck
	}
	if s.pub == nil {
		return
	}
	msg, _ := json.Marshal(map[string]string{
		"type":   "boss_defeated",
		"boss":   b.Name,
		"slayer": username,
	})
	if err := s.pub.Publish(ctx, AnnounceChannel, string(msg)); err != nil {
		s.logger.Warn("boss defeat announcement failed", zap.Error(err))
	}
}

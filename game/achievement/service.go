// Package achievement unlocks one-time badges from action hooks and
// serves each player's trophy case.
package achievement

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flatearthwars/server/model"
	"github.com/flatearthwars/server/plugin/hook"
)

// Badge identifiers.
const (
	BadgeFirstMeme     = "first_meme"
	BadgeSilverTongue  = "silver_tongue"
	BadgeConqueror     = "conqueror"
	BadgeGiantSlayer   = "giant_slayer"
	BadgeRisingStar    = "rising_star"
	BadgeFlatOutFamous = "flat_out_famous"
)

// Service records unlocked badges.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// New creates an achievement Service.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger, now: time.Now}
}

// SetClock overrides the service clock. Test hook.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// List returns username's unlocked badges, newest first.
func (s *Service) List(ctx context.Context, username string) ([]model.Achievement, error) {
	var badges []model.Achievement
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("timestamp DESC").
		Find(&badges).Error
	return badges, err
}

// Award unlocks badge for username. Repeat awards are no-ops; the unique
// index on (username, badge) makes concurrent awards safe.
func (s *Service) Award(ctx context.Context, username, badge string) error {
	a := model.Achievement{
		Username:  username,
		Badge:     badge,
		Achieved:  true,
		Timestamp: s.now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&a).Error
}

// RegisterHooks subscribes badge awarding to the action events. Awards run
// after quest progress so an award failure never blocks progress tracking.
func (s *Service) RegisterHooks(hc *hook.HookCenter) {
	award := func(badge string, when func(hook.ActionEvent) bool) hook.HookFn {
		return func(ctx context.Context, _ string, data interface{}) (interface{}, error) {
			ev, ok := data.(hook.ActionEvent)
			if !ok || (when != nil && !when(ev)) {
				return data, nil
			}
			if err := s.Award(ctx, ev.Username, badge); err != nil {
				s.logger.Warn("achievement award failed",
					zap.String("badge", badge),
					zap.String("username", ev.Username),
					zap.Error(err))
			}
			return data, nil
		}
	}

	won := func(ev hook.ActionEvent) bool { return ev.Won }
	hc.Register(hook.OnMemePosted, 20, "achievements", award(BadgeFirstMeme, nil))
	hc.Register(hook.OnDebateFinished, 20, "achievements", award(BadgeSilverTongue, won))
	hc.Register(hook.OnPvPBattle, 20, "achievements", award(BadgeConqueror, won))
	hc.Register(hook.OnBossDefeated, 20, "achievements", award(BadgeGiantSlayer, nil))
	hc.Register(hook.OnLevelUp, 20, "achievements", func(ctx context.Context, _ string, data interface{}) (interface{}, error) {
		ev, ok := data.(hook.ActionEvent)
		if !ok {
			return data, nil
		}
		if ev.Level >= 5 {
			if err := s.Award(ctx, ev.Username, BadgeRisingStar); err != nil {
				s.logger.Warn("achievement award failed", zap.String("badge", BadgeRisingStar), zap.Error(err))
			}
		}
		if ev.Level >= 10 {
			if err := s.Award(ctx, ev.Username, BadgeFlatOutFamous); err != nil {
				s.logger.Warn("achievement award failed", zap.String("badge", BadgeFlatOutFamous), zap.Error(err))
			}
		}
		return data, nil
	})
}

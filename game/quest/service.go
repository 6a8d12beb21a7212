// Package quest runs the daily quest engine: level-scaled goals that
// regenerate on a 24h cycle and advance from action hooks.
package quest

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/model"
	"github.com/flatearthwars/server/plugin/hook"
)

var (
	ErrQuestNotFound     = errors.New("quest not found")
	ErrQuestNotCompleted = errors.New("quest not completed")
	ErrQuestClaimed      = errors.New("quest reward already claimed")
)

// DefaultCycle is the quest regeneration window.
const DefaultCycle = 24 * time.Hour

// Service generates and tracks per-player daily quests.
type Service struct {
	db      *gorm.DB
	players *player.Service
	logger  *zap.Logger
	cycle   time.Duration
	now     func() time.Time
}

// New creates a quest Service.
func New(db *gorm.DB, players *player.Service, logger *zap.Logger, cycle time.Duration) *Service {
	if cycle <= 0 {
		cycle = DefaultCycle
	}
	return &Service{db: db, players: players, logger: logger, cycle: cycle, now: time.Now}
}

// SetClock overrides the service clock. Test hook.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// goalFor returns the goal and follower reward for one quest type at the
// given level. Goals scale up with level and cap out; rewards scale
// linearly.
func goalFor(qt model.QuestType, level int) (goal, reward int) {
	switch qt {
	case model.QuestTypeMeme:
		goal = 3 + level/2
		if goal > 10 {
			goal = 10
		}
		reward = 10 + 2*level
	case model.QuestTypeDebate:
		goal = 2 + level/3
		if goal > 8 {
			goal = 8
		}
		reward = 15 + 3*level
	case model.QuestTypePvP:
		goal = 1 + level/4
		if goal > 5 {
			goal = 5
		}
		reward = 25 + 5*level
	}
	return goal, reward
}

// Daily returns the player's quests, regenerating the full set when the
// last generation is at least one cycle old. Regeneration discards all
// existing quest rows, claimed or not.
func (s *Service) Daily(ctx context.Context, username string) ([]model.Quest, error) {
	p, err := s.players.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if s.due(ctx, username, now) {
		if err := s.regenerate(ctx, p, now); err != nil {
			return nil, err
		}
	}

	var quests []model.Quest
	err = s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("id").
		Find(&quests).Error
	return quests, err
}

func (s *Service) due(ctx context.Context, username string, now time.Time) bool {
	var setting model.Setting
	err := s.db.WithContext(ctx).
		Where("key = ?", model.QuestGenKey(username)).
		First(&setting).Error
	if err != nil {
		return true
	}
	last, err := time.Parse(time.RFC3339, setting.Value)
	if err != nil {
		return true
	}
	return now.Sub(last) >= s.cycle
}

func (s *Service) regenerate(ctx context.Context, p *model.Player, now time.Time) error {
	types := []model.QuestType{model.QuestTypeMeme, model.QuestTypeDebate, model.QuestTypePvP}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", p.Username).Delete(&model.Quest{}).Error; err != nil {
			return err
		}
		for _, qt := range types {
			goal, reward := goalFor(qt, p.Level)
			q := &model.Quest{
				Username:  p.Username,
				QuestType: qt,
				Goal:      goal,
				Reward:    strconv.Itoa(reward),
				Timestamp: now,
			}
			if err := tx.Create(q).Error; err != nil {
				return err
			}
		}
		setting := model.Setting{Key: model.QuestGenKey(p.Username), Value: now.Format(time.RFC3339)}
		return tx.Save(&setting).Error
	})
}

// Claim pays out a completed quest's follower reward. The claimed flag
// flips with a conditional UPDATE so a double-submit can only pay once.
func (s *Service) Claim(ctx context.Context, username string, questID int64) (*model.Player, int, error) {
	var q model.Quest
	err := s.db.WithContext(ctx).
		Where("id = ? AND username = ?", questID, username).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, ErrQuestNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	if !q.Completed {
		return nil, 0, ErrQuestNotCompleted
	}
	if q.Claimed {
		return nil, 0, ErrQuestClaimed
	}

	res := s.db.WithContext(ctx).Model(&model.Quest{}).
		Where("id = ? AND claimed = ?", q.ID, false).
		Update("claimed", true)
	if res.Error != nil {
		return nil, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, 0, ErrQuestClaimed
	}

	reward, _ := strconv.Atoi(q.Reward)
	p, err := s.players.Mutate(ctx, username, func(p *model.Player) error {
		p.Followers += reward
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return p, reward, nil
}

// RegisterHooks subscribes quest progress tracking to the action events.
func (s *Service) RegisterHooks(hc *hook.HookCenter) {
	bump := func(qt model.QuestType) hook.HookFn {
		return func(ctx context.Context, _ string, data interface{}) (interface{}, error) {
			ev, ok := data.(hook.ActionEvent)
			if !ok {
				return data, nil
			}
			s.advance(ctx, ev.Username, qt)
			return data, nil
		}
	}
	hc.Register(hook.OnMemePosted, 10, "quests", bump(model.QuestTypeMeme))
	hc.Register(hook.OnDebateFinished, 10, "quests", bump(model.QuestTypeDebate))
	hc.Register(hook.OnPvPBattle, 10, "quests", bump(model.QuestTypePvP))
}

// advance bumps matching open quests by one and flips any that reached
// their goal to completed. Failures only cost quest progress, so they are
// logged and swallowed.
func (s *Service) advance(ctx context.Context, username string, qt model.QuestType) {
	err := s.db.WithContext(ctx).Model(&model.Quest{}).
		Where("username = ? AND quest_type = ? AND completed = ?", username, qt, false).
		Update("progress", gorm.Expr("progress + 1")).Error
	if err != nil {
		s.logger.Warn("quest progress update failed",
			zap.String("username", username),
			zap.String("quest_type", qt),
			zap.Error(err))
		return
	}
	err = s.db.WithContext(ctx).Model(&model.Quest{}).
		Where("username = ? AND quest_type = ? AND completed = ? AND progress >= goal", username, qt, false).
		Update("completed", true).Error
	if err != nil {
		s.logger.Warn("quest completion update failed",
			zap.String("username", username),
			zap.String("quest_type", qt),
			zap.Error(err))
	}
}

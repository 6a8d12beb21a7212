// Package clanwar computes the weekly faction standings and runs the
// reset that pays the winning clan.
package clanwar

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flatearthwars/server/cache"
	"github.com/flatearthwars/server/model"
	"github.com/flatearthwars/server/plugin/hook"
)

// DefaultCooldown is the minimum time between resets.
const DefaultCooldown = 7 * 24 * time.Hour

// Winner reward granted to every member of the winning clan.
const (
	RewardEnergy    = 5
	RewardFollowers = 50
)

// AnnounceChannel mirrors the boss service's channel; clan-war results go
// out as server-wide notices too.
const AnnounceChannel = "announce"

// Service owns clan aggregate stats and the weekly reset.
type Service struct {
	db       *gorm.DB
	hooks    *hook.HookCenter
	pub      cache.PubSub
	logger   *zap.Logger
	cooldown time.Duration
	now      func() time.Time
}

// New creates a clanwar Service. pub may be nil to disable announcements.
func New(db *gorm.DB, hooks *hook.HookCenter, pub cache.PubSub, logger *zap.Logger, cooldown time.Duration) *Service {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Service{db: db, hooks: hooks, pub: pub, logger: logger, cooldown: cooldown, now: time.Now}
}

// SetClock overrides the service clock. Test hook.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// ClanStats is one clan's aggregate standing.
type ClanStats struct {
	Clan           string `json:"clan"`
	Members        int64  `json:"members"`
	TotalPoints    int64  `json:"total_points"`
	TotalFollowers int64  `json:"total_followers"`
}

// Standings is the full war overview.
type Standings struct {
	Clans     []ClanStats `json:"clans"`
	LastReset time.Time   `json:"last_reset"`
	NextReset time.Time   `json:"next_reset"`
}

// warClans is the declaration order used everywhere, including the reset
// tie-break.
var warClans = []string{model.ClanFlatEarthers, model.ClanGlobies}

// Stats aggregates the current standings per clan.
func (s *Service) Stats(ctx context.Context) (*Standings, error) {
	st := &Standings{}
	for _, clan := range warClans {
		var row struct {
			Members        int64
			TotalPoints    int64
			TotalFollowers int64
		}
		err := s.db.WithContext(ctx).Model(&model.Player{}).
			Select("COUNT(*) AS members, COALESCE(SUM(points),0) AS total_points, COALESCE(SUM(followers),0) AS total_followers").
			Where("clan = ?", clan).
			Scan(&row).Error
		if err != nil {
			return nil, err
		}
		st.Clans = append(st.Clans, ClanStats{
			Clan:           clan,
			Members:        row.Members,
			TotalPoints:    row.TotalPoints,
			TotalFollowers: row.TotalFollowers,
		})
	}

	last, ok, err := s.lastReset(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		st.LastReset = last
		st.NextReset = last.Add(s.cooldown)
	}
	return st, nil
}

func (s *Service) lastReset(ctx context.Context) (time.Time, bool, error) {
	var setting model.Setting
	err := s.db.WithContext(ctx).
		Where("key = ?", model.SettingClanWarLastReset).
		First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, perr := time.Parse(time.RFC3339, setting.Value)
	if perr != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// Reset runs the weekly clan war settlement. It is a no-op inside the
// cooldown window and returns the winning clan otherwise ("" when
// nothing happened or nobody is registered).
//
// The last-reset checkpoint advances with a compare-and-swap inside the
// settlement transaction, so two concurrent evaluations past the
// threshold cannot both pay out.
func (s *Service) Reset(ctx context.Context) (string, error) {
	now := s.now()

	last, found, err := s.lastReset(ctx)
	if err != nil {
		return "", err
	}
	if !found {
		// First run: start the clock without a settlement.
		setting := model.Setting{Key: model.SettingClanWarLastReset, Value: now.Format(time.RFC3339)}
		return "", s.db.WithContext(ctx).Save(&setting).Error
	}
	if now.Sub(last) < s.cooldown {
		return "", nil
	}

	var winner string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// CAS on the checkpoint: only the first settlement past the
		// threshold gets RowsAffected > 0.
		res := tx.Model(&model.Setting{}).
			Where("key = ? AND value = ?", model.SettingClanWarLastReset, last.Format(time.RFC3339)).
			Update("value", now.Format(time.RFC3339))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var total int64
		if err := tx.Model(&model.Player{}).Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			return nil
		}

		// Strictly-highest total points wins; ties keep the earlier clan
		// in declaration order.
		best := int64(-1 << 62)
		for _, clan := range warClans {
			var points int64
			err := tx.Model(&model.Player{}).
				Select("COALESCE(SUM(points),0)").
				Where("clan = ?", clan).
				Scan(&points).Error
			if err != nil {
				return err
			}
			if points > best {
				best = points
				winner = clan
			}
		}

		err := tx.Model(&model.Player{}).
			Where("clan = ?", winner).
			Updates(map[string]interface{}{
				"energy":    gorm.Expr("energy + ?", RewardEnergy),
				"followers": gorm.Expr("followers + ?", RewardFollowers),
			}).Error
		if err != nil {
			return err
		}

		return tx.Create(&model.ClanHistory{Clan: winner, Timestamp: now}).Error
	})
	if err != nil {
		return "", err
	}
	if winner == "" {
		return "", nil
	}

	s.logger.Info("clan war settled", zap.String("winner", winner))
	if s.hooks != nil {
		s.hooks.Trigger(ctx, hook.OnClanWarReset, hook.ActionEvent{Username: winner}) //nolint:errcheck
	}
	if s.pub != nil {
		msg, _ := json.Marshal(map[string]string{"type": "clan_war_winner", "clan": winner})
		if err := s.pub.Publish(ctx, AnnounceChannel, string(msg)); err != nil {
			s.logger.Warn("clan war announcement failed", zap.Error(err))
		}
	}
	return winner, nil
}

// History returns the most recent war results, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]model.ClanHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var hist []model.ClanHistory
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&hist).Error
	return hist, err
}

// Streak returns the clan holding the current win streak and its length.
// Empty clan means no wars have settled yet.
func (s *Service) Streak(ctx context.Context) (string, int, error) {
	hist, err := s.History(ctx, 100)
	if err != nil || len(hist) == 0 {
		return "", 0, err
	}
	clan := hist[0].Clan
	streak := 0
	for _, h := range hist {
		if h.Clan != clan {
			break
		}
		streak++
	}
	return clan, streak, nil
}

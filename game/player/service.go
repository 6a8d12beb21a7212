// Package player owns the per-player record: creation, credential checks,
// energy refresh and leaderboard queries. Every other game service goes
// through it to read or persist player state.
package player

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/flatearthwars/server/game/rules"
	"github.com/flatearthwars/server/model"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidClan        = errors.New("unknown clan")
)

// Service manages player records.
type Service struct {
	db     *gorm.DB
	locker *Locker
	logger *zap.Logger
	// regen is the energy regeneration interval.
	regen time.Duration
	// now is the clock, swappable in tests.
	now func() time.Time
}

// New creates a player Service.
func New(db *gorm.DB, logger *zap.Logger, regen time.Duration) *Service {
	if regen <= 0 {
		regen = rules.DefaultRegenInterval
	}
	return &Service{
		db:     db,
		locker: NewLocker(),
		logger: logger,
		regen:  regen,
		now:    time.Now,
	}
}

// Locker exposes the per-player mutex table so other services can
// serialize their own multi-step mutations on the same keys.
func (s *Service) Locker() *Locker { return s.locker }

// SetClock overrides the service clock. Test hook.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// GetByUsername loads a player record.
func (s *Service) GetByUsername(ctx context.Context, username string) (*model.Player, error) {
	var p model.Player
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByCredentials loads a player and verifies the password. Unknown
// usernames and wrong passwords both come back as ErrInvalidCredentials
// so login responses don't leak which accounts exist.
func (s *Service) GetByCredentials(ctx context.Context, username, password string) (*model.Player, error) {
	p, err := s.GetByUsername(ctx, username)
	if errors.Is(err, ErrPlayerNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// Create registers a new player in the given clan with starting stats:
// energy 10, points 0, level 1, no followers, empty inventory.
func (s *Service) Create(ctx context.Context, username, password, clan string) (*model.Player, error) {
	if !model.ValidClan(clan) {
		return nil, ErrInvalidClan
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	p := &model.Player{
		Username:     username,
		PasswordHash: string(hash),
		Energy:       10,
		Level:        1,
		Items:        model.ItemList{},
		LastLogin:    s.now(),
		Clan:         clan,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		var existing model.Player
		if s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error == nil {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	s.logger.Info("player registered",
		zap.String("username", username),
		zap.String("clan", clan))
	return p, nil
}

// Save persists the full player record.
func (s *Service) Save(ctx context.Context, p *model.Player) error {
	return s.db.WithContext(ctx).Save(p).Error
}

// Refresh loads a player, applies time-based energy regeneration and
// persists the result when anything changed. Callers run it once per
// interaction before resolving an action.
//
// The caller must hold the player's lock; see Mutate for the usual path.
func (s *Service) Refresh(ctx context.Context, username string) (*model.Player, error) {
	p, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if rules.Regenerate(p, s.now(), s.regen) > 0 {
		if err := s.Save(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Snapshot returns the player's state after applying regeneration,
// holding the player's lock for the duration. This is the read path for
// profile views.
func (s *Service) Snapshot(ctx context.Context, username string) (*model.Player, error) {
	s.locker.Lock(username)
	defer s.locker.Unlock(username)
	return s.Refresh(ctx, username)
}

// Mutate runs fn against the player's regenerated state under the
// player's lock and persists the result when fn succeeds. A recoverable
// game outcome (insufficient energy and friends) is returned to the
// caller without persisting; the refreshed regen state is already on
// disk by then.
func (s *Service) Mutate(ctx context.Context, username string, fn func(p *model.Player) error) (*model.Player, error) {
	s.locker.Lock(username)
	defer s.locker.Unlock(username)

	p, err := s.Refresh(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return p, err
	}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Leaderboard metrics players can be ranked by.
var leaderboardMetrics = map[string]string{
	"points":    "points",
	"followers": "followers",
	"wins":      "wins",
	"level":     "level",
}

// Leaderboard returns the top players ordered by the given metric.
// Unknown metrics fall back to points.
func (s *Service) Leaderboard(ctx context.Context, metric string, limit int) ([]model.Player, error) {
	col, ok := leaderboardMetrics[metric]
	if !ok {
		col = "points"
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var players []model.Player
	err := s.db.WithContext(ctx).
		Order(col + " DESC").
		Limit(limit).
		Find(&players).Error
	return players, err
}

// Opponents lists players outside the given clan, the cross-faction
// targets PvP allows.
func (s *Service) Opponents(ctx context.Context, clan string, limit int) ([]model.Player, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var players []model.Player
	err := s.db.WithContext(ctx).
		Where("clan <> ?", clan).
		Order("points DESC").
		Limit(limit).
		Find(&players).Error
	return players, err
}

// Count returns the number of registered players.
func (s *Service) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Player{}).Count(&n).Error
	return n, err
}

// Package ranking maintains the cached leaderboards.
package ranking

import (
	"context"

	"go.uber.org/zap"

	"github.com/flatearthwars/server/cache"
	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/model"
)

// Metrics players can be ranked by.
var Metrics = []string{"points", "followers", "wins", "level"}

func rankKey(metric string) string { return "rank:" + metric }

// Entry is one leaderboard row.
type Entry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Service serves leaderboards from the cache sorted sets, rebuilt
// periodically from the database. Reads fall back to the database when
// the cache is cold or unavailable.
type Service struct {
	players *player.Service
	cache   cache.Cache
	logger  *zap.Logger
}

// New creates a ranking Service.
func New(players *player.Service, c cache.Cache, logger *zap.Logger) *Service {
	return &Service{players: players, cache: c, logger: logger}
}

// Refresh rebuilds every metric's sorted set from the database. Run on a
// schedule; individual write failures are logged and skipped.
func (s *Service) Refresh(ctx context.Context) {
	for _, metric := range Metrics {
		players, err := s.players.Leaderboard(ctx, metric, 100)
		if err != nil {
			s.logger.Warn("ranking refresh query failed",
				zap.String("metric", metric), zap.Error(err))
			continue
		}
		key := rankKey(metric)
		for _, p := range players {
			if err := s.cache.ZAdd(ctx, key, float64(metricValue(&p, metric)), p.Username); err != nil {
				s.logger.Warn("ranking cache write failed",
					zap.String("metric", metric), zap.Error(err))
				break
			}
		}
	}
}

// Top returns the leaderboard for a metric. Unknown metrics rank by
// points.
func (s *Service) Top(ctx context.Context, metric string, limit int) ([]Entry, error) {
	if !validMetric(metric) {
		metric = "points"
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	members, err := s.cache.ZRevRange(ctx, rankKey(metric), 0, int64(limit-1))
	if err == nil && len(members) > 0 {
		entries := make([]Entry, 0, len(members))
		for i, m := range members {
			score, _ := s.cache.ZScore(ctx, rankKey(metric), m)
			entries = append(entries, Entry{Rank: i + 1, Username: m, Score: int(score)})
		}
		return entries, nil
	}

	// Cold or unavailable cache: straight from the database.
	players, err := s.players.Leaderboard(ctx, metric, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(players))
	for i, p := range players {
		entries = append(entries, Entry{Rank: i + 1, Username: p.Username, Score: metricValue(&p, metric)})
	}
	return entries, nil
}

func validMetric(metric string) bool {
	for _, m := range Metrics {
		if m == metric {
			return true
		}
	}
	return false
}

func metricValue(p *model.Player, metric string) int {
	switch metric {
	case "followers":
		return p.Followers
	case "wins":
		return p.Wins
	case "level":
		return p.Level
	default:
		return p.Points
	}
}

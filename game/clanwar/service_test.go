package clanwar_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flatearthwars/server/game/clanwar"
	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/model"
	"github.com/flatearthwars/server/testutil"
)

func setup(t *testing.T) (*clanwar.Service, *player.Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	players := player.New(db, zap.NewNop(), 120*time.Second)
	svc := clanwar.New(db, nil, nil, zap.NewNop(), 7*24*time.Hour)
	return svc, players, db
}

func seed(t *testing.T, players *player.Service, name, clan string, points int) {
	t.Helper()
	p, err := players.Create(context.Background(), name, "pass1234", clan)
	require.NoError(t, err)
	p.Points = points
	require.NoError(t, players.Save(context.Background(), p))
}

func TestFirstResetStartsClock(t *testing.T) {
	svc, players, _ := setup(t)
	ctx := context.Background()
	seed(t, players, "f1", model.ClanFlatEarthers, 100)

	winner, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Empty(t, winner, "first run only starts the clock")

	p, err := players.GetByUsername(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Followers, "no payout on the first run")
}

func TestResetPaysWinningClan(t *testing.T) {
	svc, players, _ := setup(t)
	ctx := context.Background()

	seed(t, players, "f1", model.ClanFlatEarthers, 100)
	seed(t, players, "f2", model.ClanFlatEarthers, 50)
	seed(t, players, "g1", model.ClanGlobies, 120)

	base := time.Now()
	svc.SetClock(func() time.Time { return base })
	_, err := svc.Reset(ctx) // starts the clock
	require.NoError(t, err)

	svc.SetClock(func() time.Time { return base.Add(8 * 24 * time.Hour) })
	winner, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ClanFlatEarthers, winner) // 150 > 120

	f1, err := players.GetByUsername(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, 15, f1.Energy)
	assert.Equal(t, 50, f1.Followers)

	g1, err := players.GetByUsername(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 10, g1.Energy)
	assert.Equal(t, 0, g1.Followers)

	hist, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, model.ClanFlatEarthers, hist[0].Clan)
}

func TestResetIdempotentWithinCooldown(t *testing.T) {
	svc, players, _ := setup(t)
	ctx := context.Background()

	seed(t, players, "f1", model.ClanFlatEarthers, 100)
	seed(t, players, "g1", model.ClanGlobies, 10)

	base := time.Now()
	svc.SetClock(func() time.Time { return base })
	_, err := svc.Reset(ctx)
	require.NoError(t, err)

	svc.SetClock(func() time.Time { return base.Add(8 * 24 * time.Hour) })
	winner, err := svc.Reset(ctx)
	require.NoError(t, err)
	require.Equal(t, model.ClanFlatEarthers, winner)

	// Second evaluation right after: inside the new window, no change.
	winner, err = svc.Reset(ctx)
	require.NoError(t, err)
	assert.Empty(t, winner)

	f1, err := players.GetByUsername(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, 50, f1.Followers, "rewards must not double-grant")

	hist, err := svc.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestResetTieKeepsDeclarationOrder(t *testing.T) {
	svc, players, _ := setup(t)
	ctx := context.Background()

	seed(t, players, "f1", model.ClanFlatEarthers, 100)
	seed(t, players, "g1", model.ClanGlobies, 100)

	base := time.Now()
	svc.SetClock(func() time.Time { return base })
	_, err := svc.Reset(ctx)
	require.NoError(t, err)

	svc.SetClock(func() time.Time { return base.Add(8 * 24 * time.Hour) })
	winner, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ClanFlatEarthers, winner, "ties settle by declaration order")
}

func TestStats(t *testing.T) {
	svc, players, _ := setup(t)
	ctx := context.Background()

	seed(t, players, "f1", model.ClanFlatEarthers, 100)
	seed(t, players, "f2", model.ClanFlatEarthers, 50)
	seed(t, players, "g1", model.ClanGlobies, 30)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, st.Clans, 2)
	assert.Equal(t, model.ClanFlatEarthers, st.Clans[0].Clan)
	assert.Equal(t, int64(2), st.Clans[0].Members)
	assert.Equal(t, int64(150), st.Clans[0].TotalPoints)
	assert.Equal(t, int64(1), st.Clans[1].Members)
	assert.Equal(t, int64(30), st.Clans[1].TotalPoints)
}

func TestStreak(t *testing.T) {
	svc, _, db := setup(t)
	ctx := context.Background()

	clan, streak, err := svc.Streak(ctx)
	require.NoError(t, err)
	assert.Empty(t, clan)
	assert.Equal(t, 0, streak)

	now := time.Now()
	for i, c := range []string{model.ClanGlobies, model.ClanFlatEarthers, model.ClanFlatEarthers} {
		require.NoError(t, db.Create(&model.ClanHistory{
			Clan:      c,
			Timestamp: now.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	clan, streak, err = svc.Streak(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ClanFlatEarthers, clan)
	assert.Equal(t, 2, streak)
}

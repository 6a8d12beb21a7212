package quest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flatearthwars/server/game/player"
	"github.com/flatearthwars/server/game/quest"
	"github.com/flatearthwars/server/model"
	"github.com/flatearthwars/server/plugin/hook"
	"github.com/flatearthwars/server/testutil"
)

func setup(t *testing.T) (*quest.Service, *player.Service, *hook.HookCenter) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	players := player.New(db, zap.NewNop(), 120*time.Second)
	svc := quest.New(db, players, zap.NewNop(), 24*time.Hour)
	hooks := hook.NewHookCenter()
	svc.RegisterHooks(hooks)
	_, err := players.Create(context.Background(), "quester", "pass1234", model.ClanFlatEarthers)
	require.NoError(t, err)
	return svc, players, hooks
}

func TestDailyGeneratesLevelScaledSet(t *testing.T) {
	svc, players, _ := setup(t)
	ctx := context.Background()

	p, err := players.GetByUsername(ctx, "quester")
	require.NoError(t, err)
	p.Level = 4
	require.NoError(t, players.Save(ctx, p))

	quests, err := svc.Daily(ctx, "quester")
	require.NoError(t, err)
	require.Len(t, quests, 3)

	byType := map[string]model.Quest{}
	for _, q := range quests {
		byType[q.QuestType] = q
		assert.Equal(t, 0, q.Progress)
		assert.False(t, q.Completed)
		assert.False(t, q.Claimed)
	}
	// level 4: meme goal 3+4/2=5 reward 18, debate 2+4/3=3 reward 27,
	// pvp 1+4/4=2 reward 45.
	assert.Equal(t, 5, byType[model.QuestTypeMeme].Goal)
	assert.Equal(t, "18", byType[model.QuestTypeMeme].Reward)
	assert.Equal(t, 3, byType[model.QuestTypeDebate].Goal)
	assert.Equal(t, "27", byType[model.QuestTypeDebate].Reward)
	assert.Equal(t, 2, byType[model.QuestTypePvP].Goal)
	assert.Equal(t, "45", byType[model.QuestTypePvP].Reward)
}

func TestDailyGoalCaps(t *testing.T) {
	svc, players, _ := setup(t)
	ctx := context.Background()

	p, err := players.GetByUsername(ctx, "quester")
	require.NoError(t, err)
	p.Level = 50
	require.NoError(t, players.Save(ctx, p))

	quests, err := svc.Daily(ctx, "quester")
	require.NoError(t, err)
	for _, q := range quests {
		switch q.QuestType {
		case model.QuestTypeMeme:
			assert.Equal(t, 10, q.Goal)
		case model.QuestTypeDebate:
			assert.Equal(t, 8, q.Goal)
		case model.QuestTypePvP:
			assert.Equal(t, 5, q.Goal)
		}
	}
}

func TestDailyNoRegenWithinCycle(t *testing.T) {
	svc, _, hooks := setup(t)
	ctx := context.Background()

	first, err := svc.Daily(ctx, "quester")
	require.NoError(t, err)

	// Make some progress, then ask again inside the window.
	_, err = hooks.Trigger(ctx, hook.OnMemePosted, hook.ActionEvent{Username: "quester"})
	require.NoError(t, err)

	second, err := svc.Daily(ctx, "quester")
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.Equal(t, first[0].ID, second[0].ID, "quests must survive inside the cycle")

	for _, q := range second {
		if q.QuestType == model.QuestTypeMeme {
			assert.Equal(t, 1, q.Progress)
		}
	}
}

func TestDailyRegeneratesAfterCycle(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	base := time.Now()
	svc.SetClock(func() time.Time { return base })
	first, err := svc.Daily(ctx, "quester")
	require.NoError(t, err)

	svc.SetClock(func() time.Time { return base.Add(25 * time.Hour) })
	second, err := svc.Daily(ctx, "quester")
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.NotEqual(t, first[0].ID, second[0].ID, "a new cycle discards the old rows")
}

func TestHookProgressCompletes(t *testing.T) {
	svc, _, hooks := setup(t)
	ctx := context.Background()

	quests, err := svc.Daily(ctx, "quester")
	require.NoError(t, err)

	var pvpGoal int
	for _, q := range quests {
		if q.QuestType == model.QuestTypePvP {
			pvpGoal = q.Goal // level 1: goal 1
		}
	}
	require.Equal(t, 1, pvpGoal)

	_, err = hooks.Trigger(ctx, hook.OnPvPBattle, hook.ActionEvent{Username: "quester", Won: true})
	require.NoError(t, err)

	quests, err = svc.Daily(ctx, "quester")
	require.NoError(t, err)
	for _, q := range quests {
		if q.QuestType == model.QuestTypePvP {
			assert.Equal(t, 1, q.Progress)
			assert.True(t, q.Completed)
		}
	}
}

func TestClaim(t *testing.T) {
	svc, players, hooks := setup(t)
	ctx := context.Background()

	quests, err := svc.Daily(ctx, "quester")
	require.NoError(t, err)

	_, err = hooks.Trigger(ctx, hook.OnPvPBattle, hook.ActionEvent{Username: "quester"})
	require.NoError(t, err)

	var pvpID int64
	for _, q := range quests {
		if q.QuestType == model.QuestTypePvP {
			pvpID = q.ID
		}
	}

	p, reward, err := svc.Claim(ctx, "quester", pvpID)
	require.NoError(t, err)
	assert.Equal(t, 30, reward) // level 1: 25+5
	assert.Equal(t, 30, p.Followers)

	// Double claim pays nothing.
	_, _, err = svc.Claim(ctx, "quester", pvpID)
	assert.ErrorIs(t, err, quest.ErrQuestClaimed)

	got, err := players.GetByUsername(ctx, "quester")
	require.NoError(t, err)
	assert.Equal(t, 30, got.Followers)
}

func TestClaimIncomplete(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	quests, err := svc.Daily(ctx, "quester")
	require.NoError(t, err)

	_, _, err = svc.Claim(ctx, "quester", quests[0].ID)
	assert.ErrorIs(t, err, quest.ErrQuestNotCompleted)
}

func TestClaimUnknownQuest(t *testing.T) {
	svc, _, _ := setup(t)
	_, _, err := svc.Claim(context.Background(), "quester", 9999)
	assert.ErrorIs(t, err, quest.ErrQuestNotFound)
}

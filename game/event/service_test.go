package event_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/flatearthwars/server/game/event"
	"github.com/flatearthwars/server/testutil"
)

func TestActiveNoEvent(t *testing.T) {
	svc := event.New(testutil.SetupTestDB(t), zap.NewNop())
	_, err := svc.Active(context.Background())
	assert.ErrorIs(t, err, event.ErrNoActiveEvent)
}

func TestCreateReplacesActive(t *testing.T) {
	svc := event.New(testutil.SetupTestDB(t), zap.NewNop())
	ctx := context.Background()

	first, err := svc.Create(ctx, "Double Meme Weekend", "2x meme points", datatypes.JSON(`{"meme_multiplier":2}`))
	require.NoError(t, err)
	require.True(t, first.Active)

	second, err := svc.Create(ctx, "Debate Night", "debates only", nil)
	require.NoError(t, err)

	got, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID, "only one event is active at a time")
	assert.Equal(t, "Debate Night", got.Name)
}

func TestDeactivate(t *testing.T) {
	svc := event.New(testutil.SetupTestDB(t), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, "Double Meme Weekend", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx))
	_, err = svc.Active(ctx)
	assert.ErrorIs(t, err, event.ErrNoActiveEvent)
}

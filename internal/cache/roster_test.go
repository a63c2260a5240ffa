package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/haikyu-team-builder/internal/cache"
	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRosterCache(t *testing.T) {
	client := testutil.NewTestRedis(t)
	c := cache.NewRedisRosterCache(client, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, cache.ErrMiss)

	hinata := testutil.NewCharacterBuilder().WithID(10).WithName("Hinata Shoyo").WithStyles("Rápido").Character()
	roster := &domain.Roster{
		Characters: []*domain.Character{hinata},
		Bonds:      []*domain.Bond{{ID: 1, Name: "Karasuno"}},
		Links:      []*domain.CharacterBondLink{{CharacterID: 10, BondID: 1}},
	}
	require.NoError(t, c.Set(ctx, roster))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got.Characters, 1)
	assert.Equal(t, "Hinata Shoyo", got.Characters[0].Name)
	assert.Equal(t, []string{"Rápido"}, got.Characters[0].StyleList())
	assert.Equal(t, roster.Bonds[0].Name, got.Bonds[0].Name)
	assert.Equal(t, *roster.Links[0], *got.Links[0])

	ttl := client.TTL(ctx, "haikyu:roster:v1").Val()
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Invalidate(ctx))
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestNop(t *testing.T) {
	var c cache.RosterCache = cache.Nop{}
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, &domain.Roster{}))
	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, cache.ErrMiss)
	assert.NoError(t, c.Invalidate(ctx))
}

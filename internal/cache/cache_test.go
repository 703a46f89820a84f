package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/meat_shop/internal/models"
)

func sample() []models.Product {
	return []models.Product{
		{ID: 1, Label: "Curry cut", PricePerUnit: decimal.NewFromInt(240), Unit: models.UnitKg, CategoryID: 1, IsActive: true},
		{ID: 2, Label: "Eggs", PricePerUnit: decimal.RequireFromString("7.50"), Unit: models.UnitPiece, CategoryID: 2, IsActive: true},
	}
}

func TestMemoryCache_TTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	c := NewMemory(30 * time.Second)
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, sample()))
	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	now = now.Add(31 * time.Second)
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_InvalidateAndCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemory(time.Minute)

	require.NoError(t, c.Set(ctx, sample()))
	got, err := c.Get(ctx)
	require.NoError(t, err)
	got[0].Label = "mutated"

	again, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Curry cut", again[0].Label)

	require.NoError(t, c.Invalidate(ctx))
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_ZeroTTLDisables(t *testing.T) {
	t.Parallel()
	c := NewMemory(0)
	require.NoError(t, c.Set(context.Background(), sample()))
	_, err := c.Get(context.Background())
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedis(client, "meat_shop:test:"+t.Name(), time.Minute)
	require.NoError(t, c.Invalidate(ctx))

	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, sample()))
	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[1].PricePerUnit.Equal(decimal.RequireFromString("7.5")))

	require.NoError(t, c.Invalidate(ctx))
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}

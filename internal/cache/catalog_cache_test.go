package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/menuar/internal/catalog"
	"github.com/chrisdamba/menuar/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*CatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCatalogCache(client, ttl), mr
}

func sampleCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Restaurant: &models.Restaurant{RestaurantID: "spice-garden", DocID: "r1"},
		Categories: []*models.Category{{CategoryID: "mains", Name: "Main Course", IsActive: true}},
		Items: []*models.MenuItem{{
			ID:      "i1",
			Name:    "Paneer Tikka",
			Pricing: models.Pricing{BasePrice: 25000, Currency: models.CurrencyINR},
		}},
	}
}

func TestCatalogCache_Miss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	got, ok, err := c.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCatalogCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, c.Set(ctx, "spice-garden", sampleCatalog()))
	assert.True(t, mr.Exists("menuar:catalog:spice-garden"))

	got, ok, err := c.Get(ctx, "spice-garden")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "spice-garden", got.Restaurant.RestaurantID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(25000), got.Items[0].Pricing.BasePrice)
	assert.Equal(t, "Main Course", got.Categories[0].Name)
}

func TestCatalogCache_Expires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 30*time.Second)
	require.NoError(t, c.Set(ctx, "spice-garden", sampleCatalog()))

	mr.FastForward(31 * time.Second)

	_, ok, err := c.Get(ctx, "spice-garden")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)
	require.NoError(t, c.Set(ctx, "spice-garden", sampleCatalog()))
	require.NoError(t, c.Invalidate(ctx, "spice-garden"))

	_, ok, err := c.Get(ctx, "spice-garden")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("menuar:catalog:broken", "{not json"))

	_, ok, err := c.Get(ctx, "broken")
	assert.Error(t, err)
	assert.False(t, ok)
}

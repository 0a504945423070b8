package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-dev/stripe-sync-gateway/internal/cache"
	"github.com/amara-dev/stripe-sync-gateway/internal/config"
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

func newCache() *cache.MethodListCache {
	return cache.NewMethodListCache(config.CacheConfig{
		MethodListTTL:   time.Minute,
		CleanupInterval: 0,
	})
}

func TestMethodListCache_GetSet(t *testing.T) {
	c := newCache()

	_, found := c.Get("cus_1", domain.MethodCard)
	assert.False(t, found)

	methods := []stripe.PaymentMethod{{ID: "pm_1", Type: domain.MethodCard}}
	c.Set("cus_1", domain.MethodCard, methods)

	got, found := c.Get("cus_1", domain.MethodCard)
	require.True(t, found)
	assert.Equal(t, "pm_1", got[0].ID)

	// Per-type keys do not collide.
	_, found = c.Get("cus_1", domain.MethodSEPADebit)
	assert.False(t, found)
	_, found = c.Get("cus_2", domain.MethodCard)
	assert.False(t, found)
}

func TestMethodListCache_InvalidateClearsAllTypes(t *testing.T) {
	c := newCache()

	c.Set("cus_1", domain.MethodCard, []stripe.PaymentMethod{{ID: "pm_1"}})
	c.Set("cus_1", domain.MethodSEPADebit, []stripe.PaymentMethod{{ID: "pm_2"}})
	c.Set("cus_2", domain.MethodCard, []stripe.PaymentMethod{{ID: "pm_3"}})

	c.Invalidate("cus_1")

	_, found := c.Get("cus_1", domain.MethodCard)
	assert.False(t, found)
	_, found = c.Get("cus_1", domain.MethodSEPADebit)
	assert.False(t, found)

	_, found = c.Get("cus_2", domain.MethodCard)
	assert.True(t, found)
}

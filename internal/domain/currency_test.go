package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
)

func TestMinimumChargeAmount(t *testing.T) {
	min, ok := domain.MinimumChargeAmount("USD")
	assert.True(t, ok)
	assert.Equal(t, int64(50), min)

	min, ok = domain.MinimumChargeAmount("jpy")
	assert.True(t, ok)
	assert.Equal(t, int64(50), min)

	min, ok = domain.MinimumChargeAmount("THB")
	assert.True(t, ok)
	assert.Equal(t, int64(1000), min)

	_, ok = domain.MinimumChargeAmount("XYZ")
	assert.False(t, ok)
}

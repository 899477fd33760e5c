package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_AllowsWithinBurst(t *testing.T) {
	limiter := NewClientLimiter(Config{RequestsPerSecond: 1, BurstSize: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestClientLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewClientLimiter(Config{RequestsPerSecond: 1, BurstSize: 1})

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestClientLimiter_ZeroConfigFallsBackToDefaults(t *testing.T) {
	limiter := NewClientLimiter(Config{})
	assert.True(t, limiter.Allow("10.0.0.1"))
}

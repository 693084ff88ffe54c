package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimiterBurstThenDeny(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("tmdb", 3, 0.0001), "request %d within capacity", i)
	}
	assert.False(t, l.Allow("tmdb", 3, 0.0001))
}

func TestLimiterKeysIsolated(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("tmdb", 1, 0.0001))
	assert.False(t, l.Allow("tmdb", 1, 0.0001))
	assert.True(t, l.Allow("news", 1, 0.0001))
}

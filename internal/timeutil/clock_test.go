package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock(t *testing.T) {
	t.Parallel()

	c := RealClock{}
	before := time.Now()
	now := c.Now()
	assert.False(t, now.Before(before))
	assert.GreaterOrEqual(t, c.Since(before), time.Duration(0))
}

func TestFakeClock(t *testing.T) {
	t.Parallel()

	instant := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := FakeClock{T: instant}

	assert.True(t, c.Now().Equal(instant))
	assert.Equal(t, 2*time.Hour, c.Since(instant.Add(-2*time.Hour)))

	later := c.Advance(30 * time.Minute)
	assert.True(t, later.Now().Equal(instant.Add(30*time.Minute)))
	// The original clock is unchanged.
	assert.True(t, c.Now().Equal(instant))
}

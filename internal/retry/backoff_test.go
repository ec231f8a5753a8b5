package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoff_NextDelay(t *testing.T) {
	b := NewExponentialBackoff(5,
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(1*time.Second),
		WithJitter(0),
	)

	assert.Equal(t, 100*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 200*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 400*time.Millisecond, b.NextDelay(2))
	assert.Equal(t, 800*time.Millisecond, b.NextDelay(3))
	assert.Equal(t, 1*time.Second, b.NextDelay(4), "capped at max delay")
	assert.Equal(t, 5, b.MaxAttempts())
}

func TestExponentialBackoff_Jitter(t *testing.T) {
	high := NewExponentialBackoff(1,
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(3),
		WithJitter(0.5),
		WithJitterFunc(func() float64 { return 1.0 }),
	)
	low := NewExponentialBackoff(1,
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(3),
		WithJitter(0.5),
		WithJitterFunc(func() float64 { return 0.0 }),
	)

	assert.Equal(t, 150*time.Millisecond, high.NextDelay(0))
	assert.Equal(t, 50*time.Millisecond, low.NextDelay(0))
	assert.Equal(t, 450*time.Millisecond, high.NextDelay(1))
}

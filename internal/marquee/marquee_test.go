package marquee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompute_FitsViewport(t *testing.T) {
	s := Compute(300, 300, 10)
	assert.False(t, s.Needed)
	assert.Zero(t, s.Duration)
	assert.Zero(t, s.Distance)
}

func TestCompute_Overflow(t *testing.T) {
	s := Compute(600, 300, 10)
	assert.True(t, s.Needed)

	// speed 10 -> 200 px/s; distance = 600 + separator.
	wantSeconds := (600 + SeparatorWidth) / 200
	assert.InDelta(t, wantSeconds, s.Duration.Seconds(), 0.001)
	assert.Equal(t, 600+SeparatorWidth, s.Distance)
}

func TestCompute_SpeedFloor(t *testing.T) {
	// Zero and negative speeds clamp to 1 px/s instead of dividing by zero.
	s := Compute(400, 100, 0)
	assert.True(t, s.Needed)
	wantSeconds := 400 + SeparatorWidth
	assert.InDelta(t, wantSeconds, s.Duration.Seconds(), 0.001)

	neg := Compute(400, 100, -5)
	assert.Equal(t, s.Duration, neg.Duration)
}

func TestCompute_DurationScalesWithSpeed(t *testing.T) {
	slow := Compute(600, 300, 5)
	fast := Compute(600, 300, 10)
	assert.True(t, slow.Duration > fast.Duration)
	assert.InDelta(t, 2.0, slow.Duration.Seconds()/fast.Duration.Seconds(), 0.001)
}

func TestCompute_BarelyOverflowing(t *testing.T) {
	s := Compute(301, 300, 10)
	assert.True(t, s.Needed)
	assert.True(t, s.Duration > 0)
}

func TestStartDelay(t *testing.T) {
	assert.Equal(t, time.Second, StartDelay)
}

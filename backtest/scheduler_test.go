package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerFiresFirstTick(t *testing.T) {
	t.Parallel()

	s := NewScheduler(5)
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

	assert.True(t, s.ShouldFire(now))
	assert.False(t, s.ShouldFire(now.Add(1*time.Minute)))
	assert.False(t, s.ShouldFire(now.Add(4*time.Minute)))
	assert.True(t, s.ShouldFire(now.Add(5*time.Minute)))
}

func TestSchedulerAdvancesOnFire(t *testing.T) {
	t.Parallel()

	s := NewScheduler(5)
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

	assert.True(t, s.ShouldFire(now))

	// A gap larger than the interval fires once and re-anchors at the
	// firing tick, not at the theoretical schedule.
	assert.True(t, s.ShouldFire(now.Add(12*time.Minute)))
	assert.False(t, s.ShouldFire(now.Add(14*time.Minute)))
	assert.True(t, s.ShouldFire(now.Add(17*time.Minute)))
}

func TestSchedulerMinuteTicks(t *testing.T) {
	t.Parallel()

	s := NewScheduler(5)
	start := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

	var fired int
	for i := 0; i < 30; i++ {
		if s.ShouldFire(start.Add(time.Duration(i) * time.Minute)) {
			fired++
		}
	}
	// Fires at minutes 0, 5, 10, 15, 20, 25.
	assert.Equal(t, 6, fired)
}

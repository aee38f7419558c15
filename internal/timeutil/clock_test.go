package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	before := time.Now()
	now := c.Now()
	assert.False(t, now.Before(before))
	assert.GreaterOrEqual(t, c.Since(before), time.Duration(0))
}

func TestMockClock(t *testing.T) {
	c := NewMockClock(epoch)
	assert.Equal(t, epoch, c.Now())
	assert.Equal(t, epoch, c.Now(), "no step, no movement")

	c.Advance(90 * time.Second)
	assert.Equal(t, epoch.Add(90*time.Second), c.Now())
	assert.Equal(t, 90*time.Second, c.Since(epoch))

	c.Set(epoch)
	assert.Equal(t, time.Duration(0), c.Since(epoch))
}

func TestMockClockStep(t *testing.T) {
	c := NewMockClock(epoch)
	c.SetStep(time.Second)

	assert.Equal(t, epoch, c.Now())
	assert.Equal(t, epoch.Add(time.Second), c.Now())
	// Since reads without stepping.
	assert.Equal(t, 2*time.Second, c.Since(epoch))
	assert.Equal(t, 2*time.Second, c.Since(epoch))
}

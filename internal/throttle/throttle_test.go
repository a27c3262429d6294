package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestThrottleDropsCallsWithinWindow(t *testing.T) {
	clock := newClock()
	th := New(1200*time.Millisecond, clock.Now)

	calls := 0
	inc := func() { calls++ }

	assert.True(t, th.Do(inc))
	assert.False(t, th.Do(inc))
	clock.Advance(1199 * time.Millisecond)
	assert.False(t, th.Do(inc))
	assert.Equal(t, 1, calls)

	clock.Advance(time.Millisecond)
	assert.True(t, th.Do(inc))
	assert.Equal(t, 2, calls)
}

func TestThrottleDroppedCallsDoNotExtendWindow(t *testing.T) {
	clock := newClock()
	th := New(100*time.Millisecond, clock.Now)

	require.True(t, th.Allow())
	for i := 0; i < 9; i++ {
		clock.Advance(10 * time.Millisecond)
		assert.False(t, th.Allow())
	}
	clock.Advance(10 * time.Millisecond)
	assert.True(t, th.Allow(), "window is measured from the last successful call")
}

func TestThrottleReset(t *testing.T) {
	clock := newClock()
	th := New(time.Second, clock.Now)

	require.True(t, th.Allow())
	require.False(t, th.Allow())
	th.Reset()
	assert.True(t, th.Allow())
}

func TestFuncReturnsResultOnlyWhenAllowed(t *testing.T) {
	clock := newClock()
	n := 0
	next := Func(300*time.Millisecond, clock.Now, func() int {
		n++
		return n
	})

	v, ok := next()
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = next()
	assert.False(t, ok)
	assert.Zero(t, v)

	clock.Advance(300 * time.Millisecond)
	v, ok = next()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestWrapPassesArgument(t *testing.T) {
	clock := newClock()
	double := Wrap(time.Second, clock.Now, func(x int) int { return x * 2 })

	v, ok := double(21)
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = double(1)
	assert.False(t, ok)
}

func TestNilClockUsesWallTime(t *testing.T) {
	th := New(time.Hour, nil)
	assert.True(t, th.Allow())
	assert.False(t, th.Allow())
}

package object

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/coffeerun/internal/draw"
)

// countdown is an effect that deactivates after n ticks and records how often it ran.
type countdown struct {
	n     int
	ticks int
}

func (c *countdown) Tick(int)          { c.ticks++ }
func (c *countdown) Draw(*draw.Canvas) {}
func (c *countdown) Active() bool      { return c.ticks < c.n }

func TestEffectsPruneSameFrame(t *testing.T) {
	var es Effects
	short := &countdown{n: 1}
	long := &countdown{n: 3}
	es.Add(short)
	es.Add(nil)
	es.Add(long)
	require.Equal(t, 2, es.Len())

	es.Update(1, nil)
	assert.Equal(t, 1, es.Len(), "an effect that went inactive is dropped in the same update")

	es.Update(2, nil)
	es.Update(3, nil)
	assert.Zero(t, es.Len())
	assert.Equal(t, 1, short.ticks, "dropped effects are never ticked again")
	assert.Equal(t, 3, long.ticks)
}

func TestSparkExpires(t *testing.T) {
	s := NewSpark(SparkOptions{
		N: 20, X: 10, Y: 10,
		VX: Range{-1, 1}, VY: Range{-1, 1},
		BurnRate: 0.25,
		Color:    draw.RGB(255, 255, 255),
		Rand:     rand.New(rand.NewSource(1)),
	})
	ticks := 0
	for s.Active() {
		s.Tick(ticks)
		ticks++
		require.LessOrEqual(t, ticks, 10)
	}
	assert.Equal(t, 4, ticks)
}

func TestSparkLifetimeGuard(t *testing.T) {
	s := NewSpark(SparkOptions{N: 1, BurnRate: 1e-9})
	for i := 0; i < maxSparkTicks; i++ {
		s.Tick(i)
	}
	assert.False(t, s.Active())
}

func TestEmptySparkIsInactive(t *testing.T) {
	assert.False(t, NewSpark(SparkOptions{}).Active())
}

func TestSparkDrawsFadedParticles(t *testing.T) {
	c := draw.NewCanvas(20, 10)
	c.SetBackground(draw.RGB(0, 0, 0))
	white := draw.RGB(255, 255, 255)
	s := NewSpark(SparkOptions{
		N: 1, X: 5, Y: 5,
		VX: Fixed(1), VY: Fixed(0), RD: Fixed(0.5),
		BurnRate: 0.5, Color: white,
	})
	s.Tick(0)
	s.Draw(c)
	r, _, _ := c.At(6, 5).RGB()
	assert.InDelta(t, 128, int(r), 2)
}

func TestBurnAndBlastWaveExpire(t *testing.T) {
	burn := NewBurn(BurnOptions{X: 5, Y: 5, Color: draw.RGB(255, 0, 0), Scale: 0.1})
	blast := NewBlastWave(BlastWaveOptions{X: 5, Y: 5, Color: draw.RGB(255, 0, 0), Scale: 0.1})

	var es Effects
	es.Add(burn)
	es.Add(blast)
	c := draw.NewCanvas(10, 5)
	for i := 0; i < 20; i++ {
		es.Update(i, c)
	}
	assert.Equal(t, 1, es.Len(), "burn lasts 20 ticks")
	assert.False(t, burn.Active())
	for i := 20; i < 25; i++ {
		es.Update(i, c)
	}
	assert.Zero(t, es.Len())
}

func TestStarStreamWraps(t *testing.T) {
	ss := NewStarStream(StarStreamOptions{
		N: 50, X: Range{0, 100}, Y: 60,
		VY: -7, Color: draw.RGB(200, 200, 200),
		Rand: rand.New(rand.NewSource(2)),
	})
	for i := 0; i < 1000; i++ {
		ss.Tick(i)
		require.True(t, ss.Active())
	}
	for _, p := range ss.stars {
		assert.GreaterOrEqual(t, p.y, 0.0)
		assert.LessOrEqual(t, p.y, 60.0)
		assert.GreaterOrEqual(t, p.x, 0.0)
		assert.LessOrEqual(t, p.x, 100.0)
	}
}

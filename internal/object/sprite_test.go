package object

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/coffeerun/internal/draw"
)

func testSprite(x, y, w, h float64) Sprite {
	return NewSprite(SpriteOptions{
		X: x, Y: y, Width: w, Height: h,
		Speed:  10,
		Homing: 0.01,
		Bounds: Rect{Left: 0, Top: 0, Right: 100, Bottom: 50},
	})
}

func TestNewScreen(t *testing.T) {
	s := NewScreen(120, 80)
	assert.Equal(t, 120.0, s.Right)
	assert.Equal(t, 80.0, s.Bottom)
	assert.Equal(t, 60.0, s.CenterX)
	assert.InDelta(t, 0.1, s.Scale, 1e-9)
	assert.InDelta(t, 0.06, s.ScaleWidth, 1e-9)
	assert.InDelta(t, 0.04, s.ScaleHeight, 1e-9)
	assert.InDelta(t, 5, s.MinSize, 1e-9)
	assert.InDelta(t, 10, s.MaxSize, 1e-9)
}

func TestMoveStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := testSprite(50, 25, 8, 6)
	for i := 0; i < 5000; i++ {
		dx := rng.Float64()*20 - 10
		dy := rng.Float64()*20 - 10
		s.Move(dx, dy, rng.Float64()*3)
		require.GreaterOrEqual(t, s.X, s.Bounds.Left)
		require.GreaterOrEqual(t, s.Y, s.Bounds.Top)
		require.LessOrEqual(t, s.X+s.Width, s.Bounds.Right)
		require.LessOrEqual(t, s.Y+s.Height, s.Bounds.Bottom)
	}
}

func TestMoveScalesBySpeed(t *testing.T) {
	s := testSprite(50, 20, 2, 2)
	s.Move(1, -1, 0.5)
	assert.InDelta(t, 55, s.X, 1e-9)
	assert.InDelta(t, 15, s.Y, 1e-9)
	assert.Equal(t, DirectionRight, s.Direction)

	s.Move(-1, 0, 0.1)
	assert.Equal(t, DirectionLeft, s.Direction)
}

func TestMoveToEases(t *testing.T) {
	s := testSprite(0, 0, 2, 2)
	s.MoveTo(To(80, 40), 50) // half way
	assert.InDelta(t, 40, s.X, 1e-9)
	assert.InDelta(t, 20, s.Y, 1e-9)

	s.MoveTo(ToY(0), 1000) // fraction capped at 1, x untouched
	assert.InDelta(t, 40, s.X, 1e-9)
	assert.InDelta(t, 0, s.Y, 1e-9)

	s.MoveTo(To(500, 500), 1000)
	assert.Equal(t, 98.0, s.X, "target outside bounds is clamped")
	assert.Equal(t, 48.0, s.Y)
}

func TestCollideDistanceSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		a := testSprite(rng.Float64()*90, rng.Float64()*40, 1+rng.Float64()*9, 1+rng.Float64()*9)
		b := testSprite(rng.Float64()*90, rng.Float64()*40, 1+rng.Float64()*9, 1+rng.Float64()*9)
		require.Equal(t, CollideDistance(&a, &b), CollideDistance(&b, &a))
	}
}

func TestCollideDistance(t *testing.T) {
	a := testSprite(10, 10, 4, 4)
	b := testSprite(13, 10, 4, 4)
	assert.True(t, CollideDistance(&a, &b))
	assert.InDelta(t, 3, GetDistance(&a, &b), 1e-9)

	b.SetXY(14, 10)
	assert.False(t, CollideDistance(&a, &b), "touching edges do not collide")

	b.SetXY(12, 10)
	b.Active = false
	assert.False(t, CollideDistance(&a, &b), "inactive sprites never collide")
}

func TestSpriteDrawUsesCacheAndMirror(t *testing.T) {
	red, green := draw.RGB(255, 0, 0), draw.RGB(0, 255, 0)
	img := draw.NewImage(2, 1)
	img.Set(0, 0, red)
	img.Set(1, 0, green)

	c := draw.NewCanvas(10, 5)
	cache := draw.NewImageCache()
	s := testSprite(3, 2, 2, 1)
	s.Image = img
	s.ImageKey = "playerImage"

	s.Draw(DrawContext{Canvas: c, Cache: cache})
	assert.Equal(t, red, c.At(3, 2))
	assert.Equal(t, green, c.At(4, 2))
	assert.Equal(t, 1, cache.Len())

	c.Clear()
	s.Direction = DirectionLeft
	s.Draw(DrawContext{Canvas: c, Cache: cache})
	assert.Equal(t, green, c.At(3, 2))
	assert.Equal(t, red, c.At(4, 2))
	assert.Equal(t, 1, cache.Len(), "mirroring reuses the cached rendering")

	c.Clear()
	s.Active = false
	s.Draw(DrawContext{Canvas: c})
	assert.Zero(t, c.At(3, 2))
}

func TestMonsterHunt(t *testing.T) {
	m := NewMonster(SpriteOptions{
		X: 50, Y: 0, Width: 4, Height: 4, Homing: 0.01,
		Bounds: Rect{Left: 0, Top: -40, Right: 100, Bottom: 50},
	})
	prey := testSprite(10, 30, 2, 2)

	assert.True(t, m.Attack())
	assert.False(t, m.Attack(), "already attacking")

	m.Hunt(&prey, To(50, -20), 1, 50)
	assert.InDelta(t, 30, m.X, 1e-9)
	assert.InDelta(t, 15, m.Y, 1e-9)
	assert.Equal(t, DirectionLeft, m.Direction)

	m.Tire()
	m.Hunt(&prey, To(50, -20), 1, 100)
	assert.InDelta(t, 50, m.X, 1e-9)
	assert.InDelta(t, -20, m.Y, 1e-9)
}

func TestPlayerSteer(t *testing.T) {
	p := NewPlayer(SpriteOptions{
		X: 20, Y: 10, Width: 4, Height: 4, Speed: 4, Homing: 0.01,
		Bounds: Rect{Right: 100, Bottom: 50},
	})
	p.Steer(0, 0, To(60, 10), 1, 100)
	assert.InDelta(t, 60, p.X, 1e-9)
	assert.InDelta(t, 10, p.Y, 1e-9)

	assert.InDelta(t, 1.0/30, Bounce(0), 1e-9)
}

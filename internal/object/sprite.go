package object

import (
	"math"

	"github.com/tomz197/coffeerun/internal/draw"
	"github.com/tomz197/coffeerun/internal/physics"
)

// Sprite is a rectangular, image-backed entity. X and Y are the top-left corner.
type Sprite struct {
	X, Y          float64
	Width, Height float64
	Speed         float64 // pixels per unit of frame scale
	Homing        float64 // fraction of the remaining distance closed per millisecond in MoveTo
	Bounds        Rect
	Lane          int // -1 outside lane mode
	Kind          Kind
	Active        bool
	Direction     Direction

	Image    *draw.Image
	ImageKey string
}

// SpriteOptions configures NewSprite.
type SpriteOptions struct {
	Image    *draw.Image
	ImageKey string
	X, Y     float64
	Width    float64
	Height   float64
	Speed    float64
	Homing   float64
	Bounds   Rect
}

// NewSprite creates an active sprite clamped into its bounds.
func NewSprite(opts SpriteOptions) Sprite {
	s := Sprite{
		X:        opts.X,
		Y:        opts.Y,
		Width:    opts.Width,
		Height:   opts.Height,
		Speed:    opts.Speed,
		Homing:   opts.Homing,
		Bounds:   opts.Bounds,
		Lane:     -1,
		Active:   true,
		Image:    opts.Image,
		ImageKey: opts.ImageKey,
	}
	s.clamp()
	return s
}

// CX returns the horizontal center.
func (s *Sprite) CX() float64 { return s.X + s.Width/2 }

// CY returns the vertical center.
func (s *Sprite) CY() float64 { return s.Y + s.Height/2 }

// SetXY places the sprite, clamped to its bounds.
func (s *Sprite) SetXY(x, y float64) {
	s.X, s.Y = x, y
	s.clamp()
}

// Move shifts the sprite by (dx, dy) * Speed * scale and clamps it to its bounds.
// Horizontal movement also sets the facing direction.
func (s *Sprite) Move(dx, dy, scale float64) {
	s.X += dx * s.Speed * scale
	s.Y += dy * s.Speed * scale
	switch {
	case dx < 0:
		s.Direction = DirectionLeft
	case dx > 0:
		s.Direction = DirectionRight
	}
	s.clamp()
}

// Target is a MoveTo destination. An axis without a value is left alone.
type Target struct {
	X, Y       float64
	HasX, HasY bool
}

// To targets both axes.
func To(x, y float64) Target { return Target{X: x, Y: y, HasX: true, HasY: true} }

// ToY targets only the vertical axis.
func ToY(y float64) Target { return Target{Y: y, HasY: true} }

// MoveTo eases the sprite toward t. dt is the elapsed frame time in
// milliseconds; each call closes min(1, Homing*dt) of the remaining distance.
func (s *Sprite) MoveTo(t Target, dt float64) {
	f := s.Homing * dt
	if t.HasX {
		s.X = physics.Approach(s.X, t.X, f)
	}
	if t.HasY {
		s.Y = physics.Approach(s.Y, t.Y, f)
	}
	s.clamp()
}

// Draw blits the sprite image, mirrored when facing left. Inactive sprites are not drawn.
// When ctx carries a cache, the scaled image is rendered once per (image, key, size).
func (s *Sprite) Draw(ctx DrawContext) {
	if !s.Active || s.Image == nil || ctx.Canvas == nil {
		return
	}
	key := draw.CacheKey{
		Image:  s.Image,
		Key:    s.ImageKey,
		Width:  int(math.Round(s.Width)),
		Height: int(math.Round(s.Height)),
	}
	var img *draw.Image
	if ctx.Cache != nil {
		var ok bool
		if img, ok = ctx.Cache.Get(key); !ok {
			img = ctx.Cache.Set(key)
		}
	} else {
		img = s.Image.Scale(key.Width, key.Height)
	}
	ctx.Canvas.Blit(img, s.X, s.Y, s.Direction == DirectionLeft)
}

func (s *Sprite) clamp() {
	b := s.Bounds
	if b.Right-b.Left <= 0 && b.Bottom-b.Top <= 0 {
		return
	}
	s.X = physics.Bounded(s.X, b.Left, b.Right-s.Width)
	s.Y = physics.Bounded(s.Y, b.Top, b.Bottom-s.Height)
}

// CollideDistance reports whether two active sprites touch: their centers are
// closer than the sum of their half-widths.
func CollideDistance(a, b *Sprite) bool {
	if !a.Active || !b.Active {
		return false
	}
	return physics.CirclesOverlap(a.CX(), a.CY(), a.Width/2, b.CX(), b.CY(), b.Width/2)
}

// GetDistance returns the distance between the centers of a and b.
func GetDistance(a, b *Sprite) float64 {
	return physics.Distance(a.CX(), a.CY(), b.CX(), b.CY())
}

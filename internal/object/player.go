package object

import "math"

// Player is the sprite the user steers, by lane index or by holding left/right.
type Player struct {
	Sprite
}

// NewPlayer creates the player sprite.
func NewPlayer(opts SpriteOptions) *Player {
	return &Player{Sprite: NewSprite(opts)}
}

// Bounce returns the vertical bob for the given frame count.
func Bounce(count int) float64 {
	return math.Cos(float64(count)/5) / 30
}

// Steer applies one frame of movement: open-mode horizontal input dx and the
// bounce, followed by easing toward the lane/boost target.
func (p *Player) Steer(dx float64, count int, t Target, scale, dt float64) {
	p.Move(dx, Bounce(count), scale)
	p.MoveTo(t, dt)
}

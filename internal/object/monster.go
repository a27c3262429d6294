package object

// Monster periodically hunts the player. While Attacking it homes on the
// player; otherwise it drifts back to its lair above the screen.
type Monster struct {
	Sprite
	Attacking bool
}

// NewMonster creates an idle monster.
func NewMonster(opts SpriteOptions) *Monster {
	return &Monster{Sprite: NewSprite(opts)}
}

// Attack starts an attack. It reports false if one is already underway.
func (m *Monster) Attack() bool {
	if m.Attacking {
		return false
	}
	m.Attacking = true
	return true
}

// Tire ends the current attack.
func (m *Monster) Tire() {
	m.Attacking = false
}

// Hunt moves the monster one frame toward prey when attacking, or toward lair otherwise.
func (m *Monster) Hunt(prey *Sprite, lair Target, scale, dt float64) {
	m.Move(0, 0, scale)
	t := lair
	if m.Attacking {
		t = To(prey.X, prey.Y)
	}
	if t.HasX {
		if t.X < m.X {
			m.Direction = DirectionLeft
		} else if t.X > m.X {
			m.Direction = DirectionRight
		}
	}
	m.MoveTo(t, dt)
}

package object

import (
	"math/rand"

	"github.com/tomz197/coffeerun/internal/draw"
)

// MaxObstacles is the arena capacity.
const MaxObstacles = 6

// Obstacle is a spawned entity scrolling up the screen. It is recycled, not
// destroyed, once it leaves the top edge.
type Obstacle struct {
	Sprite
}

// OffScreen reports whether the obstacle has fully passed the top edge.
func (o *Obstacle) OffScreen(s Screen) bool {
	return o.Y < s.Top-o.Height
}

// Arena is a fixed-capacity pool of obstacles. Slots are only ever appended
// and then reused in place.
type Arena struct {
	slots [MaxObstacles]Obstacle
	n     int
}

// Len returns the number of slots in use, active or not.
func (a *Arena) Len() int { return a.n }

// Full reports whether every slot is in use.
func (a *Arena) Full() bool { return a.n == MaxObstacles }

// All returns the slots in use. The slice aliases the arena.
func (a *Arena) All() []Obstacle { return a.slots[:a.n] }

// At returns slot i.
func (a *Arena) At(i int) *Obstacle { return &a.slots[i] }

// Reset empties the arena.
func (a *Arena) Reset() {
	a.slots = [MaxObstacles]Obstacle{}
	a.n = 0
}

func (a *Arena) add(o Obstacle) bool {
	if a.Full() {
		return false
	}
	a.slots[a.n] = o
	a.n++
	return true
}

// ObstacleStyle is the look of one obstacle kind.
type ObstacleStyle struct {
	Image         *draw.Image
	ImageKey      string
	Width, Height float64
}

// SpawnRules tells the Spawner where and what to spawn.
type SpawnRules struct {
	Screen      Screen
	Lanes       int     // 0 selects open mode
	LaneSize    float64 // lane mode only
	PlayerWidth float64 // crowd radius is CrowdFactor * PlayerWidth
	CrowdFactor float64
	Speed       float64
	LifeEvery   int // every LifeEvery-th frame yields coffee instead of a tree
	Tree        ObstacleStyle
	Coffee      ObstacleStyle
}

// Spawner chooses obstacle kinds and uncrowded spawn locations.
type Spawner struct {
	rules SpawnRules
	rng   *rand.Rand
}

// NewSpawner creates a spawner. A nil rng uses the global source.
func NewSpawner(rules SpawnRules, rng *rand.Rand) *Spawner {
	if rules.CrowdFactor <= 0 {
		rules.CrowdFactor = 3
	}
	return &Spawner{rules: rules, rng: rng}
}

// Rules returns the spawner's rules.
func (s *Spawner) Rules() SpawnRules { return s.rules }

// KindAt returns the obstacle kind the type rule yields on frame count.
func (s *Spawner) KindAt(count int) Kind {
	if s.rules.LifeEvery > 0 && count%s.rules.LifeEvery == 0 {
		return KindCoffee
	}
	return KindTree
}

// Candidate builds an obstacle of the kind for count at a random lane (or x
// in open mode) just below the bottom edge. It is not yet checked for crowding.
func (s *Spawner) Candidate(count int) Obstacle {
	r := s.rules
	kind := s.KindAt(count)
	style := r.Tree
	if kind == KindCoffee {
		style = r.Coffee
	}

	lane := -1
	var x float64
	if r.Lanes > 0 {
		lane = randomInt(s.rng, r.Lanes)
		x = r.LaneSize*float64(lane) + (r.LaneSize-style.Width)/2
	} else {
		x = randomBetween(s.rng, r.Screen.Left, r.Screen.Right-style.Width)
	}

	bounds := r.Screen.Rect()
	bounds.Top -= 2 * style.Height
	bounds.Bottom += 2 * style.Height

	o := Obstacle{Sprite: NewSprite(SpriteOptions{
		Image:    style.Image,
		ImageKey: style.ImageKey,
		X:        x,
		Y:        r.Screen.Bottom + style.Height,
		Width:    style.Width,
		Height:   style.Height,
		Speed:    r.Speed,
		Bounds:   bounds,
	})}
	o.Lane = lane
	o.Kind = kind
	return o
}

// Crowded reports whether any active obstacle other than slot skip lies
// within the crowd radius of cand. Pass skip < 0 to check all slots.
func (s *Spawner) Crowded(a *Arena, cand *Obstacle, skip int) bool {
	radius := s.rules.CrowdFactor * s.rules.PlayerWidth
	for i := range a.All() {
		if i == skip {
			continue
		}
		o := a.At(i)
		if o.Active && GetDistance(&o.Sprite, &cand.Sprite) < radius {
			return true
		}
	}
	return false
}

// Spawn adds a new obstacle if the arena has room and the drawn location is
// not crowded. It reports whether an obstacle was added.
func (s *Spawner) Spawn(a *Arena, count int) bool {
	if a.Full() {
		return false
	}
	cand := s.Candidate(count)
	if s.Crowded(a, &cand, -1) {
		return false
	}
	return a.add(cand)
}

// Recycle moves slot i back below the screen as a fresh obstacle, re-applying
// the type rule. A crowded draw leaves the slot untouched for a later retry.
func (s *Spawner) Recycle(a *Arena, i, count int) bool {
	cand := s.Candidate(count)
	if s.Crowded(a, &cand, i) {
		return false
	}
	*a.At(i) = cand
	return true
}

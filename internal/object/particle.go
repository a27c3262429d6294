package object

import (
	"math/rand"
	"sync"

	"github.com/tomz197/coffeerun/internal/draw"
)

// particleBufPool reuses particle buffers between sparks; one spark is added
// every play frame for the trail.
var particleBufPool = sync.Pool{
	New: func() any {
		buf := make([]particle, 0, 16)
		return &buf
	},
}

type particle struct {
	x, y   float64
	vx, vy float64
	radius float64
	alpha  float64
}

// Range is an inclusive [min, max] pair for randomized values.
type Range [2]float64

// Fixed returns a Range that always yields v.
func Fixed(v float64) Range { return Range{v, v} }

func (r Range) pick(rng *rand.Rand) float64 {
	return randomBetween(rng, r[0], r[1])
}

// SparkOptions configures a Spark burst.
type SparkOptions struct {
	N        int
	X, Y     float64
	VX, VY   Range // pixels per tick, before Scale
	RD       Range // particle radius; default [1, 3]
	Color    draw.Color
	BurnRate float64 // alpha lost per tick; default 0.01
	Scale    float64 // screen scale; 0 means 1
	Rand     *rand.Rand
}

// maxSparkTicks bounds a spark's lifetime regardless of burn rate.
const maxSparkTicks = 600

// Spark is a burst of particles flying out from one point and fading.
type Spark struct {
	buf      *[]particle
	x, y     float64
	color    draw.Color
	burnRate float64
	ticks    int
	active   bool
}

// NewSpark creates a spark burst.
func NewSpark(opts SparkOptions) *Spark {
	scale := orOne(opts.Scale)
	rd := opts.RD
	if rd == (Range{}) {
		rd = Range{1, 3}
	}
	rate := opts.BurnRate
	if rate <= 0 {
		rate = 0.01
	}

	buf := particleBufPool.Get().(*[]particle)
	ps := (*buf)[:0]
	for i := 0; i < opts.N; i++ {
		ps = append(ps, particle{
			x:      opts.X,
			y:      opts.Y,
			vx:     opts.VX.pick(opts.Rand) * scale,
			vy:     opts.VY.pick(opts.Rand) * scale,
			radius: rd.pick(opts.Rand) * scale,
			alpha:  1,
		})
	}
	*buf = ps
	return &Spark{
		buf:      buf,
		x:        opts.X,
		y:        opts.Y,
		color:    opts.Color,
		burnRate: rate,
		active:   opts.N > 0,
	}
}

func (s *Spark) Tick(int) {
	if !s.active {
		return
	}
	s.ticks++
	alive := false
	ps := *s.buf
	for i := range ps {
		p := &ps[i]
		if p.alpha <= 0 {
			continue
		}
		p.x += p.vx
		p.y += p.vy
		p.alpha -= s.burnRate
		if p.alpha > 0 {
			alive = true
		}
	}
	if !alive || s.ticks >= maxSparkTicks {
		s.release()
	}
}

func (s *Spark) Draw(c *draw.Canvas) {
	if !s.active {
		return
	}
	for _, p := range *s.buf {
		if p.alpha <= 0 {
			continue
		}
		c.FillCircle(p.x, p.y, p.radius, fade(c, s.color, p.alpha))
	}
}

func (s *Spark) Active() bool { return s.active }

// Particles returns the burst size, or 0 once the spark has expired.
func (s *Spark) Particles() int {
	if s.buf == nil {
		return 0
	}
	return len(*s.buf)
}

// Origin returns the point the burst started from.
func (s *Spark) Origin() (x, y float64) { return s.x, s.y }

func (s *Spark) Color() draw.Color { return s.color }

func (s *Spark) release() {
	s.active = false
	if s.buf == nil {
		return
	}
	*s.buf = (*s.buf)[:0]
	particleBufPool.Put(s.buf)
	s.buf = nil
}

// StarStreamOptions configures a StarStream.
type StarStreamOptions struct {
	N      int
	X      Range   // horizontal spawn range
	Y      float64 // re-entry edge
	VX, VY float64 // pixels per tick, before Scale
	RD     Range
	Color  draw.Color
	Scale  float64
	Rand   *rand.Rand
}

// StarStream is a looping field of drifting particles that never expires.
type StarStream struct {
	stars []particle
	xr    Range
	edge  float64
	color draw.Color
	rng   *rand.Rand
}

// NewStarStream creates a stream with stars spread between the top and the edge.
func NewStarStream(opts StarStreamOptions) *StarStream {
	scale := orOne(opts.Scale)
	rd := opts.RD
	if rd == (Range{}) {
		rd = Range{2, 3}
	}
	ss := &StarStream{
		stars: make([]particle, opts.N),
		xr:    opts.X,
		edge:  opts.Y,
		color: opts.Color,
		rng:   opts.Rand,
	}
	for i := range ss.stars {
		ss.stars[i] = particle{
			x:      opts.X.pick(opts.Rand),
			y:      randomBetween(opts.Rand, 0, opts.Y),
			vx:     opts.VX * scale,
			vy:     opts.VY * scale,
			radius: rd.pick(opts.Rand) * scale,
			alpha:  1,
		}
	}
	return ss
}

func (ss *StarStream) Tick(int) {
	for i := range ss.stars {
		p := &ss.stars[i]
		p.x += p.vx
		p.y += p.vy
		switch {
		case p.vy < 0 && p.y < 0:
			p.y = ss.edge
			p.x = ss.xr.pick(ss.rng)
		case p.vy > 0 && p.y > ss.edge:
			p.y = 0
			p.x = ss.xr.pick(ss.rng)
		}
	}
}

func (ss *StarStream) Draw(c *draw.Canvas) {
	for _, p := range ss.stars {
		c.FillCircle(p.x, p.y, p.radius, ss.color)
	}
}

// Active is always true; a stream lives until the effect list is reset.
func (ss *StarStream) Active() bool { return true }

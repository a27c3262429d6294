package object

import (
	"math"

	"github.com/tomz197/coffeerun/internal/draw"
)

// Effect is a short-lived visual. Tick advances it one frame and may deactivate it.
type Effect interface {
	Tick(frame int)
	Draw(c *draw.Canvas)
	Active() bool
}

// Effects is the ordered list of live effects.
type Effects struct {
	list []Effect
}

// Add appends e. Nil effects are ignored.
func (es *Effects) Add(e Effect) {
	if e == nil {
		return
	}
	es.list = append(es.list, e)
}

// Len returns the number of live effects.
func (es *Effects) Len() int { return len(es.list) }

// All returns the live effects in order. The slice aliases the list.
func (es *Effects) All() []Effect { return es.list }

// Update ticks every effect in order, draws the ones still active and drops
// the rest. A dropped effect is never ticked again.
func (es *Effects) Update(frame int, c *draw.Canvas) {
	kept := es.list[:0]
	for _, e := range es.list {
		e.Tick(frame)
		if !e.Active() {
			continue
		}
		if c != nil {
			e.Draw(c)
		}
		kept = append(kept, e)
	}
	clear(es.list[len(kept):])
	es.list = kept
}

// Reset drops every effect.
func (es *Effects) Reset() {
	clear(es.list)
	es.list = es.list[:0]
}

// fade blends col toward the canvas background as alpha drops to zero.
func fade(c *draw.Canvas, col draw.Color, alpha float64) draw.Color {
	bg := c.Background()
	if !bg.IsSet() {
		return col
	}
	return draw.Blend(col, bg, 1-alpha)
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// BurnOptions configures a Burn.
type BurnOptions struct {
	X, Y     float64
	Color    draw.Color
	Scale    float64 // screen scale; 0 means 1
	BurnRate float64 // alpha lost per tick; default 0.05
}

// lifetime converts a per-tick alpha loss into a whole number of ticks.
type lifetime struct {
	ticks, total int
}

func newLifetime(burnRate float64) lifetime {
	return lifetime{total: int(math.Ceil(1/burnRate - 1e-9))}
}

func (l *lifetime) tick()          { l.ticks++ }
func (l *lifetime) alpha() float64 { return 1 - float64(l.ticks)/float64(l.total) }
func (l *lifetime) alive() bool    { return l.ticks < l.total }

// Burn is a filled flash that swells and fades at one point.
type Burn struct {
	x, y   float64
	radius float64
	growth float64
	life   lifetime
	color  draw.Color
}

// NewBurn creates a burn flash.
func NewBurn(opts BurnOptions) *Burn {
	scale := orOne(opts.Scale)
	rate := opts.BurnRate
	if rate <= 0 {
		rate = 0.05
	}
	return &Burn{
		x:      opts.X,
		y:      opts.Y,
		radius: 10 * scale,
		growth: 2 * scale,
		life:   newLifetime(rate),
		color:  opts.Color,
	}
}

func (b *Burn) Tick(int) {
	b.radius += b.growth
	b.life.tick()
}

func (b *Burn) Draw(c *draw.Canvas) {
	c.FillCircle(b.x, b.y, b.radius, fade(c, b.color, b.life.alpha()))
}

func (b *Burn) Active() bool { return b.life.alive() }

// BlastWaveOptions configures a BlastWave.
type BlastWaveOptions struct {
	X, Y     float64
	Color    draw.Color
	Scale    float64
	BurnRate float64 // default 0.04
}

// BlastWave is an expanding ring.
type BlastWave struct {
	x, y   float64
	radius float64
	speed  float64
	life   lifetime
	color  draw.Color
}

// NewBlastWave creates a blast wave centered at the given point.
func NewBlastWave(opts BlastWaveOptions) *BlastWave {
	scale := orOne(opts.Scale)
	rate := opts.BurnRate
	if rate <= 0 {
		rate = 0.04
	}
	return &BlastWave{
		x:      opts.X,
		y:      opts.Y,
		radius: scale,
		speed:  6 * scale,
		life:   newLifetime(rate),
		color:  opts.Color,
	}
}

func (w *BlastWave) Tick(int) {
	w.radius += w.speed
	w.life.tick()
}

func (w *BlastWave) Draw(c *draw.Canvas) {
	col := fade(c, w.color, w.life.alpha())
	c.StrokeCircle(w.x, w.y, w.radius, col)
	c.StrokeCircle(w.x, w.y, w.radius+1, col)
}

func (w *BlastWave) Active() bool { return w.life.alive() }

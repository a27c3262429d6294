package object

import (
	"math/rand"

	"github.com/tomz197/coffeerun/internal/draw"
)

// Kind tags what an obstacle does to the player on contact.
type Kind string

const (
	KindTree   Kind = "tree"   // costs a life
	KindCoffee Kind = "coffee" // restores a life
)

// Direction selects whether a sprite is drawn mirrored.
type Direction int

const (
	DirectionRight Direction = iota
	DirectionLeft
)

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Screen describes the play area and the size-derived scale factors
// every movement and effect is multiplied by.
type Screen struct {
	Top, Bottom, Left, Right float64
	CenterX, CenterY         float64

	Scale       float64 // ((w+h)/2)/1000
	ScaleWidth  float64 // (w/2)/1000
	ScaleHeight float64 // (h/2)/1000
	MinSize     float64 // smallest open-mode sprite width
	MaxSize     float64 // largest open-mode sprite width
}

// NewScreen derives a Screen from canvas pixel dimensions.
func NewScreen(width, height int) Screen {
	w, h := float64(width), float64(height)
	avg := (w + h) / 2
	return Screen{
		Bottom:      h,
		Right:       w,
		CenterX:     w / 2,
		CenterY:     h / 2,
		Scale:       avg / 1000,
		ScaleWidth:  (w / 2) / 1000,
		ScaleHeight: (h / 2) / 1000,
		MinSize:     avg / 20,
		MaxSize:     avg / 10,
	}
}

// Width returns the screen width in pixels.
func (s Screen) Width() float64 { return s.Right - s.Left }

// Height returns the screen height in pixels.
func (s Screen) Height() float64 { return s.Bottom - s.Top }

// Rect returns the screen as a bounds rectangle.
func (s Screen) Rect() Rect {
	return Rect{Left: s.Left, Top: s.Top, Right: s.Right, Bottom: s.Bottom}
}

// DrawContext provides drawing resources for sprites.
type DrawContext struct {
	Canvas *draw.Canvas
	Cache  *draw.ImageCache // optional
}

// Fit returns the size img takes when drawn width pixels wide, keeping its aspect.
func Fit(img *draw.Image, width float64) (w, h float64) {
	return width, width * img.Aspect()
}

// randomBetween returns a value in [lo, hi).
func randomBetween(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	if rng == nil {
		return lo + rand.Float64()*(hi-lo)
	}
	return lo + rng.Float64()*(hi-lo)
}

func randomInt(rng *rand.Rand, n int) int {
	if n <= 1 {
		return 0
	}
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}

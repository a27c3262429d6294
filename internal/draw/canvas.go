package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Canvas is a color pixel buffer with 2x vertical resolution using half-block characters.
// Pixel coordinates map 1:1 to terminal columns and half-rows.
type Canvas struct {
	termWidth      int     // Terminal columns
	termHeight     int     // Terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]
	background     Color

	renderBuf strings.Builder // Buffer for batching render output
	numBuf    [20]byte        // Scratch for allocation-free integer formatting
}

// NewCanvas creates a canvas for the given terminal dimensions.
func NewCanvas(termWidth, termHeight int) *Canvas {
	c := &Canvas{}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions.
// Returns true if the size changed (pixels are cleared in that case).
func (c *Canvas) Resize(termWidth, termHeight int) bool {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	if termWidth == c.termWidth && termHeight == c.termHeight && c.pixels != nil {
		return false
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]Color, c.subPixelHeight*termWidth)
	return true
}

// Width returns the pixel width (terminal columns).
func (c *Canvas) Width() int {
	return c.termWidth
}

// Height returns the pixel height (terminal rows * 2).
func (c *Canvas) Height() int {
	return c.subPixelHeight
}

// TerminalWidth returns the terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// SetBackground sets the color empty pixels are rendered with.
func (c *Canvas) SetBackground(bg Color) {
	c.background = bg
}

// Background returns the background color.
func (c *Canvas) Background() Color {
	return c.background
}

// Clear resets all pixels to empty.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// At returns the pixel at (x, y), or 0 when out of range.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return 0
	}
	return c.pixels[y*c.termWidth+x]
}

// Set sets a pixel. Out of range coordinates and empty colors are ignored.
func (c *Canvas) Set(x, y int, col Color) {
	if !col.IsSet() {
		return
	}
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// SetFloat sets the pixel nearest to (x, y).
func (c *Canvas) SetFloat(x, y float64, col Color) {
	c.Set(int(math.Floor(x)), int(math.Floor(y)), col)
}

// FillRect fills the axis-aligned rectangle with top-left (x, y).
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := int(math.Ceil(x+w)), int(math.Ceil(y+h))
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.Set(px, py, col)
		}
	}
}

// FillCircle fills a disc. Radii below one pixel draw a single pixel.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color) {
	if r < 1 {
		c.SetFloat(cx, cy, col)
		return
	}
	r2 := r * r
	for py := int(math.Floor(cy - r)); py <= int(math.Ceil(cy+r)); py++ {
		dy := float64(py) + 0.5 - cy
		for px := int(math.Floor(cx - r)); px <= int(math.Ceil(cx+r)); px++ {
			dx := float64(px) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				c.Set(px, py, col)
			}
		}
	}
}

// StrokeCircle draws a one-pixel ring.
func (c *Canvas) StrokeCircle(cx, cy, r float64, col Color) {
	if r < 1 {
		c.SetFloat(cx, cy, col)
		return
	}
	steps := int(math.Ceil(2 * math.Pi * r * 2))
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / float64(steps)
		c.SetFloat(cx+math.Cos(a)*r, cy+math.Sin(a)*r, col)
	}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1, y1 := int(math.Round(p1.X)), int(math.Round(p1.Y))
	x2, y2 := int(math.Round(p2.X)), int(math.Round(p2.Y))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.Set(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Blit copies img at top-left (x, y) without scaling. When mirror is set the
// image is flipped horizontally. Empty image pixels are transparent.
func (c *Canvas) Blit(img *Image, x, y float64, mirror bool) {
	if img == nil {
		return
	}
	ox, oy := int(math.Floor(x)), int(math.Floor(y))
	for iy := 0; iy < img.Height; iy++ {
		for ix := 0; ix < img.Width; ix++ {
			sx := ix
			if mirror {
				sx = img.Width - 1 - ix
			}
			c.Set(ox+ix, oy+iy, img.Pix[iy*img.Width+sx])
		}
	}
}

// DrawImage scales img to w x h and draws it at (x, y).
func (c *Canvas) DrawImage(img *Image, x, y float64, w, h int, mirror bool) {
	if img == nil {
		return
	}
	c.Blit(img.Scale(w, h), x, y, mirror)
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
const maxChunkSize = 1400

// Render outputs the canvas using half-block characters with 24-bit colors.
// Cells where both halves are background are skipped; the caller is expected
// to have cleared the screen to the background color.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 8)

	var lastFg, lastBg Color
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.resolve(c.pixels[topOffset+col])
			bottom := c.resolve(c.pixels[bottomOffset+col])
			if top == c.background && bottom == c.background {
				continue
			}

			c.writeCursor(col+1, row+1)
			if top == bottom {
				if top != lastFg {
					c.writeSGR(38, top)
					lastFg = top
				}
				c.renderBuf.WriteRune(BlockFull)
				continue
			}
			if top != lastFg {
				c.writeSGR(38, top)
				lastFg = top
			}
			if bottom != lastBg {
				c.writeSGR(48, bottom)
				lastBg = bottom
			}
			c.renderBuf.WriteRune(BlockUpperHalf)
		}
	}
	c.renderBuf.WriteString("\033[0m")

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) resolve(col Color) Color {
	if col.IsSet() {
		return col
	}
	return c.background
}

func (c *Canvas) writeCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// writeSGR emits a 24-bit foreground (38) or background (48) color.
func (c *Canvas) writeSGR(kind int, col Color) {
	r, g, b := col.RGB()
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(kind), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(r), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(g), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(b), 10))
	c.renderBuf.WriteByte('m')
}

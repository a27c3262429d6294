// Package overlay draws the text layer on top of the game canvas: title
// banner, start button, instructions, the stats bar with its mute and pause
// toggles, and the loading indicator. It holds display state only.
package overlay

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/coffeerun/internal/draw"
)

// Element names a part of the overlay.
type Element string

const (
	Banner       Element = "banner"
	Button       Element = "button"
	Instructions Element = "instructions"
	Stats        Element = "stats" // score, lives, mute and pause
	Loading      Element = "loading"
	Mute         Element = "mute"
	Pause        Element = "pause"
)

// Styles are the colors and settings the overlay is drawn with.
type Styles struct {
	Background draw.Color
	Text       draw.Color
	Primary    draw.Color
	Tertiary   draw.Color
	TopBar     bool
}

// InstructionText holds the keyboard and pointer instructions.
type InstructionText struct {
	Desktop string
	Mobile  string
}

type region struct {
	el       Element
	row      int
	from, to int // columns, inclusive
}

// Overlay is the terminal overlay surface.
type Overlay struct {
	renderer *lipgloss.Renderer
	styles   Styles

	title, bar, button, text, dim lipgloss.Style

	banner       string
	buttonText   string
	instructions InstructionText
	score        int
	lives        int
	muted        bool
	paused       bool
	progress     int

	visible map[Element]bool
	regions []region
}

// New creates an overlay showing only the loading indicator.
func New() *Overlay {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	o := &Overlay{
		renderer: r,
		visible:  map[Element]bool{Loading: true},
	}
	o.SetStyles(Styles{
		Background: draw.RGB(0, 0, 0),
		Text:       draw.RGB(255, 255, 255),
		Primary:    draw.RGB(255, 255, 255),
		Tertiary:   draw.RGB(64, 64, 64),
	})
	return o
}

// SetStyles replaces the colors.
func (o *Overlay) SetStyles(s Styles) {
	o.styles = s
	fg := lipgloss.Color(s.Text.Hex())
	bg := lipgloss.Color(s.Background.Hex())
	primary := lipgloss.Color(s.Primary.Hex())

	o.text = o.renderer.NewStyle().Foreground(fg).Background(bg)
	o.dim = o.text.Faint(true)
	o.title = o.renderer.NewStyle().Foreground(primary).Background(bg).Bold(true)
	o.button = o.renderer.NewStyle().Foreground(bg).Background(primary).Bold(true).Padding(0, 2)
	o.bar = o.renderer.NewStyle().Foreground(fg).Background(lipgloss.Color(s.Tertiary.Hex()))
}

// SetBanner shows text as the banner.
func (o *Overlay) SetBanner(text string) {
	o.banner = text
	o.visible[Banner] = true
}

// SetButton shows the start button labelled text.
func (o *Overlay) SetButton(text string) {
	o.buttonText = text
	o.visible[Button] = true
}

// SetInstructions shows the instructions.
func (o *Overlay) SetInstructions(in InstructionText) {
	o.instructions = in
	o.visible[Instructions] = true
}

func (o *Overlay) SetScore(score int) { o.score = score }

func (o *Overlay) SetLives(lives int) { o.lives = lives }

func (o *Overlay) SetMute(muted bool) { o.muted = muted }

func (o *Overlay) SetPause(paused bool) { o.paused = paused }

// SetProgress updates the loading percentage.
func (o *Overlay) SetProgress(percent int) { o.progress = percent }

// Show makes elements visible.
func (o *Overlay) Show(els ...Element) {
	for _, el := range els {
		o.visible[el] = true
	}
}

// Hide makes elements invisible.
func (o *Overlay) Hide(els ...Element) {
	for _, el := range els {
		o.visible[el] = false
	}
}

// Visible reports whether el is shown.
func (o *Overlay) Visible(el Element) bool { return o.visible[el] }

// Banner returns the current banner text.
func (o *Overlay) Banner() string { return o.banner }

// Target returns the clickable element drawn at the 1-based cell, or "".
func (o *Overlay) Target(col, row int) Element {
	for _, r := range o.regions {
		if r.row == row && col >= r.from && col <= r.to {
			return r.el
		}
	}
	return ""
}

// Render writes the visible elements for a cols x rows terminal.
func (o *Overlay) Render(cw *draw.ChunkWriter, cols, rows int) {
	o.regions = o.regions[:0]
	if cols <= 0 || rows <= 0 {
		return
	}
	mid := rows / 2

	if o.visible[Loading] {
		o.center(cw, cols, mid, o.text.Render(fmt.Sprintf("Loading %3d%%", o.progress)), "")
	}
	if o.visible[Stats] {
		o.renderStats(cw, cols)
	}
	if o.visible[Banner] && o.banner != "" {
		o.center(cw, cols, mid-3, o.title.Render(o.banner), "")
	}
	if o.visible[Button] && o.buttonText != "" {
		o.center(cw, cols, mid, o.button.Render(o.buttonText), Button)
	}
	if o.visible[Instructions] {
		if t := o.instructions.Desktop; t != "" {
			o.center(cw, cols, mid+2, o.text.Render(t), "")
		}
		if t := o.instructions.Mobile; t != "" {
			o.center(cw, cols, mid+3, o.dim.Render(t), "")
		}
	}
}

func (o *Overlay) renderStats(cw *draw.ChunkWriter, cols int) {
	style := o.text
	if o.styles.TopBar {
		style = o.bar
		cw.WriteAt(1, 1, o.bar.Render(strings.Repeat(" ", cols)))
	}

	cw.WriteAt(2, 1, style.Render(fmt.Sprintf("Score: %-6d", o.score)))

	pause := "[ Pause ]"
	if o.paused {
		pause = "[ Resume ]"
	}
	mute := "[ Sound ]"
	if o.muted {
		mute = "[ Muted ]"
	}
	lives := fmt.Sprintf("Lives: %-3d", max(o.lives, 0))

	col := cols - len(lives)
	cw.WriteAt(col, 1, style.Render(lives))
	col -= len(mute) + 2
	o.place(cw, col, 1, style.Render(mute), Mute)
	col -= len(pause) + 1
	o.place(cw, col, 1, style.Render(pause), Pause)
}

func (o *Overlay) center(cw *draw.ChunkWriter, cols, row int, s string, el Element) {
	w := lipgloss.Width(s)
	o.place(cw, max(1, (cols-w)/2+1), row, s, el)
}

func (o *Overlay) place(cw *draw.ChunkWriter, col, row int, s string, el Element) {
	if col < 1 || row < 1 {
		return
	}
	cw.WriteAt(col, row, s)
	if el != "" {
		o.regions = append(o.regions, region{el: el, row: row, from: col, to: col + lipgloss.Width(s) - 1})
	}
}

package overlay

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/coffeerun/internal/draw"
)

func render(o *Overlay, cols, rows int) string {
	var buf bytes.Buffer
	cw := draw.NewChunkWriter(&buf)
	o.Render(cw, cols, rows)
	_ = cw.Flush()
	return buf.String()
}

func TestStartsLoading(t *testing.T) {
	o := New()
	assert.True(t, o.Visible(Loading))
	o.SetProgress(42)
	assert.Contains(t, render(o, 40, 20), "Loading  42%")
}

func TestMenuAndButtonTarget(t *testing.T) {
	o := New()
	o.Hide(Loading)
	o.SetBanner("Coffee Run")
	o.SetButton("Start")
	o.SetInstructions(InstructionText{Desktop: "Arrows to move", Mobile: "Drag to move"})

	out := render(o, 40, 20)
	assert.Contains(t, out, "Coffee Run")
	assert.Contains(t, out, "Start")
	assert.Contains(t, out, "Drag to move")
	assert.NotContains(t, out, "Loading")

	// "  Start  " is 9 cells wide, centered on row 10
	assert.Equal(t, Button, o.Target(16, 10))
	assert.Equal(t, Button, o.Target(24, 10))
	assert.Equal(t, Element(""), o.Target(25, 10))
	assert.Equal(t, Element(""), o.Target(16, 11))
}

func TestHiddenElementsAreNotTargets(t *testing.T) {
	o := New()
	o.SetButton("Start")
	render(o, 40, 20)
	require.Equal(t, Button, o.Target(16, 10))

	o.Hide(Banner, Button, Instructions)
	render(o, 40, 20)
	assert.Equal(t, Element(""), o.Target(16, 10))
}

func TestStatsBar(t *testing.T) {
	o := New()
	o.Show(Stats)
	o.SetScore(12)
	o.SetLives(2)
	o.SetMute(true)
	o.SetPause(false)

	out := render(o, 60, 20)
	assert.Contains(t, out, "Score: 12")
	assert.Contains(t, out, "Lives: 2")
	assert.Contains(t, out, "[ Muted ]")
	assert.Contains(t, out, "[ Pause ]")

	assert.Equal(t, Mute, o.Target(40, 1))
	assert.Equal(t, Pause, o.Target(30, 1))

	o.SetPause(true)
	assert.Contains(t, render(o, 60, 20), "[ Resume ]")
}

func TestBannerText(t *testing.T) {
	o := New()
	o.SetBanner("Paused")
	assert.Equal(t, "Paused", o.Banner())
	assert.True(t, o.Visible(Banner))
	o.Hide(Banner)
	assert.False(t, o.Visible(Banner))
	assert.NotContains(t, render(o, 40, 20), "Paused")
}

package loop

import (
	"strconv"

	"github.com/tomz197/coffeerun/internal/input"
	lconf "github.com/tomz197/coffeerun/internal/loop/config"
	"github.com/tomz197/coffeerun/internal/overlay"
)

// unlocker is implemented by outputs that stay silent until a user gesture.
type unlocker interface {
	Unlock() error
}

// HandleInput applies the input gathered since the previous frame, in order.
func (g *Game) HandleInput(in input.Input) error {
	g.input.left, g.input.right = in.Left, in.Right
	if len(in.Events) > 0 && !g.unlocked {
		g.unlock()
	}
	for _, ev := range in.Events {
		var err error
		switch ev.Kind {
		case input.EventKey:
			err = g.key(ev)
		case input.EventClick:
			g.click(ev)
		case input.EventSwipe:
			g.swipe(ev)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) unlock() {
	g.unlocked = true
	u, ok := g.audio.Output().(unlocker)
	if !ok {
		return
	}
	if err := u.Unlock(); err != nil {
		g.logger.Warn("audio unavailable", "err", err)
	}
}

func (g *Game) key(ev input.Event) error {
	switch g.state.Current {
	case PhaseLoading, PhaseStop:
		return nil
	}

	if ev.Key == input.KeyRune {
		switch ev.Rune {
		case 'm', 'M':
			g.Mute()
			return nil
		case 'p', 'P':
			g.Pause()
			return nil
		}
	}

	switch g.state.Current {
	case PhaseReady:
		g.Start()
	case PhasePlay:
		if g.state.Paused {
			return nil
		}
		switch {
		case ev.Key == input.KeyLeft || ev.Key == input.KeyRune && ev.Rune == 'a':
			g.ShiftLeft()
		case ev.Key == input.KeyRight || ev.Key == input.KeyRune && ev.Rune == 'd':
			g.ShiftRight()
		case ev.Key == input.KeySpace || ev.Key == input.KeyDown:
			g.Boost()
		}
	}
	return nil
}

func (g *Game) click(ev input.Event) {
	if g.state.Current == PhaseLoading || g.state.Current == PhaseStop {
		return
	}
	switch g.overlay.Target(ev.Col, ev.Row) {
	case overlay.Mute:
		g.Mute()
	case overlay.Pause:
		g.Pause()
	case overlay.Button:
		g.Start()
	}
}

func (g *Game) swipe(ev input.Event) {
	if g.state.Current != PhasePlay || g.state.Paused {
		return
	}
	switch ev.Direction {
	case input.SwipeLeft:
		g.ShiftLeft()
	case input.SwipeRight:
		g.ShiftRight()
	case input.SwipeDown:
		g.Boost()
	}
}

// Start begins the round from the menu.
func (g *Game) Start() {
	if g.state.Current != PhaseReady {
		return
	}
	g.setPhase(PhasePlay)
}

// ShiftLeft moves the player one lane left.
func (g *Game) ShiftLeft() { g.shift(-1) }

// ShiftRight moves the player one lane right.
func (g *Game) ShiftRight() { g.shift(1) }

// shift is a no-op outside lane mode. The lane is clamped to the track.
func (g *Game) shift(d int) {
	if g.state.Lanes == 0 {
		return
	}
	lane := min(max(g.state.PlayerLane+d, 0), g.state.Lanes-1)
	if lane == g.state.PlayerLane {
		return
	}
	g.state.PlayerLane = lane
	g.playback(turnSound)
}

// Boost pushes the player down the screen for a point. It is throttled.
func (g *Game) Boost() {
	if !g.boost.Allow() {
		return
	}
	g.state.Boost += lconf.BoostAmount
	g.state.Score++
	g.playback(boostSound)
}

// Pause toggles the pause. It only applies during a round or its game over.
// Pausing cancels the pending frame; resuming requests one that does not
// count the paused time.
func (g *Game) Pause() {
	if g.state.Current != PhasePlay && g.state.Current != PhaseOver {
		return
	}
	g.state.Paused = !g.state.Paused
	g.overlay.SetPause(g.state.Paused)

	if g.state.Paused {
		g.cancelFrame()
		g.audio.Suspend()
		g.overlay.SetBanner("Paused")
		return
	}
	g.requestFrame(g.play, true)
	if !g.state.Muted {
		g.audio.Resume()
	}
	g.overlay.Hide(overlay.Banner)
}

// Mute toggles the sound and remembers the choice for this game name.
func (g *Game) Mute() {
	g.state.Muted = !g.state.Muted
	if err := g.flags.Set(g.prefix+mutedKey, strconv.FormatBool(g.state.Muted)); err != nil {
		g.logger.Warn("saving mute flag failed", "err", err)
	}
	g.audio.SetMuted(g.state.Muted)
	g.overlay.SetMute(g.state.Muted)

	if g.state.Muted {
		g.audio.Suspend()
	} else if !g.state.Paused {
		g.audio.Resume()
	}
}

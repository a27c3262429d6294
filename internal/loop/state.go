package loop

import (
	"time"

	"github.com/tomz197/coffeerun/internal/config"
	lconf "github.com/tomz197/coffeerun/internal/loop/config"
	"github.com/tomz197/coffeerun/internal/store"
)

// Phase is the controller's current game phase.
type Phase string

const (
	PhaseLoading Phase = "loading" // assets in flight
	PhaseReady   Phase = "ready"   // menu shown, waiting for start
	PhasePlay    Phase = "play"
	PhaseOver    Phase = "over" // explosion settling before the score hand-off
	PhaseStop    Phase = "stop" // torn down; no more frames
)

// State is the authoritative record of one round.
type State struct {
	Current Phase
	Prev    Phase

	Lives int
	Score int
	Boost float64

	// lane mode only
	Lanes      int
	PlayerLane int
	LaneSize   float64

	GameSpeed    int
	AttackFrames int
	AttackLength int // frames

	Paused          bool
	Muted           bool
	BackgroundMusic bool // the looping music has been started
}

// Frame is the timing of the frame being processed.
type Frame struct {
	Count int       // scheduler handle
	Time  time.Time // when the frame fired
	Rate  float64   // milliseconds since the previous frame, capped
	Scale float64   // movement multiplier: screen scale * rate * constant
}

// newState builds the state a round starts from.
func newState(cfg *config.Config, canvasWidth int, flags store.FlagStore, prefix string) State {
	s := State{
		Current:      PhaseLoading,
		Lives:        cfg.Settings.Lives,
		Boost:        1,
		GameSpeed:    cfg.Settings.GameSpeed,
		AttackLength: cfg.Settings.AttackLength * lconf.FramesPerSecond,
	}
	if cfg.LaneMode() {
		s.Lanes = cfg.Lanes.Lanes
		s.PlayerLane = s.Lanes / 2
		s.LaneSize = float64(canvasWidth / s.Lanes)
	}
	if v, ok := flags.Get(prefix + mutedKey); ok {
		s.Muted = v == "true"
	}
	return s
}

const mutedKey = "muted"

// setState applies mut and records the phase it was applied in as Prev, so
// a frame can tell it is the first one after a transition.
func (g *Game) setState(mut func(s *State)) {
	from := g.state.Current
	g.state.Prev = from
	mut(&g.state)
	if g.state.Current != from {
		g.logger.Debug("phase", "prev", from, "current", g.state.Current)
	}
}

// setPhase is setState for a phase change.
func (g *Game) setPhase(p Phase) {
	g.setState(func(s *State) { s.Current = p })
}

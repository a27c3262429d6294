// Package loop is the game controller: the phase machine, the per-frame
// update and draw body, and input dispatch. It runs on one goroutine; the
// host feeds it input and fires its frames, and nothing else touches it.
package loop

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/coffeerun/internal/asset"
	"github.com/tomz197/coffeerun/internal/audio"
	"github.com/tomz197/coffeerun/internal/config"
	"github.com/tomz197/coffeerun/internal/draw"
	"github.com/tomz197/coffeerun/internal/frame"
	lconf "github.com/tomz197/coffeerun/internal/loop/config"
	"github.com/tomz197/coffeerun/internal/object"
	"github.com/tomz197/coffeerun/internal/overlay"
	"github.com/tomz197/coffeerun/internal/store"
	"github.com/tomz197/coffeerun/internal/throttle"
)

// Overlay is the display surface the controller reports to.
type Overlay interface {
	SetBanner(text string)
	SetButton(text string)
	SetInstructions(in overlay.InstructionText)
	SetScore(score int)
	SetLives(lives int)
	SetMute(muted bool)
	SetPause(paused bool)
	SetProgress(percent int)
	SetStyles(s overlay.Styles)
	Show(els ...overlay.Element)
	Hide(els ...overlay.Element)
	Target(col, row int) overlay.Element
}

// View names an application view.
type View string

const (
	ViewGame        View = "game"
	ViewSetScore    View = "setScore"
	ViewLeaderboard View = "leaderboard"
)

// Views receives the round-end hand-off.
type Views interface {
	SetScore(score int)
	SetAppView(v View)
}

// Loader fetches an asset batch.
type Loader interface {
	Load(ctx context.Context, descs []asset.Descriptor, progress asset.Progress) (*asset.Assets, error)
}

// Scheduler is the animation-frame primitive.
type Scheduler interface {
	Request(cb frame.Callback) int
	Cancel(handle int)
}

// Options wires a Game to its collaborators. Canvas, Overlay, Views and
// Scheduler are required.
type Options struct {
	Config    config.Source
	Canvas    *draw.Canvas
	Cache     *draw.ImageCache
	Overlay   Overlay
	Views     Views
	Flags     store.FlagStore
	Audio     *audio.Manager
	Loader    Loader
	Scheduler Scheduler
	Clock     throttle.Clock
	Rand      *rand.Rand
	Logger    *log.Logger
}

type loadResult struct {
	assets *asset.Assets
	err    error
}

// Game is the controller for one player.
type Game struct {
	source    config.Source
	canvas    *draw.Canvas
	cache     *draw.ImageCache
	overlay   Overlay
	views     Views
	flags     store.FlagStore
	audio     *audio.Manager
	loader    Loader
	scheduler Scheduler
	clock     throttle.Clock
	rng       *rand.Rand
	logger    *log.Logger

	cfg     *config.Config
	version uint64
	palette config.Palette
	prefix  string // flag key prefix derived from the game name

	state  State
	frame  Frame
	screen object.Screen
	input  struct{ left, right bool }

	assets     *asset.Assets
	loaded     chan loadResult
	progress   *atomic.Int32
	cancelLoad context.CancelFunc
	loadFailed bool
	unlocked   bool

	player    *object.Player
	monster   *object.Monster
	arena     object.Arena
	spawner   *object.Spawner
	effects   object.Effects
	playerH   float64
	handedOff bool

	incrementLife func() (int, bool)
	decrementLife func() (int, bool)
	monsterKill   func() (int, bool)
	burn          func(object.BurnOptions) (*object.Burn, bool)
	blast         func(object.BlastWaveOptions) (*object.BlastWave, bool)
	spark         func(object.SparkOptions) (*object.Spark, bool)
	boost         *throttle.Throttle
	playbackGate  *throttle.Throttle
}

// New creates a controller. It validates the configuration and the canvas
// geometry; both failures wrap config.ErrInvalid.
func New(opts Options) (*Game, error) {
	if opts.Canvas == nil || opts.Overlay == nil || opts.Views == nil || opts.Scheduler == nil {
		return nil, fmt.Errorf("loop: canvas, overlay, views and scheduler are required")
	}
	if opts.Config == nil {
		opts.Config = config.Static(config.Default())
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Cache == nil {
		opts.Cache = draw.NewImageCache()
	}
	if opts.Flags == nil {
		opts.Flags = store.NewMemoryFlags()
	}
	if opts.Audio == nil {
		opts.Audio = audio.NewManager(nil, opts.Logger)
	}
	if opts.Loader == nil {
		opts.Loader = asset.NewLoader(asset.Options{
			SampleRate: opts.Audio.Output().SampleRate(),
			Logger:     opts.Logger,
		})
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Game{
		source:    opts.Config,
		canvas:    opts.Canvas,
		cache:     opts.Cache,
		overlay:   opts.Overlay,
		views:     opts.Views,
		flags:     opts.Flags,
		audio:     opts.Audio,
		loader:    opts.Loader,
		scheduler: opts.Scheduler,
		clock:     opts.Clock,
		rng:       opts.Rand,
		logger:    opts.Logger,
	}

	g.incrementLife = throttle.Func(lconf.LifeCooldown, g.clock, func() int { g.state.Lives++; return g.state.Lives })
	g.decrementLife = throttle.Func(lconf.LifeCooldown, g.clock, func() int { g.state.Lives--; return g.state.Lives })
	g.monsterKill = throttle.Func(lconf.MonsterKillWindow, g.clock, func() int { g.state.Lives--; return g.state.Lives })
	g.burn = throttle.Wrap(lconf.BurnCooldown, g.clock, object.NewBurn)
	g.blast = throttle.Wrap(lconf.BlastCooldown, g.clock, object.NewBlastWave)
	g.spark = throttle.Wrap(lconf.SparkCooldown, g.clock, object.NewSpark)
	g.boost = throttle.New(lconf.BoostCooldown, g.clock)
	g.playbackGate = throttle.New(lconf.PlaybackCooldown, g.clock)

	if err := g.reset(g.source.Current(), PhaseLoading); err != nil {
		return nil, err
	}
	return g, nil
}

// State returns a copy of the current state.
func (g *Game) State() State { return g.state }

// Frame returns the timing of the last frame.
func (g *Game) Frame() Frame { return g.frame }

// reset rebuilds the round state from cfg, starting in phase from, and drops
// every entity and effect. Assets are kept.
func (g *Game) reset(cfg *config.Config, from Phase) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	palette, err := cfg.Colors.Palette()
	if err != nil {
		return err
	}
	w, h := g.canvas.Width(), g.canvas.Height()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: canvas is %dx%d", config.ErrInvalid, w, h)
	}
	if cfg.LaneMode() && w/cfg.Lanes.Lanes < 1 {
		return fmt.Errorf("%w: %d lanes do not fit a %d pixel canvas", config.ErrInvalid, cfg.Lanes.Lanes, w)
	}

	g.cfg = cfg
	g.palette = palette
	g.prefix = store.HashCode(cfg.Settings.Name)
	g.setScreen()
	g.frame = Frame{Count: g.frame.Count, Time: g.clock()}

	g.state = newState(cfg, w, g.flags, g.prefix)
	g.state.Current = from
	g.audio.SetMuted(g.state.Muted)
	g.input.left, g.input.right = false, false

	g.effects.Reset()
	g.arena.Reset()
	g.player, g.monster, g.spawner = nil, nil, nil
	g.handedOff = false

	g.canvas.SetBackground(palette.Background)
	return nil
}

// Load restarts the game from the current configuration: state is rebuilt,
// the asset batch is fetched in the background and the game stays in the
// loading phase until it arrives.
func (g *Game) Load() error {
	g.cancelFrame()
	if g.cancelLoad != nil {
		g.cancelLoad()
	}
	g.version = g.source.Version()
	if err := g.reset(g.source.Current(), PhaseLoading); err != nil {
		return err
	}
	g.setPhase(PhaseLoading)

	g.overlay.Hide(overlay.Banner, overlay.Button, overlay.Instructions)
	g.overlay.Show(overlay.Loading)
	g.overlay.SetProgress(0)

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan loadResult, 1)
	progress := &atomic.Int32{}
	g.cancelLoad = cancel
	g.loaded = results
	g.progress = progress
	g.loadFailed = false

	descs := descriptors(g.cfg)
	go func() {
		assets, err := g.loader.Load(ctx, descs, func(p int) { progress.Store(int32(p)) })
		results <- loadResult{assets: assets, err: err}
	}()

	g.requestFrame(g.awaitAssets, false)
	return nil
}

// awaitAssets is the frame body while loading.
func (g *Game) awaitAssets() error {
	if reloaded, err := g.reloadIfChanged(); reloaded || err != nil {
		return err
	}
	if g.loadFailed {
		g.requestFrame(g.awaitAssets, false)
		return nil
	}
	g.overlay.SetProgress(int(g.progress.Load()))

	select {
	case res := <-g.loaded:
		g.loaded = nil
		if res.err != nil {
			g.loadFailed = true
			g.logger.Error("asset batch failed", "err", res.err)
			g.requestFrame(g.awaitAssets, false)
			return nil
		}
		g.overlay.SetProgress(100)
		g.assets = res.assets
		if err := g.create(); err != nil {
			return err
		}
		g.setPhase(PhaseReady)
		return g.play()
	default:
		g.requestFrame(g.awaitAssets, false)
		return nil
	}
}

// restart begins a fresh round from the already loaded assets.
func (g *Game) restart() error {
	if err := g.reset(g.cfg, PhaseOver); err != nil {
		return err
	}
	if err := g.create(); err != nil {
		return err
	}
	g.setPhase(PhaseReady)
	return nil
}

// Destroy stops the game for good: no more frames, no more sound.
func (g *Game) Destroy() {
	g.setPhase(PhaseStop)
	g.audio.StopPlaylist()
	g.cancelFrame()
	if g.cancelLoad != nil {
		g.cancelLoad()
	}
}

// reloadIfChanged restarts loading when the configuration source has
// published a new version since the last Load.
func (g *Game) reloadIfChanged() (bool, error) {
	v := g.source.Version()
	if v == g.version {
		return false, nil
	}
	g.logger.Info("config changed, reloading", "version", v)
	g.audio.StopPlaylist()
	return true, g.Load()
}

// setScreen derives the screen from the canvas size.
func (g *Game) setScreen() {
	g.screen = object.NewScreen(g.canvas.Width(), g.canvas.Height())
}

// resize reports whether the canvas no longer matches the screen.
func (g *Game) resize() bool {
	return int(g.screen.Width()) != g.canvas.Width() || int(g.screen.Height()) != g.canvas.Height()
}

// requestFrame schedules next as the following frame. The frame's rate is
// the time since the previous frame, capped, or zero when resuming from a pause.
func (g *Game) requestFrame(next func() error, resumed bool) {
	g.frame.Count = g.scheduler.Request(func(now time.Time) error {
		if g.resize() {
			g.setScreen()
		}
		rate := now.Sub(g.frame.Time)
		if resumed || rate < 0 {
			rate = 0
		}
		rate = min(rate, lconf.MaxFrameRate)
		ms := float64(rate) / float64(time.Millisecond)

		g.frame.Time = now
		g.frame.Rate = ms
		g.frame.Scale = g.screen.Scale * ms * lconf.FrameScaleFactor
		return next()
	})
}

func (g *Game) cancelFrame() {
	g.scheduler.Cancel(g.frame.Count)
}

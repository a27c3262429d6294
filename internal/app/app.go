// Package app runs one player's session: it owns the terminal surfaces, drives
// the game frames and switches between the game, score entry and leaderboard views.
package app

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/coffeerun/internal/asset"
	"github.com/tomz197/coffeerun/internal/audio"
	"github.com/tomz197/coffeerun/internal/config"
	"github.com/tomz197/coffeerun/internal/draw"
	"github.com/tomz197/coffeerun/internal/frame"
	"github.com/tomz197/coffeerun/internal/input"
	"github.com/tomz197/coffeerun/internal/loop"
	lconf "github.com/tomz197/coffeerun/internal/loop/config"
	"github.com/tomz197/coffeerun/internal/overlay"
	"github.com/tomz197/coffeerun/internal/store"
)

// Options configures an App.
type Options struct {
	Config       config.Source
	Scores       store.Scores
	Flags        store.FlagStore
	Output       audio.Output // nil plays nothing
	TermSizeFunc draw.TermSizeFunc
	AssetDir     string      // file asset sources resolve against it
	Loader       loop.Loader // defaults to an asset.Loader over AssetDir
	Name         string      // prefilled in the score entry, e.g. the SSH user
	Logger       *log.Logger
}

// App is a single session.
type App struct {
	writer   io.Writer
	cw       *draw.ChunkWriter
	stream   *input.Stream
	termSize draw.TermSizeFunc
	logger   *log.Logger

	canvas  *draw.Canvas
	overlay *overlay.Overlay
	sched   *frame.Scheduler
	game    *loop.Game
	source  config.Source
	scores  store.Scores

	ctx     context.Context
	view    loop.View
	drawn   loop.View // view on screen after the last render
	running bool
	score   int
	name    []rune
	board   []store.Score
	message string
	prefill string

	styled    textStyles
	styledFor config.Palette
	styledOK  bool
}

// New creates a session reading input from r and drawing to w. The game
// starts loading right away.
func New(r io.Reader, w io.Writer, opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Config == nil {
		opts.Config = config.Static(config.Default())
	}
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Scores == nil {
		opts.Scores = store.NewMemoryScores()
	}
	if opts.Flags == nil {
		opts.Flags = store.NewMemoryFlags()
	}

	cols, rows, err := opts.TermSizeFunc()
	if err != nil {
		return nil, err
	}

	manager := audio.NewManager(opts.Output, opts.Logger)
	if opts.Loader == nil {
		opts.Loader = asset.NewLoader(asset.Options{
			BaseDir:    opts.AssetDir,
			SampleRate: manager.Output().SampleRate(),
			Logger:     opts.Logger,
		})
	}

	a := &App{
		writer:   w,
		cw:       draw.NewChunkWriter(w),
		stream:   input.StartStream(r, lconf.HoldWindow),
		termSize: opts.TermSizeFunc,
		logger:   opts.Logger,
		canvas:   draw.NewCanvas(cols, rows),
		overlay:  overlay.New(),
		sched:    frame.NewScheduler(),
		source:   opts.Config,
		scores:   opts.Scores,
		ctx:      context.Background(),
		view:     loop.ViewGame,
		running:  true,
		prefill:  opts.Name,
	}

	game, err := loop.New(loop.Options{
		Config:    opts.Config,
		Canvas:    a.canvas,
		Overlay:   a.overlay,
		Views:     a,
		Flags:     opts.Flags,
		Audio:     manager,
		Loader:    opts.Loader,
		Scheduler: a.sched,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := game.Load(); err != nil {
		return nil, err
	}
	a.game = game
	return a, nil
}

// Game returns the session's game controller.
func (a *App) Game() *loop.Game { return a.game }

// View returns the active view.
func (a *App) View() loop.View { return a.view }

// SetScore records the score of the round that just ended.
func (a *App) SetScore(score int) {
	a.score = score
}

// SetAppView switches the active view.
func (a *App) SetAppView(v loop.View) {
	a.view = v
	a.message = ""
	switch v {
	case loop.ViewSetScore:
		a.name = []rune(a.prefill)
		if len(a.name) > lconf.MaxNameLength {
			a.name = a.name[:lconf.MaxNameLength]
		}
	case loop.ViewLeaderboard:
		a.refreshBoard()
	}
}

// Run drives the session until the player quits, the input ends or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	draw.HideCursor(a.writer)
	draw.EnableMouse(a.writer)
	defer func() {
		draw.DisableMouse(a.writer)
		draw.ShowCursor(a.writer)
		draw.ClearScreen(a.writer)
	}()
	defer a.game.Destroy()

	return frame.Run(ctx, lconf.TargetFrameTime, a.step)
}

func (a *App) step(now time.Time) (bool, error) {
	in := a.stream.Poll(now)
	if in.Closed {
		return false, nil
	}
	a.resize()

	more, err := a.update(in, now)
	if err != nil || !more {
		return false, err
	}
	return true, a.render()
}

func (a *App) resize() {
	cols, rows, err := a.termSize()
	if err != nil {
		return
	}
	if a.canvas.Resize(cols, rows) {
		a.drawn = ""
	}
}

// update routes the input to the active view and, on the game view, runs
// the pending game frame.
func (a *App) update(in input.Input, now time.Time) (bool, error) {
	switch a.view {
	case loop.ViewGame:
		for _, ev := range in.Events {
			if quits(ev) {
				a.game.Destroy()
				a.running = false
				return false, nil
			}
		}
		if err := a.game.HandleInput(in); err != nil {
			return false, err
		}
		if _, err := a.sched.Fire(now); err != nil {
			return false, err
		}
	case loop.ViewSetScore:
		for _, ev := range in.Events {
			if ev.Kind == input.EventKey && ev.Key == input.KeyCtrlC {
				a.running = false
				return false, nil
			}
			a.enterName(ev)
			if a.view != loop.ViewSetScore {
				break
			}
		}
	case loop.ViewLeaderboard:
		for _, ev := range in.Events {
			if ev.Kind == input.EventKey && ev.Key == input.KeyCtrlC {
				a.running = false
				return false, nil
			}
			if ev.Kind == input.EventKey || ev.Kind == input.EventClick {
				a.SetAppView(loop.ViewGame)
				break
			}
		}
	}
	return a.running, nil
}

func quits(ev input.Event) bool {
	if ev.Kind != input.EventKey {
		return false
	}
	return ev.Key == input.KeyCtrlC || ev.Key == input.KeyRune && (ev.Rune == 'q' || ev.Rune == 'Q')
}

func (a *App) render() error {
	bg := a.palette().Background
	if a.view != a.drawn || a.view == loop.ViewGame {
		draw.ClearScreenColor(a.cw, bg)
		a.drawn = a.view
	}

	cols, rows := a.canvas.TerminalWidth(), a.canvas.TerminalHeight()
	switch a.view {
	case loop.ViewGame:
		a.canvas.Render(a.cw)
		a.overlay.Render(a.cw, cols, rows)
	case loop.ViewSetScore:
		a.renderSetScore(cols, rows)
	case loop.ViewLeaderboard:
		a.renderLeaderboard(cols, rows)
	}
	return a.cw.Flush()
}

func (a *App) palette() config.Palette {
	p, err := a.source.Current().Colors.Palette()
	if err != nil {
		a.logger.Warn("palette", "err", err)
	}
	return p
}

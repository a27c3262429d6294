package loop

import (
	"github.com/tomz197/coffeerun/internal/audio"
	"github.com/tomz197/coffeerun/internal/draw"
	lconf "github.com/tomz197/coffeerun/internal/loop/config"
	"github.com/tomz197/coffeerun/internal/object"
	"github.com/tomz197/coffeerun/internal/overlay"
	"github.com/tomz197/coffeerun/internal/physics"
)

// create builds the scene for a round from the loaded assets.
func (g *Game) create() error {
	s := g.screen
	lanes := g.state.Lanes > 0

	player := g.image(playerImage)
	monster := g.image(monsterImage)
	tree := g.image(obstacleImage)
	coffee := g.image(lifeImage)
	if player == nil || monster == nil || tree == nil || coffee == nil {
		return errMissingImages
	}

	pw := g.state.LaneSize
	ow := g.state.LaneSize
	cw := g.state.LaneSize / 2
	if !lanes {
		pw = physics.Bounded(g.cfg.Open.PlayerSize*s.ScaleHeight, s.MinSize, s.MaxSize)
		ow = physics.Bounded(g.cfg.Open.ObstacleSize*s.ScaleHeight, s.MinSize, s.MaxSize)
		cw = ow
	}
	pw, ph := object.Fit(player, pw)
	g.playerH = ph

	x := s.CenterX - pw/2
	if lanes {
		x = float64(g.state.PlayerLane) * g.state.LaneSize
	}
	g.player = object.NewPlayer(object.SpriteOptions{
		Image:    player,
		ImageKey: playerImage,
		X:        x,
		Y:        s.Bottom,
		Width:    pw,
		Height:   ph,
		Speed:    pw,
		Homing:   lconf.PlayerHoming,
		Bounds:   s.Rect(),
	})
	if lanes {
		g.player.Lane = g.state.PlayerLane
	}

	mw, mh := object.Fit(monster, pw*lconf.MonsterScale)
	lair := s.Rect()
	lair.Top -= mh + 2*ph
	g.monster = object.NewMonster(object.SpriteOptions{
		Image:    monster,
		ImageKey: monsterImage,
		X:        s.CenterX,
		Y:        s.Top - 2*ph,
		Width:    mw,
		Height:   mh,
		Speed:    pw * lconf.MonsterSpeed,
		Homing:   lconf.MonsterHoming,
		Bounds:   lair,
	})

	tw, th := object.Fit(tree, ow)
	cw, ch := object.Fit(coffee, cw)
	g.spawner = object.NewSpawner(object.SpawnRules{
		Screen:      s,
		Lanes:       g.state.Lanes,
		LaneSize:    g.state.LaneSize,
		PlayerWidth: pw,
		CrowdFactor: lconf.CrowdFactor,
		Speed:       float64(g.state.GameSpeed),
		LifeEvery:   lconf.LifeEvery,
		Tree:        object.ObstacleStyle{Image: tree, ImageKey: obstacleImage, Width: tw, Height: th},
		Coffee:      object.ObstacleStyle{Image: coffee, ImageKey: lifeImage, Width: cw, Height: ch},
	}, g.rng)

	g.overlay.SetStyles(overlay.Styles{
		Background: g.palette.Background,
		Text:       g.palette.Text,
		Primary:    g.palette.Primary,
		Tertiary:   g.palette.Tertiary,
		TopBar:     g.cfg.Settings.GameTopBar,
	})
	return nil
}

// play is the frame body once assets are loaded.
func (g *Game) play() error {
	if reloaded, err := g.reloadIfChanged(); reloaded || err != nil {
		return err
	}

	g.canvas.Clear()
	g.drawBackground()
	g.overlay.SetLives(g.state.Lives)
	g.overlay.SetScore(g.state.Score)

	var err error
	switch g.state.Current {
	case PhaseReady:
		g.ready()
	case PhasePlay:
		g.playFrame()
	case PhaseOver:
		err = g.over()
	}
	if err != nil {
		return err
	}

	if g.state.Current == PhaseStop {
		g.cancelFrame()
		return nil
	}
	g.requestFrame(g.play, false)
	return nil
}

func (g *Game) drawBackground() {
	img := g.image(backgroundImage)
	if img == nil {
		return
	}
	key := draw.CacheKey{Image: img, Key: backgroundImage, Width: g.canvas.Width(), Height: g.canvas.Height()}
	scaled, ok := g.cache.Get(key)
	if !ok {
		scaled = g.cache.Set(key)
	}
	g.canvas.Blit(scaled, 0, 0, false)
}

// ready reveals the menu on the first frame after loading or a finished round.
func (g *Game) ready() {
	if g.state.Prev == PhaseLoading || g.state.Prev == PhaseOver {
		s := g.cfg.Settings
		g.overlay.Hide(overlay.Loading)
		g.overlay.SetBanner(s.Name)
		g.overlay.SetButton(s.StartText)
		g.overlay.SetInstructions(overlay.InstructionText{
			Desktop: s.InstructionsDesktop,
			Mobile:  s.InstructionsMobile,
		})
		g.overlay.Show(overlay.Stats)
		g.overlay.SetMute(g.state.Muted)
		g.overlay.SetPause(g.state.Paused)
		g.setPhase(PhaseReady)
	}
	g.draw()
}

// playFrame is one frame of a running round. The order of the steps matters:
// obstacles before effects, effects before the game-over check.
func (g *Game) playFrame() {
	count := g.frame.Count
	scale := g.frame.Scale
	s := g.screen

	if g.state.Prev == PhaseReady {
		g.overlay.Hide(overlay.Banner, overlay.Button, overlay.Instructions)
		g.effects.Add(object.NewStarStream(object.StarStreamOptions{
			N:     lconf.StarCount,
			X:     object.Range{s.Left, s.Right},
			Y:     s.Bottom,
			VY:    -float64(g.state.GameSpeed) / 5,
			RD:    object.Range{2, 3},
			Color: g.palette.Stream,
			Scale: s.Scale,
			Rand:  g.rng,
		}))
		g.playback(powerUpSound)
		g.setPhase(PhasePlay)
	}

	if !g.state.Muted && !g.state.BackgroundMusic {
		id := g.audio.Playback(backgroundMusic, g.sound(backgroundMusic), audio.Options{Loop: true})
		g.state.BackgroundMusic = id != ""
	}

	if count%lconf.ScoreEvery == 0 {
		g.state.Score++
	}

	// the cap grows fractionally, so the first obstacle comes on the first spawn frame
	spawnCap := min(float64(count)/lconf.SpawnGrowthFrames, object.MaxObstacles)
	if count%lconf.SpawnInterval == 0 && float64(g.arena.Len()) < spawnCap {
		g.spawner.Spawn(&g.arena, count)
	}

	if count%lconf.AttackInterval == 0 && g.monster.Attack() {
		g.playback(monsterSound)
	}
	if g.monster.Attacking {
		g.state.AttackFrames++
		if g.state.AttackFrames > g.state.AttackLength {
			g.monster.Tire()
			g.state.AttackFrames = 0
		}
	}

	ctx := g.drawContext()
	for i := range g.arena.All() {
		o := g.arena.At(i)
		o.Move(0, -1, scale)
		o.Draw(ctx)
		if g.touches(o) {
			g.hit(o)
		}
		if o.OffScreen(s) {
			g.spawner.Recycle(&g.arena, i, count)
		}
	}

	g.effects.Update(count, g.canvas)

	if g.state.Lives < 1 {
		g.effects.Add(object.NewSpark(object.SparkOptions{
			N:        lconf.ExplosionParticles,
			X:        g.player.CX(),
			Y:        g.player.CY(),
			VX:       object.Range{-25, 25},
			VY:       object.Range{-25, 25},
			Color:    g.palette.Trail,
			BurnRate: 0.025,
			Scale:    s.Scale,
			Rand:     g.rng,
		}))
		g.playback(gameOverSound)
		g.setPhase(PhaseOver)
	}

	g.effects.Add(object.NewSpark(object.SparkOptions{
		N:        lconf.TrailParticles + int(g.state.Boost),
		X:        g.player.CX(),
		Y:        g.player.Y,
		VX:       object.Range{-1, 1},
		VY:       object.Range{-10, -1},
		RD:       object.Range{1, 3},
		Color:    g.palette.Trail,
		BurnRate: 0.025,
		Scale:    s.Scale,
		Rand:     g.rng,
	}))

	g.hunt()
	g.steer()
	g.player.Draw(ctx)
}

// touches reports whether obstacle o collides with the player. In lane mode
// only obstacles in the player's lane count.
func (g *Game) touches(o *object.Obstacle) bool {
	if g.state.Lanes > 0 && o.Lane != g.state.PlayerLane {
		return false
	}
	return object.CollideDistance(&o.Sprite, &g.player.Sprite)
}

// hit applies a collision with obstacle o: trees cost a life, coffee
// restores one. Both are throttled, as are the effects and sounds.
func (g *Game) hit(o *object.Obstacle) {
	x, y := o.CX(), o.CY()
	switch o.Kind {
	case object.KindTree:
		g.decrementLife()
		o.Active = false
		if sp, ok := g.spark(object.SparkOptions{
			N:        lconf.CrashParticles,
			X:        g.player.CX(),
			Y:        g.player.CY(),
			VX:       object.Range{-5, 5},
			VY:       object.Range{-5, -1},
			Color:    g.palette.Trail,
			BurnRate: 0.005,
			Scale:    g.screen.Scale,
			Rand:     g.rng,
		}); ok {
			g.effects.Add(sp)
		}
		if b, ok := g.burn(object.BurnOptions{X: x, Y: y, Color: g.palette.Crash, Scale: g.screen.Scale}); ok {
			g.effects.Add(b)
			g.playback(crashSound)
		}
	case object.KindCoffee:
		g.incrementLife()
		o.Active = false
		if b, ok := g.burn(object.BurnOptions{X: x, Y: y, Color: g.palette.Power, Scale: g.screen.Scale}); ok {
			g.effects.Add(b)
			g.playback(powerSound)
		}
	}
}

// hunt moves the monster and, during an attack, applies its contact damage.
func (g *Game) hunt() {
	s := g.screen
	lair := object.To(s.CenterX, s.Top-2*g.playerH)
	g.monster.Hunt(&g.player.Sprite, lair, g.frame.Scale, g.frame.Rate)
	g.monster.Draw(g.drawContext())

	// only an attacking monster hurts; a tired one is harmless on its way back
	if !g.monster.Attacking || !object.CollideDistance(&g.monster.Sprite, &g.player.Sprite) {
		return
	}
	g.monsterKill()
	g.playbackThrottled(attackSound)
	x, y := g.player.CX(), g.player.CY()
	if b, ok := g.burn(object.BurnOptions{X: x, Y: y, Color: g.palette.Power, Scale: s.Scale}); ok {
		g.effects.Add(b)
	}
	if w, ok := g.blast(object.BlastWaveOptions{X: x, Y: y, Color: g.palette.Power, Scale: s.Scale}); ok {
		g.effects.Add(w)
	}
}

// steer decays the boost and eases the player toward its lane and depth.
func (g *Game) steer() {
	g.state.Boost = max(lconf.BoostFloor, g.state.Boost-lconf.BoostDecay)

	y := g.screen.Top + g.player.Height*g.state.Boost
	t := object.ToY(y)
	var dx float64
	if g.state.Lanes > 0 {
		t = object.To(float64(g.state.PlayerLane)*g.state.LaneSize, y)
		g.player.Lane = g.state.PlayerLane
	} else {
		if g.input.left {
			dx--
		}
		if g.input.right {
			dx++
		}
	}
	g.player.Steer(dx, g.frame.Count, t, g.frame.Scale, g.frame.Rate)
}

// over lets the explosion settle, then hands the score off once and starts
// a fresh round behind the score view.
func (g *Game) over() error {
	g.overlay.SetBanner(g.cfg.Settings.GameOverText)
	g.effects.Update(g.frame.Count, g.canvas)

	if g.effects.Len() >= lconf.OverEffectThreshold || g.handedOff {
		return nil
	}
	g.handedOff = true
	score := g.state.Score
	g.overlay.Hide(overlay.Banner)
	g.audio.StopPlaylist()
	g.views.SetScore(score)
	g.views.SetAppView(ViewSetScore)
	return g.restart()
}

// draw renders the idle scene.
func (g *Game) draw() {
	ctx := g.drawContext()
	for i := range g.arena.All() {
		g.arena.At(i).Draw(ctx)
	}
	g.effects.Update(g.frame.Count, g.canvas)
	if g.player != nil {
		g.player.Draw(ctx)
	}
}

func (g *Game) drawContext() object.DrawContext {
	return object.DrawContext{Canvas: g.canvas, Cache: g.cache}
}

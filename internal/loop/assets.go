package loop

import (
	"errors"

	"github.com/gopxl/beep"

	"github.com/tomz197/coffeerun/internal/asset"
	"github.com/tomz197/coffeerun/internal/audio"
	"github.com/tomz197/coffeerun/internal/config"
	"github.com/tomz197/coffeerun/internal/draw"
)

// Asset keys.
const (
	playerImage     = "playerImage"
	monsterImage    = "monsterImage"
	obstacleImage   = "obstacleImage"
	lifeImage       = "lifeImage"
	backgroundImage = "backgroundImage"

	backgroundMusic = "backgroundMusic"
	powerUpSound    = "powerUpSound"
	turnSound       = "turnSound"
	boostSound      = "boostSound"
	crashSound      = "crashSound"
	powerSound      = "powerSound"
	monsterSound    = "monsterSound"
	attackSound     = "attackSound"
	gameOverSound   = "gameOverSound"

	gameFont = "gameFont"
)

var errMissingImages = errors.New("loop: scene images missing from the asset batch")

// descriptors lists the batch a configuration needs. The background image
// and the font are optional.
func descriptors(cfg *config.Config) []asset.Descriptor {
	descs := []asset.Descriptor{
		asset.Image(playerImage, cfg.Images.Player),
		asset.Image(monsterImage, cfg.Images.Monster),
		asset.Image(obstacleImage, cfg.Images.Obstacle),
		asset.Image(lifeImage, cfg.Images.Life),

		asset.Sound(backgroundMusic, cfg.Sounds.BackgroundMusic),
		asset.Sound(powerUpSound, cfg.Sounds.PowerUp),
		asset.Sound(turnSound, cfg.Sounds.Turn),
		asset.Sound(boostSound, cfg.Sounds.Boost),
		asset.Sound(crashSound, cfg.Sounds.Crash),
		asset.Sound(powerSound, cfg.Sounds.Power),
		asset.Sound(monsterSound, cfg.Sounds.Monster),
		asset.Sound(attackSound, cfg.Sounds.Attack),
		asset.Sound(gameOverSound, cfg.Sounds.GameOver),
	}
	if cfg.Images.Background != "" {
		descs = append(descs, asset.Optional(asset.Image(backgroundImage, cfg.Images.Background)))
	}
	if cfg.Settings.FontFamily != "" {
		descs = append(descs, asset.Optional(asset.Font(gameFont, cfg.Settings.FontFamily)))
	}
	return descs
}

func (g *Game) image(key string) *draw.Image {
	if g.assets == nil {
		return nil
	}
	return g.assets.Images[key]
}

func (g *Game) sound(key string) *beep.Buffer {
	if g.assets == nil {
		return nil
	}
	return g.assets.Sounds[key]
}

// playback plays the sound under key once.
func (g *Game) playback(key string) string {
	return g.audio.Playback(key, g.sound(key), audio.Options{})
}

// playbackThrottled is playback gated by the shared playback cooldown.
func (g *Game) playbackThrottled(key string) {
	if g.playbackGate.Allow() {
		g.playback(key)
	}
}

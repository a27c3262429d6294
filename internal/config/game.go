package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/coffeerun/internal/draw"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid game configuration")

// Play styles.
const (
	PlayStyleLanes = "lanes"
	PlayStyleOpen  = "open"
)

// Config is the game configuration document.
type Config struct {
	Settings    Settings    `yaml:"settings"`
	Colors      Colors      `yaml:"colors"`
	Images      Images      `yaml:"images"`
	Sounds      Sounds      `yaml:"sounds"`
	Lanes       LanesPlay   `yaml:"lanes"`
	Open        OpenPlay    `yaml:"open"`
	Leaderboard Leaderboard `yaml:"leaderboard"`
}

type Settings struct {
	Name                string `yaml:"name"`
	GameTopBar          bool   `yaml:"gameTopBar"`
	PlayStyle           string `yaml:"playStyle"`
	GameSpeed           int    `yaml:"gameSpeed"`
	Lives               int    `yaml:"lives"`
	AttackLength        int    `yaml:"attackLength"` // seconds
	FontFamily          string `yaml:"fontFamily"`
	StartText           string `yaml:"startText"`
	GameOverText        string `yaml:"gameOverText"`
	InstructionsDesktop string `yaml:"instructionsDesktop"`
	InstructionsMobile  string `yaml:"instructionsMobile"`
}

type Colors struct {
	Background string `yaml:"backgroundColor"`
	Text       string `yaml:"textColor"`
	Primary    string `yaml:"primaryColor"`
	Tertiary   string `yaml:"tertiaryColor"`
	Trail      string `yaml:"trailColor"`
	Crash      string `yaml:"crashColor"`
	Power      string `yaml:"powerColor"`
	Stream     string `yaml:"streamColor"`
}

type Images struct {
	Player     string `yaml:"playerImage"`
	Monster    string `yaml:"monsterImage"`
	Obstacle   string `yaml:"obstacleImage"`
	Life       string `yaml:"lifeImage"`
	Background string `yaml:"backgroundImage"` // optional
}

type Sounds struct {
	BackgroundMusic string `yaml:"backgroundMusic"`
	PowerUp         string `yaml:"powerUpSound"`
	Turn            string `yaml:"turnSound"`
	Boost           string `yaml:"boostSound"`
	Crash           string `yaml:"crashSound"`
	Power           string `yaml:"powerSound"`
	Monster         string `yaml:"monsterSound"`
	Attack          string `yaml:"attackSound"`
	GameOver        string `yaml:"gameOverSound"`
}

type LanesPlay struct {
	Lanes int `yaml:"lanes"`
}

type OpenPlay struct {
	PlayerSize   float64 `yaml:"playerSize"`
	ObstacleSize float64 `yaml:"obstacleSize"`
}

type Leaderboard struct {
	Title string `yaml:"title"`
	Size  int    `yaml:"size"`
}

// Palette is Colors parsed into canvas colors.
type Palette struct {
	Background, Text, Primary, Tertiary draw.Color
	Trail, Crash, Power, Stream         draw.Color
}

// Palette parses every configured color.
func (c Colors) Palette() (Palette, error) {
	var p Palette
	fields := []struct {
		name string
		hex  string
		dst  *draw.Color
	}{
		{"backgroundColor", c.Background, &p.Background},
		{"textColor", c.Text, &p.Text},
		{"primaryColor", c.Primary, &p.Primary},
		{"tertiaryColor", c.Tertiary, &p.Tertiary},
		{"trailColor", c.Trail, &p.Trail},
		{"crashColor", c.Crash, &p.Crash},
		{"powerColor", c.Power, &p.Power},
		{"streamColor", c.Stream, &p.Stream},
	}
	for _, f := range fields {
		col, err := draw.ParseColor(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("%w: colors.%s: %w", ErrInvalid, f.name, err)
		}
		*f.dst = col
	}
	return p, nil
}

// LaneMode reports whether the lanes play style is selected.
func (c *Config) LaneMode() bool {
	return c.Settings.PlayStyle == PlayStyleLanes
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := decode(bytes.NewReader(defaultYAML), &Config{})
	if err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return cfg
}

// Load reads the document at path over the defaults and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a document over the defaults and validates it.
func Parse(r io.Reader) (*Config, error) {
	cfg, err := decode(r, Default())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, into *Config) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(into); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return into, nil
}

// Validate reports every problem with the configuration, each wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	s := c.Settings
	if s.Name == "" {
		fail("settings.name is empty")
	}
	switch s.PlayStyle {
	case PlayStyleLanes:
		if c.Lanes.Lanes < 1 {
			fail("lanes.lanes must be at least 1, got %d", c.Lanes.Lanes)
		}
	case PlayStyleOpen:
		if c.Open.PlayerSize <= 0 || c.Open.ObstacleSize <= 0 {
			fail("open.playerSize and open.obstacleSize must be positive")
		}
	default:
		fail("settings.playStyle %q is neither %q nor %q", s.PlayStyle, PlayStyleLanes, PlayStyleOpen)
	}
	if s.GameSpeed <= 0 {
		fail("settings.gameSpeed must be positive, got %d", s.GameSpeed)
	}
	if s.Lives < 1 {
		fail("settings.lives must be at least 1, got %d", s.Lives)
	}
	if s.AttackLength < 0 {
		fail("settings.attackLength must not be negative, got %d", s.AttackLength)
	}
	if _, err := c.Colors.Palette(); err != nil {
		errs = append(errs, err)
	}

	required := map[string]string{
		"images.playerImage":     c.Images.Player,
		"images.monsterImage":    c.Images.Monster,
		"images.obstacleImage":   c.Images.Obstacle,
		"images.lifeImage":       c.Images.Life,
		"sounds.backgroundMusic": c.Sounds.BackgroundMusic,
		"sounds.powerUpSound":    c.Sounds.PowerUp,
		"sounds.turnSound":       c.Sounds.Turn,
		"sounds.boostSound":      c.Sounds.Boost,
		"sounds.crashSound":      c.Sounds.Crash,
		"sounds.powerSound":      c.Sounds.Power,
		"sounds.monsterSound":    c.Sounds.Monster,
		"sounds.attackSound":     c.Sounds.Attack,
		"sounds.gameOverSound":   c.Sounds.GameOver,
	}
	for _, name := range slices.Sorted(maps.Keys(required)) {
		if required[name] == "" {
			fail("%s is empty", name)
		}
	}
	return errors.Join(errs...)
}

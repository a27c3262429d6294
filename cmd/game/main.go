package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/coffeerun/internal/app"
	"github.com/tomz197/coffeerun/internal/audio"
	"github.com/tomz197/coffeerun/internal/config"
	"github.com/tomz197/coffeerun/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// the terminal belongs to the game, so logs only go to LOG_FILE
	logger := log.NewWithOptions(io.Discard, log.Options{ReportTimestamp: true})
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger.SetOutput(f)
	}
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := configSource(ctx, logger)
	if err != nil {
		return err
	}

	flags, err := store.OpenFileFlags(config.GetEnv("FLAGS_PATH", defaultFlagsPath()))
	if err != nil {
		return err
	}

	scores, err := openScores(ctx)
	if err != nil {
		return err
	}
	defer scores.Close()

	speaker := audio.NewSpeakerOutput(audio.DefaultSampleRate)
	defer speaker.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	a, err := app.New(os.Stdin, os.Stdout, app.Options{
		Config:   source,
		Scores:   scores,
		Flags:    flags,
		Output:   speaker,
		AssetDir: config.GetEnv("ASSET_DIR", "."),
		Name:     os.Getenv("USER"),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// configSource loads GAME_CONFIG and watches it for changes, or falls back
// to the built-in configuration.
func configSource(ctx context.Context, logger *log.Logger) (config.Source, error) {
	path := config.GetEnv("GAME_CONFIG", "")
	if path == "" {
		return config.Static(config.Default()), nil
	}
	w, err := config.NewWatcher(path, time.Second, logger)
	if err != nil {
		return nil, err
	}
	go w.Run(ctx)
	return w, nil
}

func openScores(ctx context.Context) (store.Scores, error) {
	url := config.GetEnv("DATABASE_URL", "")
	if url == "" {
		return store.NewMemoryScores(), nil
	}
	pg, err := store.NewPostgresScores(ctx, url)
	if err != nil {
		return nil, err
	}
	return pg, nil
}

func defaultFlagsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "coffeerun-flags.json"
	}
	return filepath.Join(dir, "coffeerun", "flags.json")
}

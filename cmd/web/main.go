package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/coffeerun/internal/config"
	lconf "github.com/tomz197/coffeerun/internal/loop/config"
	"github.com/tomz197/coffeerun/internal/store"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "web"})
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var scores store.Scores = store.NewMemoryScores()
	if url := config.GetEnv("DATABASE_URL", ""); url != "" {
		pg, err := store.NewPostgresScores(ctx, url)
		if err != nil {
			logger.Fatal("opening score store", "err", err)
		}
		scores = pg
	}
	defer scores.Close()

	cfg := config.Default()
	if path := config.GetEnv("GAME_CONFIG", ""); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			logger.Fatal("loading game config", "err", err)
		}
		cfg = loaded
	}

	s := &server{
		scores:  scores,
		sshHost: config.GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
		title:   cfg.Settings.Name,
		size:    cfg.Leaderboard.Size,
		logger:  logger,
	}
	if s.size <= 0 {
		s.size = lconf.LeaderboardSize
	}

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "err", err)
		}
	}()

	logger.Info("starting web server", "addr", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/coffeerun/internal/app"
	"github.com/tomz197/coffeerun/internal/config"
	"github.com/tomz197/coffeerun/internal/draw"
	"github.com/tomz197/coffeerun/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "ssh"})
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, err := configSource(ctx, logger)
	if err != nil {
		logger.Fatal("loading game config", "err", err)
	}
	scores, err := openScores(ctx)
	if err != nil {
		logger.Fatal("opening score store", "err", err)
	}
	defer scores.Close()

	h := &handler{source: source, scores: scores, logger: logger, ctx: ctx}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			h.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

// handler runs one independent game per SSH session. Sessions share the
// configuration and the score store, nothing else.
type handler struct {
	ctx    context.Context
	source config.Source
	scores store.Scores
	logger *log.Logger
}

func (h *handler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("session started", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		ctx, cancel := context.WithCancel(h.ctx)
		defer cancel()
		go func() {
			select {
			case <-sess.Context().Done():
				cancel()
			case <-ctx.Done():
			}
		}()

		// no sound over SSH; the mute preference lives as long as the session
		a, err := app.New(sess, sess, app.Options{
			Config:       h.source,
			Scores:       h.scores,
			Flags:        store.NewMemoryFlags(),
			TermSizeFunc: sizeTracker.getSize,
			AssetDir:     config.GetEnv("ASSET_DIR", "."),
			Name:         sess.User(),
			Logger:       logger,
		})
		if err != nil {
			logger.Error("starting game", "err", err)
			fmt.Fprintf(sess, "Could not start the game: %v\n", err)
			return
		}
		if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

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

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize

package config

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Source hands out the current configuration. Version increases every time
// the configuration is replaced.
type Source interface {
	Current() *Config
	Version() uint64
}

type static struct{ cfg *Config }

func (s static) Current() *Config { return s.cfg }
func (s static) Version() uint64  { return 0 }

// Static returns a Source that never changes.
func Static(cfg *Config) Source {
	return static{cfg: cfg}
}

// Watcher reloads a configuration file when its modification time changes.
// Invalid documents are logged and ignored; the last good one stays current.
type Watcher struct {
	path     string
	interval time.Duration
	logger   *log.Logger

	current atomic.Pointer[Config]
	version atomic.Uint64
	modTime time.Time
}

// NewWatcher loads path and returns a watcher for it.
func NewWatcher(path string, interval time.Duration, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	w := &Watcher{path: path, interval: interval, logger: logger}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	w.modTime = info.ModTime()
	w.current.Store(cfg)
	return w, nil
}

func (w *Watcher) Current() *Config { return w.current.Load() }

func (w *Watcher) Version() uint64 { return w.version.Load() }

// Check reloads the file if it changed since the last check. It reports
// whether a new configuration was published.
func (w *Watcher) Check() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		w.logger.Warn("config stat failed", "path", w.path, "err", err)
		return false
	}
	if info.ModTime().Equal(w.modTime) {
		return false
	}
	w.modTime = info.ModTime()

	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("config reload rejected", "path", w.path, "err", err)
		return false
	}
	w.current.Store(cfg)
	v := w.version.Add(1)
	w.logger.Info("config reloaded", "path", w.path, "version", v)
	return true
}

// Run polls the file until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

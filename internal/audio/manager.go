// Package audio keeps track of the sounds currently playing.
//
// Every Playback call registers a playlist entry under a fresh id. The entry
// removes itself when its stream finishes, or is removed early by StopPlayback
// and StopPlaylist. Nothing plays while muted or before the output is unlocked.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gopxl/beep"
)

// Options tweaks one playback. End zero means the end of the buffer.
type Options struct {
	Start time.Duration
	End   time.Duration
	Loop  bool
}

type entry struct {
	id   string
	key  string
	ctrl *beep.Ctrl
}

// Manager owns the playlist.
type Manager struct {
	out    Output
	logger *log.Logger

	mu       sync.Mutex
	muted    bool
	playlist []entry
}

// NewManager creates a manager playing through out. A nil out discards all sound.
func NewManager(out Output, logger *log.Logger) *Manager {
	if out == nil {
		out = NullOutput{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{out: out, logger: logger}
}

// Output returns the output the manager plays through.
func (m *Manager) Output() Output { return m.out }

// SetMuted sets the mute flag. Muting does not stop sounds already playing;
// callers suspend the output for that.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()
}

// Muted reports the mute flag.
func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Playback starts buf under key and returns the new entry id. It returns ""
// without registering anything when muted, when buf is nil, or when the
// output is not ready yet.
func (m *Manager) Playback(key string, buf *beep.Buffer, opts Options) string {
	if buf == nil || !m.out.Ready() {
		return ""
	}

	m.mu.Lock()
	if m.muted {
		m.mu.Unlock()
		return ""
	}
	id := uuid.NewString()
	ctrl := &beep.Ctrl{Streamer: m.stream(id, buf, opts)}
	m.playlist = append(m.playlist, entry{id: id, key: key, ctrl: ctrl})
	m.mu.Unlock()

	m.logger.Debug("playback", "key", key, "id", id, "loop", opts.Loop)
	m.out.Play(ctrl)
	return id
}

func (m *Manager) stream(id string, buf *beep.Buffer, opts Options) beep.Streamer {
	rate := buf.Format().SampleRate
	from := clamp(rate.N(opts.Start), 0, buf.Len())
	to := buf.Len()
	if opts.End > 0 {
		to = clamp(rate.N(opts.End), from, buf.Len())
	}

	var s beep.Streamer = buf.Streamer(from, to)
	if opts.Loop && to > from {
		s = beep.Loop(-1, buf.Streamer(from, to))
	}
	return beep.Seq(s, beep.Callback(func() { m.remove(id) }))
}

// remove drops the entry with id. It runs on the audio goroutine when a
// stream finishes, so it must never call into the output.
func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.playlist {
		if e.id == id {
			m.playlist = append(m.playlist[:i], m.playlist[i+1:]...)
			return
		}
	}
}

// StopPlayback stops and removes every entry playing key.
func (m *Manager) StopPlayback(key string) {
	m.mu.Lock()
	var stopped []*beep.Ctrl
	kept := m.playlist[:0]
	for _, e := range m.playlist {
		if e.key == key {
			stopped = append(stopped, e.ctrl)
			continue
		}
		kept = append(kept, e)
	}
	clear(m.playlist[len(kept):])
	m.playlist = kept
	m.mu.Unlock()

	if len(stopped) > 0 {
		m.out.Stop(stopped...)
	}
}

// StopPlaylist stops every entry.
func (m *Manager) StopPlaylist() {
	m.mu.Lock()
	stopped := make([]*beep.Ctrl, 0, len(m.playlist))
	for _, e := range m.playlist {
		stopped = append(stopped, e.ctrl)
	}
	clear(m.playlist)
	m.playlist = m.playlist[:0]
	m.mu.Unlock()

	if len(stopped) > 0 {
		m.out.Stop(stopped...)
	}
}

// Playing returns the keys of the live entries in start order.
func (m *Manager) Playing() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.playlist))
	for i, e := range m.playlist {
		keys[i] = e.key
	}
	return keys
}

// Suspend silences the output without touching the playlist.
func (m *Manager) Suspend() { m.out.Suspend() }

// Resume undoes Suspend.
func (m *Manager) Resume() { m.out.Resume() }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package audio

import (
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = beep.SampleRate(8000)

type fakeOutput struct {
	mu        sync.Mutex
	ready     bool
	played    []beep.Streamer
	stopped   int
	suspended bool
}

func (f *fakeOutput) Play(s beep.Streamer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, s)
}

func (f *fakeOutput) Stop(ctrls ...*beep.Ctrl) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range ctrls {
		c.Streamer = nil
		f.stopped++
	}
}

func (f *fakeOutput) Suspend()                    { f.suspended = true }
func (f *fakeOutput) Resume()                     { f.suspended = false }
func (f *fakeOutput) Ready() bool                 { return f.ready }
func (f *fakeOutput) SampleRate() beep.SampleRate { return testRate }

// drain streams s until it reports it is done.
func drain(t *testing.T, s beep.Streamer) {
	t.Helper()
	samples := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		if _, ok := s.Stream(samples); !ok {
			return
		}
	}
	t.Fatal("stream never finished")
}

func testBuffer(t *testing.T, name string) *beep.Buffer {
	t.Helper()
	buf, err := Synth(name, testRate)
	require.NoError(t, err)
	require.Positive(t, buf.Len())
	return buf
}

func TestPlaybackRegistersAndSelfRemoves(t *testing.T) {
	out := &fakeOutput{ready: true}
	m := NewManager(out, nil)

	id := m.Playback("turnSound", testBuffer(t, "turn"), Options{})
	require.NotEmpty(t, id)
	assert.Equal(t, []string{"turnSound"}, m.Playing())
	require.Len(t, out.played, 1)

	drain(t, out.played[0])
	assert.Empty(t, m.Playing(), "finished sounds leave the playlist")
}

func TestPlaybackIDsAreUnique(t *testing.T) {
	m := NewManager(&fakeOutput{ready: true}, nil)
	buf := testBuffer(t, "turn")
	a := m.Playback("turnSound", buf, Options{})
	b := m.Playback("turnSound", buf, Options{})
	assert.NotEqual(t, a, b)
	assert.Len(t, m.Playing(), 2)
}

func TestMutedPlaybackIsNoop(t *testing.T) {
	out := &fakeOutput{ready: true}
	m := NewManager(out, nil)
	m.SetMuted(true)

	assert.Empty(t, m.Playback("crashSound", testBuffer(t, "crash"), Options{}))
	assert.Empty(t, m.Playing())
	assert.Empty(t, out.played)

	m.StopPlaylist()
	assert.Zero(t, out.stopped)
}

func TestPlaybackBeforeUnlockIsNoop(t *testing.T) {
	out := &fakeOutput{}
	m := NewManager(out, nil)
	assert.Empty(t, m.Playback("crashSound", testBuffer(t, "crash"), Options{}))
	assert.Empty(t, m.Playing())

	m = NewManager(nil, nil)
	assert.Empty(t, m.Playback("crashSound", testBuffer(t, "crash"), Options{}))
}

func TestStopPlaybackByKey(t *testing.T) {
	out := &fakeOutput{ready: true}
	m := NewManager(out, nil)
	buf := testBuffer(t, "music")

	m.Playback("backgroundMusic", buf, Options{Loop: true})
	m.Playback("turnSound", testBuffer(t, "turn"), Options{})
	m.Playback("backgroundMusic", buf, Options{})

	m.StopPlayback("backgroundMusic")
	assert.Equal(t, []string{"turnSound"}, m.Playing())
	assert.Equal(t, 2, out.stopped)

	// a stopped stream finishing later must not disturb the rest
	drain(t, out.played[2])
	assert.Equal(t, []string{"turnSound"}, m.Playing())
}

func TestStopPlaylist(t *testing.T) {
	out := &fakeOutput{ready: true}
	m := NewManager(out, nil)
	m.Playback("a", testBuffer(t, "turn"), Options{})
	m.Playback("b", testBuffer(t, "boost"), Options{})

	m.StopPlaylist()
	assert.Empty(t, m.Playing())
	assert.Equal(t, 2, out.stopped)

	m.StopPlaylist()
	assert.Equal(t, 2, out.stopped)
}

func TestPlaybackWindow(t *testing.T) {
	out := &fakeOutput{ready: true}
	m := NewManager(out, nil)
	buf := testBuffer(t, "music") // 1.6s

	m.Playback("clip", buf, Options{Start: 200 * time.Millisecond, End: 400 * time.Millisecond})
	samples := make([][2]float64, 8000)
	n, _ := out.played[0].Stream(samples)
	assert.Equal(t, testRate.N(200*time.Millisecond), n)
}

func TestLoopKeepsPlaying(t *testing.T) {
	out := &fakeOutput{ready: true}
	m := NewManager(out, nil)
	m.Playback("backgroundMusic", testBuffer(t, "turn"), Options{Loop: true})

	samples := make([][2]float64, 512)
	for i := 0; i < 20; i++ {
		n, ok := out.played[0].Stream(samples)
		require.True(t, ok)
		require.Equal(t, len(samples), n)
	}
	assert.Equal(t, []string{"backgroundMusic"}, m.Playing())
}

func TestSuspendResume(t *testing.T) {
	out := &fakeOutput{ready: true}
	m := NewManager(out, nil)
	m.Suspend()
	assert.True(t, out.suspended)
	m.Resume()
	assert.False(t, out.suspended)
}

func TestSynthUnknown(t *testing.T) {
	_, err := Synth("kazoo", testRate)
	assert.Error(t, err)
	assert.Contains(t, Builtins(), "game-over")
}

package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// DefaultSampleRate is the rate sounds are decoded and synthesized at.
const DefaultSampleRate = beep.SampleRate(44100)

// Output is where the manager sends its streams.
type Output interface {
	// Play starts s. It is a no-op before the output is ready.
	Play(s beep.Streamer)
	// Stop silences the given streams and lets the output drop them.
	Stop(ctrls ...*beep.Ctrl)
	Suspend()
	Resume()
	// Ready reports whether the output has been unlocked.
	Ready() bool
	SampleRate() beep.SampleRate
}

// SpeakerOutput plays through the local sound card. It stays silent until
// Unlock is called on the first user input, mirroring autoplay restrictions.
type SpeakerOutput struct {
	rate  beep.SampleRate
	mixer *beep.Mixer
	ctrl  *beep.Ctrl // pauses the whole mix on Suspend

	once  sync.Once
	err   error
	ready atomic.Bool
}

// NewSpeakerOutput creates a locked speaker output.
func NewSpeakerOutput(rate beep.SampleRate) *SpeakerOutput {
	if rate == 0 {
		rate = DefaultSampleRate
	}
	mixer := &beep.Mixer{}
	return &SpeakerOutput{
		rate:  rate,
		mixer: mixer,
		ctrl:  &beep.Ctrl{Streamer: mixer},
	}
}

// Unlock initializes the speaker. Only the first call does any work; later
// calls return the first call's error.
func (o *SpeakerOutput) Unlock() error {
	o.once.Do(func() {
		if err := speaker.Init(o.rate, o.rate.N(time.Second/10)); err != nil {
			o.err = err
			return
		}
		speaker.Play(o.ctrl)
		o.ready.Store(true)
	})
	return o.err
}

func (o *SpeakerOutput) Ready() bool { return o.ready.Load() }

func (o *SpeakerOutput) SampleRate() beep.SampleRate { return o.rate }

func (o *SpeakerOutput) Play(s beep.Streamer) {
	if !o.Ready() {
		return
	}
	speaker.Lock()
	o.mixer.Add(s)
	speaker.Unlock()
}

func (o *SpeakerOutput) Stop(ctrls ...*beep.Ctrl) {
	if !o.Ready() {
		return
	}
	speaker.Lock()
	for _, c := range ctrls {
		c.Streamer = nil
	}
	speaker.Unlock()
}

func (o *SpeakerOutput) Suspend() { o.setPaused(true) }

func (o *SpeakerOutput) Resume() { o.setPaused(false) }

func (o *SpeakerOutput) setPaused(paused bool) {
	if !o.Ready() {
		return
	}
	speaker.Lock()
	o.ctrl.Paused = paused
	speaker.Unlock()
}

// Close shuts the speaker down.
func (o *SpeakerOutput) Close() {
	if !o.ready.Swap(false) {
		return
	}
	speaker.Lock()
	o.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

// NullOutput never becomes ready. Remote sessions have no sound card.
type NullOutput struct{}

func (NullOutput) Play(beep.Streamer)          {}
func (NullOutput) Stop(...*beep.Ctrl)          {}
func (NullOutput) Suspend()                    {}
func (NullOutput) Resume()                     {}
func (NullOutput) Ready() bool                 { return false }
func (NullOutput) SampleRate() beep.SampleRate { return DefaultSampleRate }

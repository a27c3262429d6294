package audio

import (
	"fmt"
	"sort"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// note is one step of a synthesized sound.
type note struct {
	freq float64 // 0 is a rest
	dur  time.Duration
}

// builtins are the sounds shipped with the game, as note sequences.
var builtins = map[string][]note{
	"music": {
		{262, 200 * time.Millisecond}, {330, 200 * time.Millisecond},
		{392, 200 * time.Millisecond}, {330, 200 * time.Millisecond},
		{294, 200 * time.Millisecond}, {349, 200 * time.Millisecond},
		{440, 200 * time.Millisecond}, {0, 200 * time.Millisecond},
	},
	"power-up": {{440, 70 * time.Millisecond}, {660, 70 * time.Millisecond}, {880, 120 * time.Millisecond}},
	"turn":     {{520, 30 * time.Millisecond}},
	"boost":    {{300, 50 * time.Millisecond}, {600, 80 * time.Millisecond}},
	"crash":    {{110, 60 * time.Millisecond}, {82, 160 * time.Millisecond}},
	"power":    {{784, 60 * time.Millisecond}, {1047, 100 * time.Millisecond}},
	"monster":  {{98, 250 * time.Millisecond}, {73, 350 * time.Millisecond}},
	"attack":   {{147, 80 * time.Millisecond}},
	"game-over": {
		{392, 180 * time.Millisecond}, {330, 180 * time.Millisecond},
		{262, 180 * time.Millisecond}, {196, 400 * time.Millisecond},
	},
}

// Builtins lists the names Synth accepts.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Synth renders the named builtin sound into a buffer at rate.
func Synth(name string, rate beep.SampleRate) (*beep.Buffer, error) {
	notes, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown builtin sound %q", name)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	for _, n := range notes {
		s, err := tone(rate, n)
		if err != nil {
			return nil, fmt.Errorf("synth %s: %w", name, err)
		}
		buf.Append(s)
	}
	return buf, nil
}

func tone(rate beep.SampleRate, n note) (beep.Streamer, error) {
	samples := rate.N(n.dur)
	if n.freq == 0 {
		return generators.Silence(samples), nil
	}
	sine, err := generators.SineTone(rate, n.freq)
	if err != nil {
		return nil, err
	}
	return &effects.Gain{Streamer: beep.Take(samples, sine), Gain: -0.7}, nil
}

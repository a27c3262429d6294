package asset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/coffeerun/internal/draw"
)

func TestDecodeImage(t *testing.T) {
	src := "r=#ff0000\ng=#00ff00\n\nr.g\n g\n"
	img, err := DecodeImage(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, draw.RGB(255, 0, 0), img.At(0, 0))
	assert.Zero(t, img.At(1, 0))
	assert.Equal(t, draw.RGB(0, 255, 0), img.At(2, 0))
	assert.Zero(t, img.At(0, 1))
	assert.Equal(t, draw.RGB(0, 255, 0), img.At(1, 1))
	assert.Zero(t, img.At(2, 1), "short rows are padded")
}

func TestDecodeImageErrors(t *testing.T) {
	_, err := DecodeImage(strings.NewReader("r=#ff0000\n\nrx\n"))
	assert.ErrorContains(t, err, "not in legend")

	_, err = DecodeImage(strings.NewReader("r=#zzzzzz\n\nr\n"))
	assert.Error(t, err)

	_, err = DecodeImage(strings.NewReader("r=#ff0000\n\n\n"))
	assert.Error(t, err)
}

func TestBuiltinImagesDecode(t *testing.T) {
	l := NewLoader(Options{})
	for _, name := range []string{"player", "monster", "tree", "coffee"} {
		img, err := l.image(BuiltinPrefix + name)
		require.NoError(t, err, name)
		assert.Positive(t, img.Width, name)
		assert.Positive(t, img.Height, name)
	}
}

func writeWav(t *testing.T, dir string, rate beep.SampleRate) string {
	t.Helper()
	path := filepath.Join(dir, "beep.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	sine, err := generators.SineTone(rate, 440)
	require.NoError(t, err)
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Take(rate.N(100*time.Millisecond), sine), format))
	return path
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	writeWav(t, dir, 22050)

	var (
		mu      sync.Mutex
		reports []int
	)
	l := NewLoader(Options{BaseDir: dir, SampleRate: 44100})
	assets, err := l.Load(context.Background(), []Descriptor{
		Image("playerImage", "builtin:player"),
		Optional(Image("backgroundImage", "")),
		Sound("turnSound", "builtin:turn"),
		Sound("crashSound", "beep.wav"),
		Font("gameFont", "Press Start 2P"),
	}, func(p int) {
		mu.Lock()
		reports = append(reports, p)
		mu.Unlock()
	})
	require.NoError(t, err)

	assert.Contains(t, assets.Images, "playerImage")
	assert.NotContains(t, assets.Images, "backgroundImage")
	require.Contains(t, assets.Sounds, "crashSound")
	assert.Equal(t, beep.SampleRate(44100), assets.Sounds["crashSound"].Format().SampleRate)
	assert.InDelta(t, 4410, assets.Sounds["crashSound"].Len(), 10, "resampled to the output rate")
	assert.Equal(t, "Press Start 2P", assets.Fonts["gameFont"])

	require.NotEmpty(t, reports)
	assert.Equal(t, 0, reports[0])
	assert.Equal(t, 100, reports[len(reports)-1])
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i], reports[i-1])
	}
}

func TestLoadRequiredFailure(t *testing.T) {
	l := NewLoader(Options{BaseDir: t.TempDir()})
	_, err := l.Load(context.Background(), []Descriptor{
		Image("playerImage", "builtin:player"),
		Sound("crashSound", "missing.wav"),
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequired))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "crashSound")
}

func TestLoadUnknownBuiltinSound(t *testing.T) {
	l := NewLoader(Options{})
	_, err := l.Load(context.Background(), []Descriptor{Sound("x", "builtin:kazoo")}, nil)
	assert.ErrorIs(t, err, ErrRequired)
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLoader(Options{})
	_, err := l.Load(ctx, []Descriptor{Image("playerImage", "builtin:player")}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// Package asset loads the images, sounds and fonts a game needs as one batch.
package asset

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/coffeerun/internal/audio"
	"github.com/tomz197/coffeerun/internal/draw"
)

//go:embed builtin/*.txt
var builtinFS embed.FS

// BuiltinPrefix marks a source resolved against the assets shipped in the binary.
const BuiltinPrefix = "builtin:"

// ErrRequired is wrapped by Load when a non-optional asset fails.
var ErrRequired = errors.New("required asset failed to load")

// Kind is the type of an asset.
type Kind string

const (
	KindImage Kind = "image"
	KindSound Kind = "sound"
	KindFont  Kind = "font"
)

// Descriptor names one asset to load.
type Descriptor struct {
	Kind     Kind
	Key      string
	Source   string
	Optional bool
}

// Image describes an image asset.
func Image(key, source string) Descriptor {
	return Descriptor{Kind: KindImage, Key: key, Source: source}
}

// Sound describes a sound asset.
func Sound(key, source string) Descriptor {
	return Descriptor{Kind: KindSound, Key: key, Source: source}
}

// Font describes a font asset.
func Font(key, family string) Descriptor {
	return Descriptor{Kind: KindFont, Key: key, Source: family}
}

// Optional marks d as optional.
func Optional(d Descriptor) Descriptor {
	d.Optional = true
	return d
}

// Assets is a loaded batch, keyed by descriptor key.
type Assets struct {
	Images map[string]*draw.Image
	Sounds map[string]*beep.Buffer
	Fonts  map[string]string // terminals have no fonts; the family name is kept for display
}

// Progress receives the batch completion percentage (0-100). Calls are
// serialized and never decrease.
type Progress func(percent int)

// Options configures a Loader.
type Options struct {
	BaseDir    string          // relative file sources resolve against it
	SampleRate beep.SampleRate // sounds are resampled to it
	Logger     *log.Logger
}

// Loader loads batches of assets concurrently.
type Loader struct {
	baseDir string
	rate    beep.SampleRate
	logger  *log.Logger
}

// NewLoader creates a loader.
func NewLoader(opts Options) *Loader {
	if opts.SampleRate == 0 {
		opts.SampleRate = audio.DefaultSampleRate
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Loader{baseDir: opts.BaseDir, rate: opts.SampleRate, logger: opts.Logger}
}

// Load fetches every descriptor concurrently. A failed optional asset is
// logged and left out; a failed required asset fails the batch with ErrRequired.
func (l *Loader) Load(ctx context.Context, descs []Descriptor, progress Progress) (*Assets, error) {
	assets := &Assets{
		Images: make(map[string]*draw.Image),
		Sounds: make(map[string]*beep.Buffer),
		Fonts:  make(map[string]string),
	}

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		done++
		if progress != nil {
			progress(done * 100 / len(descs))
		}
	}
	if progress != nil {
		progress(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, d := range descs {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = l.loadOne(assets, &mu, d)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil && !d.Optional {
				return fmt.Errorf("%w: %s from %q: %w", ErrRequired, d.Key, d.Source, err)
			}
			if err != nil {
				l.logger.Warn("optional asset skipped", "key", d.Key, "source", d.Source, "err", err)
			}
			report()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(descs) == 0 && progress != nil {
		progress(100)
	}
	return assets, nil
}

func (l *Loader) loadOne(assets *Assets, mu *sync.Mutex, d Descriptor) error {
	if d.Source == "" {
		return errors.New("no source")
	}
	switch d.Kind {
	case KindImage:
		img, err := l.image(d.Source)
		if err != nil {
			return err
		}
		mu.Lock()
		assets.Images[d.Key] = img
		mu.Unlock()
	case KindSound:
		buf, err := l.sound(d.Source)
		if err != nil {
			return err
		}
		mu.Lock()
		assets.Sounds[d.Key] = buf
		mu.Unlock()
	case KindFont:
		mu.Lock()
		assets.Fonts[d.Key] = d.Source
		mu.Unlock()
	default:
		return fmt.Errorf("unknown asset kind %q", d.Kind)
	}
	return nil
}

func (l *Loader) image(source string) (*draw.Image, error) {
	rc, err := l.open(source, ".txt")
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return DecodeImage(rc)
}

func (l *Loader) sound(source string) (*beep.Buffer, error) {
	if name, ok := strings.CutPrefix(source, BuiltinPrefix); ok {
		return audio.Synth(name, l.rate)
	}

	rc, err := l.open(source, "")
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	s, format, err := wav.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer s.Close()

	var stream beep.Streamer = s
	if format.SampleRate != l.rate {
		stream = beep.Resample(4, format.SampleRate, l.rate, s)
	}
	format.SampleRate = l.rate
	buf := beep.NewBuffer(format)
	buf.Append(stream)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	return buf, nil
}

// open resolves a builtin name (adding ext) or a file path.
func (l *Loader) open(source, ext string) (io.ReadCloser, error) {
	if name, ok := strings.CutPrefix(source, BuiltinPrefix); ok {
		return builtinFS.Open("builtin/" + name + ext)
	}
	path := source
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}
	return os.Open(path)
}

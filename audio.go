package vision8

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-audio/audio"
	"github.com/go-audio/generator"
	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	bufferSize int     = 512
	amplitude  float64 = 0.25
)

var format = audio.FormatMono44100

// Beep plays a sine tone on the default output device between Start and
// Stop. Start and Stop must be called from the same goroutine.
type Beep struct {
	tone    float64
	log     *zap.Logger
	g       *errgroup.Group
	beeping atomic.Bool
}

func NewBeep(tone float64, logger *zap.Logger) *Beep {
	return &Beep{tone: tone, log: logger}
}

// Start begins the tone unless it is already playing. The tone stops when
// Stop is called or ctx is done.
func (b *Beep) Start(ctx context.Context) error {
	if b.beeping.Load() {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize audio: %w", err)
	}
	b.beeping.Store(true)

	buffer := &audio.FloatBuffer{
		Data:   make([]float64, bufferSize),
		Format: format,
	}

	osc := generator.NewOsc(generator.WaveSine, b.tone, buffer.Format.SampleRate)
	osc.Amplitude = amplitude

	b.g = new(errgroup.Group)
	b.g.Go(func() error {
		defer func() {
			_ = portaudio.Terminate()
		}()

		out := make([]float32, bufferSize)

		stream, err := portaudio.OpenDefaultStream(0, format.NumChannels, float64(format.SampleRate), len(out), &out)
		if err != nil {
			return fmt.Errorf("open stream: %w", err)
		}
		defer func() {
			_ = stream.Close()
		}()

		if err := stream.Start(); err != nil {
			return fmt.Errorf("start stream: %w", err)
		}
		defer func() {
			_ = stream.Stop()
		}()

		for b.beeping.Load() && ctx.Err() == nil {
			if err := osc.Fill(buffer); err != nil {
				return err
			}

			f64Tof32(out, buffer.Data)

			if err := stream.Write(); err != nil {
				return fmt.Errorf("write stream: %w", err)
			}
		}

		return nil
	})

	b.log.Debug("beep started", zap.Float64("tone", b.tone))
	return nil
}

// Stop silences the tone and reports any error from the audio stream.
func (b *Beep) Stop() error {
	if !b.beeping.Load() {
		return nil
	}
	b.beeping.Store(false)

	err := b.g.Wait()
	b.log.Debug("beep stopped", zap.Error(err))
	return err
}

func f64Tof32(dst []float32, src []float64) {
	for i := range src {
		dst[i] = float32(src[i])
	}
}

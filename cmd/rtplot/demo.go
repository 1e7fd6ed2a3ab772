package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/api"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/norasector/rtplot/pkg/config"
	"github.com/norasector/rtplot/pkg/dsp/mixer"
	"github.com/norasector/rtplot/pkg/figure"
	"github.com/norasector/rtplot/pkg/source"
	"github.com/norasector/rtplot/pkg/source/file"
	"github.com/norasector/rtplot/pkg/source/udp"
)

const (
	noiseBatch      = 10
	noiseCapacity   = 100
	qpskCapacity    = 10000
	qpskNoise       = 0.1
	symbolsPerFrame = 1

	spectrumSize       = 1024
	spectrumSampleRate = 48000
	spectrumToneFreq   = 6000
	spectrumToneNoise  = 0.05
)

type demo struct {
	builder figure.Builder
	// start launches producers feeding frame.
	start func(ctx context.Context, eg *errgroup.Group)
	frame func(*figure.Figure) error
}

func newDemo(name string, opts *config.Config, metrics api.WriteAPI) (*demo, error) {
	switch name {
	case "sine":
		return sineDemo(), nil
	case "noise":
		return noiseDemo(), nil
	case "qpsk":
		return qpskDemo(), nil
	case "spectrum":
		return spectrumDemo(), nil
	case "udp":
		return udpDemo(opts, metrics)
	case "file":
		return fileDemo(opts)
	}
	return nil, fmt.Errorf("unknown demo %q", name)
}

func sineDemo() *demo {
	s := source.NewSine()
	return &demo{
		builder: figure.NewBuilder().
			Title("Sine").
			XLabel("Time (s)").
			YLabel("Amplitude").
			Color(0xff, 0, 0).
			PlotStyle(figure.Line),
		frame: func(f *figure.Figure) error {
			return f.PlotY(s.Next())
		},
	}
}

func noiseDemo() *demo {
	n := source.NewNoise(1, noiseBatch, nil)
	return &demo{
		builder: figure.NewBuilder().
			Title("Noise").
			WithCapacity(noiseCapacity).
			YLimits(-1, 1).
			XLabel("Time (s)").
			YLabel("Amplitude").
			Color(0x80, 0, 0x80).
			PlotStyle(figure.Line),
		frame: func(f *figure.Figure) error {
			return f.StreamY(n.Next())
		},
	}
}

func qpskDemo() *demo {
	q := source.NewQPSK(qpskNoise, uint64(time.Now().UnixNano()))
	return &demo{
		builder: figure.NewBuilder().
			Title("QPSK").
			WithCapacity(qpskCapacity).
			XLimits(-1, 1).
			YLimits(-1, 1).
			Color(0x50, 0x20, 0x50).
			PlotStyle(figure.Point),
		frame: func(f *figure.Figure) error {
			return f.StreamComplex(q.Next(symbolsPerFrame))
		},
	}
}

func spectrumBuilder(title string) figure.Builder {
	return figure.NewBuilder().
		Title(title).
		YLimits(-100, 0).
		XLabel("Frequency").
		YLabel("Power (dB)").
		PlotStyle(figure.Line)
}

func spectrumDemo() *demo {
	tone := source.NewTone(spectrumSampleRate, spectrumToneFreq, spectrumSize, spectrumToneNoise, nil)
	analyzer := source.NewSpectrum(spectrumSize, spectrumSampleRate)
	return &demo{
		builder: spectrumBuilder("Spectrum"),
		frame: func(f *figure.Figure) error {
			return f.PlotXY(analyzer.Process(tone.Next()))
		},
	}
}

func udpDemo(opts *config.Config, metrics api.WriteAPI) (*demo, error) {
	addr := opts.UDP.Listen
	if addr == "" {
		addr = ":9999"
	}
	l, err := udp.Listen(addr, udp.WithLogger(log.Logger), udp.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}
	return listenerDemo(l), nil
}

// listenerDemo streams whatever arrives on l, switching between the real and
// complex buffers as the traffic does.
func listenerDemo(l *udp.Listener) *demo {
	batches := make(chan udp.Batch, 64)
	complexMode := false

	return &demo{
		builder: figure.NewBuilder().Title("UDP").WithCapacity(qpskCapacity).PlotStyle(figure.Line),
		start: func(ctx context.Context, eg *errgroup.Group) {
			eg.Go(func() error {
				return l.Run(ctx, batches)
			})
		},
		frame: func(f *figure.Figure) error {
			var reals []float32
			var cs []complex64
			for drained := false; !drained; {
				select {
				case b := <-batches:
					reals = append(reals, b.Reals...)
					cs = append(cs, b.Complex...)
				default:
					drained = true
				}
			}

			if len(cs) > 0 {
				complexMode = true
			} else if len(reals) > 0 {
				complexMode = false
			}
			if complexMode {
				return f.StreamComplex(cs)
			}
			return f.StreamY(reals)
		},
	}
}

func fileDemo(opts *config.Config) (*demo, error) {
	c := opts.Capture
	if c.Path == "" {
		return nil, errors.New("file demo needs capture.path")
	}
	r, err := file.Open(c.Path, c.ReadSize, c.SampleRate, c.CenterFreq, c.Interval)
	if err != nil {
		return nil, err
	}
	r.Loop(c.Loop)

	sampleRate := c.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1
	}
	analyzer := source.NewSpectrum(spectrumSize, sampleRate)
	blocks := make(chan []complex64, 4)

	var osc *mixer.Oscillator
	if c.Shift != 0 {
		osc = mixer.NewOscillator(sampleRate, c.Shift)
	}

	return &demo{
		builder: spectrumBuilder(c.Path),
		start: func(ctx context.Context, eg *errgroup.Group) {
			eg.Go(func() error {
				defer r.Close()
				if err := r.Run(ctx, blocks); err != nil {
					return err
				}
				log.Info().Str("path", c.Path).Msg("capture finished")
				return nil
			})
		},
		frame: func(f *figure.Figure) error {
			select {
			case b := <-blocks:
				if osc != nil {
					b = osc.Mix(b)
				}
				return f.PlotXY(analyzer.Process(b))
			default:
				return nil
			}
		},
	}, nil
}

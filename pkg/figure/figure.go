// Package figure drives a single streaming plot: it buffers samples,
// normalizes them, and hands the result to a Display Surface.
package figure

import (
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/norasector/rtplot/pkg/geom"
	"github.com/norasector/rtplot/pkg/normalize"
	"github.com/norasector/rtplot/pkg/queue"
	"github.com/norasector/rtplot/pkg/surface"
	"github.com/norasector/rtplot/pkg/util"
)

type State int

const (
	Unbound State = iota
	Bound
	Closed
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Bound:
		return "bound"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const (
	modeOverride  = "override"
	modeStreaming = "streaming"
)

// Figure keeps separate buffers for StreamY and StreamComplex; streaming one
// kind never shows samples of the other. Both share the capacity.
//
// Figure is not safe for concurrent use. Samples produced on other
// goroutines should be handed to the goroutine driving the figure over a
// channel.
type Figure struct {
	builder Builder
	cfg     Config
	state   State

	surface   surface.Surface
	floats    *queue.Float
	complexes *queue.Complex
	norm      *normalize.Normalizer

	closeRequested bool
	frames         int

	logger  zerolog.Logger
	metrics api.WriteAPI
}

type FigureOption func(f *Figure) error

func WithLogger(logger zerolog.Logger) FigureOption {
	return func(f *Figure) error {
		f.logger = logger
		return nil
	}
}

// WithMetrics writes one point per drawn frame to writeAPI.
func WithMetrics(writeAPI api.WriteAPI) FigureOption {
	return func(f *Figure) error {
		if writeAPI == nil {
			return errors.New("nil metrics writer")
		}
		f.metrics = writeAPI
		return nil
	}
}

func newFigure(b Builder, opts ...FigureOption) (*Figure, error) {
	f := &Figure{
		builder: b,
		cfg:     b.cfg,
		state:   Unbound,
		logger:  log.Logger,
		metrics: &util.MockWriteAPI{}, // overwritten with option
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Figure) State() State {
	return f.state
}

func (f *Figure) Config() Config {
	return f.cfg
}

// Frames reports how many frames reached the surface.
func (f *Figure) Frames() int {
	return f.frames
}

// Reconfigure edits the configuration of an unbound figure. Once bound the
// configuration, capacity included, is fixed.
func (f *Figure) Reconfigure(fn func(Builder) Builder) error {
	switch f.state {
	case Bound:
		return ErrConfigurationLocked
	case Closed:
		return ErrFigureClosed
	}

	b := fn(f.builder)
	if err := b.validate(); err != nil {
		return err
	}
	f.builder = b
	f.cfg = b.cfg
	return nil
}

// Bind creates the surface and allocates the sample queues.
func (f *Figure) Bind(factory surface.Factory) error {
	switch f.state {
	case Bound:
		return ErrAlreadyBound
	case Closed:
		return ErrFigureClosed
	}

	s, err := factory(f.cfg.Width, f.cfg.Height, f.cfg.Title)
	if err != nil {
		return fmt.Errorf("creating surface: %w", err)
	}

	f.surface = s
	f.floats = queue.NewFloat(f.cfg.Capacity)
	f.complexes = queue.NewComplex(f.cfg.Capacity)
	f.norm = normalize.New(f.cfg.XLim, f.cfg.YLim, f.cfg.Color.ToRGBA())
	f.state = Bound

	f.logger.Debug().
		Str("title", f.cfg.Title).
		Int("capacity", f.cfg.Capacity).
		Str("xlim", f.cfg.XLim.String()).
		Str("ylim", f.cfg.YLim.String()).
		Msg("figure bound")
	return nil
}

func (f *Figure) check() error {
	switch f.state {
	case Unbound:
		return ErrUnboundFigure
	case Closed:
		return ErrFigureClosed
	}
	return nil
}

// Plot draws exactly points, replacing whatever was on screen. The sample
// queues are not touched.
func (f *Figure) Plot(points []geom.Point2D) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.draw(points, modeOverride)
}

func (f *Figure) PlotXY(pairs [][2]float32) error {
	return f.Plot(normalize.FromXY(pairs))
}

// PlotY spaces ys evenly along the x axis.
func (f *Figure) PlotY(ys []float32) error {
	return f.Plot(normalize.FromY(ys))
}

// PlotComplex plots the real parts against the imaginary parts.
func (f *Figure) PlotComplex(cs []complex64) error {
	return f.Plot(normalize.FromComplex(cs))
}

// StreamY appends ys to the figure's buffer and draws everything the buffer
// holds, oldest sample leftmost.
func (f *Figure) StreamY(ys []float32) error {
	if err := f.check(); err != nil {
		return err
	}
	f.floats.PushBatch(ys)
	return f.draw(normalize.FromY(f.floats.Values()), modeStreaming)
}

// StreamComplex appends cs to the figure's complex buffer and draws all of
// it as a constellation.
func (f *Figure) StreamComplex(cs []complex64) error {
	if err := f.check(); err != nil {
		return err
	}
	f.complexes.PushBatch(cs)
	return f.draw(normalize.FromComplex(f.complexes.Values()), modeStreaming)
}

func (f *Figure) draw(points []geom.Point2D, mode string) error {
	res, err := f.norm.Normalize(points)
	switch {
	case errors.Is(err, geom.ErrEmptyInput):
		f.logger.Debug().Str("mode", mode).Msg("nothing to fit, skipping frame")
		return nil
	case err != nil:
		return err
	}

	drawTime, err := util.TimeMicroseconds(func() error {
		return f.surface.Draw(res.Vertices, f.cfg.Kind, f.cfg.decorations())
	})
	if err != nil {
		f.logger.Error().Err(err).Str("title", f.cfg.Title).Msg("draw failed, closing figure")
		if cerr := f.teardown(); cerr != nil {
			f.logger.Warn().Err(cerr).Msg("error closing surface")
		}
		return &RenderError{Err: err}
	}
	f.frames++

	f.metrics.WritePoint(influxdb2.NewPoint("rtplot.frame",
		map[string]string{
			"title": f.cfg.Title,
			"mode":  mode,
		},
		map[string]interface{}{
			"vertices": len(res.Vertices),
			"culled":   res.Culled,
			"draw_us":  drawTime,
		}, time.Now()))

	return nil
}

// PollClose reports whether the caller should keep driving the figure. It
// turns false once the surface has been asked to close and stays false.
func (f *Figure) PollClose() bool {
	if f.state != Bound {
		return false
	}
	if !f.closeRequested && f.surface.PollClose() {
		f.logger.Debug().Str("title", f.cfg.Title).Msg("close requested")
		f.closeRequested = true
	}
	return !f.closeRequested
}

// Close releases the surface. Closing a closed figure is a no-op.
func (f *Figure) Close() error {
	switch f.state {
	case Closed:
		return nil
	case Unbound:
		f.state = Closed
		return nil
	}
	return f.teardown()
}

func (f *Figure) teardown() error {
	f.state = Closed
	f.floats.Reset()
	f.complexes.Reset()
	err := f.surface.Close()
	f.surface = nil
	return err
}

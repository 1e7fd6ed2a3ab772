package figure

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/norasector/rtplot/pkg/normalize"
	"github.com/norasector/rtplot/pkg/surface"
)

type PlotKind = surface.Kind

const (
	Point = surface.Point
	Line  = surface.Line
)

const (
	DefaultWidth  = 800
	DefaultHeight = 800
	DefaultTitle  = "Plot"
)

// Color is an RGB triple.
type Color [3]uint8

func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// ParseColor accepts "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// UnmarshalYAML accepts either "#rrggbb" or a three element list.
func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		parsed, err := ParseColor(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var rgb []int
	if err := unmarshal(&rgb); err != nil {
		return err
	}
	if len(rgb) != 3 {
		return fmt.Errorf("color needs 3 components, got %d", len(rgb))
	}
	for i, v := range rgb {
		if v < 0 || v > 0xff {
			return fmt.Errorf("color component %d out of range", v)
		}
		c[i] = uint8(v)
	}
	return nil
}

// Config is read by the figure on every frame and never changes once the
// figure is bound.
type Config struct {
	XLim     normalize.Axis
	YLim     normalize.Axis
	XLabel   string
	YLabel   string
	Color    Color
	Kind     PlotKind
	Capacity int

	Title  string
	Width  int
	Height int
}

func (c Config) decorations() surface.Decorations {
	return surface.Decorations{
		Title:  c.Title,
		XLabel: c.XLabel,
		YLabel: c.YLabel,
		XLim:   c.XLim,
		YLim:   c.YLim,
	}
}

// Builder gathers a Config. Every setter returns a modified copy, so a
// Builder can be shared as a template.
type Builder struct {
	cfg Config
}

func NewBuilder() Builder {
	return Builder{cfg: Config{
		Title:  DefaultTitle,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}}
}

// WithCapacity sets how many samples streaming calls keep. Zero disables
// streaming buffering.
func (b Builder) WithCapacity(n int) Builder {
	b.cfg.Capacity = n
	return b
}

// XLimits fixes the x axis to [min, max]. Points outside are not drawn.
func (b Builder) XLimits(min, max float32) Builder {
	b.cfg.XLim = normalize.FixedAxis(min, max)
	return b
}

func (b Builder) YLimits(min, max float32) Builder {
	b.cfg.YLim = normalize.FixedAxis(min, max)
	return b
}

func (b Builder) XAxis(a normalize.Axis) Builder {
	b.cfg.XLim = a
	return b
}

func (b Builder) YAxis(a normalize.Axis) Builder {
	b.cfg.YLim = a
	return b
}

func (b Builder) XLabel(s string) Builder {
	b.cfg.XLabel = s
	return b
}

func (b Builder) YLabel(s string) Builder {
	b.cfg.YLabel = s
	return b
}

func (b Builder) Color(r, g, bl uint8) Builder {
	b.cfg.Color = RGB(r, g, bl)
	return b
}

func (b Builder) PlotStyle(k PlotKind) Builder {
	b.cfg.Kind = k
	return b
}

func (b Builder) Title(s string) Builder {
	b.cfg.Title = s
	return b
}

// Size sets the pixel dimensions of the surface.
func (b Builder) Size(width, height int) Builder {
	b.cfg.Width = width
	b.cfg.Height = height
	return b
}

func (b Builder) Config() Config {
	return b.cfg
}

func (b Builder) validate() error {
	if b.cfg.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative, got %d", b.cfg.Capacity)
	}
	if b.cfg.Width <= 0 || b.cfg.Height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", b.cfg.Width, b.cfg.Height)
	}
	return nil
}

// Build returns an unbound figure.
func (b Builder) Build(opts ...FigureOption) (*Figure, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	return newFigure(b, opts...)
}

// Bind builds the figure and binds it to a surface from factory.
func (b Builder) Bind(factory surface.Factory, opts ...FigureOption) (*Figure, error) {
	f, err := b.Build(opts...)
	if err != nil {
		return nil, err
	}
	if err := f.Bind(factory); err != nil {
		return nil, err
	}
	return f, nil
}

// Package raster turns a figure's draw command into a PNG using gonum/plot.
package raster

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/norasector/rtplot/pkg/geom"
	"github.com/norasector/rtplot/pkg/normalize"
	"github.com/norasector/rtplot/pkg/surface"
)

const (
	xTicks = 6
	yTicks = 5

	// vgimg renders PNGs at this many dots per inch.
	dpi = 96

	// view is the clip range shown; the data occupies ±normalize.ClipExtent.
	view = 1.0
)

var (
	backgroundColor = color.RGBA{R: 169, G: 169, B: 169, A: 0xff}
	gridColor       = color.RGBA{R: 0x5d, G: 0x5d, B: 0x5d, A: 0xff}
)

type PlotOptions func(p *plot.Plot)

// Renderer draws clip-space vertices onto a plot with a fixed grid, a
// bounding box and tick labels for fixed axes.
type Renderer struct {
	Width       int
	Height      int
	PointRadius vg.Length
	LineWidth   vg.Length
	plotOptions []PlotOptions
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		Width:       width,
		Height:      height,
		PointRadius: vg.Points(2),
		LineWidth:   vg.Points(1),
	}
}

func (r *Renderer) AddPlotOption(opt PlotOptions) {
	r.plotOptions = append(r.plotOptions, opt)
}

func plotWithDefaults() *plot.Plot {
	p := plot.New()
	p.BackgroundColor = backgroundColor
	p.X.Padding = 0
	p.Y.Padding = 0
	p.X.LineStyle.Width = 0
	p.Y.LineStyle.Width = 0
	return p
}

// clipTicks places n ticks across the data area. Fixed axes get labels with
// the data value at each tick; auto axes only get grid lines.
type clipTicks struct {
	n    int
	axis normalize.Axis
}

func (t clipTicks) Ticks(min, max float64) []plot.Tick {
	pos := geom.Linspace(-normalize.ClipExtent, normalize.ClipExtent, t.n)
	lo, hi, fixed := t.axis.Limits()
	vals := geom.Linspace(lo, hi, t.n)

	ticks := make([]plot.Tick, t.n)
	for i := range ticks {
		ticks[i].Value = float64(pos[i])
		if fixed {
			ticks[i].Label = fmt.Sprintf("%.02f", vals[i])
		}
	}
	return ticks
}

// Plot builds the gonum plot for one frame.
func (r *Renderer) Plot(vertices []normalize.Vertex, kind surface.Kind, dec surface.Decorations) (*plot.Plot, error) {
	p := plotWithDefaults()
	p.Title.Text = dec.Title
	p.X.Label.Text = dec.XLabel
	p.Y.Label.Text = dec.YLabel
	p.X.Tick.Marker = clipTicks{n: xTicks, axis: dec.XLim}
	p.Y.Tick.Marker = clipTicks{n: yTicks, axis: dec.YLim}

	for _, opt := range r.plotOptions {
		opt(p)
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	grid.Vertical.Dashes = nil
	grid.Horizontal.Dashes = nil
	p.Add(grid)

	e := float64(normalize.ClipExtent)
	box, err := plotter.NewLine(plotter.XYs{{X: -e, Y: -e}, {X: -e, Y: e}, {X: e, Y: e}, {X: e, Y: -e}, {X: -e, Y: -e}})
	if err != nil {
		return nil, err
	}
	box.LineStyle.Color = color.Black
	box.LineStyle.Width = vg.Points(1)
	p.Add(box)

	if len(vertices) > 0 {
		xys := make(plotter.XYs, len(vertices))
		for i, v := range vertices {
			xys[i] = plotter.XY{X: float64(v.X), Y: float64(v.Y)}
		}
		c := vertices[0].Color

		switch kind {
		case surface.Line:
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, err
			}
			line.LineStyle.Color = c
			line.LineStyle.Width = r.LineWidth
			p.Add(line)
		default:
			scatter, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, err
			}
			scatter.GlyphStyle.Color = c
			scatter.GlyphStyle.Radius = r.PointRadius
			scatter.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(scatter)
		}
	}

	// Add grows the axes to fit the data; the view is always the clip range.
	p.X.Min, p.X.Max = -view, view
	p.Y.Min, p.Y.Max = -view, view

	return p, nil
}

// Render returns the frame encoded as a PNG.
func (r *Renderer) Render(vertices []normalize.Vertex, kind surface.Kind, dec surface.Decorations) ([]byte, error) {
	p, err := r.Plot(vertices, kind, dec)
	if err != nil {
		return nil, err
	}

	w, err := p.WriterTo(pixels(r.Width), pixels(r.Height), "png")
	if err != nil {
		return nil, err
	}
	var imageData bytes.Buffer
	if _, err := w.WriteTo(&imageData); err != nil {
		return nil, err
	}
	return imageData.Bytes(), nil
}

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / dpi
}

// Package normalize projects raw plot points into the clip space a Display
// Surface draws in.
package normalize

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/norasector/rtplot/pkg/geom"
)

const (
	// Scale and Offset map a data range onto [-ClipExtent, ClipExtent],
	// leaving a margin for axis decoration.
	Scale      float32 = 1.5
	Offset     float32 = 0.75
	ClipExtent float32 = 0.75
)

type Vertex struct {
	X     float32
	Y     float32
	Color color.RGBA
}

type Result struct {
	Vertices []Vertex
	// XRange and YRange are the limits the frame was projected with.
	XRange [2]float32
	YRange [2]float32
	// Culled counts points dropped for lying outside a fixed window or for
	// having a non-finite coordinate.
	Culled int
}

type Normalizer struct {
	XAxis Axis
	YAxis Axis
	Color color.RGBA
}

func New(x, y Axis, c color.RGBA) *Normalizer {
	return &Normalizer{XAxis: x, YAxis: y, Color: c}
}

// Project maps v from [min, max] to clip space. A zero-width or non-finite
// range falls back to treating v as already being in unit range.
func Project(v, min, max float32) float32 {
	if max != min && finite(max-min) {
		return Scale*(v-min)/(max-min) - Offset
	}
	return Scale*v - Offset
}

// Normalize projects points in order. Fixed axes drop points outside their
// window; auto axes are fit to the finite points of this batch. It returns
// geom.ErrEmptyInput when an auto axis has nothing to fit.
func (n *Normalizer) Normalize(points []geom.Point2D) (Result, error) {
	visible := make([]geom.Point2D, 0, len(points))
	for _, pt := range points {
		if !finite(pt.X) || !finite(pt.Y) {
			continue
		}
		if n.XAxis.IsFixed() && !n.XAxis.contains(pt.X) {
			continue
		}
		if n.YAxis.IsFixed() && !n.YAxis.contains(pt.Y) {
			continue
		}
		visible = append(visible, pt)
	}

	res := Result{Culled: len(points) - len(visible)}

	var err error
	if res.XRange, err = resolve(n.XAxis, visible, func(p geom.Point2D) float32 { return p.X }); err != nil {
		return res, err
	}
	if res.YRange, err = resolve(n.YAxis, visible, func(p geom.Point2D) float32 { return p.Y }); err != nil {
		return res, err
	}

	res.Vertices = make([]Vertex, len(visible))
	for i, pt := range visible {
		res.Vertices[i] = Vertex{
			X:     Project(pt.X, res.XRange[0], res.XRange[1]),
			Y:     Project(pt.Y, res.YRange[0], res.YRange[1]),
			Color: n.Color,
		}
	}
	return res, nil
}

func resolve(a Axis, points []geom.Point2D, component func(geom.Point2D) float32) ([2]float32, error) {
	if min, max, ok := a.Limits(); ok {
		return [2]float32{min, max}, nil
	}

	vals := make([]float32, len(points))
	for i, pt := range points {
		vals[i] = component(pt)
	}
	min, max, err := geom.Extent(vals)
	if err != nil {
		return [2]float32{}, err
	}
	return [2]float32{min, max}, nil
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

package geom

import (
	"errors"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/floats"
)

// ErrEmptyInput is returned when an extent is requested over no values.
var ErrEmptyInput = errors.New("extent of empty input")

type Point2D struct {
	X float32
	Y float32
}

func Pt(x, y float32) Point2D {
	return Point2D{X: x, Y: y}
}

// Extent returns the smallest and largest value. NaNs are ignored. A single
// value yields min == max.
func Extent(values []float32) (min, max float32, err error) {
	min = math32.Inf(1)
	max = math32.Inf(-1)
	seen := false

	for _, v := range values {
		if math32.IsNaN(v) {
			continue
		}
		seen = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if !seen {
		return 0, 0, ErrEmptyInput
	}
	return min, max, nil
}

// AxisExtentXY applies Extent to the X and Y components independently.
func AxisExtentXY(points []Point2D) (x, y [2]float32, err error) {
	xs := make([]float32, len(points))
	ys := make([]float32, len(points))
	for i, pt := range points {
		xs[i] = pt.X
		ys[i] = pt.Y
	}

	if x[0], x[1], err = Extent(xs); err != nil {
		return x, y, err
	}
	if y[0], y[1], err = Extent(ys); err != nil {
		return x, y, err
	}
	return x, y, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive. A single
// value is placed at lo.
func Linspace(lo, hi float32, n int) []float32 {
	switch {
	case n <= 0:
		return []float32{}
	case n == 1:
		return []float32{lo}
	}

	span := floats.Span(make([]float64, n), float64(lo), float64(hi))
	ret := make([]float32, n)
	for i, v := range span {
		ret[i] = float32(v)
	}
	return ret
}

package normalize

import "github.com/norasector/rtplot/pkg/geom"

func FromXY(pairs [][2]float32) []geom.Point2D {
	ret := make([]geom.Point2D, len(pairs))
	for i, p := range pairs {
		ret[i] = geom.Pt(p[0], p[1])
	}
	return ret
}

// FromY spaces the samples evenly across [-0.5, 0.5] regardless of how many
// there are.
func FromY(ys []float32) []geom.Point2D {
	xs := geom.Linspace(-0.5, 0.5, len(ys))
	ret := make([]geom.Point2D, len(ys))
	for i, y := range ys {
		ret[i] = geom.Pt(xs[i], y)
	}
	return ret
}

// FromComplex plots the real part against the imaginary part.
func FromComplex(cs []complex64) []geom.Point2D {
	ret := make([]geom.Point2D, len(cs))
	for i, c := range cs {
		ret[i] = geom.Pt(real(c), imag(c))
	}
	return ret
}

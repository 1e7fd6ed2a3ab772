package source

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// SpectrumAverage is the weight given to the newest block.
	SpectrumAverage = 0.10
	// SpectrumFloor is the smallest power reported, about -200 dB.
	SpectrumFloor = 1e-10
)

// Spectrum turns blocks of complex samples into an averaged, centered
// magnitude spectrum in dB.
type Spectrum struct {
	size       int
	sampleRate int
	fft        *fourier.CmplxFFT
	win        []float64
	avg        []float64
	buf        []complex128
}

func NewSpectrum(size, sampleRate int) *Spectrum {
	if size < 1 {
		size = 1
	}
	return &Spectrum{
		size:       size,
		sampleRate: sampleRate,
		fft:        fourier.NewCmplxFFT(size),
		win:        window.Blackman(size),
		avg:        make([]float64, size),
		buf:        make([]complex128, size),
	}
}

func (s *Spectrum) Size() int {
	return s.size
}

// Reset forgets the running average.
func (s *Spectrum) Reset() {
	for i := range s.avg {
		s.avg[i] = 0
	}
}

// Process folds one block into the average and returns (frequency, dB)
// pairs ordered from the most negative frequency. Short blocks are zero
// padded; only the newest size samples of long blocks are used.
func (s *Spectrum) Process(block []complex64) [][2]float32 {
	if len(block) > s.size {
		block = block[len(block)-s.size:]
	}
	scale := 1 / (0.42 * float64(s.size))
	for i := range s.buf {
		if i < len(block) {
			s.buf[i] = complex128(block[i]) * complex(s.win[i]*scale, 0)
		} else {
			s.buf[i] = 0
		}
	}

	coeffs := s.fft.Coefficients(nil, s.buf)

	ret := make([][2]float32, len(coeffs))
	for i := range coeffs {
		idx := s.fft.ShiftIdx(i)
		freq := s.fft.Freq(idx) * float64(s.sampleRate)

		s.avg[i] = (1-SpectrumAverage)*s.avg[i] + SpectrumAverage*cmplx.Abs(coeffs[idx])
		p := s.avg[i]
		if p < SpectrumFloor {
			p = SpectrumFloor
		}
		ret[i] = [2]float32{float32(freq), float32(20 * math.Log10(p))}
	}
	return ret
}

// Package source produces samples for the demo programs.
package source

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/norasector/rtplot/pkg/dsp/mixer"
	"github.com/norasector/rtplot/pkg/geom"
)

// Sine produces a full sweep of a sine wave per call, advancing the phase
// each time so the wave appears to travel.
type Sine struct {
	Amplitude float32
	PhaseStep float32
	Points    int
	Span      float32

	phase float32
}

func NewSine() *Sine {
	return &Sine{
		Amplitude: 10,
		PhaseStep: math32.Pi / 20,
		Points:    10000,
		Span:      100,
	}
}

func (s *Sine) Next() []float32 {
	xs := geom.Linspace(0, s.Span, s.Points)
	ret := make([]float32, len(xs))
	for i, x := range xs {
		ret[i] = s.Amplitude * math32.Sin(math32.Pi/8*x+s.phase)
	}

	s.phase += s.PhaseStep
	if s.phase > 2*math32.Pi {
		s.phase -= 2 * math32.Pi
	}
	return ret
}

// Noise produces batches of Gaussian samples.
type Noise struct {
	Batch int
	dist  distuv.Normal
}

// NewNoise returns a generator of N(0, stddev) batches. A nil src uses the
// global random source.
func NewNoise(stddev float64, batch int, src rand.Source) *Noise {
	return &Noise{
		Batch: batch,
		dist:  distuv.Normal{Mu: 0, Sigma: stddev, Src: src},
	}
}

func (n *Noise) Next() []float32 {
	ret := make([]float32, n.Batch)
	for i := range ret {
		ret[i] = float32(n.dist.Rand())
	}
	return ret
}

// QPSK produces noisy symbols from a four point constellation at
// (±π/4, ±π/4).
type QPSK struct {
	rng   *rand.Rand
	noise distuv.Normal
}

var qpskSymbols = [4]complex64{
	complex(math32.Pi/4, math32.Pi/4),
	complex(-math32.Pi/4, math32.Pi/4),
	complex(-math32.Pi/4, -math32.Pi/4),
	complex(math32.Pi/4, -math32.Pi/4),
}

func NewQPSK(stddev float64, seed uint64) *QPSK {
	rng := rand.New(rand.NewSource(seed))
	return &QPSK{
		rng:   rng,
		noise: distuv.Normal{Mu: 0, Sigma: stddev, Src: rng},
	}
}

func (q *QPSK) Symbol() complex64 {
	s := qpskSymbols[q.rng.Intn(len(qpskSymbols))]
	return s + complex(float32(q.noise.Rand()), float32(q.noise.Rand()))
}

func (q *QPSK) Next(n int) []complex64 {
	ret := make([]complex64, n)
	for i := range ret {
		ret[i] = q.Symbol()
	}
	return ret
}

// Tone produces a complex exponential at freq Hz, block by block, with
// optional additive noise.
type Tone struct {
	Block int

	osc   *mixer.Oscillator
	noise *distuv.Normal
}

func NewTone(sampleRate int, freq float64, block int, noise float64, src rand.Source) *Tone {
	t := &Tone{Block: block, osc: mixer.NewOscillator(sampleRate, freq)}
	if noise > 0 {
		t.noise = &distuv.Normal{Mu: 0, Sigma: noise, Src: src}
	}
	return t
}

func (t *Tone) Next() []complex64 {
	ret := t.osc.Next(t.Block)
	if t.noise != nil {
		for i := range ret {
			ret[i] += complex(float32(t.noise.Rand()), float32(t.noise.Rand()))
		}
	}
	return ret
}

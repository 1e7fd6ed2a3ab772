// Package mixer shifts complex signals in frequency.
package mixer

import (
	"github.com/chewxy/math32"
)

const tau = math32.Pi * 2

// Oscillator is a complex exponential at a fixed frequency. Its phase
// carries over between calls.
type Oscillator struct {
	sampleRate     int
	frequency      float64
	phase          float32
	phaseIncrement float32
}

func NewOscillator(sampleRate int, frequency float64) *Oscillator {
	o := &Oscillator{sampleRate: sampleRate, frequency: frequency}
	if sampleRate > 0 {
		o.phaseIncrement = float32(frequency * float64(tau) / float64(sampleRate))
	}
	return o
}

func (o *Oscillator) Frequency() float64 {
	return o.frequency
}

func (o *Oscillator) incrementPhase() {
	o.phase += o.phaseIncrement
	if o.phase > tau {
		o.phase -= tau
	} else if o.phase < -tau {
		o.phase += tau
	}
}

func (o *Oscillator) sample() complex64 {
	v := complex(math32.Cos(o.phase), math32.Sin(o.phase))
	o.incrementPhase()
	return v
}

// MixBuffer writes input shifted by the oscillator's frequency into output,
// which must be at least as long as input.
func (o *Oscillator) MixBuffer(input []complex64, output []complex64) int {
	for i := range input {
		output[i] = o.sample() * input[i]
	}
	return len(input)
}

func (o *Oscillator) Mix(vals []complex64) []complex64 {
	ret := make([]complex64, len(vals))
	o.MixBuffer(vals, ret)
	return ret
}

// Next returns n samples of the bare oscillator.
func (o *Oscillator) Next(n int) []complex64 {
	ret := make([]complex64, n)
	for i := range ret {
		ret[i] = o.sample()
	}
	return ret
}

package mixer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestOscillatorPhaseContinues(t *testing.T) {
	// a quarter turn per sample
	o := NewOscillator(4, 1)
	got := append(o.Next(2), o.Next(2)...)
	want := []complex64{complex(1, 0), complex(0, 1), complex(-1, 0), complex(0, -1)}
	for i := range want {
		assert.InDelta(t, real(want[i]), real(got[i]), 1e-5)
		assert.InDelta(t, imag(want[i]), imag(got[i]), 1e-5)
	}
}

func TestMixCancelsTone(t *testing.T) {
	up := NewOscillator(64, 5)
	down := NewOscillator(64, -5)

	for _, v := range down.Mix(up.Next(200)) {
		assert.InDelta(t, 1, real(v), 1e-3)
		assert.InDelta(t, 0, imag(v), 1e-3)
	}
}

func TestMixKeepsMagnitude(t *testing.T) {
	o := NewOscillator(48000, 1234)
	in := []complex64{complex(3, 4), complex(0, 2), complex(-1, 0)}
	out := o.Mix(in)
	for i := range in {
		mag := math32.Sqrt(real(out[i])*real(out[i]) + imag(out[i])*imag(out[i]))
		want := math32.Sqrt(real(in[i])*real(in[i]) + imag(in[i])*imag(in[i]))
		assert.InDelta(t, want, mag, 1e-4)
	}
}

func TestZeroSampleRate(t *testing.T) {
	o := NewOscillator(0, 100)
	assert.Equal(t, []complex64{1, 1}, o.Next(2))
}

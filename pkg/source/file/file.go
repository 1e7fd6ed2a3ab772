// Package file replays interleaved signed 8-bit IQ captures.
package file

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/norasector/turbine-common/types"
)

const (
	DefaultReadSize = 262144
	DefaultInterval = time.Microsecond * 16384
)

type Reader struct {
	r          io.ReadCloser
	readSize   int
	interval   time.Duration
	sampleRate int
	centerFreq int
	loop       bool
}

// Open prepares a capture for playback. readSize is in bytes, two per
// sample; it is rounded down to an even count.
func Open(path string, readSize, sampleRate, centerFreq int, interval time.Duration) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(f, readSize, sampleRate, centerFreq, interval), nil
}

func NewReader(r io.ReadCloser, readSize, sampleRate, centerFreq int, interval time.Duration) *Reader {
	if readSize < 2 {
		readSize = DefaultReadSize
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reader{
		r:          r,
		readSize:   readSize &^ 1,
		interval:   interval,
		sampleRate: sampleRate,
		centerFreq: centerFreq,
	}
}

// Loop makes Run rewind at end of file instead of returning. The
// underlying reader must be an io.Seeker.
func (f *Reader) Loop(loop bool) {
	f.loop = loop
}

// Run sends one block per tick until the capture ends or ctx is done. The
// end of the capture returns nil.
func (f *Reader) Run(ctx context.Context, out chan<- []complex64) error {
	tick := time.NewTicker(f.interval)
	defer tick.Stop()

	buf := make([]byte, f.readSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			n, err := io.ReadFull(f.r, buf)
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				if n == 0 && f.loop {
					if s, ok := f.r.(io.Seeker); ok {
						if _, err := s.Seek(0, io.SeekStart); err != nil {
							return err
						}
						continue
					}
				}
				if n == 0 {
					return nil
				}
			} else if err != nil {
				return err
			}

			seg := types.SegmentCS8Raw{
				SampleRate: f.sampleRate,
				Data:       make([]byte, n&^1),
				Frequency:  f.centerFreq,
			}
			copy(seg.Data, buf)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- toIQ(seg.ToComplex64().Data):
			}
		}
	}
}

// toIQ puts the in-phase byte in the real part. SegmentCS8Raw decodes each
// byte pair as Q first, while captures are interleaved I then Q.
func toIQ(samples []complex64) []complex64 {
	for i, c := range samples {
		samples[i] = complex(imag(c), real(c))
	}
	return samples
}

func (f *Reader) Close() error {
	return f.r.Close()
}

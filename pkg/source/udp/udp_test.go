package udp

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/norasector/rtplot/pkg/util"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		batch Batch
	}{
		{"reals", Batch{Reals: []float32{1, -2.5, 3e6}}},
		{"complex", Batch{Complex: []complex64{complex(1, 2), complex(-0.5, 0.25)}}},
		{"both", Batch{Reals: []float32{0}, Complex: []complex64{complex(3, 4)}}},
		{"empty", Batch{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Encode(tt.batch)
			require.NoError(t, err)
			assert.Equal(t, uint16(len(msg)-2), binary.LittleEndian.Uint16(msg))

			got, err := Decode(msg)
			require.NoError(t, err)
			assert.Equal(t, tt.batch, got)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte{1})
	assert.ErrorIs(t, err, ErrShortDatagram)

	msg, err := Encode(Batch{Reals: []float32{1, 2}})
	require.NoError(t, err)
	_, err = Decode(msg[:len(msg)-1])
	assert.ErrorIs(t, err, ErrLengthMismatch)

	odd := appendPacked(nil, complexField, []float32{1, 2, 3})
	_, err = Unmarshal(odd)
	assert.ErrorIs(t, err, ErrOddComplex)

	_, err = Unmarshal([]byte{0x0a, 0x05, 0, 0})
	assert.Error(t, err)
}

func TestEncodeTooLarge(t *testing.T) {
	_, err := Encode(Batch{Reals: make([]float32, MaxMessageSize/4)})
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestUnmarshalUnpackedAndUnknown(t *testing.T) {
	var msg []byte
	msg = protowire.AppendTag(msg, 9, protowire.VarintType)
	msg = protowire.AppendVarint(msg, 42)
	msg = protowire.AppendTag(msg, realsField, protowire.Fixed32Type)
	msg = protowire.AppendFixed32(msg, 0x3f800000)

	got, err := Unmarshal(msg)
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, got.Reals)
}

func TestListener(t *testing.T) {
	metrics := &util.PointRecorder{}
	l, err := Listen("127.0.0.1:0", WithLogger(zerolog.Nop()), WithMetrics(metrics))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Batch, 4)
	done := make(chan error, 1)
	go func() {
		done <- l.Run(ctx, out)
	}()

	addr := l.Addr().String()
	require.NoError(t, Send(addr, Batch{Reals: []float32{7, 8}}))

	select {
	case b := <-out:
		assert.Equal(t, []float32{7, 8}, b.Reals)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch received")
	}
	assert.Len(t, metrics.Points(), 1)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}
}

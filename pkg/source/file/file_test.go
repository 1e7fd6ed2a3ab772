package file

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCapture(t *testing.T, data []byte) string {
	path := filepath.Join(t.TempDir(), "capture.cs8")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func collect(t *testing.T, r *Reader) [][]complex64 {
	out := make(chan []complex64, 16)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, r.Run(ctx, out))
	close(out)

	var blocks [][]complex64
	for b := range out {
		blocks = append(blocks, b)
	}
	return blocks
}

func TestReaderBlocks(t *testing.T) {
	// 0x7f = +127, 0x81 = -127
	data := []byte{0x7f, 0x81, 0x81, 0x7f, 0x7f, 0x7f, 0x81, 0x81, 0x7f, 0x81}
	r, err := Open(writeCapture(t, data), 4, 2e6, 100e6, time.Millisecond)
	require.NoError(t, err)
	defer r.Close()

	blocks := collect(t, r)
	require.Len(t, blocks, 3)
	assert.Len(t, blocks[0], 2)
	assert.Len(t, blocks[1], 2)
	assert.Len(t, blocks[2], 1)

	first := blocks[0][0]
	assert.Greater(t, real(first), float32(0))
	assert.Less(t, imag(first), float32(0))
}

func TestReaderInPhaseFirst(t *testing.T) {
	// I = +100, Q = -50
	r := NewReader(io.NopCloser(bytes.NewReader([]byte{0x64, 0xce})), 2, 2e6, 100e6, time.Millisecond)

	blocks := collect(t, r)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0], 1)
	assert.Greater(t, real(blocks[0][0]), float32(0))
	assert.Less(t, imag(blocks[0][0]), float32(0))
	assert.InDelta(t, 2, real(blocks[0][0])/-imag(blocks[0][0]), 0.1)
}

func TestReaderEmpty(t *testing.T) {
	r, err := Open(writeCapture(t, nil), 4, 2e6, 100e6, time.Millisecond)
	require.NoError(t, err)
	defer r.Close()

	assert.Empty(t, collect(t, r))
}

func TestReaderCancel(t *testing.T) {
	r, err := Open(writeCapture(t, make([]byte, 64)), 4, 2e6, 100e6, time.Millisecond)
	require.NoError(t, err)
	defer r.Close()
	r.Loop(true)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan []complex64)
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, out) }()

	<-out
	<-out
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), 4, 0, 0, 0)
	assert.Error(t, err)
}

package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"

	"github.com/norasector/rtplot/pkg/normalize"
	"github.com/norasector/rtplot/pkg/surface"
)

var purple = color.RGBA{R: 0x80, B: 0x80, A: 0xff}

func vertices() []normalize.Vertex {
	c := purple
	return []normalize.Vertex{
		{X: -0.75, Y: -0.5, Color: c},
		{X: 0, Y: 0.25, Color: c},
		{X: 0.75, Y: 0.75, Color: c},
	}
}

func TestClipTicks(t *testing.T) {
	fixed := clipTicks{n: xTicks, axis: normalize.FixedAxis(0, 10)}.Ticks(-1, 1)
	require.Len(t, fixed, xTicks)
	assert.InDelta(t, -0.75, fixed[0].Value, 1e-6)
	assert.InDelta(t, 0.75, fixed[len(fixed)-1].Value, 1e-6)
	assert.Equal(t, "0.00", fixed[0].Label)
	assert.Equal(t, "4.00", fixed[2].Label)
	assert.Equal(t, "10.00", fixed[5].Label)

	auto := clipTicks{n: yTicks, axis: normalize.AutoAxis()}.Ticks(-1, 1)
	require.Len(t, auto, yTicks)
	for _, tk := range auto {
		assert.True(t, tk.IsMinor(), "auto axes have no tick labels")
	}
}

func TestPlot(t *testing.T) {
	r := NewRenderer(400, 300)
	called := false
	r.AddPlotOption(func(p *plot.Plot) { called = true })

	p, err := r.Plot(vertices(), surface.Line, surface.Decorations{Title: "Plot", XLabel: "Time (s)", YLabel: "Amplitude"})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "Time (s)", p.X.Label.Text)
	assert.Equal(t, "Amplitude", p.Y.Label.Text)
	assert.Equal(t, -1.0, p.X.Min)
	assert.Equal(t, 1.0, p.Y.Max)
}

func TestRender(t *testing.T) {
	for _, kind := range []surface.Kind{surface.Point, surface.Line} {
		t.Run(kind.String(), func(t *testing.T) {
			data, err := NewRenderer(320, 240).Render(vertices(), kind, surface.Decorations{
				XLim: normalize.FixedAxis(-1, 1),
			})
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.InDelta(t, 320, img.Bounds().Dx(), 1)
			assert.InDelta(t, 240, img.Bounds().Dy(), 1)
		})
	}

	// An empty frame still has decorations.
	_, err := NewRenderer(100, 100).Render(nil, surface.Point, surface.Decorations{})
	require.NoError(t, err)
}

func TestFileSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames", "plot.png")
	s, err := NewFileFactory(path, zerolog.Nop())(200, 200, "Plot")
	require.NoError(t, err)

	require.NoError(t, s.Draw(vertices(), surface.Point, surface.Decorations{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	assert.False(t, s.PollClose())
	require.NoError(t, s.Close())
	assert.True(t, s.PollClose())
	assert.Error(t, s.Draw(nil, surface.Point, surface.Decorations{}))

	_, err = NewFileFactory("", zerolog.Nop())(1, 1, "")
	assert.Error(t, err)
}

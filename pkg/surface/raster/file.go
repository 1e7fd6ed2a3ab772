package raster

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/norasector/rtplot/pkg/normalize"
	"github.com/norasector/rtplot/pkg/surface"
)

// FileSurface renders every frame to a PNG file, replacing the previous one.
type FileSurface struct {
	path     string
	renderer *Renderer
	logger   zerolog.Logger
	closed   bool
}

var _ surface.Surface = (*FileSurface)(nil)

func NewFileFactory(path string, logger zerolog.Logger) surface.Factory {
	return func(width, height int, title string) (surface.Surface, error) {
		if path == "" {
			return nil, errors.New("no output path")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		logger.Info().Str("path", path).Int("width", width).Int("height", height).Msg("writing frames to file")
		return &FileSurface{
			path:     path,
			renderer: NewRenderer(width, height),
			logger:   logger,
		}, nil
	}
}

func (f *FileSurface) Draw(vertices []normalize.Vertex, kind surface.Kind, dec surface.Decorations) error {
	if f.closed {
		return os.ErrClosed
	}
	data, err := f.renderer.Render(vertices, kind, dec)
	if err != nil {
		return err
	}

	// Write then rename so readers never see a partial image.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// PollClose only reports true after Close; a file has no window to close.
func (f *FileSurface) PollClose() bool {
	return f.closed
}

func (f *FileSurface) Close() error {
	f.closed = true
	return nil
}
